package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the username is unknown or
// the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is an administrator login scoped to one business sector.
type Account struct {
	Username     string
	Sector       string
	Role         string
	passwordHash []byte
}

// AccountStore holds the fixed administrator accounts. Passwords come
// from configuration and are hashed at startup.
type AccountStore struct {
	accounts map[string]Account
}

// NewAccountStore builds the two sector administrators.
func NewAccountStore(bankPassword, ithrPassword string) (*AccountStore, error) {
	accounts := make(map[string]Account, 2)
	for _, def := range []struct {
		username, sector, password string
	}{
		{"admin@bank", "bank", bankPassword},
		{"admin@ithr", "ithr", ithrPassword},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(def.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		accounts[def.username] = Account{
			Username:     def.username,
			Sector:       def.sector,
			Role:         "admin",
			passwordHash: hash,
		}
	}
	return &AccountStore{accounts: accounts}, nil
}

// Authenticate checks the username/password pair and returns the
// matching account.
func (s *AccountStore) Authenticate(username, password string) (*Account, error) {
	account, ok := s.accounts[username]
	if !ok {
		// Keep timing uniform between unknown users and bad passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}
