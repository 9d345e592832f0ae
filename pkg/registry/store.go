package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// State is the durable form of one session's registry: every record
// plus the active pointer. It is always saved and loaded wholesale.
type State struct {
	Records  map[string]*models.ConnectionRecord `json:"records"`
	ActiveID string                              `json:"active_id"`
}

// Clone returns a deep copy, used to snapshot pre-operation state for
// rollback.
func (s *State) Clone() *State {
	out := &State{
		Records:  make(map[string]*models.ConnectionRecord, len(s.Records)),
		ActiveID: s.ActiveID,
	}
	for id, rec := range s.Records {
		out.Records[id] = rec.Clone()
	}
	return out
}

// Store persists registry state keyed by session id.
type Store interface {
	// Load returns the stored state for a session, or
	// apperrors.ErrNotFound if the session has never been saved.
	Load(ctx context.Context, sessionID string) (*State, error)

	// Save replaces the stored state for a session.
	Save(ctx context.Context, sessionID string, state *State) error
}

// PostgresStore persists registry state as one JSONB row per session
// in the engine's own database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the engine database.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, sessionID string) (*State, error) {
	const query = `SELECT state FROM connection_registries WHERE session_id = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load registry: %v", apperrors.ErrStoreIO, err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: decode registry state: %v", apperrors.ErrStoreIO, err)
	}
	if state.Records == nil {
		state.Records = make(map[string]*models.ConnectionRecord)
	}

	return &state, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, sessionID string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: encode registry state: %v", apperrors.ErrStoreIO, err)
	}

	const query = `
		INSERT INTO connection_registries (session_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, sessionID, raw); err != nil {
		return fmt.Errorf("%w: save registry: %v", apperrors.ErrStoreIO, err)
	}

	return nil
}

// Ensure PostgresStore implements Store at compile time.
var _ Store = (*PostgresStore)(nil)
