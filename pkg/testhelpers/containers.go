// Package testhelpers provides shared database containers for
// integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// TestImage is the PostgreSQL image used for integration tests.
const TestImage = "postgres:16-alpine"

// TestDB holds a shared test database container and connection pool.
type TestDB struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
	Host      string
	Port      int
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// targetSchema seeds the container with tables shaped like a bank
// sector target database.
const targetSchema = `
CREATE TABLE IF NOT EXISTS loans (
    id SERIAL PRIMARY KEY,
    status TEXT NOT NULL,
    amount NUMERIC(12, 2),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS transactions (
    id SERIAL PRIMARY KEY,
    amount NUMERIC(12, 2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
INSERT INTO loans (status, amount) VALUES
    ('approved', 15000.00),
    ('approved', 8200.50),
    ('rejected', 99000.00);
INSERT INTO transactions (amount) VALUES (120.00), (3400.25);
`

// GetTestDB returns a shared PostgreSQL container for integration
// tests. The container is created once and reused across all tests in
// the run, pre-seeded with a small bank-sector schema.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

// Params returns connection parameters pointing at the container.
func (db *TestDB) Params() models.ConnectionParams {
	return models.ConnectionParams{
		Host:     db.Host,
		Port:     db.Port,
		Database: "target_data",
		Username: "kpichatbot",
		Password: "test_password",
	}
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        TestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "target_data",
			"POSTGRES_USER":     "kpichatbot",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://kpichatbot:test_password@%s:%s/target_data?sslmode=disable",
		host, port.Port())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	if _, err := pool.Exec(ctx, targetSchema); err != nil {
		return nil, fmt.Errorf("failed to seed target schema: %w", err)
	}

	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		return nil, fmt.Errorf("failed to parse container port: %w", err)
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
		Host:      host,
		Port:      portNum,
	}, nil
}
