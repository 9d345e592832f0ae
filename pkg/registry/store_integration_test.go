package registry_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/database"
	"github.com/debleena1993/KPIChatbot/pkg/models"
	"github.com/debleena1993/KPIChatbot/pkg/registry"
	"github.com/debleena1993/KPIChatbot/pkg/testhelpers"
)

var migrateOnce sync.Once

func migratedStore(t *testing.T) *registry.PostgresStore {
	t.Helper()
	db := testhelpers.GetTestDB(t)

	migrateOnce.Do(func() {
		sqlDB, err := sql.Open("pgx", db.ConnStr)
		require.NoError(t, err)
		defer sqlDB.Close()
		require.NoError(t, database.RunMigrations(sqlDB, "../../migrations", zap.NewNop()))
	})

	return registry.NewPostgresStore(db.Pool)
}

func TestPostgresStore_LoadMissingSession(t *testing.T) {
	store := migratedStore(t)

	_, err := store.Load(context.Background(), "never-saved")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgresStore_SaveLoadRoundTrip(t *testing.T) {
	store := migratedStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	state := &registry.State{
		Records: map[string]*models.ConnectionRecord{
			"default": {ID: "default"},
			"prod": {
				ID: "prod",
				Params: models.ConnectionParams{
					Host: "db.example.com", Port: 5432, Database: "bank",
					Username: "reader", Password: "secret",
				},
				IsActive:        true,
				LastConnectedAt: &now,
				Schema: &models.SchemaSnapshot{
					Tables: map[string]models.TableSchema{
						"loans": {
							Columns:     map[string]models.ColumnSchema{"id": {Type: "integer"}},
							ColumnOrder: []string{"id"},
						},
					},
					ExtractedAt: now,
				},
			},
		},
		ActiveID: "prod",
	}

	require.NoError(t, store.Save(context.Background(), "session-rt", state))

	loaded, err := store.Load(context.Background(), "session-rt")
	require.NoError(t, err)

	assert.Equal(t, "prod", loaded.ActiveID)
	require.Contains(t, loaded.Records, "prod")
	rec := loaded.Records["prod"]
	assert.True(t, rec.IsActive)
	assert.Equal(t, "db.example.com", rec.Params.Host)
	require.NotNil(t, rec.Schema)
	assert.Contains(t, rec.Schema.Tables, "loans")
	assert.Equal(t, []string{"id"}, rec.Schema.Tables["loans"].ColumnOrder)
}

func TestPostgresStore_SaveOverwrites(t *testing.T) {
	store := migratedStore(t)

	first := &registry.State{
		Records:  map[string]*models.ConnectionRecord{"default": {ID: "default"}},
		ActiveID: "",
	}
	require.NoError(t, store.Save(context.Background(), "session-ow", first))

	second := first.Clone()
	second.Records["extra"] = &models.ConnectionRecord{ID: "extra", IsActive: true}
	second.ActiveID = "extra"
	require.NoError(t, store.Save(context.Background(), "session-ow", second))

	loaded, err := store.Load(context.Background(), "session-ow")
	require.NoError(t, err)
	assert.Equal(t, "extra", loaded.ActiveID)
	assert.Len(t, loaded.Records, 2)
}
