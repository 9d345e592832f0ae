// Package registry owns the set of configured database connections for
// one session, enforcing the single-active-connection invariant and
// persisting every mutation wholesale to a durable store.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// SchemaProvider tests connectivity and extracts schema snapshots from
// target databases. Implemented by introspect.Introspector.
type SchemaProvider interface {
	TestConnection(ctx context.Context, params models.ConnectionParams) (bool, error)
	ExtractSchema(ctx context.Context, params models.ConnectionParams) (*models.SchemaSnapshot, error)
}

// Registry holds one session's connection records. It is exclusively
// owned by that session; concurrent requests from the same session race
// at whole-registry granularity (last write wins), which the design
// deliberately does not arbitrate further.
type Registry struct {
	sessionID string
	state     *State
	store     Store
	schemas   SchemaProvider
	logger    *zap.Logger
}

// Load reads a session's registry from the store, creating a fresh one
// (containing only the immortal "default" record) if none exists.
func Load(ctx context.Context, store Store, schemas SchemaProvider, sessionID string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	state, err := store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		state = &State{Records: make(map[string]*models.ConnectionRecord)}
	}
	ensureDefault(state)

	return &Registry{
		sessionID: sessionID,
		state:     state,
		store:     store,
		schemas:   schemas,
		logger:    logger.Named("registry"),
	}, nil
}

// ensureDefault guarantees the reserved "default" record exists.
func ensureDefault(state *State) {
	if _, ok := state.Records[models.DefaultConnectionID]; !ok {
		state.Records[models.DefaultConnectionID] = &models.ConnectionRecord{
			ID: models.DefaultConnectionID,
		}
	}
}

// AddConnection tests the given parameters, introspects the schema on
// success, and inserts (or overwrites) the record for id as the single
// active connection. On connectivity failure nothing is written. On
// persistence failure the in-memory state rolls back so it never
// diverges from the durable copy.
func (r *Registry) AddConnection(ctx context.Context, id string, params models.ConnectionParams) (*models.SchemaSnapshot, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: connection id is required", apperrors.ErrInvalidOperation)
	}

	ok, err := r.schemas.TestConnection(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConnectionFailed, err)
	}
	if !ok {
		return nil, apperrors.ErrConnectionFailed
	}

	snapshot, err := r.schemas.ExtractSchema(ctx, params)
	if err != nil {
		return nil, err
	}

	before := r.state.Clone()

	now := time.Now().UTC()
	for _, rec := range r.state.Records {
		rec.IsActive = false
	}
	r.state.Records[id] = &models.ConnectionRecord{
		ID:              id,
		Params:          params,
		IsActive:        true,
		LastConnectedAt: &now,
		Schema:          snapshot,
	}
	r.state.ActiveID = id

	if err := r.persist(ctx, before); err != nil {
		return nil, err
	}

	r.logger.Info("connection added",
		zap.String("session_id", r.sessionID),
		zap.String("connection_id", id),
		zap.Int("tables", len(snapshot.Tables)))

	return snapshot, nil
}

// SetActive flips the active flag to the named record atomically.
func (r *Registry) SetActive(ctx context.Context, id string) error {
	if _, ok := r.state.Records[id]; !ok {
		return apperrors.ErrNotFound
	}

	before := r.state.Clone()

	for recID, rec := range r.state.Records {
		rec.IsActive = recID == id
	}
	r.state.ActiveID = id

	return r.persist(ctx, before)
}

// Remove deletes the record for id. The "default" record can never be
// removed. Removing the active record activates "default".
func (r *Registry) Remove(ctx context.Context, id string) error {
	if id == models.DefaultConnectionID {
		return fmt.Errorf("%w: the default connection cannot be removed", apperrors.ErrInvalidOperation)
	}
	rec, ok := r.state.Records[id]
	if !ok {
		return apperrors.ErrNotFound
	}

	before := r.state.Clone()

	wasActive := rec.IsActive
	delete(r.state.Records, id)
	if wasActive {
		r.state.Records[models.DefaultConnectionID].IsActive = true
		r.state.ActiveID = models.DefaultConnectionID
	}

	if err := r.persist(ctx, before); err != nil {
		return err
	}

	r.logger.Info("connection removed",
		zap.String("session_id", r.sessionID),
		zap.String("connection_id", id),
		zap.Bool("was_active", wasActive))

	return nil
}

// GetActive returns the active record, or nil if none is configured.
// The returned record may be the empty "default" placeholder; callers
// that need a usable connection also check for a schema.
func (r *Registry) GetActive() *models.ConnectionRecord {
	for _, rec := range r.state.Records {
		if rec.IsActive {
			return rec
		}
	}
	return nil
}

// Get returns the record for id, or nil.
func (r *Registry) Get(id string) *models.ConnectionRecord {
	return r.state.Records[id]
}

// Records returns the current record set keyed by id.
func (r *Registry) Records() map[string]*models.ConnectionRecord {
	return r.state.Records
}

// persist saves the whole registry state, restoring the pre-operation
// snapshot on failure.
func (r *Registry) persist(ctx context.Context, before *State) error {
	if err := r.store.Save(ctx, r.sessionID, r.state); err != nil {
		r.state = before
		r.logger.Warn("registry persist failed, state rolled back",
			zap.String("session_id", r.sessionID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrStoreIO, err)
	}
	return nil
}
