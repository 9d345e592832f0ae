// Package services composes the connection registry, translator,
// executor, shaper, and suggester into the operations the HTTP layer
// exposes.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/introspect"
	"github.com/debleena1993/KPIChatbot/pkg/models"
	"github.com/debleena1993/KPIChatbot/pkg/registry"
	"github.com/debleena1993/KPIChatbot/pkg/shape"
)

// QueryExecutor runs validated read-only SQL against a target
// database. Implemented by introspect.Executor.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, params models.ConnectionParams, sqlQuery string) (*introspect.QueryResult, error)
}

// Translator converts a question into a read-only query.
// Implemented by translate.Translator.
type Translator interface {
	Translate(ctx context.Context, question string, schema *models.SchemaSnapshot, sector string) (*models.TranslationResult, error)
}

// Suggester proposes starter KPI questions for a schema and sector.
// Implemented by suggest.Suggester.
type Suggester interface {
	Suggest(ctx context.Context, schema *models.SchemaSnapshot, sector string) ([]models.KPISuggestion, error)
}

// ChatService answers natural-language KPI questions against whichever
// database connection a session has activated. State is loaded from
// the store per request; the service itself is stateless.
type ChatService struct {
	store      registry.Store
	schemas    registry.SchemaProvider
	executor   QueryExecutor
	translator Translator
	suggester  Suggester
	logger     *zap.Logger
}

func NewChatService(
	store registry.Store,
	schemas registry.SchemaProvider,
	executor QueryExecutor,
	translator Translator,
	suggester Suggester,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		store:      store,
		schemas:    schemas,
		executor:   executor,
		translator: translator,
		suggester:  suggester,
		logger:     logger.Named("chat"),
	}
}

// ConnectResult is returned after a successful database registration.
type ConnectResult struct {
	Schema        *models.SchemaSnapshot `json:"schema"`
	SuggestedKPIs []models.KPISuggestion `json:"suggested_kpis"`
}

// Connect verifies the supplied credentials, extracts the schema,
// registers the connection as the session's active one, and proposes
// starter KPIs for the sector.
func (s *ChatService) Connect(ctx context.Context, sessionID, connectionID, sector string, params models.ConnectionParams) (*ConnectResult, error) {
	reg, err := s.loadRegistry(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	schema, err := reg.AddConnection(ctx, connectionID, params)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.suggester.Suggest(ctx, schema, sector)
	if err != nil {
		// The suggestion fallback is total, so this only fires on
		// context cancellation. Connection registration already
		// succeeded; return it with an empty list.
		s.logger.Warn("kpi suggestion failed after connect", zap.Error(err))
		suggestions = []models.KPISuggestion{}
	}

	s.logger.Info("database connected",
		zap.String("session_id", sessionID),
		zap.String("connection_id", connectionID),
		zap.Int("tables", len(schema.Tables)))

	return &ConnectResult{Schema: schema, SuggestedKPIs: suggestions}, nil
}

// SwitchConnection makes a previously registered connection the active
// one for the session.
func (s *ChatService) SwitchConnection(ctx context.Context, sessionID, connectionID string) error {
	reg, err := s.loadRegistry(ctx, sessionID)
	if err != nil {
		return err
	}
	return reg.SetActive(ctx, connectionID)
}

// RemoveConnection deletes a registered connection. Removing the
// active connection falls back to the default record.
func (s *ChatService) RemoveConnection(ctx context.Context, sessionID, connectionID string) error {
	reg, err := s.loadRegistry(ctx, sessionID)
	if err != nil {
		return err
	}
	return reg.Remove(ctx, connectionID)
}

// ActiveSchema returns the schema of the session's active connection.
func (s *ChatService) ActiveSchema(ctx context.Context, sessionID string) (*models.SchemaSnapshot, error) {
	rec, err := s.activeRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return rec.Schema, nil
}

// AskResult carries the shaped answer together with the SQL that
// produced it.
type AskResult struct {
	SQL      string                   `json:"sql"`
	Origin   models.TranslationOrigin `json:"origin"`
	Envelope *models.ResultEnvelope   `json:"result"`
}

// Ask translates the question into SQL, executes it against the active
// connection, and shapes the rows for table and chart rendering.
func (s *ChatService) Ask(ctx context.Context, sessionID, question, sector string) (*AskResult, error) {
	rec, err := s.activeRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	translation, err := s.translator.Translate(ctx, question, rec.Schema, sector)
	if err != nil {
		return nil, err
	}

	result, err := s.executor.ExecuteQuery(ctx, rec.Params, translation.QueryText)
	if err != nil {
		return nil, fmt.Errorf("executing translated query: %w", err)
	}

	envelope := shape.Shape(result.Rows, result.Columns, result.ElapsedSeconds, shape.Classification{
		Kind:   translation.ChartKind,
		XField: translation.XField,
		YField: translation.YField,
	})

	s.logger.Info("question answered",
		zap.String("session_id", sessionID),
		zap.String("origin", string(translation.Origin)),
		zap.Int("rows", envelope.RowCount))

	return &AskResult{
		SQL:      translation.QueryText,
		Origin:   translation.Origin,
		Envelope: envelope,
	}, nil
}

// activeRecord loads the session registry and returns its active
// record, requiring a usable schema.
func (s *ChatService) activeRecord(ctx context.Context, sessionID string) (*models.ConnectionRecord, error) {
	reg, err := s.loadRegistry(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec := reg.GetActive()
	if rec == nil || rec.Schema == nil {
		return nil, apperrors.ErrNoActiveConnection
	}
	return rec, nil
}

func (s *ChatService) loadRegistry(ctx context.Context, sessionID string) (*registry.Registry, error) {
	return registry.Load(ctx, s.store, s.schemas, sessionID, s.logger)
}
