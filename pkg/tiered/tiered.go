// Package tiered implements the attempt-primary-else-fallback pattern
// shared by the query translator and the KPI suggester.
package tiered

import (
	"context"

	"go.uber.org/zap"
)

// Func is one tier: it either produces a value or fails.
type Func[T any] func(ctx context.Context) (T, error)

// Validator inspects a primary-tier result; a non-nil error demotes
// the result and triggers the fallback.
type Validator[T any] func(value T) error

// Run attempts primary, validates its output, and on any failure runs
// fallback. Primary failures are swallowed (logged at Warn), so the
// only error a caller ever sees is the fallback's. A nil primary skips
// straight to the fallback, which lets callers disable the AI tier
// without special-casing.
func Run[T any](ctx context.Context, logger *zap.Logger, primary Func[T], validate Validator[T], fallback Func[T]) (T, error) {
	if primary != nil {
		value, err := primary(ctx)
		if err == nil {
			if validate == nil {
				return value, nil
			}
			if verr := validate(value); verr == nil {
				return value, nil
			} else {
				logger.Warn("primary tier produced invalid result, falling back", zap.Error(verr))
			}
		} else {
			logger.Warn("primary tier failed, falling back", zap.Error(err))
		}
	}

	return fallback(ctx)
}
