package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
)

// Retrying wraps a Provider with bounded retry. Only transient failures are
// retried; a permanent failure stops immediately, and exhausting the budget
// surfaces the last failure as permanent so callers never retry further.
// It also enforces the Dimension contract on every successful response.
type Retrying struct {
	Inner       Provider
	MaxAttempts int
	BaseDelay   time.Duration
	log         logger.ILogger
}

func NewRetrying(inner Provider, log logger.ILogger) *Retrying {
	return &Retrying{
		Inner:       inner,
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		log:         log,
	}
}

func (r *Retrying) Embed(ctx context.Context, text string) ([]float64, error) {
	const op = "embedding.retry"

	delay := r.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		vec, err := r.Inner.Embed(ctx, text)
		if err == nil {
			if len(vec) != Dimension {
				return nil, apperror.New(apperror.KindPermanentUpstream, op,
					fmt.Sprintf("embedding dimension mismatch: got %d, want %d", len(vec), Dimension))
			}
			return vec, nil
		}

		if !apperror.IsTransient(err) {
			return nil, err
		}

		lastErr = err
		if attempt == r.MaxAttempts {
			break
		}

		r.log.Warn("embedding", "transient embedding failure, retrying", map[string]interface{}{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})

		select {
		case <-ctx.Done():
			return nil, apperror.Wrap(apperror.KindTransientUpstream, op, "embedding cancelled", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, apperror.Wrap(apperror.KindPermanentUpstream, op,
		fmt.Sprintf("embedding failed after %d attempts", r.MaxAttempts), lastErr)
}
