package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notehub/notehub-api/internal/core/domain"
)

const defaultOpTimeout = 5 * time.Second

// opContext bounds a repository call. Callers that already carry a tighter
// deadline keep it; everything else gets the repository timeout.
func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// translate converts a driver failure into a domain error before it crosses
// the port boundary. notFound substitutes for ErrNoDocuments; transport and
// deadline failures become ErrStorageUnavailable with the cause retained
// for logging via %w chains.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("mongo: %w", err)
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
