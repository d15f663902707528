package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/api/metrics"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

// AuditService persists asset mutation events, skipping exact replays via
// the deduper. Failures are recorded and returned but never fatal: the
// audit trail is best-effort relative to the mutation that emitted it.
type AuditService struct {
	events ports.EventRepository
	dedup  ports.Deduper
	logger zerolog.Logger
}

func NewAuditService(events ports.EventRepository, dedup ports.Deduper, logger zerolog.Logger) *AuditService {
	return &AuditService{events: events, dedup: dedup, logger: logger}
}

// Record stores one audit event unless the exact same event was already seen.
func (s *AuditService) Record(ctx context.Context, event domain.AssetEvent) error {
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, event)
		if err != nil {
			// dedup outage must not drop the event
			s.logger.Warn().Err(err).Msg("audit dedup check failed")
		} else if dup {
			metrics.AuditEventsTotal.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	if err := s.events.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).
			Str("event_type", event.Type).
			Str("resource_id", event.ResourceID).
			Msg("audit event insert failed")
		return err
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, event); err != nil {
			s.logger.Warn().Err(err).Msg("audit dedup mark failed")
		}
	}

	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	return nil
}
