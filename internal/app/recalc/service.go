package recalc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tripquote/internal/domain/itinerary"
	"tripquote/internal/domain/pricing"
)

var ErrNotConfigured = errors.New("recalc: service dependencies missing")

// EventPublisher mirrors the generate service's publisher boundary.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// Service re-runs the pricing calculator over every persisted itinerary of a
// tenant against the current configuration, overwriting totals in place. It is
// the first-class answer to historical pricing drift: idempotent, and
// partially failable per record so one bad legacy document cannot block the
// batch.
type Service struct {
	Records itinerary.Repository
	Pricing pricing.Repository
	Events  EventPublisher
	Logger  *slog.Logger
}

// Report summarizes one batch run.
type Report struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Run recomputes all records for the tenant. Each record is repriced on a copy
// of its day list and written back in a single save, so a failure leaves the
// stored record untouched; there is no partial line-item update.
func (s *Service) Run(ctx context.Context, tenantID string) (Report, error) {
	if s.Records == nil || s.Pricing == nil {
		return Report{}, ErrNotConfigured
	}

	cfg, slabs, err := s.Pricing.Config(ctx, tenantID)
	if errors.Is(err, pricing.ErrConfigNotFound) {
		cfg, slabs = pricing.DefaultConfig(tenantID), nil
	} else if err != nil {
		return Report{}, err
	}
	calc := pricing.Calculator{Config: cfg, Slabs: slabs}

	records, err := s.Records.ByTenant(ctx, tenantID)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(records)}
	for _, rec := range records {
		if err := s.reprice(ctx, calc, rec); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, rec.ID+": "+err.Error())
			if s.Logger != nil {
				s.Logger.Warn("record recalculation failed", "record_id", rec.ID, "error", err)
			}
			continue
		}
		report.Updated++
	}

	if s.Logger != nil {
		s.Logger.Info("recalculation complete",
			"tenant_id", tenantID,
			"total", report.Total,
			"updated", report.Updated,
			"failed", report.Failed)
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, "pricing.recalculated", tenantID, map[string]any{
			"tenant_id": tenantID,
			"total":     report.Total,
			"updated":   report.Updated,
			"failed":    report.Failed,
		}); err != nil && s.Logger != nil {
			s.Logger.Warn("event publish failed", "tenant_id", tenantID, "error", err)
		}
	}
	return report, nil
}

func (s *Service) reprice(ctx context.Context, calc pricing.Calculator, rec *itinerary.Record) error {
	if len(rec.Days) == 0 {
		return errors.New("recalc: record has no structured days")
	}

	days := itinerary.CopyDays(rec.Days)
	quote := calc.Reprice(days, pricing.Travelers{
		Adults:    rec.Adults,
		Children:  rec.Children,
		ChildAges: rec.ChildAges,
	})

	rec.Days = days
	rec.TotalPrice = quote.TotalPrice
	rec.PricePerPerson = quote.PricePerPerson
	rec.Currency = quote.Currency
	rec.UpdatedAt = time.Now().UTC()
	return s.Records.Save(ctx, rec)
}
