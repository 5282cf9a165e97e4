package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

// AnalyticsService builds the revenue and status rollups of the admin
// dashboard.
type AnalyticsService struct {
	invoices ports.InvoiceRepository
	projects ports.ProjectRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewAnalyticsService(invoices ports.InvoiceRepository, projects ports.ProjectRepository, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		invoices: invoices,
		projects: projects,
		now:      time.Now,
		log:      log.With().Str("component", "analytics").Logger(),
	}
}

// Dashboard runs the revenue, project-status and invoice-status queries
// concurrently. Empty results are empty slices, never nil.
func (s *AnalyticsService) Dashboard(ctx context.Context, period domain.Period) (*domain.Analytics, error) {
	spec := period.Spec()
	now := s.now().UTC()
	since, _ := spec.Since(now)

	out := &domain.Analytics{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		buckets, err := s.invoices.RevenueBuckets(gctx, since, spec.Grain)
		if err != nil {
			return fmt.Errorf("revenue: %w", err)
		}
		out.Revenue = buckets
		return nil
	})
	g.Go(func() error {
		counts, err := s.projects.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("project status: %w", err)
		}
		out.ProjectStatus = counts
		return nil
	})
	g.Go(func() error {
		totals, err := s.invoices.TotalsByStatus(gctx)
		if err != nil {
			return fmt.Errorf("invoice totals: %w", err)
		}
		out.InvoiceTotals = totals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	if out.Revenue == nil {
		out.Revenue = []domain.RevenueBucket{}
	}
	if out.ProjectStatus == nil {
		out.ProjectStatus = []domain.ProjectStatusCount{}
	}
	if out.InvoiceTotals == nil {
		out.InvoiceTotals = []domain.InvoiceStatusTotal{}
	}

	s.log.Debug().Str("period", string(period)).Int("buckets", len(out.Revenue)).Msg("analytics computed")
	return out, nil
}
