package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

func seedInvoices(repo *stubInvoiceRepo, now time.Time) {
	ctx := context.Background()
	add := func(age time.Duration, amount float64, status domain.InvoiceStatus) {
		_, _ = repo.Create(ctx, &domain.Invoice{Amount: amount, Status: status, CreatedAt: now.Add(-age)})
	}
	add(0, 100, domain.InvoicePaid)
	add(40*24*time.Hour, 200, domain.InvoicePaid)
	add(400*24*time.Hour, 400, domain.InvoicePaid)
	add(0, 1000, domain.InvoiceUnpaid)
}

func sumRevenue(buckets []domain.RevenueBucket) float64 {
	var total float64
	for _, b := range buckets {
		total += b.Total
	}
	return total
}

func TestAnalyticsService_RevenueWindows(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	invoices := newStubInvoiceRepo()
	seedInvoices(invoices, now)
	svc := NewAnalyticsService(invoices, newStubProjectRepo(), zerolog.Nop())
	svc.now = func() time.Time { return now }

	cases := map[domain.Period]float64{
		domain.PeriodDaily:   100,
		domain.PeriodMonthly: 300,
		domain.PeriodYearly:  700,
	}
	for period, want := range cases {
		t.Run(string(period), func(t *testing.T) {
			got, err := svc.Dashboard(context.Background(), period)
			if err != nil {
				t.Fatalf("Dashboard returned error: %v", err)
			}
			if total := sumRevenue(got.Revenue); total != want {
				t.Fatalf("expected revenue %v, got %v", want, total)
			}
		})
	}
}

func TestAnalyticsService_RevenueBucketGrain(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	invoices := newStubInvoiceRepo()
	seedInvoices(invoices, now)
	svc := NewAnalyticsService(invoices, newStubProjectRepo(), zerolog.Nop())
	svc.now = func() time.Time { return now }

	daily, err := svc.Dashboard(context.Background(), domain.PeriodDaily)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(daily.Revenue) != 1 || daily.Revenue[0].Key != (domain.BucketKey{Year: 2024, Month: 6, Day: 15}) {
		t.Fatalf("unexpected daily buckets %+v", daily.Revenue)
	}

	yearly, err := svc.Dashboard(context.Background(), domain.PeriodYearly)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(yearly.Revenue) != 2 || yearly.Revenue[0].Key != (domain.BucketKey{Year: 2023}) || yearly.Revenue[1].Total != 300 {
		t.Fatalf("unexpected yearly buckets %+v", yearly.Revenue)
	}
}

func TestAnalyticsService_UnknownPeriodMatchesMonthly(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	invoices := newStubInvoiceRepo()
	seedInvoices(invoices, now)
	svc := NewAnalyticsService(invoices, newStubProjectRepo(), zerolog.Nop())
	svc.now = func() time.Time { return now }

	weekly, err := svc.Dashboard(context.Background(), domain.ParsePeriod("weekly"))
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	monthly, err := svc.Dashboard(context.Background(), domain.PeriodMonthly)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(weekly.Revenue) != len(monthly.Revenue) || sumRevenue(weekly.Revenue) != sumRevenue(monthly.Revenue) {
		t.Fatalf("expected weekly to match monthly: %+v vs %+v", weekly.Revenue, monthly.Revenue)
	}
}

func TestAnalyticsService_EmptyResults(t *testing.T) {
	svc := NewAnalyticsService(newStubInvoiceRepo(), newStubProjectRepo(), zerolog.Nop())

	got, err := svc.Dashboard(context.Background(), domain.PeriodDaily)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if got.Revenue == nil || got.ProjectStatus == nil || got.InvoiceTotals == nil {
		t.Fatalf("expected empty slices, got %+v", got)
	}
}

func TestAnalyticsService_PropagatesErrors(t *testing.T) {
	projects := newStubProjectRepo()
	projects.countErr = errors.New("mongo unavailable")
	svc := NewAnalyticsService(newStubInvoiceRepo(), projects, zerolog.Nop())

	if _, err := svc.Dashboard(context.Background(), domain.PeriodMonthly); err == nil {
		t.Fatalf("expected error when a rollup fails")
	}
}
