package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
)

// RecentInvoiceLimit is how many invoices the dashboard shows.
const RecentInvoiceLimit = 5

// DashboardService builds the per-user summary.
type DashboardService struct {
	store   DashboardStore
	metrics metrics.Recorder
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store DashboardStore, recorder metrics.Recorder) *DashboardService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DashboardService{store: store, metrics: recorder}
}

// Summary runs the independent aggregate queries concurrently and merges
// them. Every status appears in StatusCounts, zero when unused.
func (s *DashboardService) Summary(ctx context.Context, userID string) (*model.DashboardSummary, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDashboardDuration(time.Since(start)) }()

	var (
		summary model.DashboardSummary
		counts  map[model.InvoiceStatus]int64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.ClientCount, err = s.store.CountClients(ctx, userID)
		return wrap("count clients", err)
	})
	g.Go(func() (err error) {
		summary.InvoiceCount, err = s.store.CountInvoices(ctx, userID)
		return wrap("count invoices", err)
	})
	g.Go(func() (err error) {
		summary.Revenue, err = s.store.PaidRevenue(ctx, userID)
		return wrap("sum revenue", err)
	})
	g.Go(func() (err error) {
		counts, err = s.store.CountInvoicesByStatus(ctx, userID)
		return wrap("count invoices by status", err)
	})
	g.Go(func() (err error) {
		summary.RecentInvoices, err = s.store.RecentInvoices(ctx, userID, RecentInvoiceLimit)
		return wrap("load recent invoices", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.StatusCounts = make(map[model.InvoiceStatus]int64, len(model.InvoiceStatuses))
	for _, status := range model.InvoiceStatuses {
		summary.StatusCounts[status] = counts[status]
	}
	if summary.RecentInvoices == nil {
		summary.RecentInvoices = []model.Invoice{}
	}
	return &summary, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
