package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository/memory"
)

func TestDashboardService_Summary(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	statuses := []string{"PAID", "PAID", "PENDING", "OVERDUE", "PENDING", "CANCELLED"}
	for i, status := range statuses {
		in := f.input("INV-2024-00" + string(rune('1'+i)))
		in.Status = status
		_, err := f.svc.CreateInvoice(ctx, "u1", in)
		require.NoError(t, err)
	}

	rec := metrics.NewInMemory()
	summary, err := NewDashboardService(f.store, rec).Summary(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.ClientCount)
	assert.Equal(t, int64(6), summary.InvoiceCount)
	assert.InDelta(t, 2*28.75, summary.Revenue, 1e-9)
	assert.Equal(t, map[model.InvoiceStatus]int64{
		model.InvoiceStatusPaid:      2,
		model.InvoiceStatusPending:   2,
		model.InvoiceStatusOverdue:   1,
		model.InvoiceStatusCancelled: 1,
	}, summary.StatusCounts)
	assert.Len(t, summary.RecentInvoices, RecentInvoiceLimit)
	assert.NotNil(t, summary.RecentInvoices[0].Client)

	assert.Equal(t, uint64(1), rec.Snapshot().DashboardDurationCount)
}

func TestDashboardService_EmptyUser(t *testing.T) {
	summary, err := NewDashboardService(memory.New(), nil).Summary(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Zero(t, summary.ClientCount)
	assert.Zero(t, summary.Revenue)
	assert.Len(t, summary.StatusCounts, len(model.InvoiceStatuses))
	for _, status := range model.InvoiceStatuses {
		assert.Zero(t, summary.StatusCounts[status])
	}
	assert.NotNil(t, summary.RecentInvoices)
	assert.Empty(t, summary.RecentInvoices)
}

type failingDashboardStore struct {
	*memory.Store
}

func (failingDashboardStore) PaidRevenue(context.Context, string) (float64, error) {
	return 0, errors.New("connection reset")
}

func TestDashboardService_PropagatesErrors(t *testing.T) {
	_, err := NewDashboardService(failingDashboardStore{memory.New()}, nil).Summary(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sum revenue")
}
