package service

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturafacil/facturafacil/internal/billing"
	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository/memory"
)

type invoiceFixture struct {
	svc      *InvoiceService
	store    *memory.Store
	rec      *metrics.InMemoryRecorder
	clientID string
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	store := memory.New()
	rec := metrics.NewInMemory()

	client, err := NewClientService(store, nil).CreateClient(context.Background(), "u1", ClientInput{
		Name:  "Acme",
		Email: "ops@acme.com",
	})
	require.NoError(t, err)

	return &invoiceFixture{
		svc:      NewInvoiceService(store, rec),
		store:    store,
		rec:      rec,
		clientID: client.ID,
	}
}

func (f *invoiceFixture) input(number string) InvoiceInput {
	return InvoiceInput{
		ClientID:      f.clientID,
		InvoiceNumber: number,
		Date:          "2024-03-01",
		TaxRate:       15,
		Items: []InvoiceItemInput{
			{Description: "Design", Quantity: 2, UnitPrice: 10},
			{Description: "Hosting", Quantity: 1, UnitPrice: 5},
		},
	}
}

func TestInvoiceService_CreateComputesTotals(t *testing.T) {
	f := newInvoiceFixture(t)

	in := f.input("INV-2024-001")
	in.Items[0].Description = "  Design  "

	inv, err := f.svc.CreateInvoice(context.Background(), "u1", in)
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPending, inv.Status)
	assert.InDelta(t, 25.0, inv.Subtotal, 1e-9)
	assert.InDelta(t, 3.75, inv.TaxAmount, 1e-9)
	assert.InDelta(t, 28.75, inv.Total, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), inv.Date)
	assert.Nil(t, inv.DueDate)

	require.NotNil(t, inv.Client)
	assert.Equal(t, "Acme", inv.Client.Name)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Design", inv.Items[0].Description)
	assert.InDelta(t, 20.0, inv.Items[0].Total, 1e-9)
	assert.Equal(t, 0, inv.Items[0].Position)
	assert.Equal(t, "Hosting", inv.Items[1].Description)
	assert.Equal(t, inv.ID, inv.Items[1].InvoiceID)

	assert.Equal(t, uint64(1), f.rec.Snapshot().InvoicesCreated)
}

func TestInvoiceService_CreateValidation(t *testing.T) {
	f := newInvoiceFixture(t)

	tests := []struct {
		name    string
		mutate  func(*InvoiceInput)
		field   string
		message string
	}{
		{"missing client", func(in *InvoiceInput) { in.ClientID = "" }, "client_id", "client is required"},
		{"missing number", func(in *InvoiceInput) { in.InvoiceNumber = " " }, "invoice_number", "invoice number is required"},
		{"missing date", func(in *InvoiceInput) { in.Date = "" }, "date", "date is required"},
		{"bad date", func(in *InvoiceInput) { in.Date = "01/03/2024" }, "date", "date must be YYYY-MM-DD or RFC 3339"},
		{"bad due date", func(in *InvoiceInput) { in.DueDate = "soon" }, "due_date", "due date must be YYYY-MM-DD or RFC 3339"},
		{"bad status", func(in *InvoiceInput) { in.Status = "DRAFT" }, "status", "status must be one of PAID, PENDING, OVERDUE, CANCELLED"},
		{"negative tax", func(in *InvoiceInput) { in.TaxRate = -1 }, "tax_rate", "tax rate must be between 0 and 100"},
		{"tax over 100", func(in *InvoiceInput) { in.TaxRate = 100.5 }, "tax_rate", "tax rate must be between 0 and 100"},
		{"no items", func(in *InvoiceInput) { in.Items = nil }, "items", "at least one item is required"},
		{"blank description", func(in *InvoiceInput) { in.Items[1].Description = "" }, "items[1].description", "item description is required"},
		{"tiny quantity", func(in *InvoiceInput) { in.Items[0].Quantity = 0.001 }, "items[0].quantity", "item quantity must be greater than 0"},
		{"negative price", func(in *InvoiceInput) { in.Items[0].UnitPrice = -1 }, "items[0].unit_price", "item unit price must be zero or greater"},
		{"huge quantity", func(in *InvoiceInput) { in.Items[0].Quantity = 1e200 }, "items[0].quantity", "item quantity is too large"},
		{"huge price", func(in *InvoiceInput) { in.Items[1].UnitPrice = 1e200 }, "items[1].unit_price", "item unit price is too large"},
		{"NaN quantity", func(in *InvoiceInput) { in.Items[0].Quantity = math.NaN() }, "items[0].quantity", "item quantity must be greater than 0"},
		{"infinite price", func(in *InvoiceInput) { in.Items[0].UnitPrice = math.Inf(1) }, "items[0].unit_price", "item unit price is too large"},
		{"NaN tax", func(in *InvoiceInput) { in.TaxRate = math.NaN() }, "tax_rate", "tax rate must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("INV-2024-100")
			tt.mutate(&in)

			_, err := f.svc.CreateInvoice(context.Background(), "u1", in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestInvoiceService_CreateBoundaries(t *testing.T) {
	f := newInvoiceFixture(t)

	in := f.input("INV-2024-002")
	in.TaxRate = 100
	in.Items = []InvoiceItemInput{{Description: "Sample", Quantity: 0.01, UnitPrice: 0}}
	in.Status = "PAID"
	in.DueDate = "2024-04-01T12:00:00Z"

	inv, err := f.svc.CreateInvoice(context.Background(), "u1", in)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	assert.Zero(t, inv.Total)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC), *inv.DueDate)
}

func TestInvoiceService_CreateUpperBoundaries(t *testing.T) {
	f := newInvoiceFixture(t)

	in := f.input("INV-2024-002")
	in.TaxRate = 100
	in.Items = []InvoiceItemInput{
		{Description: "Fleet", Quantity: 1e9, UnitPrice: 1e12},
		{Description: "Fleet", Quantity: 1e9, UnitPrice: 1e12},
	}

	inv, err := f.svc.CreateInvoice(context.Background(), "u1", in)
	require.NoError(t, err)
	assert.False(t, math.IsInf(inv.Total, 0))
	assert.InDelta(t, 4e21, inv.Total, 1e9)

	over := f.input("INV-2024-003")
	over.Items = []InvoiceItemInput{{Description: "Overflow", Quantity: 1e200, UnitPrice: 1e200}}
	_, err = f.svc.CreateInvoice(context.Background(), "u1", over)
	assert.ErrorIs(t, err, ErrValidation)

	exists, err := f.store.InvoiceNumberExists(context.Background(), "INV-2024-003", "")
	require.NoError(t, err)
	assert.False(t, exists, "rejected invoice must not be stored")
}

func TestValidateTotals(t *testing.T) {
	assert.NoError(t, validateTotals(billing.Calculate(15, billing.Line{Quantity: 2, UnitPrice: 10})))

	tests := []struct {
		name      string
		breakdown billing.Breakdown
	}{
		{"infinite line", billing.Breakdown{LineTotals: []float64{math.Inf(1)}}},
		{"infinite total", billing.Breakdown{Totals: billing.Totals{Total: math.Inf(1)}}},
		{"NaN tax", billing.Breakdown{Totals: billing.Totals{TaxAmount: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, validateTotals(tt.breakdown), &verr)
			assert.Equal(t, "items", verr.Field)
		})
	}
}

func TestInvoiceService_CreateConflicts(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-001"))
	require.NoError(t, err)

	_, err = f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-001"))
	assert.ErrorIs(t, err, ErrInvoiceNumberTaken)

	unknown := f.input("INV-2024-003")
	unknown.ClientID = "missing"
	_, err = f.svc.CreateInvoice(ctx, "u1", unknown)
	assert.ErrorIs(t, err, ErrInvalidClient)

	_, err = f.svc.CreateInvoice(ctx, "u2", f.input("INV-2024-004"))
	assert.ErrorIs(t, err, ErrInvalidClient, "client of another user must not be referenced")
}

func TestInvoiceService_UpdateReplacesItems(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-001"))
	require.NoError(t, err)

	in := f.input("INV-2024-001")
	in.Status = "OVERDUE"
	in.TaxRate = 0
	in.Items = []InvoiceItemInput{{Description: "Retainer", Quantity: 3, UnitPrice: 100}}

	updated, err := f.svc.UpdateInvoice(ctx, "u1", inv.ID, in)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOverdue, updated.Status)
	assert.InDelta(t, 300.0, updated.Total, 1e-9)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Retainer", updated.Items[0].Description)
	assert.Equal(t, inv.CreatedAt, updated.CreatedAt)

	assert.Equal(t, uint64(1), f.rec.Snapshot().InvoicesUpdated)
}

func TestInvoiceService_UpdateErrors(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-001"))
	require.NoError(t, err)
	_, err = f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-002"))
	require.NoError(t, err)

	_, err = f.svc.UpdateInvoice(ctx, "u1", first.ID, f.input("INV-2024-002"))
	assert.ErrorIs(t, err, ErrInvoiceNumberTaken)

	_, err = f.svc.UpdateInvoice(ctx, "u2", first.ID, f.input("INV-2024-009"))
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = f.svc.UpdateInvoice(ctx, "u1", "missing", f.input("INV-2024-009"))
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceService_ListFilters(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	paid := f.input("INV-2024-001")
	paid.Status = "PAID"
	paid.Date = "2024-01-10"
	_, err := f.svc.CreateInvoice(ctx, "u1", paid)
	require.NoError(t, err)

	pending := f.input("INV-2024-002")
	pending.Date = "2024-02-10"
	_, err = f.svc.CreateInvoice(ctx, "u1", pending)
	require.NoError(t, err)

	all, err := f.svc.ListInvoices(ctx, "u1", "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "INV-2024-002", all[0].InvoiceNumber, "newest date first")

	onlyPaid, err := f.svc.ListInvoices(ctx, "u1", "PAID", "")
	require.NoError(t, err)
	require.Len(t, onlyPaid, 1)
	assert.Equal(t, "INV-2024-001", onlyPaid[0].InvoiceNumber)

	byClient, err := f.svc.ListInvoices(ctx, "u1", "", "other-client")
	require.NoError(t, err)
	assert.Empty(t, byClient)

	_, err = f.svc.ListInvoices(ctx, "u1", "paid", "")
	assert.ErrorIs(t, err, ErrValidation)

	other, err := f.svc.ListInvoices(ctx, "u2", "", "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvoiceService_Delete(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, "u1", f.input("INV-2024-001"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteInvoice(ctx, "u2", inv.ID), ErrInvoiceNotFound)
	require.NoError(t, f.svc.DeleteInvoice(ctx, "u1", inv.ID))

	_, err = f.svc.GetInvoice(ctx, "u1", inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	assert.Equal(t, uint64(1), f.rec.Snapshot().InvoicesDeleted)
}

func TestInvoiceService_NextInvoiceNumber(t *testing.T) {
	f := newInvoiceFixture(t)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	number, err := f.svc.NextInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-2025-\d{3}$`), number)

	exists, err := f.store.InvoiceNumberExists(context.Background(), number, "")
	require.NoError(t, err)
	assert.False(t, exists)
}
