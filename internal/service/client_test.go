package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository/memory"
)

func TestClientService_CreateAndGet(t *testing.T) {
	store := memory.New()
	rec := metrics.NewInMemory()
	svc := NewClientService(store, rec)
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, "u1", ClientInput{
		Name:    "  Acme  ",
		Email:   "Billing@Acme.com",
		Company: "Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)
	assert.Equal(t, "billing@acme.com", client.Email)
	assert.Empty(t, client.Phone)

	detail, err := svc.GetClient(ctx, "u1", client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, detail.ID)
	assert.Empty(t, detail.Invoices)

	_, err = svc.GetClient(ctx, "u2", client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)

	assert.Equal(t, uint64(1), rec.Snapshot().ClientsCreated)
}

func TestClientService_CreateValidation(t *testing.T) {
	svc := NewClientService(memory.New(), nil)

	tests := []struct {
		name    string
		input   ClientInput
		message string
	}{
		{"short name", ClientInput{Name: "A", Email: "a@b.co"}, "name must be at least 2 characters"},
		{"blank name", ClientInput{Name: "   ", Email: "a@b.co"}, "name must be at least 2 characters"},
		{"bad email", ClientInput{Name: "Acme", Email: "acme"}, "invalid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClient(context.Background(), "u1", tt.input)
			require.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestClientService_ListSearch(t *testing.T) {
	svc := NewClientService(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, "u1", ClientInput{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx, "u1", ClientInput{Name: "Globex", Email: "hi@globex.com", Company: "Globex Industries"})
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx, "u2", ClientInput{Name: "Acme Two", Email: "x@acme.com"})
	require.NoError(t, err)

	all, err := svc.ListClients(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.ListClients(ctx, "u1", " INDUSTRIES ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Globex", found[0].Name)

	none, err := svc.ListClients(ctx, "u1", "nothing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClientService_UpdateAndDelete(t *testing.T) {
	store := memory.New()
	svc := NewClientService(store, nil)
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, "u1", ClientInput{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateClient(ctx, "u1", client.ID, ClientInput{Name: "Acme SA", Email: "ops@acme.com", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SA", updated.Name)
	assert.Equal(t, client.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateClient(ctx, "u2", client.ID, ClientInput{Name: "Hijack", Email: "x@y.co"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	require.NoError(t, store.CreateInvoice(ctx, &model.Invoice{
		ID:            "inv-1",
		UserID:        "u1",
		ClientID:      client.ID,
		InvoiceNumber: "INV-2024-001",
		Date:          time.Now(),
		Status:        model.InvoiceStatusPending,
	}))
	assert.ErrorIs(t, svc.DeleteClient(ctx, "u1", client.ID), ErrClientHasInvoices)

	require.NoError(t, store.DeleteInvoice(ctx, "u1", "inv-1"))
	require.NoError(t, svc.DeleteClient(ctx, "u1", client.ID))
	assert.ErrorIs(t, svc.DeleteClient(ctx, "u1", client.ID), ErrClientNotFound)
}
