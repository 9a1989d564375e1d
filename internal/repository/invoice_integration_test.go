//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/testutil"
)

func TestIntegrationInvoiceRepository_CreateAndGet(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	client := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	inv := testutil.NewTestInvoice(t, user.ID, client.ID, testutil.UniqueInvoiceNumber("get"))
	due := inv.Date.Add(30 * 24 * time.Hour)
	inv.DueDate = &due
	inv.Notes = "Thanks"
	inv.Items = append(inv.Items, model.InvoiceItem{
		ID: testutil.UniqueID("item"), Description: "Support", Quantity: 1, UnitPrice: 0, Total: 0, Position: 1,
	})

	if err := repo.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	got, err := repo.GetInvoice(ctx, user.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.InvoiceNumber != inv.InvoiceNumber || got.Status != model.InvoiceStatusPending {
		t.Errorf("unexpected invoice: %+v", got)
	}
	if got.Total != 110 || got.TaxAmount != 10 {
		t.Errorf("totals mismatch: total=%v tax=%v", got.Total, got.TaxAmount)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate mismatch: %v", got.DueDate)
	}
	if got.Client == nil || got.Client.ID != client.ID {
		t.Errorf("expected client relation, got %+v", got.Client)
	}
	if len(got.Items) != 2 || got.Items[0].Description != "Consulting" || got.Items[1].Description != "Support" {
		t.Errorf("items not in position order: %+v", got.Items)
	}
}

func TestIntegrationInvoiceRepository_DuplicateNumber(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	client := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	first := mustCreateInvoice(t, ctx, repo, user.ID, client.ID)

	dup := testutil.NewTestInvoice(t, user.ID, client.ID, first.InvoiceNumber)
	if err := repo.CreateInvoice(ctx, dup); !errors.Is(err, ErrInvoiceNumberExists) {
		t.Fatalf("expected ErrInvoiceNumberExists, got %v", err)
	}

	// The failed transaction must not leave items behind.
	if _, err := repo.GetInvoice(ctx, user.ID, dup.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound for rolled back invoice, got %v", err)
	}

	exists, err := repo.InvoiceNumberExists(ctx, first.InvoiceNumber, "")
	if err != nil || !exists {
		t.Errorf("InvoiceNumberExists = %v, %v; want true", exists, err)
	}
	exists, err = repo.InvoiceNumberExists(ctx, first.InvoiceNumber, first.ID)
	if err != nil || exists {
		t.Errorf("InvoiceNumberExists excluding self = %v, %v; want false", exists, err)
	}
}

func TestIntegrationInvoiceRepository_UnknownClient(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	inv := testutil.NewTestInvoice(t, user.ID, "no-such-client", testutil.UniqueInvoiceNumber("fk"))
	if err := repo.CreateInvoice(ctx, inv); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestIntegrationInvoiceRepository_UpdateReplacesItems(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	client := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	inv := mustCreateInvoice(t, ctx, repo, user.ID, client.ID)

	inv.Status = model.InvoiceStatusPaid
	inv.Items = []model.InvoiceItem{
		{ID: testutil.UniqueID("item"), Description: "Design", Quantity: 3, UnitPrice: 20, Total: 60},
	}
	inv.Subtotal, inv.TaxAmount, inv.Total = 60, 6, 66
	inv.UpdatedAt = time.Now().UTC()

	if err := repo.UpdateInvoice(ctx, inv); err != nil {
		t.Fatalf("UpdateInvoice failed: %v", err)
	}

	got, err := repo.GetInvoice(ctx, user.ID, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Status != model.InvoiceStatusPaid || got.Total != 66 {
		t.Errorf("unexpected invoice after update: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Design" {
		t.Errorf("items were not replaced: %+v", got.Items)
	}

	missing := *inv
	missing.ID = "missing"
	if err := repo.UpdateInvoice(ctx, &missing); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestIntegrationInvoiceRepository_ListFilters(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	acme := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	globex := mustCreateClient(t, ctx, repo, user.ID, "Globex")
	mustCreateInvoice(t, ctx, repo, user.ID, acme.ID)
	paid := testutil.NewTestInvoice(t, user.ID, globex.ID, testutil.UniqueInvoiceNumber("paid"))
	paid.Status = model.InvoiceStatusPaid
	if err := repo.CreateInvoice(ctx, paid); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	all, err := repo.ListInvoices(ctx, model.InvoiceFilter{UserID: user.ID})
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(all))
	}
	for _, inv := range all {
		if inv.Client == nil || len(inv.Items) != 1 {
			t.Errorf("invoice %s missing relations", inv.ID)
		}
	}

	byStatus, err := repo.ListInvoices(ctx, model.InvoiceFilter{UserID: user.ID, Status: model.InvoiceStatusPaid})
	if err != nil {
		t.Fatalf("ListInvoices by status failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != paid.ID {
		t.Errorf("status filter returned %+v", byStatus)
	}

	byClient, err := repo.ListInvoices(ctx, model.InvoiceFilter{UserID: user.ID, ClientID: acme.ID})
	if err != nil {
		t.Fatalf("ListInvoices by client failed: %v", err)
	}
	if len(byClient) != 1 || byClient[0].ClientID != acme.ID {
		t.Errorf("client filter returned %+v", byClient)
	}
}

func TestIntegrationInvoiceRepository_DeleteCascadesItems(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	client := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	inv := mustCreateInvoice(t, ctx, repo, user.ID, client.ID)

	if err := repo.DeleteInvoice(ctx, user.ID, inv.ID); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}

	var n int
	if err := repo.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM invoice_items WHERE invoice_id = $1`, inv.ID).Scan(&n); err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected items to be deleted, found %d", n)
	}

	if err := repo.DeleteInvoice(ctx, user.ID, inv.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound on second delete, got %v", err)
	}
}

func TestIntegrationDashboardQueries(t *testing.T) {
	ctx, repo, user := newTestEnv(t)

	client := mustCreateClient(t, ctx, repo, user.ID, "Acme")
	mustCreateInvoice(t, ctx, repo, user.ID, client.ID)
	paid := testutil.NewTestInvoice(t, user.ID, client.ID, testutil.UniqueInvoiceNumber("paid"))
	paid.Status = model.InvoiceStatusPaid
	if err := repo.CreateInvoice(ctx, paid); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	clients, err := repo.CountClients(ctx, user.ID)
	if err != nil || clients != 1 {
		t.Errorf("CountClients = %d, %v", clients, err)
	}
	invoices, err := repo.CountInvoices(ctx, user.ID)
	if err != nil || invoices != 2 {
		t.Errorf("CountInvoices = %d, %v", invoices, err)
	}
	revenue, err := repo.PaidRevenue(ctx, user.ID)
	if err != nil || revenue != 110 {
		t.Errorf("PaidRevenue = %v, %v", revenue, err)
	}
	byStatus, err := repo.CountInvoicesByStatus(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountInvoicesByStatus failed: %v", err)
	}
	if byStatus[model.InvoiceStatusPaid] != 1 || byStatus[model.InvoiceStatusPending] != 1 {
		t.Errorf("unexpected status counts: %v", byStatus)
	}
	recent, err := repo.RecentInvoices(ctx, user.ID, 5)
	if err != nil {
		t.Fatalf("RecentInvoices failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Client == nil {
		t.Errorf("unexpected recent invoices: %+v", recent)
	}
}
