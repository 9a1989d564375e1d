//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/testutil"
)

// newTestEnv migrates a database, serializes access to it and returns a
// Repository with a fresh user already inserted.
func newTestEnv(t *testing.T) (context.Context, *Repository, *model.User) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	t.Cleanup(cancel)

	dbURL := testutil.PostgresURL(t)
	if err := Migrate(dbURL); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("AcquireDBLock failed: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Logf("unlock failed: %v", err)
		}
	})

	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("TruncateAll failed: %v", err)
	}

	user := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	return ctx, repo, user
}

func mustCreateClient(t *testing.T, ctx context.Context, repo *Repository, userID, name string) *model.Client {
	t.Helper()
	c := testutil.NewTestClient(t, userID, name)
	if err := repo.CreateClient(ctx, c); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	return c
}

func mustCreateInvoice(t *testing.T, ctx context.Context, repo *Repository, userID, clientID string) *model.Invoice {
	t.Helper()
	inv := testutil.NewTestInvoice(t, userID, clientID, testutil.UniqueInvoiceNumber("it"))
	if err := repo.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	return inv
}
