package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// PostgresURL returns DATABASE_URL when set. Otherwise it starts a disposable
// PostgreSQL container that is terminated when the test finishes. The test is
// skipped if no container runtime is available.
func PostgresURL(t testing.TB) string {
	t.Helper()
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("facturafacil_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("DATABASE_URL not set and postgres container unavailable: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return connStr
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE invoice_items, invoices, clients, users CASCADE`)
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return UniqueID(prefix) + "@example.com"
}

// UniqueInvoiceNumber generates an invoice number that will not collide
// with other tests sharing the database.
func UniqueInvoiceNumber(prefix string) string {
	return UniqueID("INV-" + prefix)
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.User{
		ID:           UniqueID("user"),
		Name:         "Test User",
		Email:        UniqueEmail("user"),
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestClient creates a test client owned by userID.
func NewTestClient(t testing.TB, userID, name string) *model.Client {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Client{
		ID:        UniqueID("client"),
		UserID:    userID,
		Name:      name,
		Email:     UniqueEmail("client"),
		Company:   name + " Ltd",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestInvoice creates a PENDING invoice with one item (2 x 50.00, 10% tax).
func NewTestInvoice(t testing.TB, userID, clientID, number string) *model.Invoice {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Invoice{
		ID:            UniqueID("inv"),
		UserID:        userID,
		ClientID:      clientID,
		InvoiceNumber: number,
		Date:          now,
		Status:        model.InvoiceStatusPending,
		Subtotal:      100,
		TaxRate:       10,
		TaxAmount:     10,
		Total:         110,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []model.InvoiceItem{
			{ID: UniqueID("item"), Description: "Consulting", Quantity: 2, UnitPrice: 50, Total: 100},
		},
	}
}
