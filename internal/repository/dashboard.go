package repository

import (
	"context"
	"fmt"

	"github.com/facturafacil/facturafacil/internal/model"
)

// CountClients returns how many clients the user owns.
func (r *Repository) CountClients(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return n, nil
}

// CountInvoices returns how many invoices the user owns.
func (r *Repository) CountInvoices(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// PaidRevenue sums the totals of the user's PAID invoices.
func (r *Repository) PaidRevenue(ctx context.Context, userID string) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM invoices WHERE user_id = $1 AND status = $2`,
		userID, string(model.InvoiceStatusPaid),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return sum, nil
}

// CountInvoicesByStatus groups the user's invoices by status. Statuses with
// no invoices are absent from the map.
func (r *Repository) CountInvoicesByStatus(ctx context.Context, userID string) (map[model.InvoiceStatus]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM invoices WHERE user_id = $1 GROUP BY status`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.InvoiceStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[model.InvoiceStatus(status)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// RecentInvoices returns the user's newest invoices by creation time, with client.
func (r *Repository) RecentInvoices(ctx context.Context, userID string, limit int) ([]model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `, ` + clientColumns + `
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $2
	`

	invoices, err := r.queryInvoicesWithClient(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent invoices: %w", err)
	}
	return invoices, nil
}
