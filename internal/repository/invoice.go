package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `i.id, i.user_id, i.client_id, i.invoice_number, i.date, i.due_date,
	i.status, i.subtotal, i.tax_rate, i.tax_amount, i.total, COALESCE(i.notes, ''),
	i.created_at, i.updated_at`

// CreateInvoice inserts an invoice and its items in one transaction.
func (r *Repository) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	err := r.withTx(ctx, func(q querier) error {
		query := `
			INSERT INTO invoices (id, user_id, client_id, invoice_number, date, due_date, status,
				subtotal, tax_rate, tax_amount, total, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14)
		`
		if _, err := q.Exec(ctx, query,
			inv.ID,
			inv.UserID,
			inv.ClientID,
			inv.InvoiceNumber,
			inv.Date,
			inv.DueDate,
			string(inv.Status),
			inv.Subtotal,
			inv.TaxRate,
			inv.TaxAmount,
			inv.Total,
			inv.Notes,
			inv.CreatedAt,
			inv.UpdatedAt,
		); err != nil {
			return err
		}
		return insertItems(ctx, q, inv.ID, inv.Items)
	})

	if err != nil {
		return translateInvoiceWriteError("create", err)
	}
	return nil
}

// GetInvoice returns an invoice owned by userID with its client and items.
func (r *Repository) GetInvoice(ctx context.Context, userID, id string) (*model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `, ` + clientColumns + `
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.id = $1 AND i.user_id = $2
	`

	inv, err := scanInvoiceWithClient(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.listItems(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]

	return inv, nil
}

// ListInvoices returns the user's invoices, most recent date first, each with
// its client and items.
func (r *Repository) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `, ` + clientColumns + `
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE i.user_id = $1
		  AND ($2::text = '' OR i.status = $2)
		  AND ($3::text = '' OR i.client_id = $3)
		ORDER BY i.date DESC, i.id DESC
	`

	invoices, err := r.queryInvoicesWithClient(ctx, query, filter.UserID, string(filter.Status), filter.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	if err := r.attachItems(ctx, invoices); err != nil {
		return nil, err
	}

	return invoices, nil
}

// UpdateInvoice overwrites an invoice and replaces all of its items in one
// transaction.
func (r *Repository) UpdateInvoice(ctx context.Context, inv *model.Invoice) error {
	err := r.withTx(ctx, func(q querier) error {
		query := `
			UPDATE invoices
			SET client_id = $3, invoice_number = $4, date = $5, due_date = $6, status = $7,
			    subtotal = $8, tax_rate = $9, tax_amount = $10, total = $11,
			    notes = NULLIF($12, ''), updated_at = $13
			WHERE id = $1 AND user_id = $2
			RETURNING created_at
		`
		err := q.QueryRow(ctx, query,
			inv.ID,
			inv.UserID,
			inv.ClientID,
			inv.InvoiceNumber,
			inv.Date,
			inv.DueDate,
			string(inv.Status),
			inv.Subtotal,
			inv.TaxRate,
			inv.TaxAmount,
			inv.Total,
			inv.Notes,
			inv.UpdatedAt,
		).Scan(&inv.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvoiceNotFound
			}
			return err
		}

		if _, err := q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return insertItems(ctx, q, inv.ID, inv.Items)
	})

	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			return err
		}
		return translateInvoiceWriteError("update", err)
	}
	return nil
}

// DeleteInvoice removes an invoice; its items go with it.
func (r *Repository) DeleteInvoice(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// InvoiceNumberExists reports whether number is taken by an invoice other
// than excludeID. Pass an empty excludeID when creating.
// Invoice numbers are unique across all users.
func (r *Repository) InvoiceNumberExists(ctx context.Context, number, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE invoice_number = $1 AND ($2::text = '' OR id <> $2))`,
		number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice number: %w", err)
	}
	return exists, nil
}

func insertItems(ctx context.Context, q querier, invoiceID string, items []model.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range items {
		item := &items[i]
		item.InvoiceID = invoiceID
		if _, err := q.Exec(ctx, query,
			item.ID,
			item.InvoiceID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Total,
			item.Position,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) queryInvoicesWithClient(ctx context.Context, query string, args ...any) ([]model.Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoiceWithClient(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}

	return invoices, rows.Err()
}

func (r *Repository) attachItems(ctx context.Context, invoices []model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}

	items, err := r.listItems(ctx, ids)
	if err != nil {
		return err
	}
	for i := range invoices {
		invoices[i].Items = items[invoices[i].ID]
	}
	return nil
}

// listItems loads the items of the given invoices keyed by invoice id,
// each slice in position order.
func (r *Repository) listItems(ctx context.Context, invoiceIDs []string) (map[string][]model.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, position
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position, id
	`

	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]model.InvoiceItem, len(invoiceIDs))
	for rows.Next() {
		var item model.InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Total,
			&item.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		result[item.InvoiceID] = append(result[item.InvoiceID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return result, nil
}

// translateInvoiceWriteError maps constraint violations on invoice writes.
// A foreign key failure here can only come from client_id.
func translateInvoiceWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrInvoiceNumberExists
	case isForeignKeyViolation(err):
		return ErrClientNotFound
	}
	return fmt.Errorf("failed to %s invoice: %w", op, err)
}

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var inv model.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate,
		&status, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = model.InvoiceStatus(status)
	inv.Date, inv.DueDate = asUTC(inv.Date), asUTCPtr(inv.DueDate)
	inv.CreatedAt, inv.UpdatedAt = asUTC(inv.CreatedAt), asUTC(inv.UpdatedAt)
	return &inv, nil
}

func scanInvoiceWithClient(row rowScanner) (*model.Invoice, error) {
	var inv model.Invoice
	var c model.Client
	var status string
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate,
		&status, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Email,
		&c.Company, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = model.InvoiceStatus(status)
	inv.Date, inv.DueDate = asUTC(inv.Date), asUTCPtr(inv.DueDate)
	inv.CreatedAt, inv.UpdatedAt = asUTC(inv.CreatedAt), asUTC(inv.UpdatedAt)
	c.CreatedAt, c.UpdatedAt = asUTC(c.CreatedAt), asUTC(c.UpdatedAt)
	inv.Client = &c
	return &inv, nil
}
