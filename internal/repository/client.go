package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `c.id, c.user_id, c.name, c.email,
	COALESCE(c.company, ''), COALESCE(c.phone, ''), COALESCE(c.address, ''),
	c.created_at, c.updated_at`

// CreateClient inserts a new client. Empty optional fields are stored as NULL.
func (r *Repository) CreateClient(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, company, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Company,
		client.Phone,
		client.Address,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// ListClients returns the user's clients with their invoice counts, newest first.
func (r *Repository) ListClients(ctx context.Context, filter model.ClientFilter) ([]model.ClientSummary, error) {
	query := `
		SELECT ` + clientColumns + `,
			(SELECT COUNT(*) FROM invoices i WHERE i.client_id = c.id) AS invoice_count
		FROM clients c
		WHERE c.user_id = $1
		  AND ($2::text = ''
		       OR c.name ILIKE $3
		       OR c.email ILIKE $3
		       OR COALESCE(c.company, '') ILIKE $3)
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Search, likePattern(filter.Search))
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]model.ClientSummary, 0)
	for rows.Next() {
		var s model.ClientSummary
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Email,
			&s.Company, &s.Phone, &s.Address,
			&s.CreatedAt, &s.UpdatedAt,
			&s.InvoiceCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		s.CreatedAt, s.UpdatedAt = asUTC(s.CreatedAt), asUTC(s.UpdatedAt)
		clients = append(clients, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// GetClient returns a client owned by userID together with its invoices,
// most recent date first. Invoices are returned without items.
func (r *Repository) GetClient(ctx context.Context, userID, id string) (*model.ClientDetail, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.id = $1 AND c.user_id = $2`

	client, err := scanClient(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	invoicesQuery := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		WHERE i.client_id = $1 AND i.user_id = $2
		ORDER BY i.date DESC, i.id DESC
	`

	rows, err := r.pool.Query(ctx, invoicesQuery, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client invoices: %w", err)
	}
	defer rows.Close()

	detail := &model.ClientDetail{Client: *client, Invoices: make([]model.Invoice, 0)}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		detail.Invoices = append(detail.Invoices, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client invoices: %w", err)
	}

	return detail, nil
}

// UpdateClient overwrites the editable fields of a client owned by client.UserID.
func (r *Repository) UpdateClient(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET name = $3, email = $4,
		    company = NULLIF($5, ''), phone = NULLIF($6, ''), address = NULLIF($7, ''),
		    updated_at = $8
		WHERE id = $1 AND user_id = $2
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Company,
		client.Phone,
		client.Address,
		client.UpdatedAt,
	).Scan(&client.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	client.CreatedAt = asUTC(client.CreatedAt)
	return nil
}

// DeleteClient removes a client. A client still referenced by invoices
// cannot be deleted.
func (r *Repository) DeleteClient(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrClientHasInvoices
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	return nil
}

// ClientExists reports whether id names a client owned by userID.
func (r *Repository) ClientExists(ctx context.Context, userID, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client: %w", err)
	}
	return exists, nil
}

func scanClient(row rowScanner) (*model.Client, error) {
	var c model.Client
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email,
		&c.Company, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = asUTC(c.CreatedAt), asUTC(c.UpdatedAt)
	return &c, nil
}
