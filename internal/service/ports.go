package service

import (
	"context"

	"github.com/facturafacil/facturafacil/internal/model"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPasswordHash(ctx context.Context, id, passwordHash string) error
}

// SessionStore persists sessions keyed by a hash of the session token.
type SessionStore interface {
	SaveSession(ctx context.Context, key string, session *model.Session) error
	GetSession(ctx context.Context, key string) (*model.Session, error)
	DeleteSession(ctx context.Context, key string) error
}

// ClientStore persists clients. Every operation is scoped to a user.
type ClientStore interface {
	CreateClient(ctx context.Context, client *model.Client) error
	ListClients(ctx context.Context, filter model.ClientFilter) ([]model.ClientSummary, error)
	GetClient(ctx context.Context, userID, id string) (*model.ClientDetail, error)
	UpdateClient(ctx context.Context, client *model.Client) error
	DeleteClient(ctx context.Context, userID, id string) error
	ClientExists(ctx context.Context, userID, id string) (bool, error)
}

// InvoiceStore persists invoices with their items.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, userID, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *model.Invoice) error
	DeleteInvoice(ctx context.Context, userID, id string) error
	InvoiceNumberExists(ctx context.Context, number, excludeID string) (bool, error)
}

// InvoiceClientStore is what the invoice service needs: invoices plus the
// ownership check on the referenced client.
type InvoiceClientStore interface {
	InvoiceStore
	ClientExists(ctx context.Context, userID, id string) (bool, error)
}

// DashboardStore answers the aggregate queries behind the dashboard.
type DashboardStore interface {
	CountClients(ctx context.Context, userID string) (int64, error)
	CountInvoices(ctx context.Context, userID string) (int64, error)
	PaidRevenue(ctx context.Context, userID string) (float64, error)
	CountInvoicesByStatus(ctx context.Context, userID string) (map[model.InvoiceStatus]int64, error)
	RecentInvoices(ctx context.Context, userID string, limit int) ([]model.Invoice, error)
}
