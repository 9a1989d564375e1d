// Package memory is an in-process implementation of the repository
// operations. It enforces the same uniqueness, ownership and referential
// rules as the PostgreSQL schema and returns the same sentinel errors, so
// services and handlers can be tested without a database.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository"
)

// Store holds users, clients and invoices in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	clients  map[string]model.Client
	invoices map[string]model.Invoice
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		clients:  make(map[string]model.Client),
		invoices: make(map[string]model.Invoice),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *Store) UpdateUserPasswordHash(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func (s *Store) CreateClient(ctx context.Context, client *model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[client.ID] = *client
	return nil
}

func (s *Store) ListClients(ctx context.Context, filter model.ClientFilter) ([]model.ClientSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(filter.Search)
	result := make([]model.ClientSummary, 0)
	for _, c := range s.clients {
		if c.UserID != filter.UserID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Email), term) &&
			!strings.Contains(strings.ToLower(c.Company), term) {
			continue
		}
		result = append(result, model.ClientSummary{Client: c, InvoiceCount: s.countInvoicesLocked(c.ID)})
	}

	slices.SortFunc(result, func(a, b model.ClientSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (s *Store) GetClient(ctx context.Context, userID, id string) (*model.ClientDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrClientNotFound
	}

	detail := &model.ClientDetail{Client: c, Invoices: make([]model.Invoice, 0)}
	for _, inv := range s.invoices {
		if inv.ClientID == id && inv.UserID == userID {
			inv.Items = nil
			inv.Client = nil
			detail.Invoices = append(detail.Invoices, inv)
		}
	}
	sortByDateDesc(detail.Invoices)
	return detail, nil
}

func (s *Store) UpdateClient(ctx context.Context, client *model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.clients[client.ID]
	if !ok || existing.UserID != client.UserID {
		return repository.ErrClientNotFound
	}
	client.CreatedAt = existing.CreatedAt
	s.clients[client.ID] = *client
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok || c.UserID != userID {
		return repository.ErrClientNotFound
	}
	if s.countInvoicesLocked(id) > 0 {
		return repository.ErrClientHasInvoices
	}
	delete(s.clients, id)
	return nil
}

func (s *Store) ClientExists(ctx context.Context, userID, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	return ok && c.UserID == userID, nil
}

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

func (s *Store) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.numberTakenLocked(inv.InvoiceNumber, "") {
		return repository.ErrInvoiceNumberExists
	}
	if _, ok := s.clients[inv.ClientID]; !ok {
		return repository.ErrClientNotFound
	}

	s.invoices[inv.ID] = storedCopy(inv)
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, userID, id string) (*model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, repository.ErrInvoiceNotFound
	}
	out := s.withRelationsLocked(inv)
	return &out, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && inv.ClientID != filter.ClientID {
			continue
		}
		result = append(result, s.withRelationsLocked(inv))
	}
	sortByDateDesc(result)
	return result, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.invoices[inv.ID]
	if !ok || existing.UserID != inv.UserID {
		return repository.ErrInvoiceNotFound
	}
	if s.numberTakenLocked(inv.InvoiceNumber, inv.ID) {
		return repository.ErrInvoiceNumberExists
	}
	if _, ok := s.clients[inv.ClientID]; !ok {
		return repository.ErrClientNotFound
	}

	inv.CreatedAt = existing.CreatedAt
	s.invoices[inv.ID] = storedCopy(inv)
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return repository.ErrInvoiceNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *Store) InvoiceNumberExists(ctx context.Context, number, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.numberTakenLocked(number, excludeID), nil
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func (s *Store) CountClients(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountInvoices(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) PaidRevenue(ctx context.Context, userID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	for _, inv := range s.invoices {
		if inv.UserID == userID && inv.Status == model.InvoiceStatusPaid {
			sum += inv.Total
		}
	}
	return sum, nil
}

func (s *Store) CountInvoicesByStatus(ctx context.Context, userID string) (map[model.InvoiceStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.InvoiceStatus]int64)
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			counts[inv.Status]++
		}
	}
	return counts, nil
}

func (s *Store) RecentInvoices(ctx context.Context, userID string, limit int) ([]model.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			out := s.withRelationsLocked(inv)
			out.Items = nil
			result = append(result, out)
		}
	}
	slices.SortFunc(result, func(a, b model.Invoice) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// helpers (callers hold s.mu)
// ---------------------------------------------------------------------------

func (s *Store) countInvoicesLocked(clientID string) int64 {
	var n int64
	for _, inv := range s.invoices {
		if inv.ClientID == clientID {
			n++
		}
	}
	return n
}

func (s *Store) numberTakenLocked(number, excludeID string) bool {
	for _, inv := range s.invoices {
		if inv.InvoiceNumber == number && inv.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *Store) withRelationsLocked(inv model.Invoice) model.Invoice {
	if c, ok := s.clients[inv.ClientID]; ok {
		inv.Client = &c
	}
	inv.Items = slices.Clone(inv.Items)
	return inv
}

// storedCopy detaches the stored invoice from the caller's slices and
// relations, and stamps item ownership and order.
func storedCopy(inv *model.Invoice) model.Invoice {
	out := *inv
	out.Client = nil
	out.Items = slices.Clone(inv.Items)
	for i := range out.Items {
		out.Items[i].InvoiceID = inv.ID
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}
	slices.SortStableFunc(out.Items, func(a, b model.InvoiceItem) int {
		return a.Position - b.Position
	})
	return out
}

func sortByDateDesc(invoices []model.Invoice) {
	slices.SortFunc(invoices, func(a, b model.Invoice) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}
