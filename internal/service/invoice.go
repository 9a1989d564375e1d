package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/oklog/ulid/v2"
)

const (
	invoiceNumberPrefix   = "INV"
	invoiceNumberSpace    = 1000
	invoiceNumberAttempts = 10
)

// InvoiceService handles invoice business logic.
type InvoiceService struct {
	store   InvoiceClientStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(store InvoiceClientStore, recorder metrics.Recorder) *InvoiceService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvoiceService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
}

// InvoiceInput defines input for creating or updating an invoice.
// Dates are RFC 3339 or YYYY-MM-DD. Totals are always computed here.
type InvoiceInput struct {
	ClientID      string
	InvoiceNumber string
	Date          string
	DueDate       string
	Status        string
	TaxRate       float64
	Notes         string
	Items         []InvoiceItemInput
}

// InvoiceItemInput is one line of an InvoiceInput.
type InvoiceItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// ListInvoices returns the user's invoices. An empty status or clientID
// means no filter on that field.
func (s *InvoiceService) ListInvoices(ctx context.Context, userID, status, clientID string) ([]model.Invoice, error) {
	filter := model.InvoiceFilter{
		UserID:   userID,
		ClientID: strings.TrimSpace(clientID),
	}
	if status = strings.TrimSpace(status); status != "" {
		parsed, ok := model.ParseInvoiceStatus(status)
		if !ok {
			return nil, invalid("status", "status must be one of PAID, PENDING, OVERDUE, CANCELLED")
		}
		filter.Status = parsed
	}

	invoices, err := s.store.ListInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice returns an invoice with its client and items.
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id string) (*model.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// CreateInvoice validates the input, computes totals and stores the invoice
// with its items.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, input InvoiceInput) (*model.Invoice, error) {
	parsed, err := validateInvoiceInput(&input)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, input, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	inv := buildInvoice(ulid.Make().String(), userID, input, parsed)
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, translateWriteError("create", err)
	}

	s.metrics.IncInvoiceCreated()
	return s.GetInvoice(ctx, userID, inv.ID)
}

// UpdateInvoice replaces an invoice's fields and its full item list.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id string, input InvoiceInput) (*model.Invoice, error) {
	parsed, err := validateInvoiceInput(&input)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetInvoice(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, input, id); err != nil {
		return nil, err
	}

	inv := buildInvoice(id, userID, input, parsed)
	inv.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, translateWriteError("update", err)
	}

	s.metrics.IncInvoiceUpdated()
	return s.GetInvoice(ctx, userID, id)
}

// DeleteInvoice removes an invoice and its items.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteInvoice(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.metrics.IncInvoiceDeleted()
	return nil
}

// NextInvoiceNumber suggests an unused number of the form INV-<year>-<NNN>.
func (s *InvoiceService) NextInvoiceNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	for i := 0; i < invoiceNumberAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(invoiceNumberSpace))
		if err != nil {
			return "", fmt.Errorf("failed to generate invoice number: %w", err)
		}
		number := fmt.Sprintf("%s-%d-%03d", invoiceNumberPrefix, year, n.Int64())

		exists, err := s.store.InvoiceNumberExists(ctx, number, "")
		if err != nil {
			return "", fmt.Errorf("failed to check invoice number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate invoice number: %d attempts exhausted", invoiceNumberAttempts)
}

// checkReferences verifies the client belongs to the user and that the
// invoice number is free. excludeID skips the invoice being updated.
func (s *InvoiceService) checkReferences(ctx context.Context, userID string, input InvoiceInput, excludeID string) error {
	ok, err := s.store.ClientExists(ctx, userID, input.ClientID)
	if err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if !ok {
		return ErrInvalidClient
	}

	taken, err := s.store.InvoiceNumberExists(ctx, input.InvoiceNumber, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check invoice number: %w", err)
	}
	if taken {
		return ErrInvoiceNumberTaken
	}
	return nil
}

func buildInvoice(id, userID string, input InvoiceInput, parsed *parsedInvoice) *model.Invoice {
	breakdown := parsed.totals

	items := make([]model.InvoiceItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = model.InvoiceItem{
			ID:          ulid.Make().String(),
			InvoiceID:   id,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       breakdown.LineTotals[i],
			Position:    i,
		}
	}

	return &model.Invoice{
		ID:            id,
		UserID:        userID,
		ClientID:      input.ClientID,
		InvoiceNumber: input.InvoiceNumber,
		Date:          parsed.date,
		DueDate:       parsed.dueDate,
		Status:        parsed.status,
		Subtotal:      breakdown.Subtotal,
		TaxRate:       input.TaxRate,
		TaxAmount:     breakdown.TaxAmount,
		Total:         breakdown.Total,
		Notes:         strings.TrimSpace(input.Notes),
		Items:         items,
	}
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvoiceNumberExists):
		return ErrInvoiceNumberTaken
	case errors.Is(err, repository.ErrClientNotFound):
		return ErrInvalidClient
	case errors.Is(err, repository.ErrInvoiceNotFound):
		return ErrInvoiceNotFound
	}
	return fmt.Errorf("failed to %s invoice: %w", op, err)
}
