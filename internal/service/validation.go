package service

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/facturafacil/facturafacil/internal/billing"
	"github.com/facturafacil/facturafacil/internal/model"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	minItemQuantity   = 0.01
	maxItemQuantity   = 1e9
	maxItemUnitPrice  = 1e12
	maxTaxRate        = 100
	dateOnlyLayout    = "2006-01-02"
)

func validateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLength {
		return invalid("name", fmt.Sprintf("name must be at least %d characters", minNameLength))
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return invalid("email", "invalid email")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// normalizeEmail trims and lowercases an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateOnlyLayout, raw)
}

func validateClientInput(in *ClientInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Company = strings.TrimSpace(in.Company)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if err := validateName(in.Name); err != nil {
		return err
	}
	return validateEmail(in.Email)
}

// parsedInvoice is an InvoiceInput that passed validation.
type parsedInvoice struct {
	date    time.Time
	dueDate *time.Time
	status  model.InvoiceStatus
	totals  billing.Breakdown
}

func validateInvoiceInput(in *InvoiceInput) (*parsedInvoice, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)

	if in.ClientID == "" {
		return nil, invalid("client_id", "client is required")
	}
	if in.InvoiceNumber == "" {
		return nil, invalid("invoice_number", "invoice number is required")
	}

	if strings.TrimSpace(in.Date) == "" {
		return nil, invalid("date", "date is required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, invalid("date", "date must be YYYY-MM-DD or RFC 3339")
	}

	var dueDate *time.Time
	if strings.TrimSpace(in.DueDate) != "" {
		d, err := parseDate(in.DueDate)
		if err != nil {
			return nil, invalid("due_date", "due date must be YYYY-MM-DD or RFC 3339")
		}
		dueDate = &d
	}

	status := model.InvoiceStatusPending
	if in.Status != "" {
		s, ok := model.ParseInvoiceStatus(in.Status)
		if !ok {
			return nil, invalid("status", "status must be one of PAID, PENDING, OVERDUE, CANCELLED")
		}
		status = s
	}

	if !(in.TaxRate >= 0 && in.TaxRate <= maxTaxRate) {
		return nil, invalid("tax_rate", "tax rate must be between 0 and 100")
	}

	if len(in.Items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	for i := range in.Items {
		item := &in.Items[i]
		item.Description = strings.TrimSpace(item.Description)
		field := fmt.Sprintf("items[%d]", i)
		if item.Description == "" {
			return nil, invalid(field+".description", "item description is required")
		}
		if !(item.Quantity >= minItemQuantity) {
			return nil, invalid(field+".quantity", "item quantity must be greater than 0")
		}
		if item.Quantity > maxItemQuantity {
			return nil, invalid(field+".quantity", "item quantity is too large")
		}
		if !(item.UnitPrice >= 0) {
			return nil, invalid(field+".unit_price", "item unit price must be zero or greater")
		}
		if item.UnitPrice > maxItemUnitPrice {
			return nil, invalid(field+".unit_price", "item unit price is too large")
		}
	}

	lines := make([]billing.Line, len(in.Items))
	for i, item := range in.Items {
		lines[i] = billing.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	totals := billing.Calculate(in.TaxRate, lines...)
	if err := validateTotals(totals); err != nil {
		return nil, err
	}

	return &parsedInvoice{date: date, dueDate: dueDate, status: status, totals: totals}, nil
}

// validateTotals rejects a breakdown that no longer fits a float64.
func validateTotals(b billing.Breakdown) error {
	values := append([]float64{b.Subtotal, b.TaxAmount, b.Total}, b.LineTotals...)
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return invalid("items", "invoice total is out of range")
		}
	}
	return nil
}
