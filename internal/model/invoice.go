package model

import "time"

// InvoiceStatus is the closed set of invoice states.
// Any state may be set to any other; there is no transition graph.
type InvoiceStatus string

const (
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceStatuses lists every state in display order.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPaid,
	InvoiceStatusPending,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// Badge variants used by clients to color a status.
const (
	VariantSuccess = "success"
	VariantWarning = "warning"
	VariantDanger  = "danger"
	VariantDefault = "default"
)

// StatusInfo is the display metadata for a status.
type StatusInfo struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

// IsValid reports whether s is one of the four known states.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPending, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Info returns the label and variant for s. Unknown values map to
// Unknown/default rather than failing.
func (s InvoiceStatus) Info() StatusInfo {
	switch s {
	case InvoiceStatusPaid:
		return StatusInfo{Label: "Paid", Variant: VariantSuccess}
	case InvoiceStatusPending:
		return StatusInfo{Label: "Pending", Variant: VariantWarning}
	case InvoiceStatusOverdue:
		return StatusInfo{Label: "Overdue", Variant: VariantDanger}
	case InvoiceStatusCancelled:
		return StatusInfo{Label: "Cancelled", Variant: VariantDefault}
	}
	return StatusInfo{Label: "Unknown", Variant: VariantDefault}
}

// ParseInvoiceStatus converts a raw value into a status.
func ParseInvoiceStatus(raw string) (InvoiceStatus, bool) {
	s := InvoiceStatus(raw)
	return s, s.IsValid()
}

// Invoice is a billing document for one client.
// Total == Subtotal + TaxAmount and TaxAmount == Subtotal * TaxRate / 100.
type Invoice struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	ClientID      string        `json:"client_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Date          time.Time     `json:"date"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	Status        InvoiceStatus `json:"status"`
	Subtotal      float64       `json:"subtotal"`
	TaxRate       float64       `json:"tax_rate"`
	TaxAmount     float64       `json:"tax_amount"`
	Total         float64       `json:"total"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations, populated by reads that join them.
	Client *Client       `json:"client,omitempty"`
	Items  []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one line of an invoice. Total == Quantity * UnitPrice.
type InvoiceItem struct {
	ID          string  `json:"id"`
	InvoiceID   string  `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Position    int     `json:"position"`
}

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	UserID   string
	Status   InvoiceStatus // empty means any
	ClientID string        // empty means any
}
