package dto

import (
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
)

// InvoiceRequest represents the request body for creating or replacing an
// invoice. Totals are not accepted; they are computed from the items.
type InvoiceRequest struct {
	ClientID      string               `json:"client_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Date          string               `json:"date"`
	DueDate       string               `json:"due_date,omitempty"`
	Status        string               `json:"status,omitempty"`
	TaxRate       float64              `json:"tax_rate"`
	Notes         string               `json:"notes,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest is one line of an InvoiceRequest.
type InvoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceResponse represents an invoice in API responses.
// Client and Items are present when the invoice was loaded with relations.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	ClientID      string                `json:"client_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Date          time.Time             `json:"date"`
	DueDate       *time.Time            `json:"due_date"`
	Status        model.InvoiceStatus   `json:"status"`
	StatusInfo    model.StatusInfo      `json:"status_info"`
	Subtotal      float64               `json:"subtotal"`
	TaxRate       float64               `json:"tax_rate"`
	TaxAmount     float64               `json:"tax_amount"`
	Total         float64               `json:"total"`
	Notes         string                `json:"notes"`
	Client        *ClientResponse       `json:"client,omitempty"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceItemResponse represents one line item.
type InvoiceItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// InvoiceListResponse wraps a list of invoices.
type InvoiceListResponse struct {
	Data []InvoiceResponse `json:"data"`
}

// NextNumberResponse carries a suggested unused invoice number.
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// StatusResponse describes one invoice status.
type StatusResponse struct {
	Value   model.InvoiceStatus `json:"value"`
	Label   string              `json:"label"`
	Variant string              `json:"variant"`
}

// ToInvoiceResponse converts an Invoice model to InvoiceResponse DTO.
func ToInvoiceResponse(inv *model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		StatusInfo:    inv.Status.Info(),
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.Client != nil {
		c := ToClientResponse(inv.Client)
		resp.Client = &c
	}
	if len(inv.Items) > 0 {
		resp.Items = make([]InvoiceItemResponse, len(inv.Items))
		for i, item := range inv.Items {
			resp.Items[i] = InvoiceItemResponse{
				ID:          item.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Total:       item.Total,
			}
		}
	}
	return resp
}

// ToInvoiceListResponse converts a slice of invoices.
func ToInvoiceListResponse(invoices []model.Invoice) InvoiceListResponse {
	data := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		data[i] = ToInvoiceResponse(&invoices[i])
	}
	return InvoiceListResponse{Data: data}
}

// ToStatusResponses lists every status with its display metadata.
func ToStatusResponses() []StatusResponse {
	out := make([]StatusResponse, len(model.InvoiceStatuses))
	for i, s := range model.InvoiceStatuses {
		info := s.Info()
		out[i] = StatusResponse{Value: s, Label: info.Label, Variant: info.Variant}
	}
	return out
}
