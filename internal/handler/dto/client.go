package dto

import (
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
)

// ClientRequest represents the request body for creating or replacing a client.
type ClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Company      string    `json:"company,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	InvoiceCount *int64    `json:"invoice_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClientDetailResponse is a client with its invoices, newest date first.
type ClientDetailResponse struct {
	ClientResponse
	Invoices []InvoiceResponse `json:"invoices"`
}

// ClientListResponse wraps a list of clients.
type ClientListResponse struct {
	Data []ClientResponse `json:"data"`
}

// ToClientResponse converts a Client model to ClientResponse DTO.
func ToClientResponse(c *model.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToClientListResponse converts client summaries, keeping their invoice counts.
func ToClientListResponse(clients []model.ClientSummary) ClientListResponse {
	data := make([]ClientResponse, len(clients))
	for i := range clients {
		data[i] = ToClientResponse(&clients[i].Client)
		count := clients[i].InvoiceCount
		data[i].InvoiceCount = &count
	}
	return ClientListResponse{Data: data}
}

// ToClientDetailResponse converts a client with its invoices.
func ToClientDetailResponse(d *model.ClientDetail) ClientDetailResponse {
	invoices := make([]InvoiceResponse, len(d.Invoices))
	for i := range d.Invoices {
		invoices[i] = ToInvoiceResponse(&d.Invoices[i])
	}
	count := int64(len(d.Invoices))
	resp := ClientDetailResponse{
		ClientResponse: ToClientResponse(&d.Client),
		Invoices:       invoices,
	}
	resp.InvoiceCount = &count
	return resp
}
