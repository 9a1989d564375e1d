package model

import "time"

// Client is a customer record owned by a user.
type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientSummary is a list row: the client plus how many invoices reference it.
type ClientSummary struct {
	Client
	InvoiceCount int64 `json:"invoice_count"`
}

// ClientDetail is a client with its invoices, newest date first.
type ClientDetail struct {
	Client
	Invoices []Invoice `json:"invoices"`
}

// ClientFilter narrows a client listing.
type ClientFilter struct {
	UserID string
	Search string // case-insensitive match on name, email or company
}
