package model

// DashboardSummary aggregates a user's billing activity.
type DashboardSummary struct {
	ClientCount    int64                   `json:"client_count"`
	InvoiceCount   int64                   `json:"invoice_count"`
	Revenue        float64                 `json:"revenue"` // sum of PAID totals
	StatusCounts   map[InvoiceStatus]int64 `json:"status_counts"`
	RecentInvoices []Invoice               `json:"recent_invoices"`
}
