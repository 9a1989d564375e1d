package dto

import "github.com/facturafacil/facturafacil/internal/model"

// DashboardResponse summarizes a user's billing activity.
type DashboardResponse struct {
	ClientCount    int64                         `json:"client_count"`
	InvoiceCount   int64                         `json:"invoice_count"`
	Revenue        float64                       `json:"revenue"`
	StatusCounts   map[model.InvoiceStatus]int64 `json:"status_counts"`
	RecentInvoices []InvoiceResponse             `json:"recent_invoices"`
}

// ToDashboardResponse converts a DashboardSummary.
func ToDashboardResponse(s *model.DashboardSummary) DashboardResponse {
	recent := make([]InvoiceResponse, len(s.RecentInvoices))
	for i := range s.RecentInvoices {
		recent[i] = ToInvoiceResponse(&s.RecentInvoices[i])
	}
	return DashboardResponse{
		ClientCount:    s.ClientCount,
		InvoiceCount:   s.InvoiceCount,
		Revenue:        s.Revenue,
		StatusCounts:   s.StatusCounts,
		RecentInvoices: recent,
	}
}
