package handler

import (
	"bytes"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facturafacil/facturafacil/internal/auth"
	"github.com/facturafacil/facturafacil/internal/export"
	"github.com/facturafacil/facturafacil/internal/handler/dto"
	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice operations and exports.
type InvoiceHandler struct {
	svc     *service.InvoiceService
	pdf     *export.PDFRenderer
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc *service.InvoiceService, pdf *export.PDFRenderer, recorder metrics.Recorder, logger *slog.Logger) *InvoiceHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvoiceHandler{
		svc:     svc,
		pdf:     pdf,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// List handles GET /api/v1/invoices?status=&client_id=.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	invoices, err := h.svc.ListInvoices(r.Context(), auth.UserIDFromContext(r.Context()), query.Get("status"), query.Get("client_id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToInvoiceListResponse(invoices))
}

// Create handles POST /api/v1/invoices.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.InvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	inv, err := h.svc.CreateInvoice(r.Context(), auth.UserIDFromContext(r.Context()), toInvoiceInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("invoice_created",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"item_count", len(inv.Items),
	)
	writeJSON(w, http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// Get handles GET /api/v1/invoices/{id}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvoice(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Update handles PUT /api/v1/invoices/{id}. The item list is replaced whole.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.InvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	inv, err := h.svc.UpdateInvoice(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), toInvoiceInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("invoice_updated", "invoice_id", inv.ID, "status", inv.Status)
	writeJSON(w, http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Delete handles DELETE /api/v1/invoices/{id}.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteInvoice(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("invoice_deleted", "invoice_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// NextNumber handles GET /api/v1/invoices/next-number.
func (h *InvoiceHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.svc.NextInvoiceNumber(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NextNumberResponse{InvoiceNumber: number})
}

// Statuses handles GET /api/v1/invoice-statuses.
func (h *InvoiceHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToStatusResponses())
}

// ExportCSV handles GET /api/v1/invoices/export.csv with the list filters.
func (h *InvoiceHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	invoices, err := h.svc.ListInvoices(r.Context(), auth.UserIDFromContext(r.Context()), query.Get("status"), query.Get("client_id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInvoicesCSV(&buf, invoices); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.IncExport(metrics.ExportCSV)
	writeAttachment(w, "text/csv; charset=utf-8", export.CSVFilename(h.now()), buf.Bytes())
}

// PDF handles GET /api/v1/invoices/{id}/pdf.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetInvoice(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	data, err := h.pdf.Render(inv)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.IncExport(metrics.ExportPDF)
	writeAttachment(w, "application/pdf", export.PDFFilename(inv.InvoiceNumber), data)
}

// writeAttachment sends body as a download. Callers render the whole body
// first; once headers are out an error can no longer be reported as JSON.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func toInvoiceInput(req dto.InvoiceRequest) service.InvoiceInput {
	items := make([]service.InvoiceItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.InvoiceItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return service.InvoiceInput{
		ClientID:      req.ClientID,
		InvoiceNumber: req.InvoiceNumber,
		Date:          req.Date,
		DueDate:       req.DueDate,
		Status:        req.Status,
		TaxRate:       req.TaxRate,
		Notes:         req.Notes,
		Items:         items,
	}
}
