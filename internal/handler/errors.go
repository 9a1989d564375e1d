package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/facturafacil/facturafacil/internal/handler/dto"
	"github.com/facturafacil/facturafacil/internal/middleware"
	"github.com/facturafacil/facturafacil/internal/service"
)

// handleServiceError maps service errors to HTTP responses. Anything not
// recognised is logged with the request id and reported as INTERNAL_ERROR.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: verr.Message,
			Code:  "VALIDATION_FAILED",
			Field: verr.Field,
		})
	case errors.Is(err, service.ErrInvalidClient):
		writeError(w, http.StatusBadRequest, "INVALID_CLIENT", "Client does not exist")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found")
	case errors.Is(err, service.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found")
	case errors.Is(err, service.ErrInvoiceNumberTaken):
		writeError(w, http.StatusConflict, "INVOICE_NUMBER_TAKEN", "Invoice number already exists")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrClientHasInvoices):
		writeError(w, http.StatusConflict, "CLIENT_HAS_INVOICES", "Client has invoices and cannot be deleted")
	default:
		logger.Error("internal_error",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("endpoint", r.Method+" "+r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
