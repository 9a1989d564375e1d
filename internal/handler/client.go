package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facturafacil/facturafacil/internal/auth"
	"github.com/facturafacil/facturafacil/internal/handler/dto"
	"github.com/facturafacil/facturafacil/internal/service"
)

// ClientHandler handles HTTP requests for client operations.
type ClientHandler struct {
	svc    *service.ClientService
	logger *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(svc *service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context(), auth.UserIDFromContext(r.Context()), r.URL.Query().Get("search"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToClientListResponse(clients))
}

// Create handles POST /api/v1/clients.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	client, err := h.svc.CreateClient(r.Context(), auth.UserIDFromContext(r.Context()), toClientInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("client_created", "client_id", client.ID, "user_id", client.UserID)
	writeJSON(w, http.StatusCreated, dto.ToClientResponse(client))
}

// Get handles GET /api/v1/clients/{id}.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetClient(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToClientDetailResponse(detail))
}

// Update handles PUT /api/v1/clients/{id}.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	client, err := h.svc.UpdateClient(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), toClientInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("client_updated", "client_id", client.ID)
	writeJSON(w, http.StatusOK, dto.ToClientResponse(client))
}

// Delete handles DELETE /api/v1/clients/{id}.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteClient(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("client_deleted", "client_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func toClientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Address: req.Address,
	}
}
