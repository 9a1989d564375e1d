package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/oklog/ulid/v2"
)

// ClientService handles client business logic.
type ClientService struct {
	store   ClientStore
	metrics metrics.Recorder
}

// NewClientService creates a new ClientService.
func NewClientService(store ClientStore, recorder metrics.Recorder) *ClientService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ClientService{store: store, metrics: recorder}
}

// ClientInput defines input for creating or updating a client.
type ClientInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Address string
}

// ListClients returns the user's clients, optionally filtered by search.
func (s *ClientService) ListClients(ctx context.Context, userID, search string) ([]model.ClientSummary, error) {
	clients, err := s.store.ListClients(ctx, model.ClientFilter{
		UserID: userID,
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// GetClient returns a client with its invoices.
func (s *ClientService) GetClient(ctx context.Context, userID, id string) (*model.ClientDetail, error) {
	client, err := s.store.GetClient(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// CreateClient validates and stores a new client for the user.
func (s *ClientService) CreateClient(ctx context.Context, userID string, input ClientInput) (*model.Client, error) {
	if err := validateClientInput(&input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := &model.Client{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      input.Name,
		Email:     input.Email,
		Company:   input.Company,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.metrics.IncClientCreated()
	return client, nil
}

// UpdateClient replaces the editable fields of a client.
func (s *ClientService) UpdateClient(ctx context.Context, userID, id string, input ClientInput) (*model.Client, error) {
	if err := validateClientInput(&input); err != nil {
		return nil, err
	}

	client := &model.Client{
		ID:        id,
		UserID:    userID,
		Name:      input.Name,
		Email:     input.Email,
		Company:   input.Company,
		Phone:     input.Phone,
		Address:   input.Address,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.metrics.IncClientUpdated()
	return client, nil
}

// DeleteClient removes a client that has no invoices.
func (s *ClientService) DeleteClient(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteClient(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrClientNotFound):
			return ErrClientNotFound
		case errors.Is(err, repository.ErrClientHasInvoices):
			return ErrClientHasInvoices
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.metrics.IncClientDeleted()
	return nil
}
