package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/usecase/clients"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ClientService определяет интерфейс для сервиса клиентов
type ClientService interface {
	CreateClient(ctx context.Context, req *clients.CreateClientRequest) (*domain.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, update *domain.ClientUpdate) (*domain.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context, limit, offset int, search string) ([]*domain.Client, int, error)
}

// ClientHandler обрабатывает запросы, связанные с клиентами
type ClientHandler struct {
	clientService ClientService
	logger        logger.Logger
}

// NewClientHandler создает новый handler
func NewClientHandler(clientService ClientService, logger logger.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// CreateClient регистрирует нового клиента
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clients.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.clientService.CreateClient(r.Context(), &req)
	if err != nil {
		if err == domain.ErrInvalidClientData {
			respondError(w, http.StatusBadRequest, "Invalid client data")
			return
		}
		h.logger.Error("Failed to create client", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    client,
	})
}

// ListClients возвращает страницу клиентов
// GET /api/v1/clients?limit=&offset=&search=
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	search := r.URL.Query().Get("search")

	list, total, err := h.clientService.ListClients(r.Context(), limit, offset, search)
	if err != nil {
		h.logger.Error("Failed to list clients", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    list,
		"total":   total,
	})
}

// GetClient возвращает клиента по ID
// GET /api/v1/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, err := h.clientService.GetClient(r.Context(), id)
	if err != nil {
		if err == domain.ErrClientNotFound {
			respondError(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("Failed to get client", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get client")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    client,
	})
}

// UpdateClient обновляет данные клиента
// PUT /api/v1/clients/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var update domain.ClientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.clientService.UpdateClient(r.Context(), id, &update)
	if err != nil {
		switch err {
		case domain.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "Client not found")
		case domain.ErrInvalidClientData:
			respondError(w, http.StatusBadRequest, "Invalid client data")
		default:
			h.logger.Error("Failed to update client", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update client")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    client,
	})
}

// DeleteClient удаляет клиента
// DELETE /api/v1/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	if err := h.clientService.DeleteClient(r.Context(), id); err != nil {
		switch err {
		case domain.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "Client not found")
		case domain.ErrClientHasRentals:
			respondError(w, http.StatusConflict, "Client has active rentals and cannot be deleted")
		default:
			h.logger.Error("Failed to delete client", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to delete client")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
