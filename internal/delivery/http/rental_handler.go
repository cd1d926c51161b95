package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/atlasrent/backend/internal/usecase/scheduling"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SchedulingService определяет интерфейс для сервиса планирования аренд
type SchedulingService interface {
	CreateRental(ctx context.Context, req *scheduling.CreateRentalRequest) (*domain.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*domain.RentalDetail, error)
	ListRentals(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, int, error)
	UpdateRental(ctx context.Context, id uuid.UUID, req *scheduling.CreateRentalRequest) (*domain.RentalDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) (*domain.RentalDetail, error)
	DeleteRental(ctx context.Context, id uuid.UUID) error
}

// RentalHandler обрабатывает запросы, связанные с арендами
type RentalHandler struct {
	schedulingService SchedulingService
	logger            logger.Logger
}

// NewRentalHandler создает новый handler
func NewRentalHandler(schedulingService SchedulingService, logger logger.Logger) *RentalHandler {
	return &RentalHandler{
		schedulingService: schedulingService,
		logger:            logger,
	}
}

// CreateRental бронирует автомобиль на период
// POST /api/v1/rentals
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req scheduling.CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rental, err := h.schedulingService.CreateRental(r.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "Client not found")
		case domain.ErrInvalidRentalData, domain.ErrInvalidDateRange:
			respondError(w, http.StatusBadRequest, "Invalid rental data")
		case domain.ErrSchedulingConflict:
			respondError(w, http.StatusConflict, "Rental dates overlap an existing booking for this car")
		default:
			h.logger.Error("Failed to create rental", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create rental")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    rental,
	})
}

// ListRentals возвращает страницу аренд
// GET /api/v1/rentals?limit=&offset=&search=&from=&to=
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	filter := repository.RentalFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := domain.ParseDateTime(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' date")
			return
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := domain.ParseDateTime(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' date")
			return
		}
		filter.To = &to
	}

	rentals, total, err := h.schedulingService.ListRentals(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list rentals", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list rentals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rentals,
		"total":   total,
	})
}

// GetRental возвращает аренду с данными автомобиля и клиента
// GET /api/v1/rentals/{id}
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	rental, err := h.schedulingService.GetRental(r.Context(), id)
	if err != nil {
		if err == domain.ErrRentalNotFound {
			respondError(w, http.StatusNotFound, "Rental not found")
			return
		}
		h.logger.Error("Failed to get rental", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get rental")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rental,
	})
}

// UpdateRental изменяет бронь: автомобиль, клиента, даты, цену
// PUT /api/v1/rentals/{id}
func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var req scheduling.CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rental, err := h.schedulingService.UpdateRental(r.Context(), id, &req)
	if err != nil {
		switch err {
		case domain.ErrRentalNotFound:
			respondError(w, http.StatusNotFound, "Rental not found")
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrClientNotFound:
			respondError(w, http.StatusNotFound, "Client not found")
		case domain.ErrInvalidRentalData, domain.ErrInvalidDateRange:
			respondError(w, http.StatusBadRequest, "Invalid rental data")
		case domain.ErrSchedulingConflict:
			respondError(w, http.StatusConflict, "Rental dates overlap an existing booking for this car")
		default:
			h.logger.Error("Failed to update rental", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update rental")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rental,
	})
}

// UpdateRentalStatus переводит аренду в новый статус
// PATCH /api/v1/rentals/{id}/status
func (h *RentalHandler) UpdateRentalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var req struct {
		Status domain.RentalStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rental, err := h.schedulingService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch err {
		case domain.ErrRentalNotFound:
			respondError(w, http.StatusNotFound, "Rental not found")
		case domain.ErrInvalidRentalData:
			respondError(w, http.StatusBadRequest, "Invalid rental status")
		case domain.ErrInvalidStatusTransition:
			respondError(w, http.StatusConflict, "Rental status transition is not allowed")
		default:
			h.logger.Error("Failed to update rental status", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update rental status")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rental,
	})
}

// DeleteRental удаляет аренду
// DELETE /api/v1/rentals/{id}
func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	if err := h.schedulingService.DeleteRental(r.Context(), id); err != nil {
		if err == domain.ErrRentalNotFound {
			respondError(w, http.StatusNotFound, "Rental not found")
			return
		}
		h.logger.Error("Failed to delete rental", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to delete rental")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
