package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/usecase/fleet"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// FleetService определяет интерфейс для сервиса автопарка
type FleetService interface {
	CreateCar(ctx context.Context, req *fleet.CarRequest) (*domain.Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (*domain.Car, error)
	UpdateCar(ctx context.Context, id uuid.UUID, req *fleet.CarRequest) (*domain.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
	ListCars(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error)
	GetStats(ctx context.Context) (*domain.CarStats, error)
}

// CarStatusService определяет интерфейс для ручного управления статусом
type CarStatusService interface {
	OverrideCarStatus(ctx context.Context, carID uuid.UUID, status domain.CarStatus) (*domain.Car, error)
}

// CarHandler обрабатывает запросы, связанные с автопарком
type CarHandler struct {
	fleetService  FleetService
	statusService CarStatusService
	logger        logger.Logger
}

// NewCarHandler создает новый handler
func NewCarHandler(fleetService FleetService, statusService CarStatusService, logger logger.Logger) *CarHandler {
	return &CarHandler{
		fleetService:  fleetService,
		statusService: statusService,
		logger:        logger,
	}
}

// CreateCar добавляет автомобиль в парк
// POST /api/v1/cars
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req fleet.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.fleetService.CreateCar(r.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrInvalidCarData, domain.ErrInvalidPlate:
			respondError(w, http.StatusBadRequest, "Invalid car data")
		default:
			h.logger.Error("Failed to create car", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create car")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// ListCars возвращает страницу автомобилей
// GET /api/v1/cars?limit=&offset=&search=
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	search := r.URL.Query().Get("search")

	cars, total, err := h.fleetService.ListCars(r.Context(), limit, offset, search)
	if err != nil {
		h.logger.Error("Failed to list cars", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list cars")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cars,
		"total":   total,
	})
}

// GetCar возвращает автомобиль по ID
// GET /api/v1/cars/{id}
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	car, err := h.fleetService.GetCar(r.Context(), id)
	if err != nil {
		if err == domain.ErrCarNotFound {
			respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.logger.Error("Failed to get car", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// UpdateCar обновляет модель и номер автомобиля
// PUT /api/v1/cars/{id}
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var req fleet.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.fleetService.UpdateCar(r.Context(), id, &req)
	if err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrInvalidCarData, domain.ErrInvalidPlate:
			respondError(w, http.StatusBadRequest, "Invalid car data")
		default:
			h.logger.Error("Failed to update car", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update car")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// UpdateCarStatus вручную меняет статус автомобиля
// PATCH /api/v1/cars/{id}/status
func (h *CarHandler) UpdateCarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var req struct {
		Status domain.CarStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.statusService.OverrideCarStatus(r.Context(), id, req.Status)
	if err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrInvalidCarStatus:
			respondError(w, http.StatusBadRequest, "Invalid car status")
		case domain.ErrCarHasRentals:
			respondError(w, http.StatusConflict, "Car has active rentals and cannot be released manually")
		default:
			h.logger.Error("Failed to update car status", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update car status")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// DeleteCar удаляет автомобиль
// DELETE /api/v1/cars/{id}
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	if err := h.fleetService.DeleteCar(r.Context(), id); err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrCarHasRentals:
			respondError(w, http.StatusConflict, "Car has active rentals and cannot be deleted")
		default:
			h.logger.Error("Failed to delete car", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to delete car")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// GetStats возвращает сводку автопарка
// GET /api/v1/cars/stats
func (h *CarHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fleetService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to get fleet stats", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get fleet stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}
