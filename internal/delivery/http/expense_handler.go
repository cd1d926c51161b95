package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/atlasrent/backend/internal/usecase/expense"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ExpenseService определяет интерфейс для сервиса расходов
type ExpenseService interface {
	CreateExpense(ctx context.Context, req *expense.ExpenseRequest) (*domain.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, req *expense.ExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]*domain.Expense, int, error)
	Total(ctx context.Context, from, to *domain.DateTime, carID *uuid.UUID) (float64, error)
}

// ExpenseHandler обрабатывает запросы, связанные с расходами
type ExpenseHandler struct {
	expenseService ExpenseService
	logger         logger.Logger
}

// NewExpenseHandler создает новый handler
func NewExpenseHandler(expenseService ExpenseService, logger logger.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// CreateExpense записывает расход
// POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expense.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exp, err := h.expenseService.CreateExpense(r.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrInvalidExpenseData:
			respondError(w, http.StatusBadRequest, "Invalid expense data")
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		default:
			h.logger.Error("Failed to create expense", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create expense")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    exp,
	})
}

// ListExpenses возвращает страницу расходов
// GET /api/v1/expenses?limit=&offset=&year=&month=&car_id=
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := repository.ExpenseFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)
	if year != 0 && month >= 1 && month <= 12 {
		from, to := expense.MonthRange(year, time.Month(month))
		filter.From = &from
		filter.To = &to
	}

	if raw := r.URL.Query().Get("car_id"); raw != "" {
		carID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid car ID")
			return
		}
		filter.CarID = &carID
	}

	expenses, total, err := h.expenseService.ListExpenses(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list expenses", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    expenses,
		"total":   total,
	})
}

// GetTotal возвращает сумму расходов, опционально за месяц и по автомобилю
// GET /api/v1/expenses/total?year=&month=&car_id=
func (h *ExpenseHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	var from, to *domain.DateTime
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)
	if year != 0 && month >= 1 && month <= 12 {
		f, t := expense.MonthRange(year, time.Month(month))
		from, to = &f, &t
	}

	var carID *uuid.UUID
	if raw := r.URL.Query().Get("car_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid car ID")
			return
		}
		carID = &id
	}

	total, err := h.expenseService.Total(r.Context(), from, to, carID)
	if err != nil {
		h.logger.Error("Failed to get expenses total", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get expenses total")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]float64{"total": total},
	})
}

// GetExpense возвращает расход по ID
// GET /api/v1/expenses/{id}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	exp, err := h.expenseService.GetExpense(r.Context(), id)
	if err != nil {
		if err == domain.ErrExpenseNotFound {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		h.logger.Error("Failed to get expense", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get expense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    exp,
	})
}

// UpdateExpense полностью обновляет расход
// PUT /api/v1/expenses/{id}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var req expense.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exp, err := h.expenseService.UpdateExpense(r.Context(), id, &req)
	if err != nil {
		switch err {
		case domain.ErrExpenseNotFound:
			respondError(w, http.StatusNotFound, "Expense not found")
		case domain.ErrInvalidExpenseData:
			respondError(w, http.StatusBadRequest, "Invalid expense data")
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		default:
			h.logger.Error("Failed to update expense", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update expense")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    exp,
	})
}

// DeleteExpense удаляет расход
// DELETE /api/v1/expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), id); err != nil {
		if err == domain.ErrExpenseNotFound {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		h.logger.Error("Failed to delete expense", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
