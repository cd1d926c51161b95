package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
)

// ExpenseRequest - запрос на создание или обновление расхода
type ExpenseRequest struct {
	Category    string          `json:"category" validate:"required"`
	Amount      float64         `json:"amount" validate:"gt=0"`
	ExpenseDate domain.DateTime `json:"expense_date" validate:"required"`
	CarID       *uuid.UUID      `json:"car_id,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Service содержит бизнес-логику учета расходов
type Service struct {
	expenseRepo repository.ExpenseRepository
	carRepo     repository.CarRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр ExpenseService
func NewService(
	expenseRepo repository.ExpenseRepository,
	carRepo repository.CarRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		expenseRepo: expenseRepo,
		carRepo:     carRepo,
		logger:      logger,
	}
}

// CreateExpense записывает расход, опционально привязанный к автомобилю
func (s *Service) CreateExpense(ctx context.Context, req *ExpenseRequest) (*domain.Expense, error) {
	expense := &domain.Expense{
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		CarID:       req.CarID,
		Description: req.Description,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if req.CarID != nil {
		if _, err := s.carRepo.GetByID(ctx, *req.CarID); err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created", map[string]interface{}{
		"expense_id": expense.ID,
		"category":   expense.Category,
		"amount":     expense.Amount,
	})

	return expense, nil
}

// GetExpense возвращает расход по ID
func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// UpdateExpense полностью обновляет расход
func (s *Service) UpdateExpense(ctx context.Context, id uuid.UUID, req *ExpenseRequest) (*domain.Expense, error) {
	expense := &domain.Expense{
		ID:          id,
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		CarID:       req.CarID,
		Description: req.Description,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if req.CarID != nil {
		if _, err := s.carRepo.GetByID(ctx, *req.CarID); err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("Expense updated", map[string]interface{}{
		"expense_id": id,
	})

	return s.expenseRepo.GetByID(ctx, id)
}

// DeleteExpense удаляет расход
func (s *Service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Expense deleted", map[string]interface{}{
		"expense_id": id,
	})

	return nil
}

// ListExpenses возвращает страницу расходов по фильтру
func (s *Service) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]*domain.Expense, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.expenseRepo.List(ctx, filter)
}

// Total возвращает сумму расходов в диапазоне, опционально по автомобилю
func (s *Service) Total(ctx context.Context, from, to *domain.DateTime, carID *uuid.UUID) (float64, error) {
	return s.expenseRepo.Total(ctx, from, to, carID)
}

// MonthRange превращает год и месяц в полуоткрытый диапазон
// [первое число месяца, первое число следующего месяца)
func MonthRange(year int, month time.Month) (domain.DateTime, domain.DateTime) {
	from := domain.NewDateTime(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	to := domain.NewDateTime(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))
	return from, to
}
