package report

import (
	"context"
	"fmt"
	"time"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/atlasrent/backend/internal/usecase/expense"
)

// SchedulingEngine - часть сервиса планирования, нужная отчетности
type SchedulingEngine interface {
	SweepExpired(ctx context.Context) (int, error)
	Notifications(ctx context.Context) ([]*domain.Notification, error)
}

// Dashboard - сводка для главного экрана
type Dashboard struct {
	Fleet         *domain.CarStats       `json:"fleet"`
	Revenue       float64                `json:"revenue"`
	Expenses      float64                `json:"expenses"`
	Profit        float64                `json:"profit"`
	Notifications []*domain.Notification `json:"notifications"`
}

// ProfitReport - доход, расход и прибыль за период
type ProfitReport struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// Service собирает отчетность по автопарку, арендам и расходам
type Service struct {
	carRepo     repository.CarRepository
	rentalRepo  repository.RentalRepository
	expenseRepo repository.ExpenseRepository
	scheduling  SchedulingEngine
	logger      logger.Logger
}

// NewService создает новый экземпляр ReportService
func NewService(
	carRepo repository.CarRepository,
	rentalRepo repository.RentalRepository,
	expenseRepo repository.ExpenseRepository,
	schedulingEngine SchedulingEngine,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:     carRepo,
		rentalRepo:  rentalRepo,
		expenseRepo: expenseRepo,
		scheduling:  schedulingEngine,
		logger:      logger,
	}
}

// GetDashboard собирает сводку главного экрана.
// Перед подсчетом закрываются просроченные аренды, поэтому сводка
// и уведомления всегда отражают актуальное расписание
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if _, err := s.scheduling.SweepExpired(ctx); err != nil {
		// Сводка полезна и без закрытия просроченных аренд
		s.logger.Error("Failed to sweep expired rentals", map[string]interface{}{
			"error": err.Error(),
		})
	}

	fleet, err := s.carRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet stats: %w", err)
	}

	revenue, err := s.rentalRepo.Revenue(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}

	expenses, err := s.expenseRepo.Total(ctx, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses total: %w", err)
	}

	notifications, err := s.scheduling.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build notifications: %w", err)
	}

	return &Dashboard{
		Fleet:         fleet,
		Revenue:       revenue,
		Expenses:      expenses,
		Profit:        revenue - expenses,
		Notifications: notifications,
	}, nil
}

// GetProfit считает доход, расход и прибыль.
// Нулевые год и месяц означают отчет за все время
func (s *Service) GetProfit(ctx context.Context, year int, month time.Month) (*ProfitReport, error) {
	var from, to *domain.DateTime
	if year != 0 && month != 0 {
		f, t := expense.MonthRange(year, month)
		from, to = &f, &t
	}

	// Доход считается по всем арендам независимо от статуса:
	// удаление аренды - единственный способ исключить ее из отчета
	revenue, err := s.rentalRepo.Revenue(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}

	expenses, err := s.expenseRepo.Total(ctx, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses total: %w", err)
	}

	return &ProfitReport{
		Revenue:  revenue,
		Expenses: expenses,
		Profit:   revenue - expenses,
	}, nil
}
