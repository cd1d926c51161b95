package fleet

import (
	"context"
	"fmt"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
)

// CarRequest - запрос на создание или обновление автомобиля
type CarRequest struct {
	Model       string `json:"model" validate:"required"`
	PlateNumber string `json:"plate_number" validate:"required"`
}

// Service содержит бизнес-логику управления автопарком
type Service struct {
	carRepo    repository.CarRepository
	rentalRepo repository.RentalRepository
	logger     logger.Logger
}

// NewService создает новый экземпляр FleetService
func NewService(
	carRepo repository.CarRepository,
	rentalRepo repository.RentalRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:    carRepo,
		rentalRepo: rentalRepo,
		logger:     logger,
	}
}

// CreateCar добавляет автомобиль в парк со статусом available
func (s *Service) CreateCar(ctx context.Context, req *CarRequest) (*domain.Car, error) {
	car := &domain.Car{
		Model:       req.Model,
		PlateNumber: domain.NormalizePlate(req.PlateNumber),
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		s.logger.Error("Failed to create car", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.logger.Info("Car created", map[string]interface{}{
		"car_id":       car.ID,
		"plate_number": car.PlateNumber,
	})

	return car, nil
}

// GetCar возвращает автомобиль по ID
func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

// UpdateCar обновляет модель и номер автомобиля.
// Статус через этот метод не меняется - у него отдельная операция
func (s *Service) UpdateCar(ctx context.Context, id uuid.UUID, req *CarRequest) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car.Model = req.Model
	car.PlateNumber = domain.NormalizePlate(req.PlateNumber)

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	s.logger.Info("Car updated", map[string]interface{}{
		"car_id": car.ID,
	})

	return s.carRepo.GetByID(ctx, id)
}

// DeleteCar удаляет автомобиль.
// Автомобиль с активными арендами удалить нельзя, история
// завершенных аренд удаляется каскадно
func (s *Service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.carRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.rentalRepo.CountActiveByCar(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count active rentals: %w", err)
	}
	if count > 0 {
		return domain.ErrCarHasRentals
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Car deleted", map[string]interface{}{
		"car_id": id,
	})

	return nil
}

// ListCars возвращает страницу автомобилей с производными полями занятости
func (s *Service) ListCars(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.carRepo.List(ctx, limit, offset, search)
}

// GetStats возвращает сводку автопарка по статусам
func (s *Service) GetStats(ctx context.Context) (*domain.CarStats, error) {
	return s.carRepo.GetStats(ctx)
}
