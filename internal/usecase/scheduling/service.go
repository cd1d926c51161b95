package scheduling

import (
	"context"
	"fmt"
	"sync"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/clock"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
)

// CreateRentalRequest - запрос на бронирование автомобиля
type CreateRentalRequest struct {
	CarID       uuid.UUID       `json:"car_id" validate:"required"`
	ClientID    uuid.UUID       `json:"client_id" validate:"required"`
	StartDate   domain.DateTime `json:"start_date" validate:"required"`
	ReturnDate  domain.DateTime `json:"return_date" validate:"required"`
	RentalPrice float64         `json:"rental_price" validate:"gte=0"`
}

// Service содержит бизнес-логику планирования аренд.
// Главный инвариант: активные аренды одного автомобиля не пересекаются
type Service struct {
	rentalRepo repository.RentalRepository
	carRepo    repository.CarRepository
	clientRepo repository.ClientRepository
	clock      clock.Clock
	logger     logger.Logger

	// Мьютексы по автомобилям сериализуют бронирования внутри процесса,
	// FOR UPDATE в репозитории закрывает гонки между процессами
	mu       sync.Mutex
	carLocks map[uuid.UUID]*sync.Mutex
}

// NewService создает новый экземпляр SchedulingService
func NewService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	clientRepo repository.ClientRepository,
	clk clock.Clock,
	logger logger.Logger,
) *Service {
	return &Service{
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		clientRepo: clientRepo,
		clock:      clk,
		logger:     logger,
		carLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockCar возвращает мьютекс конкретного автомобиля
func (s *Service) lockCar(carID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.carLocks[carID]
	if !ok {
		lock = &sync.Mutex{}
		s.carLocks[carID] = lock
	}

	return lock
}

// CreateRental бронирует автомобиль на период.
// Пересечение с любой активной арендой этого автомобиля - конфликт;
// совпадающие границы периодов конфликтом не считаются
func (s *Service) CreateRental(ctx context.Context, req *CreateRentalRequest) (*domain.Rental, error) {
	rental := &domain.Rental{
		CarID:       req.CarID,
		ClientID:    req.ClientID,
		StartDate:   req.StartDate,
		ReturnDate:  req.ReturnDate,
		RentalPrice: req.RentalPrice,
	}

	if err := rental.Validate(); err != nil {
		return nil, err
	}

	// Несуществующий клиент должен давать 404, а не ошибку внешнего ключа
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	lock := s.lockCar(req.CarID)
	lock.Lock()
	defer lock.Unlock()

	// Проверка пересечения до транзакции дает понятную ошибку
	// без обращения к блокировкам БД
	active, err := s.rentalRepo.GetActiveByCar(ctx, req.CarID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get active rentals: %w", err)
	}

	for _, existing := range active {
		if existing.Overlaps(rental.StartDate, rental.ReturnDate) {
			s.logger.Warn("Scheduling conflict", map[string]interface{}{
				"car_id":          req.CarID,
				"existing_rental": existing.ID,
			})
			return nil, domain.ErrSchedulingConflict
		}
	}

	if err := s.rentalRepo.CreateReservation(ctx, rental); err != nil {
		return nil, err
	}

	s.logger.Info("Rental created", map[string]interface{}{
		"rental_id": rental.ID,
		"car_id":    rental.CarID,
		"client_id": rental.ClientID,
	})

	return rental, nil
}

// GetRental возвращает аренду с данными автомобиля и клиента
func (s *Service) GetRental(ctx context.Context, id uuid.UUID) (*domain.RentalDetail, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

// ListRentals возвращает страницу аренд по фильтру
func (s *Service) ListRentals(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.rentalRepo.List(ctx, filter)
}

// UpdateStatus переводит аренду в новый статус.
// Разрешены только переходы вперед по жизненному циклу,
// returned - терминальный статус
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) (*domain.RentalDetail, error) {
	if !domain.ValidRentalStatus(status) {
		return nil, domain.ErrInvalidRentalData
	}

	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rental.CanTransitionTo(status) {
		s.logger.Warn("Invalid rental status transition", map[string]interface{}{
			"rental_id": id,
			"from":      rental.Status,
			"to":        status,
		})
		return nil, domain.ErrInvalidStatusTransition
	}

	if err := s.rentalRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("Rental status updated", map[string]interface{}{
		"rental_id": id,
		"status":    status,
	})

	rental.Status = status

	return rental, nil
}

// UpdateRental изменяет бронь: автомобиль, клиента, даты, цену.
// Статус остается прежним (для него есть UpdateStatus). Сама аренда
// исключается из проверки пересечения, поэтому сдвиг дат внутри
// собственного окна не считается конфликтом
func (s *Service) UpdateRental(ctx context.Context, id uuid.UUID, req *CreateRentalRequest) (*domain.RentalDetail, error) {
	rental := &domain.Rental{
		ID:          id,
		CarID:       req.CarID,
		ClientID:    req.ClientID,
		StartDate:   req.StartDate,
		ReturnDate:  req.ReturnDate,
		RentalPrice: req.RentalPrice,
	}

	if err := rental.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	lock := s.lockCar(req.CarID)
	lock.Lock()
	defer lock.Unlock()

	if existing.IsActive() {
		active, err := s.rentalRepo.GetActiveByCar(ctx, req.CarID, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to get active rentals: %w", err)
		}

		for _, other := range active {
			if other.Overlaps(rental.StartDate, rental.ReturnDate) {
				s.logger.Warn("Scheduling conflict", map[string]interface{}{
					"car_id":          req.CarID,
					"rental_id":       id,
					"existing_rental": other.ID,
				})
				return nil, domain.ErrSchedulingConflict
			}
		}
	}

	if err := s.rentalRepo.UpdateRental(ctx, rental); err != nil {
		return nil, err
	}

	s.logger.Info("Rental updated", map[string]interface{}{
		"rental_id": id,
		"car_id":    rental.CarID,
	})

	return s.rentalRepo.GetByID(ctx, id)
}

// DeleteRental удаляет аренду; автомобиль активной аренды освобождается
func (s *Service) DeleteRental(ctx context.Context, id uuid.UUID) error {
	if err := s.rentalRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Rental deleted", map[string]interface{}{
		"rental_id": id,
	})

	return nil
}

// OverrideCarStatus вручную меняет статус автомобиля.
// Освобождение машины с активной арендой запрещено: статус машины
// должен отражать ее расписание
func (s *Service) OverrideCarStatus(ctx context.Context, carID uuid.UUID, status domain.CarStatus) (*domain.Car, error) {
	if !domain.ValidCarStatus(status) {
		return nil, domain.ErrInvalidCarStatus
	}

	if _, err := s.carRepo.GetByID(ctx, carID); err != nil {
		return nil, err
	}

	if status == domain.CarStatusAvailable {
		count, err := s.rentalRepo.CountActiveByCar(ctx, carID)
		if err != nil {
			return nil, fmt.Errorf("failed to count active rentals: %w", err)
		}
		if count > 0 {
			return nil, domain.ErrCarHasRentals
		}
	}

	if err := s.carRepo.UpdateStatus(ctx, carID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Car status overridden", map[string]interface{}{
		"car_id": carID,
		"status": status,
	})

	return s.carRepo.GetByID(ctx, carID)
}

// SweepExpired закрывает активные аренды с истекшим временем возврата.
// Вызывается при каждой загрузке дашборда, повторный вызов безвреден
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	count, err := s.rentalRepo.MarkExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired rentals: %w", err)
	}

	if count > 0 {
		s.logger.Info("Expired rentals closed", map[string]interface{}{
			"count": count,
		})
	}

	return count, nil
}

// Notifications собирает уведомления дашборда по текущему расписанию.
// Список нигде не хранится и считается заново на каждом запросе
func (s *Service) Notifications(ctx context.Context) ([]*domain.Notification, error) {
	today := s.clock.Now().StartOfDay()
	tomorrow := today.AddDays(1)
	dayAfter := today.AddDays(2)

	notifications := []*domain.Notification{}

	startingToday, err := s.rentalRepo.FindStartingBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to find rentals starting today: %w", err)
	}
	for _, rental := range startingToday {
		notifications = append(notifications, &domain.Notification{
			Type:     domain.NotificationStartToday,
			Severity: domain.SeverityWarning,
			Rental:   rental,
		})
	}

	startingTomorrow, err := s.rentalRepo.FindStartingBetween(ctx, tomorrow, dayAfter)
	if err != nil {
		return nil, fmt.Errorf("failed to find rentals starting tomorrow: %w", err)
	}
	for _, rental := range startingTomorrow {
		notifications = append(notifications, &domain.Notification{
			Type:     domain.NotificationStartTomorrow,
			Severity: domain.SeverityInfo,
			Rental:   rental,
		})
	}

	returningToday, err := s.rentalRepo.FindReturningBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to find rentals returning today: %w", err)
	}
	for _, rental := range returningToday {
		notifications = append(notifications, &domain.Notification{
			Type:     domain.NotificationReturnToday,
			Severity: domain.SeverityWarning,
			Rental:   rental,
		})
	}

	overdue, err := s.rentalRepo.FindOverdue(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue rentals: %w", err)
	}
	for _, rental := range overdue {
		notifications = append(notifications, &domain.Notification{
			Type:     domain.NotificationOverdue,
			Severity: domain.SeverityDanger,
			Rental:   rental,
		})
	}

	return notifications, nil
}
