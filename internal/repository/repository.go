package repository

import (
	"context"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/google/uuid"
)

// RentalFilter - параметры выборки аренд
type RentalFilter struct {
	Limit  int
	Offset int
	Search string           // подстрока без учета регистра: модель, номер, имя клиента
	From   *domain.DateTime // нижняя граница start_date (включительно)
	To     *domain.DateTime // верхняя граница start_date (не включительно)
}

// ExpenseFilter - параметры выборки расходов
type ExpenseFilter struct {
	Limit  int
	Offset int
	From   *domain.DateTime // нижняя граница expense_date (включительно)
	To     *domain.DateTime // верхняя граница expense_date (не включительно)
	CarID  *uuid.UUID       // ограничить расходами конкретного автомобиля
}

// CarRepository определяет методы для работы с автопарком
type CarRepository interface {
	// Create создает новый автомобиль со статусом available
	Create(ctx context.Context, car *domain.Car) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)

	// Update обновляет модель и номер (статус не трогает)
	Update(ctx context.Context, car *domain.Car) error

	// UpdateStatus меняет статус автомобиля.
	// Вызывается только Scheduling Engine, см. domain.Car
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error

	// Delete удаляет автомобиль
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает страницу автомобилей с производными полями
	// current_rental и total_rented_ms, плюс общее количество под фильтром.
	// search - подстрока без учета регистра по модели и номеру
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error)

	// GetStats возвращает количество автомобилей по статусам
	GetStats(ctx context.Context) (*domain.CarStats, error)
}

// ClientRepository определяет методы для работы с клиентами
type ClientRepository interface {
	// Create создает нового клиента
	Create(ctx context.Context, client *domain.Client) error

	// GetByID возвращает клиента по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// Update частично обновляет клиента: nil-поля изображений
	// оставляют сохраненные URL нетронутыми
	Update(ctx context.Context, id uuid.UUID, upd *domain.ClientUpdate) error

	// Delete удаляет клиента
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает страницу клиентов и общее количество под фильтром.
	// search - подстрока без учета регистра по имени, паспорту и правам
	List(ctx context.Context, limit, offset int, search string) ([]*domain.Client, int, error)
}

// RentalRepository определяет методы для работы с арендами
type RentalRepository interface {
	// CreateReservation атомарно создает бронь: в одной транзакции
	// блокирует строку автомобиля, перепроверяет пересечения и пишет
	// аренду (reserved) вместе со статусом автомобиля.
	// Возвращает domain.ErrSchedulingConflict при пересечении
	CreateReservation(ctx context.Context, rental *domain.Rental) error

	// GetByID возвращает аренду с полными данными клиента и автомобиля
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalDetail, error)

	// GetActiveByCar возвращает активные (reserved/rented) аренды автомобиля,
	// опционально исключая одну аренду (для update-in-place)
	GetActiveByCar(ctx context.Context, carID uuid.UUID, exclude *uuid.UUID) ([]*domain.Rental, error)

	// UpdateRental переписывает автомобиль, клиента, даты и цену брони
	// в одной транзакции. Для активной аренды пересечение перепроверяется
	// под блокировкой целевого автомобиля, сама аренда из проверки
	// исключается; при смене автомобиля статусы обеих машин зеркалируются
	UpdateRental(ctx context.Context, rental *domain.Rental) error

	// UpdateStatus в одной транзакции меняет статус аренды и зеркалирует
	// его на автомобиль (returned -> available)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) error

	// Delete удаляет аренду; если она не возвращена, автомобиль
	// освобождается (available) в той же транзакции
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает страницу аренд с присоединенными полями
	// автомобиля и клиента, плюс общее количество под фильтром
	List(ctx context.Context, filter RentalFilter) ([]*domain.Rental, int, error)

	// MarkExpired переводит активные аренды с return_date < now в returned
	// и освобождает их автомобили. Идемпотентна. Возвращает число затронутых аренд
	MarkExpired(ctx context.Context, now domain.DateTime) (int, error)

	// FindStartingBetween возвращает брони (reserved) со start_date в [from, to)
	FindStartingBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error)

	// FindReturningBetween возвращает выданные аренды (rented) с return_date в [from, to)
	FindReturningBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error)

	// FindOverdue возвращает выданные аренды (rented) с return_date < before
	FindOverdue(ctx context.Context, before domain.DateTime) ([]*domain.Rental, error)

	// Revenue возвращает сумму rental_price по всем арендам,
	// опционально ограниченную диапазоном start_date
	Revenue(ctx context.Context, from, to *domain.DateTime) (float64, error)

	// CountActiveByCar возвращает число активных аренд автомобиля
	CountActiveByCar(ctx context.Context, carID uuid.UUID) (int, error)

	// CountActiveByClient возвращает число активных аренд клиента
	CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

// ExpenseRepository определяет методы для работы с расходами
type ExpenseRepository interface {
	// Create создает новый расход
	Create(ctx context.Context, expense *domain.Expense) error

	// GetByID возвращает расход по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error)

	// Update обновляет расход
	Update(ctx context.Context, expense *domain.Expense) error

	// Delete удаляет расход
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает страницу расходов с присоединенными полями
	// автомобиля (LEFT JOIN), плюс общее количество под фильтром
	List(ctx context.Context, filter ExpenseFilter) ([]*domain.Expense, int, error)

	// Total возвращает сумму расходов, опционально ограниченную
	// диапазоном expense_date и конкретным автомобилем
	Total(ctx context.Context, from, to *domain.DateTime, carID *uuid.UUID) (float64, error)
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername возвращает пользователя по имени
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllUserTokens отзывает все токены пользователя
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
