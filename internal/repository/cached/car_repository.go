package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/redis"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
)

const (
	fleetStatsCacheKey = "fleet:stats"
	fleetStatsCacheTTL = 30 * time.Second
)

// CarRepository добавляет кэширование сводки автопарка к car repository.
// Статусы машин меняются и через rental repository, поэтому TTL короткий:
// сводка не отстает больше чем на 30 секунд
type CarRepository struct {
	repo  repository.CarRepository
	cache *redis.Client
}

// NewCarRepository создает новый кэшируемый car repository
func NewCarRepository(repo repository.CarRepository, cache *redis.Client) *CarRepository {
	return &CarRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetStats возвращает сводку автопарка (с кэшированием)
func (r *CarRepository) GetStats(ctx context.Context) (*domain.CarStats, error) {
	// 1. Проверяем кэш
	cached, err := r.cache.Get(ctx, fleetStatsCacheKey)
	if err == nil {
		stats := &domain.CarStats{}
		if err := json.Unmarshal([]byte(cached), stats); err == nil {
			return stats, nil
		}
		// Испорченное значение в кэше - падаем обратно в БД
	}

	// 2. Cache miss - идем в БД
	stats, err := r.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш
	if data, err := json.Marshal(stats); err == nil {
		// Игнорируем ошибку записи в кэш (не критично)
		_ = r.cache.Set(ctx, fleetStatsCacheKey, string(data), fleetStatsCacheTTL)
	}

	return stats, nil
}

// Create добавляет автомобиль и инвалидирует сводку
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	if err := r.repo.Create(ctx, car); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, fleetStatsCacheKey)

	return nil
}

// GetByID получает автомобиль по id
func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	// Карточки не кэшируем - используются редко
	return r.repo.GetByID(ctx, id)
}

// Update обновляет автомобиль
func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	// Модель и номер на сводку не влияют, инвалидация не нужна
	return r.repo.Update(ctx, car)
}

// UpdateStatus меняет статус автомобиля и инвалидирует сводку
func (r *CarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	if err := r.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, fleetStatsCacheKey)

	return nil
}

// Delete удаляет автомобиль и инвалидирует сводку
func (r *CarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, fleetStatsCacheKey)

	return nil
}

// List получает список автомобилей
func (r *CarRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error) {
	// Списки не кэшируем - фильтры и производные поля делают ключи бесполезными
	return r.repo.List(ctx, limit, offset, search)
}
