package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type carRepository struct {
	db *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, model, plate_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	car.ID = uuid.New()
	car.Status = domain.CarStatusAvailable
	car.CreatedAt = time.Now()
	car.UpdatedAt = time.Now()

	// Нормализуем номер перед сохранением
	car.PlateNumber = domain.NormalizePlate(car.PlateNumber)

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.Model,
		car.PlateNumber,
		car.Status,
		car.CreatedAt,
		car.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	query := `
		SELECT id, model, plate_number, status, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	car := &domain.Car{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&car.ID,
		&car.Model,
		&car.PlateNumber,
		&car.Status,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}

	return car, nil
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	// Статус намеренно не входит в SET: его меняет только Scheduling Engine
	query := `
		UPDATE cars
		SET model = $2, plate_number = $3, updated_at = $4
		WHERE id = $1
	`

	car.UpdatedAt = time.Now()
	car.PlateNumber = domain.NormalizePlate(car.PlateNumber)

	result, err := r.db.Exec(ctx, query,
		car.ID,
		car.Model,
		car.PlateNumber,
		car.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	query := `
		UPDATE cars
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM cars
		WHERE $1::text = '' OR model ILIKE '%' || $1 || '%' OR plate_number ILIKE '%' || $1 || '%'
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	// current_rental - последняя по created_at активная аренда,
	// total_rented_ms - суммарная длительность всех аренд автомобиля.
	// Оба поля производные, на запись автомобиля никогда не сохраняются
	query := `
		SELECT c.id, c.model, c.plate_number, c.status, c.created_at, c.updated_at,
		       cr.start_date, cr.return_date,
		       COALESCE(h.total_rented_ms, 0)
		FROM cars c
		LEFT JOIN LATERAL (
			SELECT r.start_date, r.return_date
			FROM rentals r
			WHERE r.car_id = c.id AND r.status IN ('reserved', 'rented')
			ORDER BY r.created_at DESC
			LIMIT 1
		) cr ON true
		LEFT JOIN LATERAL (
			SELECT (EXTRACT(EPOCH FROM SUM(r.return_date - r.start_date)) * 1000)::bigint AS total_rented_ms
			FROM rentals r
			WHERE r.car_id = c.id AND r.return_date > r.start_date
		) h ON true
		WHERE $3::text = '' OR c.model ILIKE '%' || $3 || '%' OR c.plate_number ILIKE '%' || $3 || '%'
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car := &domain.Car{}
		var crStart, crReturn domain.DateTime
		err := rows.Scan(
			&car.ID,
			&car.Model,
			&car.PlateNumber,
			&car.Status,
			&car.CreatedAt,
			&car.UpdatedAt,
			&crStart,
			&crReturn,
			&car.TotalRentedMs,
		)
		if err != nil {
			return nil, 0, err
		}
		if !crStart.IsZero() {
			car.CurrentRental = &domain.RentalWindow{
				StartDate:  crStart,
				ReturnDate: crReturn,
			}
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return cars, total, nil
}

func (r *carRepository) GetStats(ctx context.Context) (*domain.CarStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'available'),
		       COUNT(*) FILTER (WHERE status = 'reserved'),
		       COUNT(*) FILTER (WHERE status = 'rented')
		FROM cars
	`

	stats := &domain.CarStats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Available,
		&stats.Reserved,
		&stats.Rented,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
