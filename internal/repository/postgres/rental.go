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

type rentalRepository struct {
	db *pgxpool.Pool
}

func NewRentalRepository(db *pgxpool.Pool) repository.RentalRepository {
	return &rentalRepository{db: db}
}

// CreateReservation пишет аренду и статус автомобиля в одной транзакции.
// Строка автомобиля блокируется FOR UPDATE, поэтому два конкурентных
// запроса на одну машину не могут оба пройти проверку пересечения
func (r *rentalRepository) CreateReservation(ctx context.Context, rental *domain.Rental) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var carStatus domain.CarStatus
	err = tx.QueryRow(ctx, `SELECT status FROM cars WHERE id = $1 FOR UPDATE`, rental.CarID).Scan(&carStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCarNotFound
		}
		return err
	}

	// Перепроверка пересечения под блокировкой: полуоткрытые интервалы,
	// совпадающие границы пересечением не считаются
	var conflict bool
	overlapQuery := `
		SELECT EXISTS (
			SELECT 1 FROM rentals
			WHERE car_id = $1
			  AND status IN ('reserved', 'rented')
			  AND start_date < $3
			  AND return_date > $2
		)
	`
	if err := tx.QueryRow(ctx, overlapQuery, rental.CarID, rental.StartDate, rental.ReturnDate).Scan(&conflict); err != nil {
		return err
	}
	if conflict {
		return domain.ErrSchedulingConflict
	}

	rental.ID = uuid.New()
	rental.Status = domain.RentalStatusReserved
	rental.CreatedAt = time.Now()

	insertQuery := `
		INSERT INTO rentals (id, car_id, client_id, start_date, return_date, rental_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insertQuery,
		rental.ID,
		rental.CarID,
		rental.ClientID,
		rental.StartDate,
		rental.ReturnDate,
		rental.RentalPrice,
		rental.Status,
		rental.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE cars SET status = $2, updated_at = $3 WHERE id = $1`,
		rental.CarID, domain.CarStatusReserved, time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateRental переписывает бронь: автомобиль, клиента, даты, цену.
// Статус аренды не меняется. Аренда исключается из проверки пересечения,
// поэтому сдвиг дат внутри собственного окна проходит без конфликта
func (r *rentalRepository) UpdateRental(ctx context.Context, rental *domain.Rental) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status domain.RentalStatus
	var oldCarID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT status, car_id FROM rentals WHERE id = $1 FOR UPDATE`, rental.ID,
	).Scan(&status, &oldCarID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRentalNotFound
		}
		return err
	}

	var carStatus domain.CarStatus
	err = tx.QueryRow(ctx, `SELECT status FROM cars WHERE id = $1 FOR UPDATE`, rental.CarID).Scan(&carStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCarNotFound
		}
		return err
	}

	// Возвращенная аренда машину не занимает, пересечение не проверяем
	if status == domain.RentalStatusReserved || status == domain.RentalStatusRented {
		var conflict bool
		overlapQuery := `
			SELECT EXISTS (
				SELECT 1 FROM rentals
				WHERE car_id = $1
				  AND id <> $4
				  AND status IN ('reserved', 'rented')
				  AND start_date < $3
				  AND return_date > $2
			)
		`
		err := tx.QueryRow(ctx, overlapQuery,
			rental.CarID, rental.StartDate, rental.ReturnDate, rental.ID,
		).Scan(&conflict)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSchedulingConflict
		}
	}

	updateQuery := `
		UPDATE rentals
		SET car_id = $2, client_id = $3, start_date = $4, return_date = $5, rental_price = $6
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, updateQuery,
		rental.ID,
		rental.CarID,
		rental.ClientID,
		rental.StartDate,
		rental.ReturnDate,
		rental.RentalPrice,
	)
	if err != nil {
		return err
	}

	if oldCarID != rental.CarID && (status == domain.RentalStatusReserved || status == domain.RentalStatusRented) {
		_, err = tx.Exec(ctx,
			`UPDATE cars SET status = $2, updated_at = $3 WHERE id = $1`,
			oldCarID, domain.CarStatusAvailable, time.Now(),
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE cars SET status = $2, updated_at = $3 WHERE id = $1`,
			rental.CarID, domain.CarStatusFor(status), time.Now(),
		)
		if err != nil {
			return err
		}
	}

	rental.Status = status

	return tx.Commit(ctx)
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalDetail, error) {
	query := `
		SELECT r.id, r.car_id, r.client_id, r.start_date, r.return_date, r.rental_price, r.status, r.created_at,
		       c.model, c.plate_number,
		       cl.full_name, cl.passport_id, cl.driving_license, cl.passport_image, cl.license_image
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE r.id = $1
	`

	detail := &domain.RentalDetail{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.CarID,
		&detail.ClientID,
		&detail.StartDate,
		&detail.ReturnDate,
		&detail.RentalPrice,
		&detail.Status,
		&detail.CreatedAt,
		&detail.CarModel,
		&detail.PlateNumber,
		&detail.ClientName,
		&detail.PassportID,
		&detail.DrivingLicense,
		&detail.PassportImage,
		&detail.LicenseImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRentalNotFound
		}
		return nil, err
	}

	return detail, nil
}

func (r *rentalRepository) GetActiveByCar(ctx context.Context, carID uuid.UUID, exclude *uuid.UUID) ([]*domain.Rental, error) {
	query := `
		SELECT id, car_id, client_id, start_date, return_date, rental_price, status, created_at
		FROM rentals
		WHERE car_id = $1
		  AND status IN ('reserved', 'rented')
		  AND ($2::uuid IS NULL OR id <> $2)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, carID, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental := &domain.Rental{}
		err := rows.Scan(
			&rental.ID,
			&rental.CarID,
			&rental.ClientID,
			&rental.StartDate,
			&rental.ReturnDate,
			&rental.RentalPrice,
			&rental.Status,
			&rental.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rentals, nil
}

// UpdateStatus меняет статус аренды и зеркалирует его на автомобиль
// в одной транзакции: returned освобождает машину, остальные статусы
// переносятся на нее как есть
func (r *rentalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var carID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT car_id FROM rentals WHERE id = $1 FOR UPDATE`, id).Scan(&carID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRentalNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE rentals SET status = $2 WHERE id = $1`, id, status); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE cars SET status = $2, updated_at = $3 WHERE id = $1`,
		carID, domain.CarStatusFor(status), time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete удаляет аренду; невозвращенная аренда освобождает автомобиль,
// иначе машина осталась бы навсегда в reserved/rented
func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var carID uuid.UUID
	var status domain.RentalStatus
	err = tx.QueryRow(ctx, `SELECT car_id, status FROM rentals WHERE id = $1 FOR UPDATE`, id).Scan(&carID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRentalNotFound
		}
		return err
	}

	if status != domain.RentalStatusReturned {
		_, err = tx.Exec(ctx,
			`UPDATE cars SET status = $2, updated_at = $3 WHERE id = $1`,
			carID, domain.CarStatusAvailable, time.Now(),
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE ($1::text = ''
		       OR c.model ILIKE '%' || $1 || '%'
		       OR c.plate_number ILIKE '%' || $1 || '%'
		       OR cl.full_name ILIKE '%' || $1 || '%')
		  AND ($2::timestamp IS NULL OR r.start_date >= $2)
		  AND ($3::timestamp IS NULL OR r.start_date < $3)
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, filter.Search, filter.From, filter.To).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.car_id, r.client_id, r.start_date, r.return_date, r.rental_price, r.status, r.created_at,
		       c.model, c.plate_number, cl.full_name
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE ($3::text = ''
		       OR c.model ILIKE '%' || $3 || '%'
		       OR c.plate_number ILIKE '%' || $3 || '%'
		       OR cl.full_name ILIKE '%' || $3 || '%')
		  AND ($4::timestamp IS NULL OR r.start_date >= $4)
		  AND ($5::timestamp IS NULL OR r.start_date < $5)
		ORDER BY r.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rentals, err := r.queryJoined(ctx, query, filter.Limit, filter.Offset, filter.Search, filter.From, filter.To)
	if err != nil {
		return nil, 0, err
	}

	return rentals, total, nil
}

// MarkExpired - сметающая операция: активные аренды с истекшим return_date
// становятся returned, их автомобили - available. Повторный вызов ничего
// не находит и ничего не меняет
func (r *rentalRepository) MarkExpired(ctx context.Context, now domain.DateTime) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		UPDATE rentals
		SET status = 'returned'
		WHERE status IN ('reserved', 'rented') AND return_date < $1
		RETURNING car_id
	`, now)
	if err != nil {
		return 0, err
	}

	var carIDs []uuid.UUID
	for rows.Next() {
		var carID uuid.UUID
		if err := rows.Scan(&carID); err != nil {
			rows.Close()
			return 0, err
		}
		carIDs = append(carIDs, carID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(carIDs) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE cars SET status = 'available', updated_at = $2 WHERE id = ANY($1)`,
			carIDs, time.Now(),
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return len(carIDs), nil
}

func (r *rentalRepository) FindStartingBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error) {
	query := `
		SELECT r.id, r.car_id, r.client_id, r.start_date, r.return_date, r.rental_price, r.status, r.created_at,
		       c.model, c.plate_number, cl.full_name
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE r.status = 'reserved' AND r.start_date >= $1 AND r.start_date < $2
		ORDER BY r.start_date
	`
	return r.queryJoined(ctx, query, from, to)
}

func (r *rentalRepository) FindReturningBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error) {
	query := `
		SELECT r.id, r.car_id, r.client_id, r.start_date, r.return_date, r.rental_price, r.status, r.created_at,
		       c.model, c.plate_number, cl.full_name
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE r.status = 'rented' AND r.return_date >= $1 AND r.return_date < $2
		ORDER BY r.return_date
	`
	return r.queryJoined(ctx, query, from, to)
}

func (r *rentalRepository) FindOverdue(ctx context.Context, before domain.DateTime) ([]*domain.Rental, error) {
	query := `
		SELECT r.id, r.car_id, r.client_id, r.start_date, r.return_date, r.rental_price, r.status, r.created_at,
		       c.model, c.plate_number, cl.full_name
		FROM rentals r
		JOIN cars c ON c.id = r.car_id
		JOIN clients cl ON cl.id = r.client_id
		WHERE r.status = 'rented' AND r.return_date < $1
		ORDER BY r.return_date
	`
	return r.queryJoined(ctx, query, before)
}

// Revenue суммирует rental_price по всем арендам независимо от статуса,
// опционально в диапазоне start_date
func (r *rentalRepository) Revenue(ctx context.Context, from, to *domain.DateTime) (float64, error) {
	query := `
		SELECT COALESCE(SUM(rental_price), 0)
		FROM rentals
		WHERE ($1::timestamp IS NULL OR start_date >= $1)
		  AND ($2::timestamp IS NULL OR start_date < $2)
	`

	var total float64
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *rentalRepository) CountActiveByCar(ctx context.Context, carID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM rentals WHERE car_id = $1 AND status IN ('reserved', 'rented')`,
		carID,
	).Scan(&count)
	return count, err
}

func (r *rentalRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM rentals WHERE client_id = $1 AND status IN ('reserved', 'rented')`,
		clientID,
	).Scan(&count)
	return count, err
}

// queryJoined выполняет запрос с присоединенными полями автомобиля и клиента
func (r *rentalRepository) queryJoined(ctx context.Context, query string, args ...interface{}) ([]*domain.Rental, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental := &domain.Rental{}
		err := rows.Scan(
			&rental.ID,
			&rental.CarID,
			&rental.ClientID,
			&rental.StartDate,
			&rental.ReturnDate,
			&rental.RentalPrice,
			&rental.Status,
			&rental.CreatedAt,
			&rental.CarModel,
			&rental.PlateNumber,
			&rental.ClientName,
		)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rentals, nil
}
