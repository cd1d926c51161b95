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

type clientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, full_name, passport_id, driving_license, passport_image, license_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		client.ID,
		client.FullName,
		client.PassportID,
		client.DrivingLicense,
		client.PassportImage,
		client.LicenseImage,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, full_name, passport_id, driving_license, passport_image, license_image, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	client := &domain.Client{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.FullName,
		&client.PassportID,
		&client.DrivingLicense,
		&client.PassportImage,
		&client.LicenseImage,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) Update(ctx context.Context, id uuid.UUID, upd *domain.ClientUpdate) error {
	// COALESCE с nil-параметром оставляет сохраненный URL как есть:
	// update без упоминания изображения не должен его стирать
	query := `
		UPDATE clients
		SET full_name = $2,
		    passport_id = $3,
		    driving_license = $4,
		    passport_image = COALESCE($5, passport_image),
		    license_image = COALESCE($6, license_image),
		    updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		id,
		upd.FullName,
		upd.PassportID,
		upd.DrivingLicense,
		upd.PassportImage,
		upd.LicenseImage,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Client, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM clients
		WHERE $1::text = ''
		   OR full_name ILIKE '%' || $1 || '%'
		   OR passport_id ILIKE '%' || $1 || '%'
		   OR driving_license ILIKE '%' || $1 || '%'
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, full_name, passport_id, driving_license, passport_image, license_image, created_at, updated_at
		FROM clients
		WHERE $3::text = ''
		   OR full_name ILIKE '%' || $3 || '%'
		   OR passport_id ILIKE '%' || $3 || '%'
		   OR driving_license ILIKE '%' || $3 || '%'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset, search)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client := &domain.Client{}
		err := rows.Scan(
			&client.ID,
			&client.FullName,
			&client.PassportID,
			&client.DrivingLicense,
			&client.PassportImage,
			&client.LicenseImage,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
