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

type expenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()

	query := `
		INSERT INTO expenses (id, category, amount, expense_date, car_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.Category,
		expense.Amount,
		expense.ExpenseDate,
		expense.CarID,
		expense.Description,
		expense.CreatedAt,
	)

	return err
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	// car_id допускает NULL (расход без привязки к автомобилю),
	// поэтому поля присоединенного автомобиля берем через COALESCE
	query := `
		SELECT e.id, e.category, e.amount, e.expense_date, e.car_id, e.description, e.created_at,
		       COALESCE(c.model, ''), COALESCE(c.plate_number, '')
		FROM expenses e
		LEFT JOIN cars c ON c.id = e.car_id
		WHERE e.id = $1
	`

	expense := &domain.Expense{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.Category,
		&expense.Amount,
		&expense.ExpenseDate,
		&expense.CarID,
		&expense.Description,
		&expense.CreatedAt,
		&expense.CarModel,
		&expense.PlateNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	return expense, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	query := `
		UPDATE expenses
		SET category = $2, amount = $3, expense_date = $4, car_id = $5, description = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.Category,
		expense.Amount,
		expense.ExpenseDate,
		expense.CarID,
		expense.Description,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func (r *expenseRepository) List(ctx context.Context, filter repository.ExpenseFilter) ([]*domain.Expense, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM expenses
		WHERE ($1::timestamp IS NULL OR expense_date >= $1)
		  AND ($2::timestamp IS NULL OR expense_date < $2)
		  AND ($3::uuid IS NULL OR car_id = $3)
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, filter.From, filter.To, filter.CarID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT e.id, e.category, e.amount, e.expense_date, e.car_id, e.description, e.created_at,
		       COALESCE(c.model, ''), COALESCE(c.plate_number, '')
		FROM expenses e
		LEFT JOIN cars c ON c.id = e.car_id
		WHERE ($3::timestamp IS NULL OR e.expense_date >= $3)
		  AND ($4::timestamp IS NULL OR e.expense_date < $4)
		  AND ($5::uuid IS NULL OR e.car_id = $5)
		ORDER BY e.expense_date DESC, e.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, filter.Limit, filter.Offset, filter.From, filter.To, filter.CarID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense := &domain.Expense{}
		err := rows.Scan(
			&expense.ID,
			&expense.Category,
			&expense.Amount,
			&expense.ExpenseDate,
			&expense.CarID,
			&expense.Description,
			&expense.CreatedAt,
			&expense.CarModel,
			&expense.PlateNumber,
		)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Total(ctx context.Context, from, to *domain.DateTime, carID *uuid.UUID) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE ($1::timestamp IS NULL OR expense_date >= $1)
		  AND ($2::timestamp IS NULL OR expense_date < $2)
		  AND ($3::uuid IS NULL OR car_id = $3)
	`

	var total float64
	if err := r.db.QueryRow(ctx, query, from, to, carID).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
