package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Expense - расход агентства, опционально привязанный к автомобилю
type Expense struct {
	ID          uuid.UUID  `json:"id"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	ExpenseDate DateTime   `json:"expense_date"`
	CarID       *uuid.UUID `json:"car_id,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Присоединенные поля автомобиля (LEFT JOIN, могут отсутствовать)
	CarModel    string `json:"car_model,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
}

// Validate проверяет корректность данных расхода
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrInvalidExpenseData
	}
	if e.Amount <= 0 {
		return ErrInvalidExpenseData
	}
	if e.ExpenseDate.IsZero() {
		return ErrInvalidExpenseData
	}
	return nil
}
