package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User - оператор агентства (вход в систему)
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrInvalidUserData
	}
	return nil
}
