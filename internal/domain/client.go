package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client - клиент агентства
// Изображения документов живут на внешнем asset-хосте,
// здесь хранятся только их URL
type Client struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	PassportID     string    `json:"passport_id,omitempty"`
	DrivingLicense string    `json:"driving_license,omitempty"`
	PassportImage  *string   `json:"passport_image,omitempty"`
	LicenseImage   *string   `json:"license_image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ClientUpdate - частичное обновление клиента.
// Поля изображений - указатели: nil означает "не трогать сохраненный URL",
// пустая строка - явная очистка
type ClientUpdate struct {
	FullName       string  `json:"full_name"`
	PassportID     string  `json:"passport_id"`
	DrivingLicense string  `json:"driving_license"`
	PassportImage  *string `json:"passport_image"`
	LicenseImage   *string `json:"license_image"`
}

// Validate проверяет корректность данных клиента
func (c *Client) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrInvalidClientData
	}
	return nil
}

// Validate проверяет корректность частичного обновления
func (u *ClientUpdate) Validate() error {
	if strings.TrimSpace(u.FullName) == "" {
		return ErrInvalidClientData
	}
	return nil
}
