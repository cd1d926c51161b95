package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CarStatus представляет статус автомобиля в парке
type CarStatus string

const (
	CarStatusAvailable CarStatus = "available" // свободен
	CarStatusReserved  CarStatus = "reserved"  // забронирован
	CarStatusRented    CarStatus = "rented"    // выдан клиенту
)

// Car - автомобиль парка
// ВАЖНО: Status - кэшированное отражение последней активной аренды.
// Его меняет только Scheduling Engine, остальной код читает как есть.
type Car struct {
	ID          uuid.UUID `json:"id"`
	Model       string    `json:"model"`
	PlateNumber string    `json:"plate_number"`
	Status      CarStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Производные данные (не хранятся на записи, считаются при чтении)
	CurrentRental *RentalWindow `json:"current_rental,omitempty"` // последняя активная аренда
	TotalRentedMs int64         `json:"total_rented_ms"`          // суммарная длительность аренд
}

// RentalWindow - интервал текущей аренды автомобиля
type RentalWindow struct {
	StartDate  DateTime `json:"start_date"`
	ReturnDate DateTime `json:"return_date"`
}

// CarStats - количество автомобилей по статусам
type CarStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Rented    int `json:"rented"`
}

// NormalizePlate нормализует госномер (убирает пробелы, приводит к верхнему регистру)
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
}

// ValidCarStatus проверяет, что строка является допустимым статусом автомобиля
func ValidCarStatus(s CarStatus) bool {
	switch s {
	case CarStatusAvailable, CarStatusReserved, CarStatusRented:
		return true
	}
	return false
}

// Validate проверяет корректность данных автомобиля
func (c *Car) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return ErrInvalidCarData
	}
	c.PlateNumber = NormalizePlate(c.PlateNumber)
	if c.PlateNumber == "" {
		return ErrInvalidPlate
	}
	return nil
}
