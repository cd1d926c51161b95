package domain

import (
	"time"

	"github.com/google/uuid"
)

// RentalStatus представляет статус аренды
type RentalStatus string

const (
	RentalStatusReserved RentalStatus = "reserved" // бронь создана, машина еще не выдана
	RentalStatusRented   RentalStatus = "rented"   // машина у клиента
	RentalStatusReturned RentalStatus = "returned" // машина возвращена (терминальный статус)
)

// Rental - центральная сущность системы: бронь автомобиля клиентом
// Инвариант: для одного автомобиля никакие две аренды в статусах
// reserved/rented не пересекаются по полуоткрытому интервалу [start, return)
type Rental struct {
	ID          uuid.UUID    `json:"id"`
	CarID       uuid.UUID    `json:"car_id"`
	ClientID    uuid.UUID    `json:"client_id"`
	StartDate   DateTime     `json:"start_date"`
	ReturnDate  DateTime     `json:"return_date"`
	RentalPrice float64      `json:"rental_price"`
	Status      RentalStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`

	// Присоединенные поля автомобиля и клиента (заполняются на чтениях)
	CarModel    string `json:"car_model,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
}

// RentalDetail - аренда с полными данными клиента для печати договора
type RentalDetail struct {
	Rental
	PassportID     string  `json:"passport_id,omitempty"`
	DrivingLicense string  `json:"driving_license,omitempty"`
	PassportImage  *string `json:"passport_image,omitempty"`
	LicenseImage   *string `json:"license_image,omitempty"`
}

// ValidRentalStatus проверяет, что строка является допустимым статусом аренды
func ValidRentalStatus(s RentalStatus) bool {
	switch s {
	case RentalStatusReserved, RentalStatusRented, RentalStatusReturned:
		return true
	}
	return false
}

// IsActive сообщает, занимает ли аренда автомобиль (не возвращена)
func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusReserved || r.Status == RentalStatusRented
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Разрешены reserved->rented, reserved->returned, rented->returned.
// returned - терминальный статус, обратных переходов нет.
func (r *Rental) CanTransitionTo(next RentalStatus) bool {
	switch r.Status {
	case RentalStatusReserved:
		return next == RentalStatusRented || next == RentalStatusReturned
	case RentalStatusRented:
		return next == RentalStatusReturned
	default:
		return false
	}
}

// CarStatusFor возвращает статус автомобиля, зеркалирующий статус аренды
func CarStatusFor(status RentalStatus) CarStatus {
	if status == RentalStatusReturned {
		return CarStatusAvailable
	}
	return CarStatus(status)
}

// Overlaps проверяет пересечение аренды с интервалом [start, return)
// по полуоткрытому правилу: совпадающие границы пересечением не считаются
func (r *Rental) Overlaps(start, returnDate DateTime) bool {
	return IntervalsOverlap(r.StartDate, r.ReturnDate, start, returnDate)
}

// IntervalsOverlap - полуоткрытый тест пересечения двух интервалов:
// aStart < bEnd && aEnd > bStart
func IntervalsOverlap(aStart, aEnd, bStart, bEnd DateTime) bool {
	return aStart.Before(bEnd.Time) && aEnd.After(bStart.Time)
}

// Validate проверяет корректность данных аренды
func (r *Rental) Validate() error {
	if r.CarID == uuid.Nil || r.ClientID == uuid.Nil {
		return ErrInvalidRentalData
	}
	if r.StartDate.IsZero() || r.ReturnDate.IsZero() {
		return ErrInvalidRentalData
	}
	if !r.StartDate.Before(r.ReturnDate.Time) {
		return ErrInvalidDateRange
	}
	if r.RentalPrice < 0 {
		return ErrInvalidRentalData
	}
	return nil
}
