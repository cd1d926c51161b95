package http

import (
	"context"
	"testing"

	"github.com/atlasrent/backend/internal/delivery/http/middleware"
	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/jwt"
	"github.com/google/uuid"
)

// CreateTestCar создает тестовый автомобиль
func CreateTestCar(id uuid.UUID, model, plate string) *domain.Car {
	return &domain.Car{
		ID:          id,
		Model:       model,
		PlateNumber: plate,
		Status:      domain.CarStatusAvailable,
	}
}

// CreateTestClient создает тестового клиента
func CreateTestClient(id uuid.UUID, fullName string) *domain.Client {
	return &domain.Client{
		ID:             id,
		FullName:       fullName,
		PassportID:     "AB123456",
		DrivingLicense: "DL7890",
	}
}

// CreateTestRental создает тестовую аренду
func CreateTestRental(id, carID, clientID uuid.UUID, start, ret domain.DateTime) *domain.Rental {
	return &domain.Rental{
		ID:          id,
		CarID:       carID,
		ClientID:    clientID,
		StartDate:   start,
		ReturnDate:  ret,
		RentalPrice: 1500,
		Status:      domain.RentalStatusReserved,
	}
}

// CreateAuthContext создает контекст с claims пользователя для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, username string) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID:   userID,
		Username: username,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// MustParseDateTime парсит дату, падая при ошибке
func MustParseDateTime(t *testing.T, value string) domain.DateTime {
	t.Helper()
	dt, err := domain.ParseDateTime(value)
	if err != nil {
		t.Fatalf("failed to parse datetime %q: %v", value, err)
	}
	return dt
}
