package scheduling

import (
	"context"
	"testing"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/clock"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRentalRepository - мок для rental repository
type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) CreateReservation(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalDetail), args.Error(1)
}

func (m *MockRentalRepository) GetActiveByCar(ctx context.Context, carID uuid.UUID, exclude *uuid.UUID) ([]*domain.Rental, error) {
	args := m.Called(ctx, carID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) UpdateRental(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Rental), args.Int(1), args.Error(2)
}

func (m *MockRentalRepository) MarkExpired(ctx context.Context, now domain.DateTime) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockRentalRepository) FindStartingBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) FindReturningBetween(ctx context.Context, from, to domain.DateTime) ([]*domain.Rental, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) FindOverdue(ctx context.Context, before domain.DateTime) ([]*domain.Rental, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) Revenue(ctx context.Context, from, to *domain.DateTime) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRentalRepository) CountActiveByCar(ctx context.Context, carID uuid.UUID) (int, error) {
	args := m.Called(ctx, carID)
	return args.Int(0), args.Error(1)
}

func (m *MockRentalRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

// MockCarRepository - мок для car repository
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepository) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Car, int, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Car), args.Int(1), args.Error(2)
}

func (m *MockCarRepository) GetStats(ctx context.Context) (*domain.CarStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarStats), args.Error(1)
}

// MockClientRepository - мок для client repository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ClientUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int, search string) ([]*domain.Client, int, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Client), args.Int(1), args.Error(2)
}

func mustParse(t *testing.T, s string) domain.DateTime {
	t.Helper()
	d, err := domain.ParseDateTime(s)
	require.NoError(t, err)
	return d
}

func fixedClock(t *testing.T, s string) clock.Clock {
	t.Helper()
	c, err := clock.NewFixed(s)
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T, rentalRepo *MockRentalRepository, carRepo *MockCarRepository, clientRepo *MockClientRepository, now string) *Service {
	t.Helper()
	return NewService(rentalRepo, carRepo, clientRepo, fixedClock(t, now), logger.NewNoop())
}

// TestService_CreateRental тестирует бронирование и защиту от двойного бронирования
func TestService_CreateRental(t *testing.T) {
	carID := uuid.New()
	clientID := uuid.New()

	existing := &domain.Rental{
		ID:         uuid.New(),
		CarID:      carID,
		ClientID:   uuid.New(),
		StartDate:  mustParse(t, "2024-06-01T10:00"),
		ReturnDate: mustParse(t, "2024-06-05T10:00"),
		Status:     domain.RentalStatusReserved,
	}

	tests := []struct {
		name      string
		req       *CreateRentalRequest
		mockSetup func(*MockRentalRepository, *MockClientRepository)
		wantErr   error
	}{
		{
			name: "успешное бронирование свободного периода",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-10T10:00"),
				ReturnDate:  mustParse(t, "2024-06-12T10:00"),
				RentalPrice: 300,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				cr.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
				rr.On("GetActiveByCar", mock.Anything, carID, (*uuid.UUID)(nil)).Return([]*domain.Rental{existing}, nil)
				rr.On("CreateReservation", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
			},
		},
		{
			name: "пересечение с существующей бронью",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-04T00:00"),
				ReturnDate:  mustParse(t, "2024-06-06T00:00"),
				RentalPrice: 200,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				cr.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
				rr.On("GetActiveByCar", mock.Anything, carID, (*uuid.UUID)(nil)).Return([]*domain.Rental{existing}, nil)
			},
			wantErr: domain.ErrSchedulingConflict,
		},
		{
			name: "бронь впритык к возврату проходит",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-05T10:00"),
				ReturnDate:  mustParse(t, "2024-06-07T10:00"),
				RentalPrice: 200,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				cr.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
				rr.On("GetActiveByCar", mock.Anything, carID, (*uuid.UUID)(nil)).Return([]*domain.Rental{existing}, nil)
				rr.On("CreateReservation", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
			},
		},
		{
			name: "возврат раньше старта",
			req: &CreateRentalRequest{
				CarID:      carID,
				ClientID:   clientID,
				StartDate:  mustParse(t, "2024-06-05T10:00"),
				ReturnDate: mustParse(t, "2024-06-01T10:00"),
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {},
			wantErr:   domain.ErrInvalidDateRange,
		},
		{
			name: "несуществующий клиент",
			req: &CreateRentalRequest{
				CarID:      carID,
				ClientID:   clientID,
				StartDate:  mustParse(t, "2024-06-10T10:00"),
				ReturnDate: mustParse(t, "2024-06-12T10:00"),
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				cr.On("GetByID", mock.Anything, clientID).Return(nil, domain.ErrClientNotFound)
			},
			wantErr: domain.ErrClientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rentalRepo := new(MockRentalRepository)
			carRepo := new(MockCarRepository)
			clientRepo := new(MockClientRepository)
			tt.mockSetup(rentalRepo, clientRepo)

			svc := newTestService(t, rentalRepo, carRepo, clientRepo, "2024-06-01T00:00")

			rental, err := svc.CreateRental(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rental)
			} else {
				require.NoError(t, err)
				require.NotNil(t, rental)
				assert.Equal(t, tt.req.CarID, rental.CarID)
			}

			rentalRepo.AssertExpectations(t)
			clientRepo.AssertExpectations(t)
		})
	}
}

// TestService_UpdateRental тестирует изменение брони с исключением
// самой аренды из проверки пересечения
func TestService_UpdateRental(t *testing.T) {
	rentalID := uuid.New()
	carID := uuid.New()
	clientID := uuid.New()

	current := &domain.RentalDetail{
		Rental: domain.Rental{
			ID:         rentalID,
			CarID:      carID,
			ClientID:   clientID,
			StartDate:  mustParse(t, "2024-06-01T10:00"),
			ReturnDate: mustParse(t, "2024-06-05T10:00"),
			Status:     domain.RentalStatusReserved,
		},
	}

	other := &domain.Rental{
		ID:         uuid.New(),
		CarID:      carID,
		ClientID:   uuid.New(),
		StartDate:  mustParse(t, "2024-06-10T10:00"),
		ReturnDate: mustParse(t, "2024-06-12T10:00"),
		Status:     domain.RentalStatusReserved,
	}

	tests := []struct {
		name      string
		req       *CreateRentalRequest
		mockSetup func(*MockRentalRepository, *MockClientRepository)
		wantErr   error
	}{
		{
			name: "сдвиг дат внутри собственного окна проходит",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-02T10:00"),
				ReturnDate:  mustParse(t, "2024-06-06T10:00"),
				RentalPrice: 400,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				rr.On("GetByID", mock.Anything, rentalID).Return(current, nil)
				cr.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
				// Сама аренда исключена из выборки, остается только чужая бронь
				rr.On("GetActiveByCar", mock.Anything, carID, &rentalID).Return([]*domain.Rental{other}, nil)
				rr.On("UpdateRental", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
			},
		},
		{
			name: "новые даты пересекаются с чужой бронью",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-09T10:00"),
				ReturnDate:  mustParse(t, "2024-06-11T10:00"),
				RentalPrice: 400,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				rr.On("GetByID", mock.Anything, rentalID).Return(current, nil)
				cr.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
				rr.On("GetActiveByCar", mock.Anything, carID, &rentalID).Return([]*domain.Rental{other}, nil)
			},
			wantErr: domain.ErrSchedulingConflict,
		},
		{
			name: "возврат раньше старта",
			req: &CreateRentalRequest{
				CarID:      carID,
				ClientID:   clientID,
				StartDate:  mustParse(t, "2024-06-06T10:00"),
				ReturnDate: mustParse(t, "2024-06-02T10:00"),
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {},
			wantErr:   domain.ErrInvalidDateRange,
		},
		{
			name: "аренда не найдена",
			req: &CreateRentalRequest{
				CarID:       carID,
				ClientID:    clientID,
				StartDate:   mustParse(t, "2024-06-02T10:00"),
				ReturnDate:  mustParse(t, "2024-06-06T10:00"),
				RentalPrice: 400,
			},
			mockSetup: func(rr *MockRentalRepository, cr *MockClientRepository) {
				rr.On("GetByID", mock.Anything, rentalID).Return(nil, domain.ErrRentalNotFound)
			},
			wantErr: domain.ErrRentalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rentalRepo := new(MockRentalRepository)
			carRepo := new(MockCarRepository)
			clientRepo := new(MockClientRepository)
			tt.mockSetup(rentalRepo, clientRepo)

			svc := newTestService(t, rentalRepo, carRepo, clientRepo, "2024-06-01T00:00")

			detail, err := svc.UpdateRental(context.Background(), rentalID, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, detail)
			} else {
				require.NoError(t, err)
				require.NotNil(t, detail)
			}

			rentalRepo.AssertExpectations(t)
			clientRepo.AssertExpectations(t)
		})
	}
}

// TestService_ReturnedRentalEditSkipsOverlapCheck проверяет, что
// изменение возвращенной аренды не упирается в занятость автомобиля
func TestService_ReturnedRentalEditSkipsOverlapCheck(t *testing.T) {
	rentalID := uuid.New()
	carID := uuid.New()
	clientID := uuid.New()

	returned := &domain.RentalDetail{
		Rental: domain.Rental{
			ID:         rentalID,
			CarID:      carID,
			ClientID:   clientID,
			StartDate:  mustParse(t, "2024-05-01T10:00"),
			ReturnDate: mustParse(t, "2024-05-05T10:00"),
			Status:     domain.RentalStatusReturned,
		},
	}

	rentalRepo := new(MockRentalRepository)
	carRepo := new(MockCarRepository)
	clientRepo := new(MockClientRepository)

	rentalRepo.On("GetByID", mock.Anything, rentalID).Return(returned, nil)
	clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID, FullName: "Test Client"}, nil)
	rentalRepo.On("UpdateRental", mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)

	svc := newTestService(t, rentalRepo, carRepo, clientRepo, "2024-06-01T00:00")

	// Исправление цены в истории: даже период, занятый текущей
	// арендой машины, не должен давать конфликт
	detail, err := svc.UpdateRental(context.Background(), rentalID, &CreateRentalRequest{
		CarID:       carID,
		ClientID:    clientID,
		StartDate:   mustParse(t, "2024-05-01T10:00"),
		ReturnDate:  mustParse(t, "2024-05-05T10:00"),
		RentalPrice: 999,
	})

	require.NoError(t, err)
	require.NotNil(t, detail)
	rentalRepo.AssertNotCalled(t, "GetActiveByCar", mock.Anything, mock.Anything, mock.Anything)
}

// TestService_UpdateStatus тестирует переходы жизненного цикла аренды
func TestService_UpdateStatus(t *testing.T) {
	rentalID := uuid.New()

	detail := func(status domain.RentalStatus) *domain.RentalDetail {
		return &domain.RentalDetail{
			Rental: domain.Rental{
				ID:         rentalID,
				CarID:      uuid.New(),
				ClientID:   uuid.New(),
				StartDate:  mustParse(t, "2024-06-01T10:00"),
				ReturnDate: mustParse(t, "2024-06-05T10:00"),
				Status:     status,
			},
		}
	}

	tests := []struct {
		name      string
		from      domain.RentalStatus
		to        domain.RentalStatus
		mockSetup func(*MockRentalRepository, domain.RentalStatus)
		wantErr   error
	}{
		{
			name: "выдача машины по брони",
			from: domain.RentalStatusReserved,
			to:   domain.RentalStatusRented,
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {
				rr.On("GetByID", mock.Anything, rentalID).Return(detail(from), nil)
				rr.On("UpdateStatus", mock.Anything, rentalID, domain.RentalStatusRented).Return(nil)
			},
		},
		{
			name: "досрочное закрытие брони",
			from: domain.RentalStatusReserved,
			to:   domain.RentalStatusReturned,
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {
				rr.On("GetByID", mock.Anything, rentalID).Return(detail(from), nil)
				rr.On("UpdateStatus", mock.Anything, rentalID, domain.RentalStatusReturned).Return(nil)
			},
		},
		{
			name: "возврат из проката",
			from: domain.RentalStatusRented,
			to:   domain.RentalStatusReturned,
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {
				rr.On("GetByID", mock.Anything, rentalID).Return(detail(from), nil)
				rr.On("UpdateStatus", mock.Anything, rentalID, domain.RentalStatusReturned).Return(nil)
			},
		},
		{
			name: "обратный переход запрещен",
			from: domain.RentalStatusRented,
			to:   domain.RentalStatusReserved,
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {
				rr.On("GetByID", mock.Anything, rentalID).Return(detail(from), nil)
			},
			wantErr: domain.ErrInvalidStatusTransition,
		},
		{
			name: "возвращенная аренда терминальна",
			from: domain.RentalStatusReturned,
			to:   domain.RentalStatusRented,
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {
				rr.On("GetByID", mock.Anything, rentalID).Return(detail(from), nil)
			},
			wantErr: domain.ErrInvalidStatusTransition,
		},
		{
			name:      "неизвестный статус",
			from:      domain.RentalStatusReserved,
			to:        domain.RentalStatus("lost"),
			mockSetup: func(rr *MockRentalRepository, from domain.RentalStatus) {},
			wantErr:   domain.ErrInvalidRentalData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rentalRepo := new(MockRentalRepository)
			tt.mockSetup(rentalRepo, tt.from)

			svc := newTestService(t, rentalRepo, new(MockCarRepository), new(MockClientRepository), "2024-06-01T00:00")

			result, err := svc.UpdateStatus(context.Background(), rentalID, tt.to)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, result.Status)
			}

			rentalRepo.AssertExpectations(t)
		})
	}
}

// TestService_SweepExpired тестирует закрытие просроченных аренд по бизнес-часам
func TestService_SweepExpired(t *testing.T) {
	t.Run("просроченные аренды закрываются", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		now := mustParse(t, "2024-06-05T10:01")
		rentalRepo.On("MarkExpired", mock.Anything, now).Return(2, nil)

		svc := newTestService(t, rentalRepo, new(MockCarRepository), new(MockClientRepository), "2024-06-05T10:01")

		count, err := svc.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		rentalRepo.AssertExpectations(t)
	})

	t.Run("повторный вызов ничего не находит", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		now := mustParse(t, "2024-06-05T10:01")
		rentalRepo.On("MarkExpired", mock.Anything, now).Return(0, nil)

		svc := newTestService(t, rentalRepo, new(MockCarRepository), new(MockClientRepository), "2024-06-05T10:01")

		count, err := svc.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

// TestService_Notifications тестирует окна и важность уведомлений дашборда
func TestService_Notifications(t *testing.T) {
	today := mustParse(t, "2024-06-05T00:00")
	tomorrow := mustParse(t, "2024-06-06T00:00")
	dayAfter := mustParse(t, "2024-06-07T00:00")

	startingToday := &domain.Rental{ID: uuid.New(), Status: domain.RentalStatusReserved}
	startingTomorrow := &domain.Rental{ID: uuid.New(), Status: domain.RentalStatusReserved}
	returningToday := &domain.Rental{ID: uuid.New(), Status: domain.RentalStatusRented}
	overdue := &domain.Rental{ID: uuid.New(), Status: domain.RentalStatusRented}

	rentalRepo := new(MockRentalRepository)
	rentalRepo.On("FindStartingBetween", mock.Anything, today, tomorrow).Return([]*domain.Rental{startingToday}, nil)
	rentalRepo.On("FindStartingBetween", mock.Anything, tomorrow, dayAfter).Return([]*domain.Rental{startingTomorrow}, nil)
	rentalRepo.On("FindReturningBetween", mock.Anything, today, tomorrow).Return([]*domain.Rental{returningToday}, nil)
	rentalRepo.On("FindOverdue", mock.Anything, today).Return([]*domain.Rental{overdue}, nil)

	// Время дня не влияет: окна считаются от полуночи
	svc := newTestService(t, rentalRepo, new(MockCarRepository), new(MockClientRepository), "2024-06-05T14:23")

	notifications, err := svc.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 4)

	byType := map[domain.NotificationType]*domain.Notification{}
	for _, n := range notifications {
		byType[n.Type] = n
	}

	assert.Equal(t, domain.SeverityWarning, byType[domain.NotificationStartToday].Severity)
	assert.Equal(t, startingToday.ID, byType[domain.NotificationStartToday].Rental.ID)

	assert.Equal(t, domain.SeverityInfo, byType[domain.NotificationStartTomorrow].Severity)
	assert.Equal(t, domain.SeverityWarning, byType[domain.NotificationReturnToday].Severity)
	assert.Equal(t, domain.SeverityDanger, byType[domain.NotificationOverdue].Severity)

	rentalRepo.AssertExpectations(t)
}

// TestService_OverrideCarStatus тестирует ручное управление статусом автомобиля
func TestService_OverrideCarStatus(t *testing.T) {
	carID := uuid.New()

	t.Run("освобождение машины без активных аренд", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		carRepo := new(MockCarRepository)
		carRepo.On("GetByID", mock.Anything, carID).Return(&domain.Car{ID: carID, Status: domain.CarStatusReserved}, nil).Once()
		rentalRepo.On("CountActiveByCar", mock.Anything, carID).Return(0, nil)
		carRepo.On("UpdateStatus", mock.Anything, carID, domain.CarStatusAvailable).Return(nil)
		carRepo.On("GetByID", mock.Anything, carID).Return(&domain.Car{ID: carID, Status: domain.CarStatusAvailable}, nil)

		svc := newTestService(t, rentalRepo, carRepo, new(MockClientRepository), "2024-06-01T00:00")

		car, err := svc.OverrideCarStatus(context.Background(), carID, domain.CarStatusAvailable)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusAvailable, car.Status)
	})

	t.Run("машину с активной арендой нельзя освободить вручную", func(t *testing.T) {
		rentalRepo := new(MockRentalRepository)
		carRepo := new(MockCarRepository)
		carRepo.On("GetByID", mock.Anything, carID).Return(&domain.Car{ID: carID, Status: domain.CarStatusRented}, nil)
		rentalRepo.On("CountActiveByCar", mock.Anything, carID).Return(1, nil)

		svc := newTestService(t, rentalRepo, carRepo, new(MockClientRepository), "2024-06-01T00:00")

		_, err := svc.OverrideCarStatus(context.Background(), carID, domain.CarStatusAvailable)
		assert.ErrorIs(t, err, domain.ErrCarHasRentals)
	})

	t.Run("неизвестный статус", func(t *testing.T) {
		svc := newTestService(t, new(MockRentalRepository), new(MockCarRepository), new(MockClientRepository), "2024-06-01T00:00")

		_, err := svc.OverrideCarStatus(context.Background(), carID, domain.CarStatus("broken"))
		assert.ErrorIs(t, err, domain.ErrInvalidCarStatus)
	})
}
