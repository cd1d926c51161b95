package clients

import (
	"context"
	"testing"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockRentalRepository - мок счетчика активных аренд
type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

// MockAssetsClient - мок для клиента хранилища файлов
type MockAssetsClient struct {
	mock.Mock
}

func (m *MockAssetsClient) Delete(ctx context.Context, rawURL string) error {
	args := m.Called(ctx, rawURL)
	return args.Error(0)
}

func (m *MockAssetsClient) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

// TestService_UpdateClient тестирует частичное обновление изображений документов
func TestService_UpdateClient(t *testing.T) {
	clientID := uuid.New()

	stored := func() *domain.Client {
		return &domain.Client{
			ID:             clientID,
			FullName:       "Ахмед Бензема",
			PassportID:     "AB123456",
			DrivingLicense: "DL7890",
			PassportImage:  strPtr("https://assets.example.com/passport-old.jpg"),
			LicenseImage:   strPtr("https://assets.example.com/license.jpg"),
		}
	}

	t.Run("nil в поле изображения сохраняет старый URL", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		assetsClient := new(MockAssetsClient)

		update := &domain.ClientUpdate{
			FullName:       "Ахмед Бензема",
			PassportID:     "AB123456",
			DrivingLicense: "DL7890",
			PassportImage:  nil,
			LicenseImage:   nil,
		}

		clientRepo.On("GetByID", mock.Anything, clientID).Return(stored(), nil)
		clientRepo.On("Update", mock.Anything, clientID, update).Return(nil)

		svc := NewService(clientRepo, nil, assetsClient, logger.NewNoop())

		_, err := svc.UpdateClient(context.Background(), clientID, update)
		require.NoError(t, err)

		// Старые изображения не трогаем
		assetsClient.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("замена изображения удаляет старый файл", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		assetsClient := new(MockAssetsClient)

		update := &domain.ClientUpdate{
			FullName:      "Ахмед Бензема",
			PassportImage: strPtr("https://assets.example.com/passport-new.jpg"),
		}

		clientRepo.On("GetByID", mock.Anything, clientID).Return(stored(), nil)
		clientRepo.On("Update", mock.Anything, clientID, update).Return(nil)
		assetsClient.On("Delete", mock.Anything, "https://assets.example.com/passport-old.jpg").Return(nil)

		svc := NewService(clientRepo, nil, assetsClient, logger.NewNoop())

		_, err := svc.UpdateClient(context.Background(), clientID, update)
		require.NoError(t, err)

		assetsClient.AssertExpectations(t)
	})

	t.Run("сбой удаления файла не откатывает обновление", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		assetsClient := new(MockAssetsClient)

		update := &domain.ClientUpdate{
			FullName:      "Ахмед Бензема",
			PassportImage: strPtr(""),
		}

		clientRepo.On("GetByID", mock.Anything, clientID).Return(stored(), nil)
		clientRepo.On("Update", mock.Anything, clientID, update).Return(nil)
		assetsClient.On("Delete", mock.Anything, "https://assets.example.com/passport-old.jpg").Return(assert.AnError)

		svc := NewService(clientRepo, nil, assetsClient, logger.NewNoop())

		_, err := svc.UpdateClient(context.Background(), clientID, update)
		assert.NoError(t, err)
	})

	t.Run("пустое имя отклоняется", func(t *testing.T) {
		svc := NewService(new(MockClientRepository), nil, new(MockAssetsClient), logger.NewNoop())

		_, err := svc.UpdateClient(context.Background(), clientID, &domain.ClientUpdate{FullName: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidClientData)
	})
}

// TestService_DeleteClient тестирует удаление клиента
func TestService_DeleteClient(t *testing.T) {
	clientID := uuid.New()

	t.Run("успешное удаление чистит оба изображения", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		rentalRepo := new(MockRentalRepository)
		assetsClient := new(MockAssetsClient)

		clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{
			ID:            clientID,
			FullName:      "Юсеф Амрани",
			PassportImage: strPtr("https://assets.example.com/p.jpg"),
			LicenseImage:  strPtr("https://assets.example.com/l.jpg"),
		}, nil)
		rentalRepo.On("CountActiveByClient", mock.Anything, clientID).Return(0, nil)
		clientRepo.On("Delete", mock.Anything, clientID).Return(nil)
		assetsClient.On("Delete", mock.Anything, "https://assets.example.com/p.jpg").Return(nil)
		assetsClient.On("Delete", mock.Anything, "https://assets.example.com/l.jpg").Return(nil)

		svc := NewService(clientRepo, rentalRepo, assetsClient, logger.NewNoop())

		err := svc.DeleteClient(context.Background(), clientID)
		require.NoError(t, err)

		clientRepo.AssertExpectations(t)
		assetsClient.AssertExpectations(t)
	})

	t.Run("клиент с активной арендой не удаляется", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		rentalRepo := new(MockRentalRepository)
		assetsClient := new(MockAssetsClient)

		clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{
			ID:       clientID,
			FullName: "Юсеф Амрани",
		}, nil)
		rentalRepo.On("CountActiveByClient", mock.Anything, clientID).Return(1, nil)

		svc := NewService(clientRepo, rentalRepo, assetsClient, logger.NewNoop())

		err := svc.DeleteClient(context.Background(), clientID)
		assert.ErrorIs(t, err, domain.ErrClientHasRentals)

		clientRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("несуществующий клиент", func(t *testing.T) {
		clientRepo := new(MockClientRepository)

		clientRepo.On("GetByID", mock.Anything, clientID).Return(nil, domain.ErrClientNotFound)

		svc := NewService(clientRepo, new(MockRentalRepository), new(MockAssetsClient), logger.NewNoop())

		err := svc.DeleteClient(context.Background(), clientID)
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})
}
