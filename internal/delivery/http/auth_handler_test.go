package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок для auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.LoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// TestAuthHandler_Register тестирует регистрацию пользователя
func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешная регистрация",
			requestBody: auth.RegisterRequest{
				Username: "manager",
				Password: "secure-password",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(&domain.User{
						ID:       userID,
						Username: "manager",
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.Equal(t, true, resp["success"])
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, "manager", data["username"])
					// Хэш пароля не должен попадать в ответ
					assert.NotContains(t, data, "password_hash")
				}
			},
		},
		{
			name: "пользователь уже существует",
			requestBody: auth.RegisterRequest{
				Username: "manager",
				Password: "secure-password",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.NotEmpty(t, resp["error"])
			},
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid",
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.NotEmpty(t, resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Login тестирует вход пользователя
func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешный вход",
			requestBody: auth.LoginRequest{
				Username: "manager",
				Password: "secure-password",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(&auth.LoginResponse{
						User:         &domain.User{ID: userID, Username: "manager"},
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, "access-token", data["access_token"])
					assert.NotEmpty(t, data["refresh_token"])
				}
			},
		},
		{
			name: "неверный пароль",
			requestBody: auth.LoginRequest{
				Username: "manager",
				Password: "wrong",
			},
			mockSetup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
					Return(nil, domain.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.NotEmpty(t, resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_Refresh тестирует обновление пары токенов
func TestAuthHandler_Refresh(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockAuthService)
		expectedStatus int
	}{
		{
			name:        "успешное обновление",
			requestBody: map[string]string{"refresh_token": "valid-token"},
			mockSetup: func(m *MockAuthService) {
				m.On("Refresh", mock.Anything, "valid-token").
					Return(&auth.LoginResponse{
						AccessToken:  "new-access",
						RefreshToken: "new-refresh",
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "просроченный токен",
			requestBody: map[string]string{"refresh_token": "expired-token"},
			mockSetup: func(m *MockAuthService) {
				m.On("Refresh", mock.Anything, "expired-token").
					Return(nil, domain.ErrTokenExpired)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "пустой токен",
			requestBody:    map[string]string{},
			mockSetup:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tt.mockSetup(mockService)

			handler := NewAuthHandler(mockService, logger.NewNoop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Refresh(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestAuthHandler_GetMe тестирует получение текущего пользователя
func TestAuthHandler_GetMe(t *testing.T) {
	userID := uuid.New()

	t.Run("успешное получение", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("GetUserByID", mock.Anything, userID).
			Return(&domain.User{ID: userID, Username: "manager"}, nil)

		handler := NewAuthHandler(mockService, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req = req.WithContext(CreateAuthContext(t, userID, "manager"))
		w := httptest.NewRecorder()

		handler.GetMe(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("без claims в контексте", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewAuthHandler(mockService, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()

		handler.GetMe(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})
}
