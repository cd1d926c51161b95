package clients

import (
	"context"
	"fmt"

	"github.com/atlasrent/backend/internal/domain"
	"github.com/atlasrent/backend/internal/infrastructure/assets"
	"github.com/atlasrent/backend/internal/pkg/logger"
	"github.com/atlasrent/backend/internal/repository"
	"github.com/google/uuid"
)

// CreateClientRequest - запрос на регистрацию клиента
type CreateClientRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	PassportID     string  `json:"passport_id" validate:"required"`
	DrivingLicense string  `json:"driving_license" validate:"required"`
	PassportImage  *string `json:"passport_image,omitempty"`
	LicenseImage   *string `json:"license_image,omitempty"`
}

// ActiveRentalCounter отдает количество активных аренд клиента.
// Реализуется rental repository
type ActiveRentalCounter interface {
	CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

// Service содержит бизнес-логику управления клиентами
type Service struct {
	clientRepo repository.ClientRepository
	rentalRepo ActiveRentalCounter
	assets     assets.Client
	logger     logger.Logger
}

// NewService создает новый экземпляр ClientService
func NewService(
	clientRepo repository.ClientRepository,
	rentalRepo ActiveRentalCounter,
	assetsClient assets.Client,
	logger logger.Logger,
) *Service {
	return &Service{
		clientRepo: clientRepo,
		rentalRepo: rentalRepo,
		assets:     assetsClient,
		logger:     logger,
	}
}

// CreateClient регистрирует нового клиента
func (s *Service) CreateClient(ctx context.Context, req *CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		FullName:       req.FullName,
		PassportID:     req.PassportID,
		DrivingLicense: req.DrivingLicense,
		PassportImage:  req.PassportImage,
		LicenseImage:   req.LicenseImage,
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("Client created", map[string]interface{}{
		"client_id": client.ID,
	})

	return client, nil
}

// GetClient возвращает клиента по ID
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// UpdateClient обновляет данные клиента.
// nil в поле изображения означает "оставить как есть", пустая строка -
// "удалить изображение"
func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, update *domain.ClientUpdate) (*domain.Client, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	// Замененные или сброшенные изображения чистим в хранилище;
	// неудача не откатывает обновление
	s.cleanupReplacedImage(ctx, existing.PassportImage, update.PassportImage)
	s.cleanupReplacedImage(ctx, existing.LicenseImage, update.LicenseImage)

	s.logger.Info("Client updated", map[string]interface{}{
		"client_id": id,
	})

	return s.clientRepo.GetByID(ctx, id)
}

// DeleteClient удаляет клиента вместе с изображениями документов.
// Клиента с активными арендами удалить нельзя
func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.rentalRepo.CountActiveByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count active rentals: %w", err)
	}
	if count > 0 {
		return domain.ErrClientHasRentals
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteImage(ctx, client.PassportImage)
	s.deleteImage(ctx, client.LicenseImage)

	s.logger.Info("Client deleted", map[string]interface{}{
		"client_id": id,
	})

	return nil
}

// ListClients возвращает страницу клиентов
func (s *Service) ListClients(ctx context.Context, limit, offset int, search string) ([]*domain.Client, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.clientRepo.List(ctx, limit, offset, search)
}

// cleanupReplacedImage удаляет старое изображение, если оно заменено
// или сброшено обновлением
func (s *Service) cleanupReplacedImage(ctx context.Context, old *string, updated *string) {
	if updated == nil || old == nil || *old == "" {
		return
	}
	if *updated == *old {
		return
	}

	s.deleteImage(ctx, old)
}

func (s *Service) deleteImage(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}

	if err := s.assets.Delete(ctx, *url); err != nil {
		s.logger.Warn("Failed to delete client image", map[string]interface{}{
			"url":   *url,
			"error": err.Error(),
		})
	}
}
