package db

import (
	"context"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/security"
	"gorm.io/gorm"
)

type SupportRepository struct {
	database *gorm.DB
}

func NewSupportRepository(database *gorm.DB) *SupportRepository {
	return &SupportRepository{database: database}
}

func (repo *SupportRepository) CreateSupportRequest(ctx context.Context, request *models.SupportRequest) error {
	if request.ID == "" {
		id, err := security.NewDocumentID()
		if err != nil {
			return err
		}
		request.ID = id
	}
	if request.Status == "" {
		request.Status = models.SupportStatusOpen
	}
	return repo.database.WithContext(ctx).Create(request).Error
}

func (repo *SupportRepository) FindSupportRequest(ctx context.Context, requestID string) (models.SupportRequest, error) {
	var request models.SupportRequest
	if err := repo.database.WithContext(ctx).Where("id = ?", requestID).First(&request).Error; err != nil {
		return models.SupportRequest{}, notFound(err)
	}
	return request, nil
}

func (repo *SupportRepository) ListSupportRequests(ctx context.Context, status string, supportType string) ([]models.SupportRequest, error) {
	requests := make([]models.SupportRequest, 0)
	query := repo.database.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if supportType != "" {
		query = query.Where("support_type = ?", supportType)
	}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (repo *SupportRepository) UpdateSupportStatus(ctx context.Context, requestID string, status string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.SupportRequest{}).
		Where("id = ?", requestID).
		Update("status", status)
	return requireAffected(result)
}
