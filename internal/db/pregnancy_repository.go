package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/security"
	"github.com/terraincognita07/femcare/internal/services"
	"gorm.io/gorm"
)

type PregnancyRepository struct {
	database *gorm.DB
}

func NewPregnancyRepository(database *gorm.DB) *PregnancyRepository {
	return &PregnancyRepository{database: database}
}

func (repo *PregnancyRepository) LoadPregnancy(ctx context.Context, userID string) (models.PregnancyData, error) {
	var data models.PregnancyData
	if err := repo.database.WithContext(ctx).Where("user_id = ?", userID).First(&data).Error; err != nil {
		return models.PregnancyData{}, notFound(err)
	}
	return data, nil
}

// SavePregnancy writes the whole aggregate. There is one document per user, so an
// unknown id is replaced by the stored one.
func (repo *PregnancyRepository) SavePregnancy(ctx context.Context, data *models.PregnancyData) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PregnancyData
		err := tx.Select("id").Where("user_id = ?", data.UserID).First(&existing).Error
		switch {
		case err == nil:
			data.ID = existing.ID
		case errors.Is(notFound(err), services.ErrNotFound):
			if data.ID == "" {
				id, idErr := security.NewDocumentID()
				if idErr != nil {
					return idErr
				}
				data.ID = id
			}
		default:
			return err
		}
		return tx.Save(data).Error
	})
}
