package db

import (
	"context"

	"github.com/terraincognita07/femcare/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) LoadCycle(ctx context.Context, userID string) (models.CycleRecord, error) {
	var record models.CycleRecord
	if err := repo.database.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		return models.CycleRecord{}, notFound(err)
	}
	return record, nil
}

// SaveCycle replaces the whole record; the last write wins.
func (repo *CycleRepository) SaveCycle(ctx context.Context, record *models.CycleRecord) error {
	if record.CycleLengthHistory == nil {
		record.CycleLengthHistory = []int{}
	}
	return repo.database.WithContext(ctx).Save(record).Error
}
