package db

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// SaveUser creates the profile on first use and replaces it afterwards.
func (repo *UserRepository) SaveUser(ctx context.Context, user *models.User) error {
	user.Language = strings.TrimSpace(user.Language)
	if user.Language == "" {
		user.Language = "en"
	}
	if user.CreatedAt.IsZero() {
		existing, err := repo.FindUser(ctx, user.ID)
		if err == nil {
			user.CreatedAt = existing.CreatedAt
		} else {
			user.CreatedAt = time.Now().UTC()
		}
	}
	return repo.database.WithContext(ctx).Save(user).Error
}

func (repo *UserRepository) UpdateDeviceToken(ctx context.Context, userID string, deviceToken string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("device_token", strings.TrimSpace(deviceToken))
	return requireAffected(result)
}
