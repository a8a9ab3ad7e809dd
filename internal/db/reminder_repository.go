package db

import (
	"context"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/security"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	if reminder.ID == "" {
		id, err := security.NewDocumentID()
		if err != nil {
			return err
		}
		reminder.ID = id
	}
	if reminder.Status == "" {
		reminder.Status = models.ReminderStatusActive
	}
	return repo.database.WithContext(ctx).Create(reminder).Error
}

func (repo *ReminderRepository) FindReminder(ctx context.Context, reminderID string) (models.Reminder, error) {
	var reminder models.Reminder
	if err := repo.database.WithContext(ctx).Where("id = ?", reminderID).First(&reminder).Error; err != nil {
		return models.Reminder{}, notFound(err)
	}
	return reminder, nil
}

func (repo *ReminderRepository) ListReminders(ctx context.Context, userID string, status string) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	query := repo.database.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("date ASC, time ASC, id ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) ListActiveReminders(ctx context.Context) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	if err := repo.database.WithContext(ctx).
		Where("status = ?", models.ReminderStatusActive).
		Order("user_id ASC, date ASC, time ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) UpdateReminderStatus(ctx context.Context, reminderID string, status string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Update("status", status)
	return requireAffected(result)
}

func (repo *ReminderRepository) MarkReminderNotified(ctx context.Context, reminderID string, at time.Time) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Update("notified_at", at.UTC())
	return requireAffected(result)
}
