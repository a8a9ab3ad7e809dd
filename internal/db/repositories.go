package db

import (
	"errors"

	"github.com/terraincognita07/femcare/internal/services"
	"gorm.io/gorm"
)

type Repositories struct {
	Users       *UserRepository
	Cycles      *CycleRepository
	Reminders   *ReminderRepository
	Support     *SupportRepository
	Messages    *MessageRepository
	Pregnancies *PregnancyRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Cycles:      NewCycleRepository(database),
		Reminders:   NewReminderRepository(database),
		Support:     NewSupportRepository(database),
		Messages:    NewMessageRepository(database),
		Pregnancies: NewPregnancyRepository(database),
	}
}

// notFound translates the gorm sentinel so callers only check services.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

func requireAffected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}
