package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

type stubReminderRepository struct {
	mu        sync.Mutex
	reminders map[string]models.Reminder
	nextID    int
	listErr   error
	notified  []string
}

func newStubReminderRepository(reminders ...models.Reminder) *stubReminderRepository {
	repo := &stubReminderRepository{reminders: make(map[string]models.Reminder)}
	for _, reminder := range reminders {
		repo.reminders[reminder.ID] = reminder
	}
	return repo
}

func (repo *stubReminderRepository) CreateReminder(_ context.Context, reminder *models.Reminder) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.nextID++
	reminder.ID = fmt.Sprintf("reminder-%d", repo.nextID)
	repo.reminders[reminder.ID] = *reminder
	return nil
}

func (repo *stubReminderRepository) FindReminder(_ context.Context, reminderID string) (models.Reminder, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	reminder, ok := repo.reminders[reminderID]
	if !ok {
		return models.Reminder{}, ErrNotFound
	}
	return reminder, nil
}

func (repo *stubReminderRepository) ListReminders(_ context.Context, userID string, status string) ([]models.Reminder, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]models.Reminder, 0)
	for _, reminder := range repo.reminders {
		if reminder.UserID == userID && (status == "" || reminder.Status == status) {
			result = append(result, reminder)
		}
	}
	return result, nil
}

func (repo *stubReminderRepository) ListActiveReminders(_ context.Context) ([]models.Reminder, error) {
	if repo.listErr != nil {
		return nil, repo.listErr
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]models.Reminder, 0)
	for _, reminder := range repo.reminders {
		if reminder.Status == models.ReminderStatusActive {
			result = append(result, reminder)
		}
	}
	return result, nil
}

func (repo *stubReminderRepository) UpdateReminderStatus(_ context.Context, reminderID string, status string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	reminder, ok := repo.reminders[reminderID]
	if !ok {
		return ErrNotFound
	}
	reminder.Status = status
	repo.reminders[reminderID] = reminder
	return nil
}

func (repo *stubReminderRepository) MarkReminderNotified(_ context.Context, reminderID string, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	reminder, ok := repo.reminders[reminderID]
	if !ok {
		return ErrNotFound
	}
	notifiedAt := at
	reminder.NotifiedAt = &notifiedAt
	repo.reminders[reminderID] = reminder
	repo.notified = append(repo.notified, reminderID)
	return nil
}

type stubUserDirectory struct {
	users map[string]models.User
}

func (directory stubUserDirectory) FindUser(_ context.Context, userID string) (models.User, error) {
	user, ok := directory.users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

type pushedNotification struct {
	deviceToken  string
	notification PushNotification
}

type recordingPusher struct {
	pushed []pushedNotification
	err    error
}

func (pusher *recordingPusher) Push(_ context.Context, deviceToken string, notification PushNotification) error {
	if pusher.err != nil {
		return pusher.err
	}
	pusher.pushed = append(pusher.pushed, pushedNotification{deviceToken: deviceToken, notification: notification})
	return nil
}

type stubCycleRepository struct {
	record  *models.CycleRecord
	loadErr error
	saveErr error
	saves   int
}

func (repo *stubCycleRepository) LoadCycle(_ context.Context, userID string) (models.CycleRecord, error) {
	if repo.loadErr != nil {
		return models.CycleRecord{}, repo.loadErr
	}
	if repo.record == nil || repo.record.UserID != userID {
		return models.CycleRecord{}, fmt.Errorf("cycle %s: %w", userID, ErrNotFound)
	}
	return *repo.record, nil
}

func (repo *stubCycleRepository) SaveCycle(_ context.Context, record *models.CycleRecord) error {
	if repo.saveErr != nil {
		return repo.saveErr
	}
	stored := *record
	repo.record = &stored
	repo.saves++
	return nil
}

type stubPregnancyRepository struct {
	data    map[string]models.PregnancyData
	loadErr error
	saves   int
}

func newStubPregnancyRepository() *stubPregnancyRepository {
	return &stubPregnancyRepository{data: make(map[string]models.PregnancyData)}
}

func (repo *stubPregnancyRepository) LoadPregnancy(_ context.Context, userID string) (models.PregnancyData, error) {
	if repo.loadErr != nil {
		return models.PregnancyData{}, repo.loadErr
	}
	data, ok := repo.data[userID]
	if !ok {
		return models.PregnancyData{}, ErrNotFound
	}
	return data, nil
}

func (repo *stubPregnancyRepository) SavePregnancy(_ context.Context, data *models.PregnancyData) error {
	repo.data[data.UserID] = *data
	repo.saves++
	return nil
}

type stubSupportRepository struct {
	requests map[string]models.SupportRequest
	nextID   int
	lastType string
}

func newStubSupportRepository(requests ...models.SupportRequest) *stubSupportRepository {
	repo := &stubSupportRepository{requests: make(map[string]models.SupportRequest)}
	for _, request := range requests {
		repo.requests[request.ID] = request
	}
	return repo
}

func (repo *stubSupportRepository) CreateSupportRequest(_ context.Context, request *models.SupportRequest) error {
	repo.nextID++
	request.ID = fmt.Sprintf("request-%d", repo.nextID)
	repo.requests[request.ID] = *request
	return nil
}

func (repo *stubSupportRepository) FindSupportRequest(_ context.Context, requestID string) (models.SupportRequest, error) {
	request, ok := repo.requests[requestID]
	if !ok {
		return models.SupportRequest{}, ErrNotFound
	}
	return request, nil
}

func (repo *stubSupportRepository) ListSupportRequests(_ context.Context, status string, supportType string) ([]models.SupportRequest, error) {
	repo.lastType = supportType
	result := make([]models.SupportRequest, 0)
	for _, request := range repo.requests {
		if status != "" && request.Status != status {
			continue
		}
		if supportType != "" && request.SupportType != supportType {
			continue
		}
		result = append(result, request)
	}
	return result, nil
}

func (repo *stubSupportRepository) UpdateSupportStatus(_ context.Context, requestID string, status string) error {
	request, ok := repo.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	request.Status = status
	repo.requests[requestID] = request
	return nil
}

var errStubBackend = errors.New("backend unavailable")
