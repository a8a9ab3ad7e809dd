package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/femcare/internal/models"
)

const DefaultReminderSchedule = "*/5 * * * *"

type Pusher interface {
	Push(ctx context.Context, deviceToken string, notification PushNotification) error
}

type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

type UserDirectory interface {
	FindUser(ctx context.Context, userID string) (models.User, error)
}

type ReminderNotifier struct {
	reminders              ReminderRepository
	users                  UserDirectory
	pusher                 Pusher
	location               *time.Location
	schedule               string
	now                    func() time.Time
	mu                     sync.Mutex
	sentDailyNotifications map[string]time.Time
}

func NewReminderNotifier(reminders ReminderRepository, users UserDirectory, pusher Pusher, location *time.Location, schedule string) *ReminderNotifier {
	if location == nil {
		location = time.Local
	}
	if strings.TrimSpace(schedule) == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderNotifier{
		reminders:              reminders,
		users:                  users,
		pusher:                 pusher,
		location:               location,
		schedule:               schedule,
		now:                    time.Now,
		sentDailyNotifications: make(map[string]time.Time),
	}
}

// Start runs Run on the cron schedule until ctx is cancelled.
func (notifier *ReminderNotifier) Start(ctx context.Context) error {
	scheduler := cron.New(cron.WithLocation(notifier.location))
	if _, err := scheduler.AddFunc(notifier.schedule, func() {
		notifier.Run(ctx)
	}); err != nil {
		return fmt.Errorf("parse reminder schedule %q: %w", notifier.schedule, err)
	}
	scheduler.Start()

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}()
	return nil
}

// Run sends every due reminder once and returns how many were pushed.
func (notifier *ReminderNotifier) Run(ctx context.Context) int {
	reminders, err := notifier.reminders.ListActiveReminders(ctx)
	if err != nil {
		log.Printf("notifications: fetch reminders failed: %v", err)
		return 0
	}

	now := notifier.now().In(notifier.location)
	today := dateOnly(now)
	sent := 0

	for _, reminder := range reminders {
		slot, due := DueReminderSlot(reminder, now, notifier.location)
		if !due {
			continue
		}

		key := fmt.Sprintf("reminder:%s:%s", reminder.ID, slot.Format("2006-01-02T15:04"))
		if !notifier.shouldSend(key, today) {
			continue
		}

		user, err := notifier.users.FindUser(ctx, reminder.UserID)
		if err != nil {
			log.Printf("notifications: fetch user %s failed: %v", reminder.UserID, err)
			continue
		}
		if strings.TrimSpace(user.DeviceToken) == "" {
			continue
		}

		if err := notifier.pusher.Push(ctx, user.DeviceToken, reminderNotification(reminder, slot)); err != nil {
			log.Printf("notifications: push reminder %s failed: %v", reminder.ID, err)
			continue
		}
		if err := notifier.reminders.MarkReminderNotified(ctx, reminder.ID, now); err != nil {
			log.Printf("notifications: mark reminder %s notified failed: %v", reminder.ID, err)
		}
		sent++
	}
	return sent
}

func reminderNotification(reminder models.Reminder, slot time.Time) PushNotification {
	title := "Medication reminder"
	if reminder.Kind == models.ReminderKindAppointment {
		title = "Appointment reminder"
	}
	return PushNotification{
		Title: title,
		Body:  fmt.Sprintf("%s at %s", reminder.Title, slot.Format("3:04 PM")),
		Data: map[string]string{
			"type":       "reminder",
			"reminderId": reminder.ID,
			"kind":       reminder.Kind,
		},
	}
}

func (notifier *ReminderNotifier) shouldSend(key string, today time.Time) bool {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	if sentOn, ok := notifier.sentDailyNotifications[key]; ok && sameDay(sentOn, today) {
		return false
	}

	notifier.sentDailyNotifications[key] = today
	if len(notifier.sentDailyNotifications) > 500 {
		notifier.sentDailyNotifications = make(map[string]time.Time)
	}
	return true
}

// LogPusher is used when no push provider is configured.
type LogPusher struct{}

func (LogPusher) Push(_ context.Context, deviceToken string, notification PushNotification) error {
	log.Printf("notifications: push to %s: %s: %s", deviceToken, notification.Title, notification.Body)
	return nil
}
