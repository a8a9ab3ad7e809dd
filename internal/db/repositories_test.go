package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "femcare-repos.db"))
	return NewRepositories(database)
}

func TestCycleRepositoryLoadMissingAndSave(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if _, err := repos.Cycles.LoadCycle(ctx, "u1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	start := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	record := models.CycleRecord{UserID: "u1", LastPeriodStart: &start, CycleLengthHistory: []int{28, 30}}
	if err := repos.Cycles.SaveCycle(ctx, &record); err != nil {
		t.Fatalf("SaveCycle() unexpected error: %v", err)
	}

	end := start.AddDate(0, 0, 4)
	record.PeriodEndDate = &end
	if err := repos.Cycles.SaveCycle(ctx, &record); err != nil {
		t.Fatalf("second SaveCycle() unexpected error: %v", err)
	}

	loaded, err := repos.Cycles.LoadCycle(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadCycle() unexpected error: %v", err)
	}
	if loaded.LastPeriodStart == nil || !loaded.LastPeriodStart.Equal(start) {
		t.Fatalf("unexpected start %v", loaded.LastPeriodStart)
	}
	if loaded.PeriodEndDate == nil || !loaded.PeriodEndDate.Equal(end) {
		t.Fatalf("unexpected end %v", loaded.PeriodEndDate)
	}
	if len(loaded.CycleLengthHistory) != 2 || loaded.CycleLengthHistory[1] != 30 {
		t.Fatalf("unexpected history %v", loaded.CycleLengthHistory)
	}
}

func TestReminderRepositoryLifecycle(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	reminder := models.Reminder{
		UserID:     "u1",
		Kind:       models.ReminderKindMedication,
		Title:      "Folic acid",
		Date:       time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Time:       "08:30",
		Recurrence: &models.RecurrenceRule{Frequency: models.RecurrenceDaily, Times: []string{"08:30", "20:30"}},
		Metadata:   map[string]string{"dose": "400mcg"},
	}
	if err := repos.Reminders.CreateReminder(ctx, &reminder); err != nil {
		t.Fatalf("CreateReminder() unexpected error: %v", err)
	}
	if len(reminder.ID) != 20 || reminder.Status != models.ReminderStatusActive {
		t.Fatalf("expected generated id and active status, got %+v", reminder)
	}

	found, err := repos.Reminders.FindReminder(ctx, reminder.ID)
	if err != nil {
		t.Fatalf("FindReminder() unexpected error: %v", err)
	}
	if found.Recurrence == nil || len(found.Recurrence.Times) != 2 || found.Metadata["dose"] != "400mcg" {
		t.Fatalf("unexpected stored reminder %+v", found)
	}

	active, err := repos.Reminders.ListActiveReminders(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("ListActiveReminders() = %d, %v", len(active), err)
	}

	notifiedAt := time.Date(2025, time.June, 10, 8, 31, 0, 0, time.UTC)
	if err := repos.Reminders.MarkReminderNotified(ctx, reminder.ID, notifiedAt); err != nil {
		t.Fatalf("MarkReminderNotified() unexpected error: %v", err)
	}
	if err := repos.Reminders.UpdateReminderStatus(ctx, reminder.ID, models.ReminderStatusCompleted); err != nil {
		t.Fatalf("UpdateReminderStatus() unexpected error: %v", err)
	}

	completed, err := repos.Reminders.ListReminders(ctx, "u1", models.ReminderStatusCompleted)
	if err != nil || len(completed) != 1 {
		t.Fatalf("ListReminders(completed) = %d, %v", len(completed), err)
	}
	if completed[0].NotifiedAt == nil || !completed[0].NotifiedAt.Equal(notifiedAt) {
		t.Fatalf("unexpected notified at %v", completed[0].NotifiedAt)
	}

	if err := repos.Reminders.UpdateReminderStatus(ctx, "missing", models.ReminderStatusCancelled); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing reminder, got %v", err)
	}
}

func TestMessageRepositoryBuildsPreviewsAndMarksRead(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	request := models.SupportRequest{UserID: "u1", Title: "Need company", SupportType: "emotional"}
	if err := repos.Support.CreateSupportRequest(ctx, &request); err != nil {
		t.Fatalf("CreateSupportRequest() unexpected error: %v", err)
	}

	first, err := repos.Messages.CreateMessage(ctx, models.Message{RequestID: request.ID, SenderID: "u2", ReceiverID: "u1", Content: "I can help"})
	if err != nil {
		t.Fatalf("CreateMessage() unexpected error: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() || first.Read {
		t.Fatalf("expected server assigned fields, got %+v", first)
	}
	if _, err := repos.Messages.CreateMessage(ctx, models.Message{RequestID: request.ID, SenderID: "u2", ReceiverID: "u1", Content: "When?"}); err != nil {
		t.Fatalf("CreateMessage() unexpected error: %v", err)
	}

	if _, err := repos.Messages.CreateMessage(ctx, models.Message{RequestID: "missing", SenderID: "u2", ReceiverID: "u1", Content: "x"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown request, got %v", err)
	}

	messages, err := repos.Messages.ListMessages(ctx, request.ID, "u1")
	if err != nil || len(messages) != 2 || messages[0].Content != "I can help" {
		t.Fatalf("ListMessages() = %+v, %v", messages, err)
	}

	previews, err := repos.Messages.ListChatPreviews(ctx, "u1")
	if err != nil {
		t.Fatalf("ListChatPreviews() unexpected error: %v", err)
	}
	if len(previews) != 1 || previews[0].UnreadCount != 2 || previews[0].CounterpartID != "u2" || previews[0].LastMessage != "When?" {
		t.Fatalf("unexpected previews %+v", previews)
	}

	if err := repos.Messages.MarkMessagesRead(ctx, request.ID, "u1"); err != nil {
		t.Fatalf("MarkMessagesRead() unexpected error: %v", err)
	}
	previews, err = repos.Messages.ListChatPreviews(ctx, "u1")
	if err != nil || previews[0].UnreadCount != 0 {
		t.Fatalf("expected no unread messages, got %+v, %v", previews, err)
	}
}

func TestSupportRepositoryFiltersAndUpdates(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	for _, supportType := range []string{"ride", "ride", "meal"} {
		request := models.SupportRequest{UserID: "u1", Title: "Request", SupportType: supportType}
		if err := repos.Support.CreateSupportRequest(ctx, &request); err != nil {
			t.Fatalf("CreateSupportRequest() unexpected error: %v", err)
		}
	}

	rides, err := repos.Support.ListSupportRequests(ctx, models.SupportStatusOpen, "ride")
	if err != nil || len(rides) != 2 {
		t.Fatalf("ListSupportRequests(ride) = %d, %v", len(rides), err)
	}

	if err := repos.Support.UpdateSupportStatus(ctx, rides[0].ID, models.SupportStatusClosed); err != nil {
		t.Fatalf("UpdateSupportStatus() unexpected error: %v", err)
	}
	open, err := repos.Support.ListSupportRequests(ctx, models.SupportStatusOpen, "")
	if err != nil || len(open) != 2 {
		t.Fatalf("ListSupportRequests(open) = %d, %v", len(open), err)
	}

	if _, err := repos.Support.FindSupportRequest(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPregnancyRepositoryKeepsOneDocumentPerUser(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if _, err := repos.Pregnancies.LoadPregnancy(ctx, "u1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	data := models.PregnancyData{
		UserID:    "u1",
		Symptoms:  []models.PregnancySymptom{{Name: "nausea", Severity: 2}},
		Checklist: []models.ChecklistItem{{ID: "c1", Title: "Pack bag"}},
	}
	if err := repos.Pregnancies.SavePregnancy(ctx, &data); err != nil {
		t.Fatalf("SavePregnancy() unexpected error: %v", err)
	}
	firstID := data.ID

	replacement := models.PregnancyData{UserID: "u1", Symptoms: []models.PregnancySymptom{{Name: "fatigue", Severity: 1}}}
	if err := repos.Pregnancies.SavePregnancy(ctx, &replacement); err != nil {
		t.Fatalf("second SavePregnancy() unexpected error: %v", err)
	}
	if replacement.ID != firstID {
		t.Fatalf("expected stored id %q to be reused, got %q", firstID, replacement.ID)
	}

	loaded, err := repos.Pregnancies.LoadPregnancy(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadPregnancy() unexpected error: %v", err)
	}
	if len(loaded.Symptoms) != 1 || loaded.Symptoms[0].Name != "fatigue" || len(loaded.Checklist) != 0 {
		t.Fatalf("expected last write to win, got %+v", loaded)
	}
}

func TestUserRepositorySaveAndDeviceToken(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user := models.User{ID: "u1", DisplayName: "Ana"}
	if err := repos.Users.SaveUser(ctx, &user); err != nil {
		t.Fatalf("SaveUser() unexpected error: %v", err)
	}
	if err := repos.Users.UpdateDeviceToken(ctx, "u1", " device-token "); err != nil {
		t.Fatalf("UpdateDeviceToken() unexpected error: %v", err)
	}

	found, err := repos.Users.FindUser(ctx, "u1")
	if err != nil {
		t.Fatalf("FindUser() unexpected error: %v", err)
	}
	if found.DeviceToken != "device-token" || found.Language != "en" {
		t.Fatalf("unexpected user %+v", found)
	}
	if err := repos.Users.UpdateDeviceToken(ctx, "missing", "x"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepositoryAddressesOwnerWhenReceiverIsEmpty(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	request := models.SupportRequest{UserID: "u1", Title: "Need pads", SupportType: "supplies", Anonymous: true}
	if err := repos.Support.CreateSupportRequest(ctx, &request); err != nil {
		t.Fatalf("CreateSupportRequest() unexpected error: %v", err)
	}

	created, err := repos.Messages.CreateMessage(ctx, models.Message{RequestID: request.ID, SenderID: "u2", Content: "I have spare"})
	if err != nil {
		t.Fatalf("CreateMessage() unexpected error: %v", err)
	}
	if created.ReceiverID != "u1" {
		t.Fatalf("expected message addressed to the owner, got %q", created.ReceiverID)
	}
}
