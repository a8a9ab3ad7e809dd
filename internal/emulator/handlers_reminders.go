package emulator

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/femcare/internal/baas"
	"github.com/terraincognita07/femcare/internal/models"
)

type statusInput struct {
	Status string `json:"status"`
}

type notifiedInput struct {
	NotifiedAt baas.Timestamp `json:"notifiedAt"`
}

func isReminderStatus(status string) bool {
	switch status {
	case models.ReminderStatusActive, models.ReminderStatusCompleted, models.ReminderStatusCancelled:
		return true
	default:
		return false
	}
}

func (handler *Handler) CreateReminder(c *fiber.Ctx) error {
	var doc baas.ReminderDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !currentClaims(c).CanActAs(doc.UserID) {
		return forbidden(c)
	}

	reminder, err := doc.Model()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid reminder date")
	}
	reminder.ID = ""
	if err := handler.repositories.Reminders.CreateReminder(c.UserContext(), &reminder); err != nil {
		return storeError(c, "create reminder", err)
	}
	return c.Status(fiber.StatusCreated).JSON(baas.ReminderToDocument(reminder))
}

func (handler *Handler) GetReminder(c *fiber.Ctx) error {
	reminder, err := handler.visibleReminder(c)
	if err != nil {
		return storeError(c, "find reminder", err)
	}
	return c.JSON(baas.ReminderToDocument(reminder))
}

func (handler *Handler) ListUserReminders(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !currentClaims(c).CanActAs(userID) {
		return forbidden(c)
	}
	reminders, err := handler.repositories.Reminders.ListReminders(c.UserContext(), userID, c.Query("status"))
	if err != nil {
		return storeError(c, "list reminders", err)
	}
	return c.JSON(fiber.Map{"reminders": reminderDocuments(reminders)})
}

// ListAllReminders serves the notifier sweep; only ?status=active is supported.
func (handler *Handler) ListAllReminders(c *fiber.Ctx) error {
	if status := c.Query("status", models.ReminderStatusActive); status != models.ReminderStatusActive {
		return apiError(c, fiber.StatusBadRequest, "only active reminders can be listed across users")
	}
	reminders, err := handler.repositories.Reminders.ListActiveReminders(c.UserContext())
	if err != nil {
		return storeError(c, "list active reminders", err)
	}
	return c.JSON(fiber.Map{"reminders": reminderDocuments(reminders)})
}

func (handler *Handler) UpdateReminderStatus(c *fiber.Ctx) error {
	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !isReminderStatus(input.Status) {
		return apiError(c, fiber.StatusBadRequest, "invalid reminder status")
	}
	if _, err := handler.visibleReminder(c); err != nil {
		return storeError(c, "find reminder", err)
	}

	if err := handler.repositories.Reminders.UpdateReminderStatus(c.UserContext(), c.Params("reminderId"), input.Status); err != nil {
		return storeError(c, "update reminder status", err)
	}
	return sendNoContent(c)
}

func (handler *Handler) MarkReminderNotified(c *fiber.Ctx) error {
	var input notifiedInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if input.NotifiedAt.Time().IsZero() {
		return apiError(c, fiber.StatusBadRequest, "notifiedAt is required")
	}
	if _, err := handler.visibleReminder(c); err != nil {
		return storeError(c, "find reminder", err)
	}

	if err := handler.repositories.Reminders.MarkReminderNotified(c.UserContext(), c.Params("reminderId"), input.NotifiedAt.Time()); err != nil {
		return storeError(c, "mark reminder notified", err)
	}
	return sendNoContent(c)
}

// visibleReminder hides reminders of other users behind not-found.
func (handler *Handler) visibleReminder(c *fiber.Ctx) (models.Reminder, error) {
	reminder, err := handler.repositories.Reminders.FindReminder(c.UserContext(), c.Params("reminderId"))
	if err != nil {
		return models.Reminder{}, err
	}
	if !currentClaims(c).CanActAs(reminder.UserID) {
		return models.Reminder{}, errNotVisible
	}
	return reminder, nil
}

func reminderDocuments(reminders []models.Reminder) []baas.ReminderDocument {
	documents := make([]baas.ReminderDocument, 0, len(reminders))
	for _, reminder := range reminders {
		documents = append(documents, baas.ReminderToDocument(reminder))
	}
	return documents
}
