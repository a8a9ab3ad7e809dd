package emulator

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	v1 := app.Group("/v1", handler.AuthRequired)

	requests := v1.Group("/requests/:requestId")
	requests.Get("/messages", handler.ListMessages)
	requests.Post("/messages", handler.CreateMessage)
	requests.Post("/messages/read", handler.MarkMessagesRead)

	reminders := v1.Group("/reminders")
	reminders.Get("", handler.ServiceOnly, handler.ListAllReminders)
	reminders.Post("", handler.CreateReminder)
	reminders.Get("/:reminderId", handler.GetReminder)
	reminders.Patch("/:reminderId", handler.UpdateReminderStatus)
	reminders.Post("/:reminderId/notified", handler.MarkReminderNotified)

	support := v1.Group("/support-requests")
	support.Get("", handler.ListSupportRequests)
	support.Post("", handler.CreateSupportRequest)
	support.Get("/:requestId", handler.GetSupportRequest)
	support.Patch("/:requestId", handler.UpdateSupportStatus)

	users := v1.Group("/users/:userId")
	users.Get("", handler.GetUser)
	users.Put("", handler.PutUser)
	users.Put("/device-token", handler.PutDeviceToken)
	users.Get("/chat-previews", handler.ListChatPreviews)
	users.Get("/reminders", handler.ListUserReminders)
	users.Get("/cycle", handler.GetCycle)
	users.Put("/cycle", handler.PutCycle)
	users.Get("/pregnancy", handler.GetPregnancy)
	users.Put("/pregnancy", handler.PutPregnancy)
}
