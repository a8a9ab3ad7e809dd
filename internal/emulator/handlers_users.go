package emulator

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/femcare/internal/baas"
)

type deviceTokenInput struct {
	DeviceToken string `json:"deviceToken"`
}

// userScope returns the path user id when the caller may act as that user.
func userScope(c *fiber.Ctx) (string, bool) {
	userID := strings.TrimSpace(c.Params("userId"))
	return userID, currentClaims(c).CanActAs(userID)
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	user, err := handler.repositories.Users.FindUser(c.UserContext(), userID)
	if err != nil {
		return storeError(c, "find user", err)
	}
	return c.JSON(baas.UserToDocument(user))
}

func (handler *Handler) PutUser(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	var doc baas.UserDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := doc.Model()
	user.ID = userID
	if err := handler.repositories.Users.SaveUser(c.UserContext(), &user); err != nil {
		return storeError(c, "save user", err)
	}
	return c.JSON(baas.UserToDocument(user))
}

func (handler *Handler) PutDeviceToken(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	var input deviceTokenInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := handler.repositories.Users.UpdateDeviceToken(c.UserContext(), userID, input.DeviceToken); err != nil {
		return storeError(c, "update device token", err)
	}
	return sendNoContent(c)
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	record, err := handler.repositories.Cycles.LoadCycle(c.UserContext(), userID)
	if err != nil {
		return storeError(c, "load cycle", err)
	}
	return c.JSON(baas.CycleToDocument(record))
}

func (handler *Handler) PutCycle(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	var doc baas.CycleDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	record := doc.Model()
	record.UserID = userID
	if err := handler.repositories.Cycles.SaveCycle(c.UserContext(), &record); err != nil {
		return storeError(c, "save cycle", err)
	}
	return c.JSON(baas.CycleToDocument(record))
}

func (handler *Handler) GetPregnancy(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	data, err := handler.repositories.Pregnancies.LoadPregnancy(c.UserContext(), userID)
	if err != nil {
		return storeError(c, "load pregnancy", err)
	}
	return c.JSON(baas.PregnancyToDocument(data))
}

// PutPregnancy replaces the whole aggregate; concurrent writers overwrite each other.
func (handler *Handler) PutPregnancy(c *fiber.Ctx) error {
	userID, ok := userScope(c)
	if !ok {
		return forbidden(c)
	}
	var doc baas.PregnancyDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	data := doc.Model()
	data.UserID = userID
	if err := handler.repositories.Pregnancies.SavePregnancy(c.UserContext(), &data); err != nil {
		return storeError(c, "save pregnancy", err)
	}
	return c.JSON(baas.PregnancyToDocument(data))
}
