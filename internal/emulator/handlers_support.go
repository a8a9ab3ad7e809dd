package emulator

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/femcare/internal/baas"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

func isSupportStatus(status string) bool {
	switch status {
	case models.SupportStatusOpen, models.SupportStatusInProgress, models.SupportStatusClosed:
		return true
	default:
		return false
	}
}

func (handler *Handler) CreateSupportRequest(c *fiber.Ctx) error {
	var doc baas.SupportRequestDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !currentClaims(c).CanActAs(doc.UserID) {
		return forbidden(c)
	}

	request := doc.Model()
	request.ID = ""
	if err := handler.repositories.Support.CreateSupportRequest(c.UserContext(), &request); err != nil {
		return storeError(c, "create support request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(baas.SupportRequestToDocument(request))
}

// hiddenOwner is the owner id claims must not see: the owner of an anonymous
// request when the caller cannot act as that owner, otherwise "".
func hiddenOwner(claims *Claims, request models.SupportRequest) string {
	if request.Anonymous && !claims.CanActAs(request.UserID) {
		return request.UserID
	}
	return ""
}

func supportRequestFor(claims *Claims, request models.SupportRequest) baas.SupportRequestDocument {
	if hiddenOwner(claims, request) != "" {
		request.UserID = ""
	}
	return baas.SupportRequestToDocument(request)
}

// hiddenOwnerOf looks up the request behind a conversation. Conversations of
// unknown requests hide nobody.
func (handler *Handler) hiddenOwnerOf(c *fiber.Ctx, requestID string) (string, error) {
	request, err := handler.repositories.Support.FindSupportRequest(c.UserContext(), requestID)
	if errors.Is(err, services.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hiddenOwner(currentClaims(c), request), nil
}

// Support requests are a shared board: any signed-in caller can read them, but
// the owner of an anonymous request stays hidden from everyone else.
func (handler *Handler) GetSupportRequest(c *fiber.Ctx) error {
	request, err := handler.repositories.Support.FindSupportRequest(c.UserContext(), c.Params("requestId"))
	if err != nil {
		return storeError(c, "find support request", err)
	}
	return c.JSON(supportRequestFor(currentClaims(c), request))
}

func (handler *Handler) ListSupportRequests(c *fiber.Ctx) error {
	requests, err := handler.repositories.Support.ListSupportRequests(c.UserContext(), c.Query("status"), c.Query("supportType"))
	if err != nil {
		return storeError(c, "list support requests", err)
	}

	claims := currentClaims(c)
	documents := make([]baas.SupportRequestDocument, 0, len(requests))
	for _, request := range requests {
		documents = append(documents, supportRequestFor(claims, request))
	}
	return c.JSON(fiber.Map{"requests": documents})
}

func (handler *Handler) UpdateSupportStatus(c *fiber.Ctx) error {
	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !isSupportStatus(input.Status) {
		return apiError(c, fiber.StatusBadRequest, "invalid support status")
	}

	request, err := handler.repositories.Support.FindSupportRequest(c.UserContext(), c.Params("requestId"))
	if err != nil {
		return storeError(c, "find support request", err)
	}
	if !currentClaims(c).CanActAs(request.UserID) {
		return forbidden(c)
	}

	if err := handler.repositories.Support.UpdateSupportStatus(c.UserContext(), request.ID, input.Status); err != nil {
		return storeError(c, "update support status", err)
	}
	return sendNoContent(c)
}
