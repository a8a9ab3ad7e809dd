package emulator

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/femcare/internal/baas"
	"github.com/terraincognita07/femcare/internal/models"
)

type readInput struct {
	UserID string `json:"userId"`
}

// messageFor blanks the hidden owner of an anonymous request on either side.
func messageFor(message models.Message, hidden string) baas.MessageDocument {
	if hidden != "" {
		if message.SenderID == hidden {
			message.SenderID = ""
		}
		if message.ReceiverID == hidden {
			message.ReceiverID = ""
		}
	}
	return baas.MessageToDocument(message)
}

// ListMessages lists the request's messages visible to the caller. Service tokens
// may ask for another participant through ?userId=.
func (handler *Handler) ListMessages(c *fiber.Ctx) error {
	claims := currentClaims(c)
	userID := claims.UserID
	if claims.IsService() {
		userID = strings.TrimSpace(c.Query("userId"))
	}

	messages, err := handler.repositories.Messages.ListMessages(c.UserContext(), c.Params("requestId"), userID)
	if err != nil {
		return storeError(c, "list messages", err)
	}
	hidden, err := handler.hiddenOwnerOf(c, c.Params("requestId"))
	if err != nil {
		return storeError(c, "find support request", err)
	}

	documents := make([]baas.MessageDocument, 0, len(messages))
	for _, message := range messages {
		documents = append(documents, messageFor(message, hidden))
	}
	return c.JSON(fiber.Map{"messages": documents})
}

// CreateMessage stores a message on a request. An empty receiverId addresses the
// request's owner, which is how helpers answer anonymous requests.
func (handler *Handler) CreateMessage(c *fiber.Ctx) error {
	var doc baas.MessageDocument
	if err := c.BodyParser(&doc); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	claims := currentClaims(c)
	if !claims.CanActAs(doc.SenderID) {
		return forbidden(c)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return apiError(c, fiber.StatusBadRequest, "content is required")
	}

	request, err := handler.repositories.Support.FindSupportRequest(c.UserContext(), c.Params("requestId"))
	if err != nil {
		return storeError(c, "find support request", err)
	}
	message := doc.Model()
	message.RequestID = request.ID
	message.ReceiverID = strings.TrimSpace(message.ReceiverID)
	if message.ReceiverID == "" {
		message.ReceiverID = request.UserID
	}
	if message.ReceiverID == message.SenderID {
		return apiError(c, fiber.StatusBadRequest, "receiverId is required when writing on your own request")
	}

	created, err := handler.repositories.Messages.CreateMessage(c.UserContext(), message)
	if err != nil {
		return storeError(c, "create message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(messageFor(created, hiddenOwner(claims, request)))
}

func (handler *Handler) MarkMessagesRead(c *fiber.Ctx) error {
	var input readInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !currentClaims(c).CanActAs(input.UserID) {
		return forbidden(c)
	}
	if err := handler.repositories.Messages.MarkMessagesRead(c.UserContext(), c.Params("requestId"), input.UserID); err != nil {
		return storeError(c, "mark messages read", err)
	}
	return sendNoContent(c)
}

func (handler *Handler) ListChatPreviews(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !currentClaims(c).CanActAs(userID) {
		return forbidden(c)
	}

	previews, err := handler.repositories.Messages.ListChatPreviews(c.UserContext(), userID)
	if err != nil {
		return storeError(c, "list chat previews", err)
	}

	hiddenByRequest := make(map[string]string, len(previews))
	documents := make([]baas.ChatPreviewDocument, 0, len(previews))
	for _, preview := range previews {
		hidden, seen := hiddenByRequest[preview.RequestID]
		if !seen {
			if hidden, err = handler.hiddenOwnerOf(c, preview.RequestID); err != nil {
				return storeError(c, "find support request", err)
			}
			hiddenByRequest[preview.RequestID] = hidden
		}
		if hidden != "" && preview.CounterpartID == hidden {
			preview.CounterpartID = ""
		}
		documents = append(documents, baas.ChatPreviewToDocument(preview))
	}
	return c.JSON(fiber.Map{"previews": documents})
}
