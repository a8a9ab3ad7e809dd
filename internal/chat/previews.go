package chat

import (
	"sort"

	"github.com/terraincognita07/femcare/internal/models"
)

// BuildPreviews derives one preview per request from the messages userID sent or
// received, most recent conversation first.
func BuildPreviews(messages []models.Message, userID string) []models.ChatPreview {
	byRequest := make(map[string]*models.ChatPreview)
	order := make([]string, 0)

	for _, message := range messages {
		if message.SenderID != userID && message.ReceiverID != userID {
			continue
		}

		preview, ok := byRequest[message.RequestID]
		if !ok {
			preview = &models.ChatPreview{RequestID: message.RequestID}
			byRequest[message.RequestID] = preview
			order = append(order, message.RequestID)
		}

		if preview.LastMessageAt.IsZero() || !message.CreatedAt.Before(preview.LastMessageAt) {
			preview.LastMessage = message.Content
			preview.LastMessageAt = message.CreatedAt
			if message.SenderID == userID {
				preview.CounterpartID = message.ReceiverID
			} else {
				preview.CounterpartID = message.SenderID
			}
		}
		if message.ReceiverID == userID && !message.Read {
			preview.UnreadCount++
		}
	}

	previews := make([]models.ChatPreview, 0, len(order))
	for _, requestID := range order {
		previews = append(previews, *byRequest[requestID])
	}
	sort.SliceStable(previews, func(i, j int) bool {
		return previews[i].LastMessageAt.After(previews[j].LastMessageAt)
	})
	return previews
}
