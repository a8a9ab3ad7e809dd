package db

import (
	"context"
	"time"

	"github.com/terraincognita07/femcare/internal/chat"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/security"
	"gorm.io/gorm"
)

type MessageRepository struct {
	database *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{database: database}
}

// ListMessages returns the request's messages oldest first. A non-empty userID
// limits the list to messages the user sent or received.
func (repo *MessageRepository) ListMessages(ctx context.Context, requestID string, userID string) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	query := repo.database.WithContext(ctx).Where("request_id = ?", requestID)
	if userID != "" {
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}
	if err := query.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage assigns the id and server timestamp and returns the stored message.
// An empty receiver addresses the owner of the request.
func (repo *MessageRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	var owners []string
	if err := repo.database.WithContext(ctx).
		Model(&models.SupportRequest{}).
		Where("id = ?", message.RequestID).
		Pluck("user_id", &owners).Error; err != nil {
		return models.Message{}, err
	}
	if len(owners) == 0 {
		return models.Message{}, notFound(gorm.ErrRecordNotFound)
	}
	if message.ReceiverID == "" {
		message.ReceiverID = owners[0]
	}

	id, err := security.NewDocumentID()
	if err != nil {
		return models.Message{}, err
	}
	message.ID = id
	message.Read = false
	message.CreatedAt = time.Now().UTC()
	if err := repo.database.WithContext(ctx).Create(&message).Error; err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (repo *MessageRepository) ListChatPreviews(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	messages := make([]models.Message, 0)
	if err := repo.database.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return chat.BuildPreviews(messages, userID), nil
}

func (repo *MessageRepository) MarkMessagesRead(ctx context.Context, requestID string, userID string) error {
	return repo.database.WithContext(ctx).
		Model(&models.Message{}).
		Where("request_id = ? AND receiver_id = ? AND read = ?", requestID, userID, false).
		Update("read", true).Error
}
