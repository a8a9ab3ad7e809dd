// Package firestore adapts the client data-access interfaces to Cloud Firestore
// through the Firebase Admin SDK.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/terraincognita07/femcare/internal/chat"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	supportRequestsCollection = "supportRequests"
	messagesCollection        = "messages"
	pregnanciesCollection     = "pregnancies"
	cyclesCollection          = "cycles"
	usersCollection           = "users"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
}

type Store struct {
	client *firestore.Client
}

func Open(ctx context.Context, config Config) (*Store, error) {
	options := make([]option.ClientOption, 0, 1)
	if path := strings.TrimSpace(config.CredentialsFile); path != "" {
		options = append(options, option.WithCredentialsFile(path))
	}

	var appConfig *firebase.Config
	if projectID := strings.TrimSpace(config.ProjectID); projectID != "" {
		appConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, options...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (store *Store) Close() error {
	return store.client.Close()
}

// mapError turns a gRPC NotFound into services.ErrNotFound.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", services.ErrNotFound, err)
	}
	return err
}

func (store *Store) messages(requestID string) *firestore.CollectionRef {
	return store.client.Collection(supportRequestsCollection).Doc(requestID).Collection(messagesCollection)
}

func (store *Store) ListMessages(ctx context.Context, requestID string, userID string) ([]models.Message, error) {
	iter := store.messages(requestID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	messages := make([]models.Message, 0)
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		message, err := decodeMessage(snapshot)
		if err != nil {
			return nil, err
		}
		if userID != "" && message.SenderID != userID && message.ReceiverID != userID {
			continue
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (store *Store) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	request, err := store.client.Collection(supportRequestsCollection).Doc(message.RequestID).Get(ctx)
	if err != nil {
		return models.Message{}, mapError(err)
	}
	if message.ReceiverID == "" {
		owner, err := request.DataAt("userId")
		if err != nil {
			return models.Message{}, fmt.Errorf("read owner of support request %s: %w", message.RequestID, err)
		}
		message.ReceiverID, _ = owner.(string)
	}

	ref := store.messages(message.RequestID).NewDoc()
	message.ID = ref.ID
	message.Read = false
	message.CreatedAt = time.Now().UTC()
	if _, err := ref.Create(ctx, messageToDocument(message)); err != nil {
		return models.Message{}, mapError(err)
	}
	return message, nil
}

func (store *Store) ListChatPreviews(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	seen := make(map[string]struct{})
	messages := make([]models.Message, 0)
	for _, field := range []string{"senderId", "receiverId"} {
		iter := store.client.CollectionGroup(messagesCollection).Where(field, "==", userID).Documents(ctx)
		for {
			snapshot, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, mapError(err)
			}
			if _, duplicate := seen[snapshot.Ref.Path]; duplicate {
				continue
			}
			seen[snapshot.Ref.Path] = struct{}{}
			message, err := decodeMessage(snapshot)
			if err != nil {
				iter.Stop()
				return nil, err
			}
			messages = append(messages, message)
		}
		iter.Stop()
	}
	return chat.BuildPreviews(messages, userID), nil
}

func (store *Store) MarkMessagesRead(ctx context.Context, requestID string, userID string) error {
	iter := store.messages(requestID).
		Where("receiverId", "==", userID).
		Where("read", "==", false).
		Documents(ctx)
	defer iter.Stop()

	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return mapError(err)
		}
		if _, err := snapshot.Ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			return mapError(err)
		}
	}
}

func (store *Store) LoadPregnancy(ctx context.Context, userID string) (models.PregnancyData, error) {
	snapshot, err := store.client.Collection(pregnanciesCollection).Doc(userID).Get(ctx)
	if err != nil {
		return models.PregnancyData{}, mapError(err)
	}
	var doc pregnancyDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return models.PregnancyData{}, fmt.Errorf("decode pregnancy %s: %w", userID, err)
	}
	data := doc.model()
	data.ID = snapshot.Ref.ID
	data.UserID = userID
	return data, nil
}

// SavePregnancy overwrites the whole document keyed by user id.
func (store *Store) SavePregnancy(ctx context.Context, data *models.PregnancyData) error {
	data.ID = data.UserID
	data.UpdatedAt = time.Now().UTC()
	_, err := store.client.Collection(pregnanciesCollection).Doc(data.UserID).Set(ctx, pregnancyToDocument(*data))
	return mapError(err)
}

func (store *Store) LoadCycle(ctx context.Context, userID string) (models.CycleRecord, error) {
	snapshot, err := store.client.Collection(cyclesCollection).Doc(userID).Get(ctx)
	if err != nil {
		return models.CycleRecord{}, mapError(err)
	}
	var doc cycleDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return models.CycleRecord{}, fmt.Errorf("decode cycle %s: %w", userID, err)
	}
	record := doc.model()
	record.UserID = userID
	return record, nil
}

func (store *Store) SaveCycle(ctx context.Context, record *models.CycleRecord) error {
	record.UpdatedAt = time.Now().UTC()
	_, err := store.client.Collection(cyclesCollection).Doc(record.UserID).Set(ctx, cycleToDocument(*record))
	return mapError(err)
}

func (store *Store) FindUser(ctx context.Context, userID string) (models.User, error) {
	snapshot, err := store.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		return models.User{}, mapError(err)
	}
	var doc userDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return models.User{}, fmt.Errorf("decode user %s: %w", userID, err)
	}
	user := doc.model()
	user.ID = userID
	return user, nil
}

func decodeMessage(snapshot *firestore.DocumentSnapshot) (models.Message, error) {
	var doc messageDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return models.Message{}, fmt.Errorf("decode message %s: %w", snapshot.Ref.Path, err)
	}
	message := doc.model()
	message.ID = snapshot.Ref.ID
	return message, nil
}
