// Package chat keeps the client-side state of support conversations: the message
// list of the open request and the chat preview rows of the current user.
//
// Every operation records its failure as the store's last error and also returns
// it. Concurrent fetches are not de-duplicated; the last response to arrive wins.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/terraincognita07/femcare/internal/models"
)

var ErrEmptyMessage = errors.New("message content is empty")

// Backend is the remote data access used by the store.
type Backend interface {
	ListMessages(ctx context.Context, requestID string, userID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	ListChatPreviews(ctx context.Context, userID string) ([]models.ChatPreview, error)
	MarkMessagesRead(ctx context.Context, requestID string, userID string) error
}

// ViewCache persists derived view state for offline reuse. It is never a source of truth.
type ViewCache interface {
	SaveJSON(key string, value any) error
	LoadJSON(key string, target any) error
}

type State struct {
	RequestID string               `json:"requestId"`
	Messages  []models.Message     `json:"messages"`
	Previews  []models.ChatPreview `json:"previews"`
	Loading   bool                 `json:"loading"`
	Error     string               `json:"error,omitempty"`
}

type Store struct {
	backend Backend
	cache   ViewCache
	mu      sync.Mutex
	state   State
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		state: State{
			Messages: []models.Message{},
			Previews: []models.ChatPreview{},
		},
	}
}

// WithCache makes FetchChatPreviews persist its result and enables LoadCachedPreviews.
func (store *Store) WithCache(cache ViewCache) *Store {
	store.cache = cache
	return store
}

func previewsCacheKey(userID string) string {
	return userID + "/chat-previews"
}

// FetchMessages replaces the cached message list with the remote one. On failure
// the previous list stays as it was.
func (store *Store) FetchMessages(ctx context.Context, requestID string, userID string) error {
	store.begin()

	messages, err := store.backend.ListMessages(ctx, requestID, userID)
	if err != nil {
		store.fail("fetch messages", err)
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.RequestID = requestID
	store.state.Messages = append([]models.Message{}, messages...)
	store.state.Loading = false
	return nil
}

// SendMessage submits a message and appends the server's representation to the
// cached list when that list belongs to the same request. A failed send leaves no
// trace in the cache.
func (store *Store) SendMessage(ctx context.Context, content string, senderID string, receiverID string, requestID string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		store.recordError(ErrEmptyMessage)
		return models.Message{}, ErrEmptyMessage
	}

	store.mu.Lock()
	store.state.Error = ""
	store.mu.Unlock()

	created, err := store.backend.CreateMessage(ctx, models.Message{
		RequestID:  requestID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		store.fail("send message", err)
		return models.Message{}, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.RequestID == "" || store.state.RequestID == created.RequestID {
		store.state.RequestID = created.RequestID
		store.state.Messages = append(append([]models.Message{}, store.state.Messages...), created)
	}
	store.state.Previews = touchPreview(store.state.Previews, created)
	return created, nil
}

// FetchChatPreviews returns the converted previews and stores them as well.
func (store *Store) FetchChatPreviews(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	store.begin()

	previews, err := store.backend.ListChatPreviews(ctx, userID)
	if err != nil {
		store.fail("fetch chat previews", err)
		return nil, err
	}

	store.mu.Lock()
	store.state.Previews = append([]models.ChatPreview{}, previews...)
	store.state.Loading = false
	store.mu.Unlock()

	if store.cache != nil {
		if err := store.cache.SaveJSON(previewsCacheKey(userID), previews); err != nil {
			log.Printf("chat: cache previews failed: %v", err)
		}
	}
	return append([]models.ChatPreview{}, previews...), nil
}

// LoadCachedPreviews fills the previews from the view cache, for use while offline.
func (store *Store) LoadCachedPreviews(userID string) ([]models.ChatPreview, error) {
	if store.cache == nil {
		return nil, nil
	}
	previews := make([]models.ChatPreview, 0)
	if err := store.cache.LoadJSON(previewsCacheKey(userID), &previews); err != nil {
		return nil, err
	}

	store.mu.Lock()
	store.state.Previews = append([]models.ChatPreview{}, previews...)
	store.mu.Unlock()
	return previews, nil
}

// MarkRead flips the read flag of every message userID received in requestID.
func (store *Store) MarkRead(ctx context.Context, requestID string, userID string) error {
	if err := store.backend.MarkMessagesRead(ctx, requestID, userID); err != nil {
		store.fail("mark messages read", err)
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.RequestID == requestID {
		messages := append([]models.Message{}, store.state.Messages...)
		for index := range messages {
			if messages[index].ReceiverID == userID {
				messages[index].Read = true
			}
		}
		store.state.Messages = messages
	}
	previews := append([]models.ChatPreview{}, store.state.Previews...)
	for index := range previews {
		if previews[index].RequestID == requestID {
			previews[index].UnreadCount = 0
		}
	}
	store.state.Previews = previews
	return nil
}

func (store *Store) UnreadTotal() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return UnreadTotal(store.state.Previews)
}

func (store *Store) LastError() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.Error
}

func (store *Store) Loading() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.Loading
}

func (store *Store) Messages() []models.Message {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]models.Message{}, store.state.Messages...)
}

func (store *Store) Snapshot() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	snapshot := store.state
	snapshot.Messages = append([]models.Message{}, store.state.Messages...)
	snapshot.Previews = append([]models.ChatPreview{}, store.state.Previews...)
	return snapshot
}

func (store *Store) begin() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Loading = true
	store.state.Error = ""
}

func (store *Store) fail(operation string, err error) {
	log.Printf("chat: %s failed: %v", operation, err)
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Loading = false
	store.state.Error = err.Error()
}

func (store *Store) recordError(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Error = err.Error()
}

func UnreadTotal(previews []models.ChatPreview) int {
	total := 0
	for _, preview := range previews {
		total += preview.UnreadCount
	}
	return total
}

func touchPreview(previews []models.ChatPreview, message models.Message) []models.ChatPreview {
	updated := append([]models.ChatPreview{}, previews...)
	for index := range updated {
		if updated[index].RequestID == message.RequestID {
			updated[index].LastMessage = message.Content
			updated[index].LastMessageAt = message.CreatedAt
		}
	}
	return updated
}
