// Package baas talks to the managed document store over its REST document API.
package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

var ErrMissingBaseURL = errors.New("document store url is required")

// StatusError is any non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
	Message    string
}

func (err *StatusError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("document store: status %d", err.StatusCode)
	}
	return fmt.Sprintf("document store: status %d: %s", err.StatusCode, err.Message)
}

// Client carries no timeout of its own; deadlines come from the caller's context.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string, token string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{},
	}, nil
}

// WithHTTPClient replaces the transport, mainly for tests.
func (client *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		client.httpClient = httpClient
	}
	return client
}

type errorBody struct {
	Error string `json:"error"`
}

func (client *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	endpoint := client.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, services.ErrNotFound)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return decodeStatusError(response)
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeStatusError(response *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))
	statusErr := &StatusError{StatusCode: response.StatusCode}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		statusErr.Message = body.Error
	} else {
		statusErr.Message = strings.TrimSpace(string(raw))
	}
	return statusErr
}

func segment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}

func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid document date %q: %w", raw, err)
	}
	return value, nil
}

// Messages and previews.

type messageList struct {
	Messages []MessageDocument `json:"messages"`
}

type previewList struct {
	Previews []ChatPreviewDocument `json:"previews"`
}

type readRequest struct {
	UserID string `json:"userId"`
}

func (client *Client) ListMessages(ctx context.Context, requestID string, userID string) ([]models.Message, error) {
	query := url.Values{}
	if userID != "" {
		query.Set("userId", userID)
	}
	var list messageList
	if err := client.do(ctx, http.MethodGet, "/v1/requests/"+segment(requestID)+"/messages", query, nil, &list); err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(list.Messages))
	for _, doc := range list.Messages {
		messages = append(messages, doc.Model())
	}
	return messages, nil
}

func (client *Client) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	var created MessageDocument
	path := "/v1/requests/" + segment(message.RequestID) + "/messages"
	if err := client.do(ctx, http.MethodPost, path, nil, MessageToDocument(message), &created); err != nil {
		return models.Message{}, err
	}
	return created.Model(), nil
}

func (client *Client) MarkMessagesRead(ctx context.Context, requestID string, userID string) error {
	path := "/v1/requests/" + segment(requestID) + "/messages/read"
	return client.do(ctx, http.MethodPost, path, nil, readRequest{UserID: userID}, nil)
}

func (client *Client) ListChatPreviews(ctx context.Context, userID string) ([]models.ChatPreview, error) {
	var list previewList
	if err := client.do(ctx, http.MethodGet, "/v1/users/"+segment(userID)+"/chat-previews", nil, nil, &list); err != nil {
		return nil, err
	}
	previews := make([]models.ChatPreview, 0, len(list.Previews))
	for _, doc := range list.Previews {
		previews = append(previews, doc.Model())
	}
	return previews, nil
}

// Reminders.

type reminderList struct {
	Reminders []ReminderDocument `json:"reminders"`
}

type statusUpdate struct {
	Status string `json:"status"`
}

type notifiedUpdate struct {
	NotifiedAt Timestamp `json:"notifiedAt"`
}

func (client *Client) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	var created ReminderDocument
	if err := client.do(ctx, http.MethodPost, "/v1/reminders", nil, ReminderToDocument(*reminder), &created); err != nil {
		return err
	}
	model, err := created.Model()
	if err != nil {
		return err
	}
	*reminder = model
	return nil
}

func (client *Client) FindReminder(ctx context.Context, reminderID string) (models.Reminder, error) {
	var doc ReminderDocument
	if err := client.do(ctx, http.MethodGet, "/v1/reminders/"+segment(reminderID), nil, nil, &doc); err != nil {
		return models.Reminder{}, err
	}
	return doc.Model()
}

func (client *Client) ListReminders(ctx context.Context, userID string, status string) ([]models.Reminder, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	return client.listReminders(ctx, "/v1/users/"+segment(userID)+"/reminders", query)
}

func (client *Client) ListActiveReminders(ctx context.Context) ([]models.Reminder, error) {
	query := url.Values{}
	query.Set("status", models.ReminderStatusActive)
	return client.listReminders(ctx, "/v1/reminders", query)
}

func (client *Client) listReminders(ctx context.Context, path string, query url.Values) ([]models.Reminder, error) {
	var list reminderList
	if err := client.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}
	reminders := make([]models.Reminder, 0, len(list.Reminders))
	for _, doc := range list.Reminders {
		reminder, err := doc.Model()
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

func (client *Client) UpdateReminderStatus(ctx context.Context, reminderID string, status string) error {
	return client.do(ctx, http.MethodPatch, "/v1/reminders/"+segment(reminderID), nil, statusUpdate{Status: status}, nil)
}

func (client *Client) MarkReminderNotified(ctx context.Context, reminderID string, at time.Time) error {
	path := "/v1/reminders/" + segment(reminderID) + "/notified"
	return client.do(ctx, http.MethodPost, path, nil, notifiedUpdate{NotifiedAt: TimestampFrom(at)}, nil)
}

// Support requests.

type supportRequestList struct {
	Requests []SupportRequestDocument `json:"requests"`
}

func (client *Client) CreateSupportRequest(ctx context.Context, request *models.SupportRequest) error {
	var created SupportRequestDocument
	if err := client.do(ctx, http.MethodPost, "/v1/support-requests", nil, SupportRequestToDocument(*request), &created); err != nil {
		return err
	}
	*request = created.Model()
	return nil
}

func (client *Client) FindSupportRequest(ctx context.Context, requestID string) (models.SupportRequest, error) {
	var doc SupportRequestDocument
	if err := client.do(ctx, http.MethodGet, "/v1/support-requests/"+segment(requestID), nil, nil, &doc); err != nil {
		return models.SupportRequest{}, err
	}
	return doc.Model(), nil
}

func (client *Client) ListSupportRequests(ctx context.Context, status string, supportType string) ([]models.SupportRequest, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if supportType != "" {
		query.Set("supportType", supportType)
	}
	var list supportRequestList
	if err := client.do(ctx, http.MethodGet, "/v1/support-requests", query, nil, &list); err != nil {
		return nil, err
	}
	requests := make([]models.SupportRequest, 0, len(list.Requests))
	for _, doc := range list.Requests {
		requests = append(requests, doc.Model())
	}
	return requests, nil
}

func (client *Client) UpdateSupportStatus(ctx context.Context, requestID string, status string) error {
	return client.do(ctx, http.MethodPatch, "/v1/support-requests/"+segment(requestID), nil, statusUpdate{Status: status}, nil)
}

// Aggregates.

func (client *Client) LoadPregnancy(ctx context.Context, userID string) (models.PregnancyData, error) {
	var doc PregnancyDocument
	if err := client.do(ctx, http.MethodGet, "/v1/users/"+segment(userID)+"/pregnancy", nil, nil, &doc); err != nil {
		return models.PregnancyData{}, err
	}
	return doc.Model(), nil
}

func (client *Client) SavePregnancy(ctx context.Context, data *models.PregnancyData) error {
	var saved PregnancyDocument
	path := "/v1/users/" + segment(data.UserID) + "/pregnancy"
	if err := client.do(ctx, http.MethodPut, path, nil, PregnancyToDocument(*data), &saved); err != nil {
		return err
	}
	*data = saved.Model()
	return nil
}

func (client *Client) LoadCycle(ctx context.Context, userID string) (models.CycleRecord, error) {
	var doc CycleDocument
	if err := client.do(ctx, http.MethodGet, "/v1/users/"+segment(userID)+"/cycle", nil, nil, &doc); err != nil {
		return models.CycleRecord{}, err
	}
	return doc.Model(), nil
}

func (client *Client) SaveCycle(ctx context.Context, record *models.CycleRecord) error {
	var saved CycleDocument
	path := "/v1/users/" + segment(record.UserID) + "/cycle"
	if err := client.do(ctx, http.MethodPut, path, nil, CycleToDocument(*record), &saved); err != nil {
		return err
	}
	*record = saved.Model()
	return nil
}

// Users.

func (client *Client) FindUser(ctx context.Context, userID string) (models.User, error) {
	var doc UserDocument
	if err := client.do(ctx, http.MethodGet, "/v1/users/"+segment(userID), nil, nil, &doc); err != nil {
		return models.User{}, err
	}
	return doc.Model(), nil
}

func (client *Client) SaveUser(ctx context.Context, user *models.User) error {
	var saved UserDocument
	if err := client.do(ctx, http.MethodPut, "/v1/users/"+segment(user.ID), nil, UserToDocument(*user), &saved); err != nil {
		return err
	}
	*user = saved.Model()
	return nil
}

type deviceTokenUpdate struct {
	DeviceToken string `json:"deviceToken"`
}

func (client *Client) UpdateDeviceToken(ctx context.Context, userID string, deviceToken string) error {
	path := "/v1/users/" + segment(userID) + "/device-token"
	return client.do(ctx, http.MethodPut, path, nil, deviceTokenUpdate{DeviceToken: deviceToken}, nil)
}
