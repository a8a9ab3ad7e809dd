package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/femcare/internal/baas"
	"github.com/terraincognita07/femcare/internal/chat"
	"github.com/terraincognita07/femcare/internal/db"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestEmulator(t *testing.T) (*fiber.App, *db.Repositories) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "emulator.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	repositories := db.NewRepositories(database)
	handler, err := NewHandler(repositories, testSecret)
	if err != nil {
		t.Fatalf("NewHandler() unexpected error: %v", err)
	}
	return NewApp(handler, AppOptions{}), repositories
}

func mustToken(t *testing.T, userID string, role string) string {
	t.Helper()
	token, err := IssueToken([]byte(testSecret), userID, role, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, token string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) unexpected error: %v", method, path, err)
	}
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestNewHandlerRejectsWeakSecret(t *testing.T) {
	if _, err := NewHandler(&db.Repositories{}, "change_me_in_production"); !errors.Is(err, ErrWeakSecretKey) {
		t.Fatalf("expected ErrWeakSecretKey, got %v", err)
	}
}

func TestRoutesRequireBearerToken(t *testing.T) {
	app, _ := newTestEmulator(t)

	response := doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", "", "")
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", response.StatusCode)
	}

	response = doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", "not-a-jwt", "")
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", response.StatusCode)
	}

	response = doRequest(t, app, http.MethodGet, "/healthz", "", "")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected health check without token, got %d", response.StatusCode)
	}
}

func TestForgedTokensLockOutAddressButExpiredTokensDoNot(t *testing.T) {
	app, _ := newTestEmulator(t)
	valid := mustToken(t, "u1", RoleUser)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		Role:   RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	for i := 0; i < rejectedTokenLimit+5; i++ {
		response := doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", expired, "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expired token attempt %d: expected 401, got %d", i, response.StatusCode)
		}
	}
	if response := doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", valid, ""); response.StatusCode != http.StatusOK {
		t.Fatalf("expected expired tokens not to lock out the address, got %d", response.StatusCode)
	}

	for i := 0; i < rejectedTokenLimit; i++ {
		response := doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", "forged-token", "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("forged token attempt %d: expected 401, got %d", i, response.StatusCode)
		}
	}
	if response := doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", valid, ""); response.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected address locked out after forged tokens, got %d", response.StatusCode)
	}
}

func TestUserScopedRoutesRejectOtherUsers(t *testing.T) {
	app, _ := newTestEmulator(t)

	response := doRequest(t, app, http.MethodGet, "/v1/users/u2/cycle", mustToken(t, "u1", RoleUser), "")
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for another user's cycle, got %d", response.StatusCode)
	}

	response = doRequest(t, app, http.MethodGet, "/v1/reminders", mustToken(t, "u1", RoleUser), "")
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-user reminder listing, got %d", response.StatusCode)
	}
}

func TestPregnancyMissingReturnsNotFoundThenSaves(t *testing.T) {
	app, _ := newTestEmulator(t)
	token := mustToken(t, "u1", RoleUser)

	response := doRequest(t, app, http.MethodGet, "/v1/users/u1/pregnancy", token, "")
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before first save, got %d", response.StatusCode)
	}

	response = doRequest(t, app, http.MethodPut, "/v1/users/u1/pregnancy", token,
		`{"userId":"someone-else","dueDate":{"_seconds":1767225600,"_nanoseconds":0},"checklist":[{"id":"c1","title":"Pack bag","done":false}]}`)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d", response.StatusCode)
	}
	var saved baas.PregnancyDocument
	decodeJSON(t, response, &saved)
	if saved.UserID != "u1" || saved.ID == "" {
		t.Fatalf("expected document bound to path user, got %+v", saved)
	}
	if saved.DueDate == nil || saved.DueDate.Seconds != 1767225600 {
		t.Fatalf("unexpected due date %+v", saved.DueDate)
	}
}

func TestReminderStatusAndNotifiedRoutes(t *testing.T) {
	app, repositories := newTestEmulator(t)
	userToken := mustToken(t, "u1", RoleUser)

	response := doRequest(t, app, http.MethodPost, "/v1/reminders", userToken,
		`{"userId":"u1","kind":"medication","title":"Iron","date":"2025-06-10","time":"09:05","status":"active"}`)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", response.StatusCode)
	}
	var created baas.ReminderDocument
	decodeJSON(t, response, &created)

	otherToken := mustToken(t, "u2", RoleUser)
	response = doRequest(t, app, http.MethodPatch, "/v1/reminders/"+created.ID, otherToken, `{"status":"cancelled"}`)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected another user's reminder to look missing, got %d", response.StatusCode)
	}

	serviceToken := mustToken(t, "notifier", RoleService)
	response = doRequest(t, app, http.MethodPost, "/v1/reminders/"+created.ID+"/notified", serviceToken, `{"notifiedAt":{"_seconds":1749546300}}`)
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for service notified mark, got %d", response.StatusCode)
	}

	response = doRequest(t, app, http.MethodPatch, "/v1/reminders/"+created.ID, userToken, `{"status":"done"}`)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", response.StatusCode)
	}

	stored, err := repositories.Reminders.FindReminder(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindReminder() unexpected error: %v", err)
	}
	if stored.NotifiedAt == nil || stored.NotifiedAt.Unix() != 1749546300 {
		t.Fatalf("unexpected notified at %v", stored.NotifiedAt)
	}
}

func TestChatStoreAgainstEmulatorOverHTTP(t *testing.T) {
	app, repositories := newTestEmulator(t)
	ctx := context.Background()

	request := models.SupportRequest{UserID: "u1", Title: "Ride to clinic", SupportType: "ride"}
	if err := repositories.Support.CreateSupportRequest(ctx, &request); err != nil {
		t.Fatalf("CreateSupportRequest() unexpected error: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		_ = app.Listener(listener)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	helperClient, err := baas.NewClient("http://"+listener.Addr().String(), mustToken(t, "u2", RoleUser))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	helperStore := chat.NewStore(helperClient)
	if _, err := helperStore.SendMessage(ctx, "I can drive you", "u2", "u1", request.ID); err != nil {
		t.Fatalf("SendMessage() unexpected error: %v", err)
	}

	ownerClient, err := baas.NewClient("http://"+listener.Addr().String(), mustToken(t, "u1", RoleUser))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	ownerStore := chat.NewStore(ownerClient)

	previews, err := ownerStore.FetchChatPreviews(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchChatPreviews() unexpected error: %v", err)
	}
	if len(previews) != 1 || previews[0].UnreadCount != 1 || previews[0].LastMessageAt.IsZero() {
		t.Fatalf("unexpected previews %+v", previews)
	}

	if err := ownerStore.FetchMessages(ctx, request.ID, "u1"); err != nil {
		t.Fatalf("FetchMessages() unexpected error: %v", err)
	}
	if messages := ownerStore.Messages(); len(messages) != 1 || messages[0].Content != "I can drive you" {
		t.Fatalf("unexpected messages %+v", messages)
	}

	_, err = ownerStore.SendMessage(ctx, "thanks", "u1", "u2", "missing-request")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown request, got %v", err)
	}
	if ownerStore.LastError() == "" {
		t.Fatal("expected store to record the failure")
	}
}

func TestAnonymousRequestHidesOwnerFromOtherUsers(t *testing.T) {
	app, repositories := newTestEmulator(t)
	ctx := context.Background()

	request := models.SupportRequest{UserID: "u1", Title: "Pads needed", SupportType: "supplies", Anonymous: true}
	if err := repositories.Support.CreateSupportRequest(ctx, &request); err != nil {
		t.Fatalf("CreateSupportRequest() unexpected error: %v", err)
	}
	owner := mustToken(t, "u1", RoleUser)
	helper := mustToken(t, "u2", RoleUser)

	var single baas.SupportRequestDocument
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/support-requests/"+request.ID, helper, ""), &single)
	if single.UserID != "" || !single.Anonymous {
		t.Fatalf("expected owner hidden from helper, got %+v", single)
	}
	var listed struct {
		Requests []baas.SupportRequestDocument `json:"requests"`
	}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/support-requests?status=open", helper, ""), &listed)
	if len(listed.Requests) != 1 || listed.Requests[0].UserID != "" {
		t.Fatalf("expected owner hidden in listing, got %+v", listed.Requests)
	}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/support-requests/"+request.ID, owner, ""), &single)
	if single.UserID != "u1" {
		t.Fatalf("expected owner to see their own id, got %q", single.UserID)
	}

	response := doRequest(t, app, http.MethodPost, "/v1/requests/"+request.ID+"/messages", helper, `{"senderId":"u2","content":"I have some spare"}`)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected message to the hidden owner to be created, got %d", response.StatusCode)
	}
	var sent baas.MessageDocument
	decodeJSON(t, response, &sent)
	if sent.ReceiverID != "" || sent.SenderID != "u2" {
		t.Fatalf("expected hidden receiver in helper response, got %+v", sent)
	}
	stored, err := repositories.Messages.ListMessages(ctx, request.ID, "u1")
	if err != nil || len(stored) != 1 || stored[0].ReceiverID != "u1" {
		t.Fatalf("expected message routed to the owner, got %+v, %v", stored, err)
	}

	var helperPreviews struct {
		Previews []baas.ChatPreviewDocument `json:"previews"`
	}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/users/u2/chat-previews", helper, ""), &helperPreviews)
	if len(helperPreviews.Previews) != 1 || helperPreviews.Previews[0].CounterpartID != "" {
		t.Fatalf("expected hidden counterpart for helper, got %+v", helperPreviews.Previews)
	}
	var ownerPreviews struct {
		Previews []baas.ChatPreviewDocument `json:"previews"`
	}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/users/u1/chat-previews", owner, ""), &ownerPreviews)
	if len(ownerPreviews.Previews) != 1 || ownerPreviews.Previews[0].CounterpartID != "u2" {
		t.Fatalf("expected owner to see the helper, got %+v", ownerPreviews.Previews)
	}

	var thread struct {
		Messages []baas.MessageDocument `json:"messages"`
	}
	decodeJSON(t, doRequest(t, app, http.MethodGet, "/v1/requests/"+request.ID+"/messages", helper, ""), &thread)
	if len(thread.Messages) != 1 || thread.Messages[0].ReceiverID != "" {
		t.Fatalf("expected hidden owner in helper thread, got %+v", thread.Messages)
	}

	response = doRequest(t, app, http.MethodPost, "/v1/requests/"+request.ID+"/messages", owner, `{"senderId":"u1","content":"thanks"}`)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected owner without receiver to be rejected, got %d", response.StatusCode)
	}
}
