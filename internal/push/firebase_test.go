package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/terraincognita07/femcare/internal/services"
)

type senderStub struct {
	sent []*messaging.Message
	err  error
}

func (stub *senderStub) Send(_ context.Context, message *messaging.Message) (string, error) {
	if stub.err != nil {
		return "", stub.err
	}
	stub.sent = append(stub.sent, message)
	return "projects/femcare/messages/1", nil
}

func TestPushBuildsReminderMessage(t *testing.T) {
	stub := &senderStub{}
	pusher := NewPusherWithSender(stub)

	err := pusher.Push(context.Background(), " token-1 ", services.PushNotification{
		Title: "Iron",
		Body:  "Today, 9:05 AM",
		Data:  map[string]string{"reminderId": "r1"},
	})
	if err != nil {
		t.Fatalf("Push() unexpected error: %v", err)
	}
	if len(stub.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(stub.sent))
	}
	message := stub.sent[0]
	if message.Token != "token-1" || message.Notification.Title != "Iron" || message.Data["reminderId"] != "r1" {
		t.Fatalf("unexpected message %+v", message)
	}
	if message.Android == nil || message.Android.Notification.ChannelID != reminderChannelID {
		t.Fatal("expected android channel to be set")
	}
}

func TestPushRejectsEmptyTokenAndWrapsSendErrors(t *testing.T) {
	pusher := NewPusherWithSender(&senderStub{})
	if err := pusher.Push(context.Background(), " ", services.PushNotification{}); !errors.Is(err, ErrEmptyDeviceToken) {
		t.Fatalf("expected ErrEmptyDeviceToken, got %v", err)
	}

	sendErr := errors.New("unavailable")
	pusher = NewPusherWithSender(&senderStub{err: sendErr})
	if err := pusher.Push(context.Background(), "token", services.PushNotification{}); !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}
