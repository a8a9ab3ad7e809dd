// Package push delivers reminder notifications through Firebase Cloud Messaging.
package push

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/terraincognita07/femcare/internal/services"
	"google.golang.org/api/option"
)

const reminderChannelID = "femcare_reminders"

var ErrEmptyDeviceToken = errors.New("device token is empty")

// Sender is the subset of *messaging.Client the pusher needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FirebasePusher struct {
	sender Sender
}

func NewFirebasePusher(ctx context.Context, credentialsFile string) (*FirebasePusher, error) {
	options := make([]option.ClientOption, 0, 1)
	if path := strings.TrimSpace(credentialsFile); path != "" {
		options = append(options, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, options...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("open messaging client: %w", err)
	}
	return NewPusherWithSender(client), nil
}

func NewPusherWithSender(sender Sender) *FirebasePusher {
	return &FirebasePusher{sender: sender}
}

func (pusher *FirebasePusher) Push(ctx context.Context, deviceToken string, notification services.PushNotification) error {
	deviceToken = strings.TrimSpace(deviceToken)
	if deviceToken == "" {
		return ErrEmptyDeviceToken
	}

	response, err := pusher.sender.Send(ctx, buildMessage(deviceToken, notification))
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	log.Printf("push: delivered %s", response)
	return nil
}

func buildMessage(deviceToken string, notification services.PushNotification) *messaging.Message {
	return &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    reminderChannelID,
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
	}
}
