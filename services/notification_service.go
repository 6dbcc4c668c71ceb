package services

import (
	"context"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/techagentng/complaintx/logging"
	"google.golang.org/api/option"
)

// Dispatcher attempts best-effort push delivery to one device token. Failure
// is non-fatal to the caller.
type Dispatcher interface {
	SendPushNotification(deviceToken, title, body string) error
}

// NotificationService delivers push notifications through Firebase Cloud
// Messaging. A nil messaging client turns every dispatch into a logged no-op,
// so the service is safe to use when no credentials are configured.
type NotificationService struct {
	messagingClient *messaging.Client
}

func NewNotificationService(credentialsFile string) *NotificationService {
	s := &NotificationService{}
	if credentialsFile == "" {
		logging.Sugar.Warn("no firebase credentials configured, push notifications disabled")
		return s
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		logging.Sugar.Warnw("initializing firebase app failed, push notifications disabled", "error", err)
		return s
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		logging.Sugar.Warnw("getting messaging client failed, push notifications disabled", "error", err)
		return s
	}
	s.messagingClient = client
	return s
}

func (s *NotificationService) SendPushNotification(deviceToken, title, body string) error {
	if s.messagingClient == nil {
		return nil
	}

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	_, err := s.messagingClient.Send(context.Background(), message)
	return err
}
