package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"squadhub-backend/internal/logger"
)

type fcmPushService struct {
	client *messaging.Client
}

// NewPushService builds an FCM-backed push sender. An empty credentials path
// yields a disabled sender that drops messages.
func NewPushService(ctx context.Context, credentialsFile string) (PushService, error) {
	if credentialsFile == "" {
		logger.Info("Push notifications disabled (no Firebase credentials)")
		return &fcmPushService{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &fcmPushService{client: client}, nil
}

func (s *fcmPushService) SendJoinDecision(ctx context.Context, deviceToken, orgName string, approved bool) error {
	if s.client == nil {
		return nil
	}

	title := "Join request rejected"
	body := fmt.Sprintf("Your request to join %s was rejected.", orgName)
	if approved {
		title = "Join request approved"
		body = fmt.Sprintf("Welcome to %s!", orgName)
	}

	logger.ExternalServiceCall("fcm", "send", "org", orgName)
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	logger.ExternalServiceResult("fcm", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}
