package service

import (
	"context"
	"fmt"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendJoinDecision(ctx context.Context, email, name, orgName string, approved bool) error {
	subject := fmt.Sprintf("Your request to join %s", orgName)
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	body := fmt.Sprintf("Hello %s,\n\nYour request to join %s has been %s.\n\nBest regards,\nThe SquadHub Team", name, orgName, outcome)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridEmailService) SendSubscriptionReceipt(ctx context.Context, email, name string, tier domain.Tier, costCents int32) error {
	subject := "Subscription updated"
	body := fmt.Sprintf("Hello %s,\n\nYour subscription is now %s ($%d.%02d per period).\n\nBest regards,\nThe SquadHub Team",
		name, tier, costCents/100, costCents%100)
	return s.send(ctx, email, name, subject, body)
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, toName, subject, plainText string) error {
	if s.apiKey == "" {
		logger.Debug("SendGrid disabled, dropping email", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}
