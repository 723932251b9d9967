package services

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends invitation notification emails via Amazon SES. Sending
// is best-effort; the invitation flow never depends on it.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates the email service. With no from-address
// configured it comes up disabled and skips all sends.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool { return s.enabled }

// SendInvitationEmail tells the invitee someone wants to swipe with them.
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, inviterEmail, categoryName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("%s invited you to swipe %s together!", inviterEmail, categoryName)
	textBody := fmt.Sprintf(`Hi,

%s has invited you to pick a %s match together on CoupleSwipe.

Open the app to accept or decline: %s

Invitations expire quickly, so don't wait too long.

---
This is an automated email from CoupleSwipe. Please do not reply.
`, inviterEmail, categoryName, s.appBaseURL)

	htmlBody := fmt.Sprintf(`<p>%s has invited you to pick a <strong>%s</strong> match together on CoupleSwipe.</p>
<p><a href="%s">Open the app</a> to accept or decline. Invitations expire quickly, so don't wait too long.</p>
<p style="color:#666;font-size:12px">This is an automated email from CoupleSwipe. Please do not reply.</p>`,
		inviterEmail, categoryName, s.appBaseURL)

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	log.Printf("Invitation email sent to %s", toEmail)
	return nil
}
