package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"codestreak/internal/logger"
	"codestreak/internal/models"
)

// SESNotifier delivers contest reminders by email via Amazon SES
type SESNotifier struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewSESNotifier creates an SES-backed notifier. An empty fromEmail yields a
// disabled notifier that skips sending.
func NewSESNotifier(awsRegion, fromEmail, fromName string) (*SESNotifier, error) {
	if fromEmail == "" {
		logger.Warning("email notifier disabled: SES_FROM_EMAIL not configured")
		return &SESNotifier{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email notifier enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &SESNotifier{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the notifier will actually send email
func (s *SESNotifier) IsEnabled() bool {
	return s.enabled
}

// ContestReminder sends the contest reminder email
func (s *SESNotifier) ContestReminder(ctx context.Context, user *models.User, contest *models.Contest) error {
	if !s.enabled {
		logger.Info("skipping reminder email (notifier disabled): %s — %s", user.Username, contest.Name)
		return nil
	}

	subject := fmt.Sprintf("Reminder: %s starts soon", contest.Name)
	start := contest.StartsAt.Format("Monday, 2 January 2006 at 15:04 MST")

	textBody := fmt.Sprintf(`Hi %s,

%s on %s starts on %s.
`, user.Username, contest.Name, contest.Platform, start)
	if contest.URL != "" {
		textBody += fmt.Sprintf("\nContest page: %s\n", contest.URL)
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hi %s,</p>
	<p><strong>%s</strong> on %s starts on %s.</p>
`, user.Username, contest.Name, contest.Platform, start)
	if contest.URL != "" {
		htmlBody += fmt.Sprintf(`	<p><a href="%s">Go to the contest page</a></p>
`, contest.URL)
	}
	htmlBody += `</body>
</html>
`

	return s.sendEmail(ctx, user.Email, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *SESNotifier) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
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

	logger.Success("reminder email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
