package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/config"
)

type EmailService interface {
	SendReplyNotification(ctx context.Context, toEmail, toName, replierName, replyContent string) error
}

type emailService struct {
	client *resend.Client
	config *config.Config
}

func NewEmailService(cfg *config.Config) EmailService {
	if cfg.ResendAPIKey == "" {
		return nil
	}
	return &emailService{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

func (s *emailService) SendReplyNotification(ctx context.Context, toEmail, toName, replierName, replyContent string) error {
	subject := fmt.Sprintf("%s replied to your comment", replierName)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #111827;">Hi %s,</h2>
	<p><strong>%s</strong> replied to your comment:</p>
	<blockquote style="border-left: 4px solid #10b981; margin: 16px 0; padding: 8px 16px; background-color: #f3f4f6;">
		%s
	</blockquote>
	<p>
		<a href="https://%s" style="color: #10b981;">Open the conversation</a>
	</p>
	<p style="color: #6b7280; font-size: 12px;">
		You are receiving this because someone replied to a comment you wrote.
	</p>
</body>
</html>`, toName, replierName, replyContent, s.config.Domain)

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
