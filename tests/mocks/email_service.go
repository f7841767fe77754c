package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendReplyNotification(ctx context.Context, toEmail, toName, replierName, replyContent string) error {
	args := m.Called(ctx, toEmail, toName, replierName, replyContent)
	return args.Error(0)
}
