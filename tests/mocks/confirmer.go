package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
)

type Confirmer struct {
	mock.Mock
}

func (m *Confirmer) Confirm(ctx context.Context, req panel.ConfirmRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}
