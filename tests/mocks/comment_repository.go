package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/repository"
)

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, rec *repository.CommentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *CommentRepository) GetByID(ctx context.Context, id domain.ID) (*repository.CommentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CommentRecord), args.Error(1)
}

func (m *CommentRepository) Update(ctx context.Context, id domain.ID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *CommentRepository) SoftDelete(ctx context.Context, id domain.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID, viewerID domain.ID) ([]repository.CommentRecord, error) {
	args := m.Called(ctx, postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CommentRecord), args.Error(1)
}

func (m *CommentRepository) ToggleLike(ctx context.Context, commentID, userID domain.ID) (bool, int, error) {
	args := m.Called(ctx, commentID, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}
