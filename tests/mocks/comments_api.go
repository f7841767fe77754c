package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/commentsapi"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

type CommentsAPI struct {
	mock.Mock
}

func (m *CommentsAPI) FetchComments(ctx context.Context, postID domain.ID, viewer *domain.Viewer) ([]domain.Comment, error) {
	args := m.Called(ctx, postID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *CommentsAPI) AddComment(ctx context.Context, postID domain.ID, viewer *domain.Viewer, in commentsapi.AddCommentInput) error {
	args := m.Called(ctx, postID, viewer, in)
	return args.Error(0)
}

func (m *CommentsAPI) UpdateComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer, content string) error {
	args := m.Called(ctx, commentID, viewer, content)
	return args.Error(0)
}

func (m *CommentsAPI) DeleteComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error {
	args := m.Called(ctx, commentID, viewer)
	return args.Error(0)
}

func (m *CommentsAPI) ToggleLike(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error {
	args := m.Called(ctx, commentID, viewer)
	return args.Error(0)
}
