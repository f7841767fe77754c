// Package commentsapi defines the request/response contract the comment panel
// consumes, plus the clients that satisfy it: an HTTP client for a remote
// comments deployment and a local adapter over this service's own comment
// store.
package commentsapi

import (
	"context"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

// AddCommentInput carries a new comment or reply. ParentCommentID is zero for
// a top-level comment; for replies the caller is expected to send the thread
// root's id so nested replies still attach to the root server-side.
type AddCommentInput struct {
	Content         string    `json:"content"`
	ParentCommentID domain.ID `json:"parent_comment_id,omitempty"`
}

// Client is the comments API collaborator. Implementations receive the viewer
// explicitly; a nil viewer means an unauthenticated read.
type Client interface {
	FetchComments(ctx context.Context, postID domain.ID, viewer *domain.Viewer) ([]domain.Comment, error)
	AddComment(ctx context.Context, postID domain.ID, viewer *domain.Viewer, in AddCommentInput) error
	UpdateComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer, content string) error
	DeleteComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error
	ToggleLike(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error
}
