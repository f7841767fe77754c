package commentsapi

import (
	"context"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/service"
)

// LocalClient satisfies the comments contract directly against this
// deployment's own comment service, skipping the HTTP hop when the panel and
// the comment store run in one process.
type LocalClient struct {
	comments service.CommentService
}

func NewLocalClient(comments service.CommentService) *LocalClient {
	return &LocalClient{comments: comments}
}

func (c *LocalClient) FetchComments(ctx context.Context, postID domain.ID, viewer *domain.Viewer) ([]domain.Comment, error) {
	return c.comments.ListByPost(ctx, postID, viewer)
}

func (c *LocalClient) AddComment(ctx context.Context, postID domain.ID, viewer *domain.Viewer, in AddCommentInput) error {
	_, err := c.comments.Create(ctx, postID, viewer, domain.CreateCommentInput{
		Content:         in.Content,
		ParentCommentID: in.ParentCommentID,
	})
	return err
}

func (c *LocalClient) UpdateComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer, content string) error {
	_, err := c.comments.Update(ctx, commentID, viewer, domain.UpdateCommentInput{Content: content})
	return err
}

func (c *LocalClient) DeleteComment(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error {
	return c.comments.Delete(ctx, commentID, viewer)
}

func (c *LocalClient) ToggleLike(ctx context.Context, commentID domain.ID, viewer *domain.Viewer) error {
	_, _, err := c.comments.ToggleLike(ctx, commentID, viewer)
	return err
}
