package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/repository"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("insufficient permissions to modify this comment")
	ErrEmptyContent    = errors.New("comment content must not be empty")
)

// CommentService is the platform's own implementation of the comments
// contract: Postgres-backed storage with one level of nesting pre-built in
// list responses, redis-cached per post and viewer.
type CommentService interface {
	ListByPost(ctx context.Context, postID domain.ID, viewer *domain.Viewer) ([]domain.Comment, error)
	Create(ctx context.Context, postID domain.ID, viewer *domain.Viewer, input domain.CreateCommentInput) (*domain.Comment, error)
	Update(ctx context.Context, id domain.ID, viewer *domain.Viewer, input domain.UpdateCommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, id domain.ID, viewer *domain.Viewer) error
	ToggleLike(ctx context.Context, id domain.ID, viewer *domain.Viewer) (liked bool, likes int, err error)
	SetEmailService(email EmailService)
}

type commentService struct {
	commentRepo repository.CommentRepository
	redis       *redis.Client
	avatars     *AvatarResolver
	email       EmailService
}

func NewCommentService(commentRepo repository.CommentRepository, redis *redis.Client, avatars *AvatarResolver) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		redis:       redis,
		avatars:     avatars,
	}
}

// SetEmailService wires the reply-notification sender. Optional; without it
// replies are simply silent.
func (s *commentService) SetEmailService(email EmailService) {
	s.email = email
}

func (s *commentService) ListByPost(ctx context.Context, postID domain.ID, viewer *domain.Viewer) ([]domain.Comment, error) {
	cacheKey := fmt.Sprintf("comments:%s:viewer:%s", postID, viewerID(viewer))

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var comments []domain.Comment
			if json.Unmarshal([]byte(cached), &comments) == nil {
				return comments, nil
			}
		}
	}

	records, err := s.commentRepo.ListByPost(ctx, postID, viewerID(viewer))
	if err != nil {
		return nil, err
	}

	comments := s.assemble(ctx, records)

	if s.redis != nil {
		if encoded, err := json.Marshal(comments); err == nil {
			_ = s.redis.Set(ctx, cacheKey, encoded, 5*time.Minute).Err()
		}
	}

	return comments, nil
}

// assemble nests replies one level under their thread root. Records arrive
// oldest first; threads are emitted newest first with replies kept oldest
// first, and a reply keeps its immediate parent in parent_comment_id even
// when that parent is itself a reply.
func (s *commentService) assemble(ctx context.Context, records []repository.CommentRecord) []domain.Comment {
	parentOf := make(map[domain.ID]domain.ID, len(records))
	for _, rec := range records {
		if rec.ParentCommentID != nil {
			parentOf[rec.ID] = *rec.ParentCommentID
		}
	}

	rootOf := func(id domain.ID) domain.ID {
		seen := make(map[domain.ID]bool)
		for {
			parent, ok := parentOf[id]
			if !ok || seen[id] {
				return id
			}
			seen[id] = true
			id = parent
		}
	}

	roots := make([]domain.Comment, 0, len(records))
	rootIdx := make(map[domain.ID]int)
	var replies []repository.CommentRecord

	for _, rec := range records {
		if rec.ParentCommentID == nil {
			rootIdx[rec.ID] = len(roots)
			roots = append(roots, s.toComment(ctx, rec))
			continue
		}
		replies = append(replies, rec)
	}

	for _, rec := range replies {
		idx, ok := rootIdx[rootOf(rec.ID)]
		if !ok {
			// Orphaned reply; its thread root was hard-removed. Skip it.
			continue
		}
		roots[idx].Replies = append(roots[idx].Replies, s.toComment(ctx, rec))
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt > roots[j].CreatedAt
	})
	return roots
}

func (s *commentService) toComment(ctx context.Context, rec repository.CommentRecord) domain.Comment {
	c := domain.Comment{
		ID:          rec.ID,
		PostID:      rec.PostID,
		AuthorID:    rec.AuthorID,
		AuthorName:  rec.AuthorName,
		Content:     rec.Content,
		Likes:       rec.Likes,
		LikedByUser: rec.LikedByViewer,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if rec.ParentCommentID != nil {
		c.ParentCommentID = *rec.ParentCommentID
	}
	if s.avatars != nil {
		c.AuthorAvatar = s.avatars.URL(ctx, rec.AuthorAvatar)
	}
	return c
}

func (s *commentService) Create(ctx context.Context, postID domain.ID, viewer *domain.Viewer, input domain.CreateCommentInput) (*domain.Comment, error) {
	if viewer == nil {
		return nil, ErrNotCommentOwner
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	rec := &repository.CommentRecord{
		ID:         domain.ID(uuid.New().String()),
		PostID:     postID,
		AuthorID:   viewer.ID,
		AuthorName: viewer.Name,
		Content:    content,
	}
	if viewer.Avatar != "" {
		avatar := viewer.Avatar
		rec.AuthorAvatar = &avatar
	}
	if viewer.Email != "" {
		email := viewer.Email
		rec.AuthorEmail = &email
	}

	var parent *repository.CommentRecord
	if !input.ParentCommentID.IsZero() {
		found, err := s.commentRepo.GetByID(ctx, input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrCommentNotFound
		}
		parent = found
		parentID := parent.ID
		rec.ParentCommentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.invalidatePost(ctx, postID)
	if parent != nil {
		s.notifyReply(ctx, parent, viewer, content)
	}

	comment := s.toComment(ctx, *rec)
	return &comment, nil
}

func (s *commentService) Update(ctx context.Context, id domain.ID, viewer *domain.Viewer, input domain.UpdateCommentInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	rec, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrCommentNotFound
	}
	if viewer == nil || !rec.AuthorID.Equal(viewer.ID) {
		return nil, ErrNotCommentOwner
	}

	if err := s.commentRepo.Update(ctx, id, content); err != nil {
		return nil, err
	}

	s.invalidatePost(ctx, rec.PostID)

	rec.Content = content
	comment := s.toComment(ctx, *rec)
	return &comment, nil
}

func (s *commentService) Delete(ctx context.Context, id domain.ID, viewer *domain.Viewer) error {
	rec, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrCommentNotFound
	}
	if viewer == nil || !rec.AuthorID.Equal(viewer.ID) {
		return ErrNotCommentOwner
	}

	if err := s.commentRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.invalidatePost(ctx, rec.PostID)
	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, id domain.ID, viewer *domain.Viewer) (bool, int, error) {
	if viewer == nil {
		return false, 0, ErrNotCommentOwner
	}

	rec, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	if rec == nil {
		return false, 0, ErrCommentNotFound
	}

	liked, likes, err := s.commentRepo.ToggleLike(ctx, id, viewer.ID)
	if err != nil {
		return false, 0, err
	}

	s.invalidatePost(ctx, rec.PostID)
	return liked, likes, nil
}

func (s *commentService) invalidatePost(ctx context.Context, postID domain.ID) {
	if s.redis == nil {
		return
	}
	pattern := fmt.Sprintf("comments:%s:*", postID)
	keys, _ := s.redis.Keys(ctx, pattern).Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}

// notifyReply emails the parent comment's author. Best effort: failures are
// logged, never surfaced, and self-replies stay silent.
func (s *commentService) notifyReply(ctx context.Context, parent *repository.CommentRecord, replier *domain.Viewer, content string) {
	if s.email == nil || parent.AuthorEmail == nil || *parent.AuthorEmail == "" {
		return
	}
	if parent.AuthorID.Equal(replier.ID) {
		return
	}
	if err := s.email.SendReplyNotification(ctx, *parent.AuthorEmail, parent.AuthorName, replier.Name, content); err != nil {
		log.Printf("reply notification to %s: %v", parent.AuthorName, err)
	}
}

func viewerID(viewer *domain.Viewer) domain.ID {
	if viewer == nil {
		return ""
	}
	return viewer.ID
}
