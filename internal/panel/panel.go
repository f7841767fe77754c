// Package panel implements the threaded comment engine behind a feed post's
// comment panel: per-session interaction state plus the mutation coordinator
// that applies optimistic local updates ahead of the comments API and
// reconciles failures by reloading the canonical tree.
//
// API failures never escape the engine; mutations log and leave the state in a
// recoverable shape instead (drafts survive a failed submit, like/delete
// divergence is repaired by a compensating reload). Validation failures
// (empty content, no viewer) are silent no-ops and never reach the network.
package panel

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/commentsapi"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

type Config struct {
	API commentsapi.Client

	// OnCount, when set, is told the new top-level comment count after a
	// successful top-level add or delete.
	OnCount CountFunc

	// Open delegates the open/close flag to a parent surface. Nil means the
	// panel owns it.
	Open OpenController

	Logger *log.Logger
}

// Panel is one open comment panel session. The mutex guards local state
// transitions only and is never held across a network call, so other
// operations interleave freely while a mutation is in flight. In-flight calls
// are not cancellable and nothing is retried automatically.
type Panel struct {
	postID  domain.ID
	api     commentsapi.Client
	onCount CountFunc
	open    OpenController
	logger  *log.Logger

	mu    sync.Mutex
	state State
}

func New(postID domain.ID, cfg Config) *Panel {
	return &Panel{
		postID:  postID,
		api:     cfg.API,
		onCount: cfg.OnCount,
		open:    cfg.Open,
		logger:  cfg.Logger,
		state:   newState(),
	}
}

func (p *Panel) PostID() domain.ID { return p.postID }

// Snapshot returns a deep copy of the current state. When open state is
// delegated, the controller's flag is reflected into the copy.
func (p *Panel) Snapshot() State {
	p.mu.Lock()
	s := p.state.clone()
	p.mu.Unlock()
	if p.open != nil {
		s.Open = p.open.IsOpen()
	}
	return s
}

func (p *Panel) IsOpen() bool {
	if p.open != nil {
		return p.open.IsOpen()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Open
}

func (p *Panel) setOpen(open bool) {
	if p.open != nil {
		p.open.SetOpen(open)
		return
	}
	p.mu.Lock()
	p.state.Open = open
	p.mu.Unlock()
}

// Toggle flips the panel open or closed. Comments are lazy: the first open
// triggers the initial load, and an already populated panel is not refetched.
func (p *Panel) Toggle(ctx context.Context, viewer *domain.Viewer) {
	opening := !p.IsOpen()
	p.setOpen(opening)
	if !opening {
		return
	}

	p.mu.Lock()
	loaded := p.state.Loaded
	p.mu.Unlock()
	if !loaded {
		p.Load(ctx, viewer)
	}
}

// Load fetches the post's comments, normalizes the tree and replaces the
// local one wholesale. On failure the last-known tree is kept.
func (p *Panel) Load(ctx context.Context, viewer *domain.Viewer) bool {
	raw, err := p.api.FetchComments(ctx, p.postID, viewer)
	if err != nil {
		p.logf("load comments for post %s: %v", p.postID, err)
		return false
	}

	tree := domain.NormalizeTree(raw)
	p.mu.Lock()
	p.state.Comments = tree
	p.state.Loaded = true
	p.state.TopLevelCount = len(tree)
	p.mu.Unlock()
	return true
}

func (p *Panel) SetComposeDraft(text string) {
	p.mu.Lock()
	p.state.ComposeDraft = text
	p.mu.Unlock()
}

// Add submits the compose draft as a new top-level comment. Empty content or
// a missing viewer is a silent no-op. On success the draft is cleared, the
// tree reloaded, the count listener told the new top-level count, and a
// collapsed panel opened. On failure the draft survives for a retry.
func (p *Panel) Add(ctx context.Context, viewer *domain.Viewer) {
	p.mu.Lock()
	content := strings.TrimSpace(p.state.ComposeDraft)
	if content == "" || viewer == nil || p.state.Submitting {
		p.mu.Unlock()
		return
	}
	p.state.Submitting = true
	prevCount := p.state.TopLevelCount
	p.mu.Unlock()

	err := p.api.AddComment(ctx, p.postID, viewer, commentsapi.AddCommentInput{Content: content})

	p.mu.Lock()
	p.state.Submitting = false
	if err != nil {
		p.mu.Unlock()
		p.logf("add comment on post %s: %v", p.postID, err)
		return
	}
	p.state.ComposeDraft = ""
	p.mu.Unlock()

	loaded := p.Load(ctx, viewer)

	p.mu.Lock()
	count := p.state.TopLevelCount
	if !loaded {
		count = prevCount + 1
		p.state.TopLevelCount = count
	}
	p.mu.Unlock()

	if p.onCount != nil {
		p.onCount(count)
	}
	if !p.IsOpen() {
		p.setOpen(true)
	}
}

// ToggleReply opens the reply box anchored at the given comment, or closes it
// when it is already the open one.
func (p *Panel) ToggleReply(commentID domain.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.ReplyingTo.Equal(commentID) {
		p.state.ReplyingTo = ""
		return
	}
	p.state.ReplyingTo = commentID
}

// SetReplyDraft stores draft text for the thread containing commentID. Drafts
// are keyed by thread root, so retargeting the reply within a thread keeps
// the text.
func (p *Panel) SetReplyDraft(commentID domain.ID, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	root := domain.RootOf(p.state.Comments, commentID)
	p.state.ReplyDrafts[root] = text
}

// ReplyDraft returns the draft for the thread containing commentID.
func (p *Panel) ReplyDraft(commentID domain.ID) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.ReplyDrafts[domain.RootOf(p.state.Comments, commentID)]
}

// Reply submits the draft of the thread containing target. The parent sent to
// the API is the thread root, never the clicked node, so replies to replies
// still attach to the root. The external count listener is deliberately not
// involved. On success only that thread's draft is dropped and the reply box
// closed; on failure both survive.
func (p *Panel) Reply(ctx context.Context, viewer *domain.Viewer, target domain.ID) {
	p.mu.Lock()
	root := domain.RootOf(p.state.Comments, target)
	content := strings.TrimSpace(p.state.ReplyDrafts[root])
	if content == "" || viewer == nil || p.state.Submitting {
		p.mu.Unlock()
		return
	}
	p.state.Submitting = true
	p.mu.Unlock()

	err := p.api.AddComment(ctx, p.postID, viewer, commentsapi.AddCommentInput{
		Content:         content,
		ParentCommentID: root,
	})

	p.mu.Lock()
	p.state.Submitting = false
	if err != nil {
		p.mu.Unlock()
		p.logf("reply to comment %s: %v", root, err)
		return
	}
	delete(p.state.ReplyDrafts, root)
	p.state.ReplyingTo = ""
	p.mu.Unlock()

	p.Load(ctx, viewer)
}

// BeginEdit puts the comment into edit mode, seeding the buffer with its
// current content. Unknown ids are ignored.
func (p *Panel) BeginEdit(commentID domain.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	node := domain.FindComment(p.state.Comments, commentID)
	if node == nil {
		return
	}
	p.state.EditingID = commentID
	p.state.EditDraft = node.Content
}

// SetEditDraft replaces the edit buffer. Ignored when no edit session is
// active.
func (p *Panel) SetEditDraft(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.EditingID.IsZero() {
		return
	}
	p.state.EditDraft = text
}

// CancelEdit discards the edit buffer without touching the tree.
func (p *Panel) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.EditingID = ""
	p.state.EditDraft = ""
}

// SaveEdit persists the active edit. On success the tree is reloaded and the
// edit state cleared; on failure the buffer stays populated for a retry.
func (p *Panel) SaveEdit(ctx context.Context, viewer *domain.Viewer) {
	p.mu.Lock()
	editing := p.state.EditingID
	content := strings.TrimSpace(p.state.EditDraft)
	if editing.IsZero() || content == "" || viewer == nil || p.state.Submitting {
		p.mu.Unlock()
		return
	}
	p.state.Submitting = true
	p.mu.Unlock()

	err := p.api.UpdateComment(ctx, editing, viewer, content)

	p.mu.Lock()
	p.state.Submitting = false
	p.mu.Unlock()
	if err != nil {
		p.logf("edit comment %s: %v", editing, err)
		return
	}

	p.Load(ctx, viewer)

	p.mu.Lock()
	p.state.EditingID = ""
	p.state.EditDraft = ""
	p.mu.Unlock()
}

// ToggleLike flips the viewer's like on the exact node optimistically, before
// the network call resolves; the counter never goes under zero. A failed call
// is compensated with a full reload rather than inverting the local change,
// so interleaved mutations are never double-corrected.
func (p *Panel) ToggleLike(ctx context.Context, viewer *domain.Viewer, commentID domain.ID) {
	if viewer == nil {
		return
	}

	p.mu.Lock()
	node := domain.FindComment(p.state.Comments, commentID)
	if node == nil {
		p.mu.Unlock()
		return
	}
	if node.LikedByUser {
		node.LikedByUser = false
		if node.Likes > 0 {
			node.Likes--
		}
	} else {
		node.LikedByUser = true
		node.Likes++
	}
	p.mu.Unlock()

	if err := p.api.ToggleLike(ctx, commentID, viewer); err != nil {
		p.logf("toggle like on comment %s: %v", commentID, err)
		p.Load(ctx, viewer)
	}
}

// Delete removes a comment the viewer authored. The confirmation dialog is
// consulted before anything else happens; on confirmation the node and its
// whole subtree are filtered out locally ahead of the network call. Only a
// confirmed top-level delete reports a new count, and only after the server
// agrees. A failed call is compensated with a full reload.
func (p *Panel) Delete(ctx context.Context, viewer *domain.Viewer, commentID domain.ID, confirm Confirmer) {
	p.mu.Lock()
	node := domain.FindComment(p.state.Comments, commentID)
	if node == nil || viewer == nil || !node.AuthorID.Equal(viewer.ID) {
		p.mu.Unlock()
		return
	}
	wasTopLevel := node.IsTopLevel()
	p.mu.Unlock()

	if confirm != nil {
		ok, err := confirm.Confirm(ctx, DeleteConfirmation(wasTopLevel))
		if err != nil {
			p.logf("confirm delete of comment %s: %v", commentID, err)
			return
		}
		if !ok {
			return
		}
	}

	p.mu.Lock()
	p.state.Comments = domain.RemoveComment(p.state.Comments, commentID)
	if wasTopLevel && p.state.TopLevelCount > 0 {
		p.state.TopLevelCount--
	}
	count := p.state.TopLevelCount
	p.mu.Unlock()

	if err := p.api.DeleteComment(ctx, commentID, viewer); err != nil {
		p.logf("delete comment %s: %v", commentID, err)
		p.Load(ctx, viewer)
		return
	}

	if wasTopLevel && p.onCount != nil {
		p.onCount(count)
	}
}

// DeleteConfirmation is the dialog presented before a delete. Deleting a
// top-level comment takes its replies with it, and the message says so.
func DeleteConfirmation(topLevel bool) ConfirmRequest {
	msg := "This reply will be permanently removed. This cannot be undone."
	if topLevel {
		msg = "This comment and all of its replies will be permanently removed. This cannot be undone."
	}
	return ConfirmRequest{
		Title:        "Delete comment?",
		Message:      msg,
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
		Variant:      "danger",
	}
}

func (p *Panel) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
