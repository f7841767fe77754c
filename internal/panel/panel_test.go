package panel_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/commentsapi"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
	"github.com/cherinet-woyesa/eoty-platform-sub004/tests/mocks"
)

const postID = domain.ID("post-1")

var viewer = &domain.Viewer{ID: "u1", Name: "Ana"}

// serverTree is the raw payload shape the API hands back: thread "1" nests a
// reply to a reply, thread "10" is bare. Everything is authored by the viewer
// so delete tests stay simple.
func serverTree() []domain.Comment {
	return []domain.Comment{
		{
			ID:       "1",
			AuthorID: "u1",
			Content:  "first thread",
			Replies: []domain.Comment{
				{
					ID:              "2",
					AuthorID:        "u1",
					ParentCommentID: "1",
					Content:         "reply to one",
					Replies: []domain.Comment{
						{ID: "3", AuthorID: "u1", ParentCommentID: "2", Content: "reply to two"},
					},
				},
			},
		},
		{ID: "10", AuthorID: "u2", Content: "second thread"},
	}
}

func newTestPanel(api commentsapi.Client, onCount panel.CountFunc) *panel.Panel {
	return panel.New(postID, panel.Config{
		API:     api,
		OnCount: onCount,
		Logger:  log.New(io.Discard, "", 0),
	})
}

func confirmYes(t *testing.T) *mocks.Confirmer {
	t.Helper()
	c := new(mocks.Confirmer)
	c.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	return c
}

func TestPanel_ToggleLazyLoad(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()

	assert.False(t, p.IsOpen())

	p.Toggle(ctx, viewer)
	assert.True(t, p.IsOpen())

	state := p.Snapshot()
	assert.True(t, state.Loaded)
	assert.Equal(t, 2, state.TopLevelCount)
	require.Len(t, state.Comments, 2)
	assert.True(t, state.Comments[0].IsTopLevel())
	assert.Equal(t, domain.ID("1"), state.Comments[0].Replies[0].RootParentID)

	// Close and reopen: an already populated panel is not refetched.
	p.Toggle(ctx, viewer)
	p.Toggle(ctx, viewer)

	api.AssertExpectations(t)
}

func TestPanel_LoadFailureKeepsLastKnown(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(nil, errors.New("boom")).Once()
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()

	assert.False(t, p.Load(ctx, viewer))
	assert.False(t, p.Snapshot().Loaded)

	assert.True(t, p.Load(ctx, viewer))
	first := p.Snapshot()
	assert.Len(t, first.Comments, 2)

	api.AssertExpectations(t)
}

func TestPanel_Add(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("AddComment", mock.Anything, postID, viewer, commentsapi.AddCommentInput{Content: "hello"}).Return(nil).Once()
	reloaded := append(serverTree(), domain.Comment{ID: "11", AuthorID: "u1", Content: "hello"})
	api.On("FetchComments", mock.Anything, postID, viewer).Return(reloaded, nil).Once()

	p := newTestPanel(api, func(n int) { counts = append(counts, n) })
	ctx := context.Background()

	p.SetComposeDraft("  hello  ")
	p.Add(ctx, viewer)

	state := p.Snapshot()
	assert.Empty(t, state.ComposeDraft)
	assert.Equal(t, 3, state.TopLevelCount)
	assert.Equal(t, []int{3}, counts)
	assert.True(t, p.IsOpen(), "posting into a collapsed panel opens it")
	assert.False(t, state.Submitting)

	api.AssertExpectations(t)
}

func TestPanel_Add_ValidationNoOps(t *testing.T) {
	api := new(mocks.CommentsAPI)
	p := newTestPanel(api, nil)
	ctx := context.Background()

	t.Run("Empty Content", func(t *testing.T) {
		p.SetComposeDraft("   ")
		p.Add(ctx, viewer)
	})

	t.Run("No Viewer", func(t *testing.T) {
		p.SetComposeDraft("hello")
		p.Add(ctx, nil)
		assert.Equal(t, "hello", p.Snapshot().ComposeDraft)
	})

	api.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPanel_Add_FailureKeepsDraft(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("AddComment", mock.Anything, postID, viewer, mock.Anything).Return(errors.New("down")).Once()

	p := newTestPanel(api, func(n int) { counts = append(counts, n) })
	p.SetComposeDraft("try again")
	p.Add(context.Background(), viewer)

	state := p.Snapshot()
	assert.Equal(t, "try again", state.ComposeDraft, "a failed submit keeps the draft for retry")
	assert.False(t, state.Submitting)
	assert.Empty(t, counts)
	api.AssertNotCalled(t, "FetchComments", mock.Anything, mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestPanel_ReplyTargetsThreadRoot(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Twice()
	api.On("AddComment", mock.Anything, postID, viewer, commentsapi.AddCommentInput{
		Content:         "hey",
		ParentCommentID: "1",
	}).Return(nil).Once()

	p := newTestPanel(api, func(n int) { counts = append(counts, n) })
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	// Reply to "3", itself a reply to a reply: the draft keys off thread
	// root "1" and the parent posted is "1".
	p.ToggleReply("3")
	p.SetReplyDraft("3", "hey")
	assert.Equal(t, "hey", p.ReplyDraft("2"), "draft is shared across the whole thread")
	assert.Equal(t, "hey", p.ReplyDraft("1"))
	assert.Empty(t, p.ReplyDraft("10"), "drafts never bleed across threads")

	p.Reply(ctx, viewer, "3")

	state := p.Snapshot()
	assert.True(t, state.ReplyingTo.IsZero())
	assert.Empty(t, state.ReplyDrafts)
	assert.Empty(t, counts, "replies never touch the external count")

	api.AssertExpectations(t)
}

func TestPanel_ReplyDraftsPerThread(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	require.True(t, p.Load(context.Background(), viewer))

	p.SetReplyDraft("2", "for thread one")
	p.SetReplyDraft("10", "for thread ten")

	assert.Equal(t, "for thread one", p.ReplyDraft("3"))
	assert.Equal(t, "for thread ten", p.ReplyDraft("10"))
}

func TestPanel_ToggleReply(t *testing.T) {
	p := newTestPanel(new(mocks.CommentsAPI), nil)

	p.ToggleReply("2")
	assert.Equal(t, domain.ID("2"), p.Snapshot().ReplyingTo)

	// Same target closes the box.
	p.ToggleReply("2")
	assert.True(t, p.Snapshot().ReplyingTo.IsZero())

	// A different target switches, it does not stack.
	p.ToggleReply("2")
	p.ToggleReply("10")
	assert.Equal(t, domain.ID("10"), p.Snapshot().ReplyingTo)
}

func TestPanel_Edit(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Twice()
	api.On("UpdateComment", mock.Anything, domain.ID("2"), viewer, "updated").Return(nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	t.Run("Begin Seeds Draft", func(t *testing.T) {
		p.BeginEdit("2")
		state := p.Snapshot()
		assert.Equal(t, domain.ID("2"), state.EditingID)
		assert.Equal(t, "reply to one", state.EditDraft)
	})

	t.Run("Cancel Discards Without Mutating", func(t *testing.T) {
		p.SetEditDraft("scratch")
		p.CancelEdit()
		state := p.Snapshot()
		assert.True(t, state.EditingID.IsZero())
		assert.Empty(t, state.EditDraft)
		assert.Equal(t, "reply to one", domain.FindComment(state.Comments, "2").Content)
	})

	t.Run("Save Reloads And Clears", func(t *testing.T) {
		p.BeginEdit("2")
		p.SetEditDraft("  updated  ")
		p.SaveEdit(ctx, viewer)

		state := p.Snapshot()
		assert.True(t, state.EditingID.IsZero())
		assert.Empty(t, state.EditDraft)
	})

	api.AssertExpectations(t)
}

func TestPanel_SaveEdit_EmptyDraftNoOps(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	p.BeginEdit("2")
	p.SetEditDraft("   ")
	p.SaveEdit(ctx, viewer)

	assert.Equal(t, domain.ID("2"), p.Snapshot().EditingID, "edit session survives a rejected save")
	api.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPanel_LikeToggle(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	// The optimistic flip is visible before the network call resolves.
	api.On("ToggleLike", mock.Anything, domain.ID("2"), viewer).Run(func(mock.Arguments) {
		node := domain.FindComment(p.Snapshot().Comments, "2")
		assert.Equal(t, 1, node.Likes)
		assert.True(t, node.LikedByUser)
	}).Return(nil).Once()
	p.ToggleLike(ctx, viewer, "2")

	api.On("ToggleLike", mock.Anything, domain.ID("2"), viewer).Return(nil).Once()
	p.ToggleLike(ctx, viewer, "2")

	node := domain.FindComment(p.Snapshot().Comments, "2")
	assert.Equal(t, 0, node.Likes)
	assert.False(t, node.LikedByUser)

	api.AssertExpectations(t)
}

func TestPanel_LikeNeverGoesNegative(t *testing.T) {
	// Server handed back an inconsistent node: liked but zero likes.
	tree := []domain.Comment{{ID: "1", AuthorID: "u2", Likes: 0, LikedByUser: true}}

	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(tree, nil).Once()
	api.On("ToggleLike", mock.Anything, domain.ID("1"), viewer).Return(nil).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	p.ToggleLike(ctx, viewer, "1")

	node := domain.FindComment(p.Snapshot().Comments, "1")
	assert.Equal(t, 0, node.Likes)
	assert.False(t, node.LikedByUser)
}

func TestPanel_LikeFailureReloads(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Twice()
	api.On("ToggleLike", mock.Anything, domain.ID("2"), viewer).Return(errors.New("down")).Once()

	p := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, p.Load(ctx, viewer))

	p.ToggleLike(ctx, viewer, "2")

	// The compensating reload discarded the optimistic guess.
	node := domain.FindComment(p.Snapshot().Comments, "2")
	assert.Equal(t, 0, node.Likes)
	assert.False(t, node.LikedByUser)

	api.AssertExpectations(t)
}

func TestPanel_LikeRequiresViewer(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	p := newTestPanel(api, nil)
	require.True(t, p.Load(context.Background(), viewer))

	p.ToggleLike(context.Background(), nil, "2")
	api.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
}

func TestPanel_DeleteTopLevel(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	pnl := newTestPanel(api, func(n int) { counts = append(counts, n) })

	// The whole subtree is gone locally before the delete call goes out.
	api.On("DeleteComment", mock.Anything, domain.ID("1"), viewer).Run(func(mock.Arguments) {
		state := pnl.Snapshot()
		assert.Nil(t, domain.FindComment(state.Comments, "1"))
		assert.Nil(t, domain.FindComment(state.Comments, "2"))
		assert.Nil(t, domain.FindComment(state.Comments, "3"))
	}).Return(nil).Once()

	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	pnl.Delete(ctx, viewer, "1", confirmYes(t))

	state := pnl.Snapshot()
	assert.Len(t, state.Comments, 1)
	assert.Equal(t, 1, state.TopLevelCount)
	assert.Equal(t, []int{1}, counts, "top-level delete reports the new count once")

	api.AssertExpectations(t)
}

func TestPanel_DeleteReplyKeepsCountCallbackSilent(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()
	api.On("DeleteComment", mock.Anything, domain.ID("2"), viewer).Return(nil).Once()

	pnl := newTestPanel(api, func(n int) { counts = append(counts, n) })
	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	pnl.Delete(ctx, viewer, "2", confirmYes(t))

	state := pnl.Snapshot()
	assert.Nil(t, domain.FindComment(state.Comments, "2"))
	assert.Nil(t, domain.FindComment(state.Comments, "3"), "descendants go with the deleted reply")
	assert.Equal(t, 2, state.TopLevelCount)
	assert.Empty(t, counts, "reply deletes never touch the external count")

	api.AssertExpectations(t)
}

func TestPanel_DeleteDeclinedLeavesTreeAlone(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	confirm := new(mocks.Confirmer)
	confirm.On("Confirm", mock.Anything, mock.MatchedBy(func(req panel.ConfirmRequest) bool {
		return req.Variant == "danger" && req.ConfirmLabel == "Delete"
	})).Return(false, nil).Once()

	pnl := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	pnl.Delete(ctx, viewer, "1", confirm)

	assert.NotNil(t, domain.FindComment(pnl.Snapshot().Comments, "1"))
	api.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything, mock.Anything)
	confirm.AssertExpectations(t)
}

func TestPanel_DeleteRequiresAuthorship(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	confirm := new(mocks.Confirmer)
	pnl := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	// "10" belongs to u2; the confirmation dialog is never even shown.
	pnl.Delete(ctx, viewer, "10", confirm)

	assert.NotNil(t, domain.FindComment(pnl.Snapshot().Comments, "10"))
	confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestPanel_DeleteFailureReloads(t *testing.T) {
	var counts []int
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Twice()
	api.On("DeleteComment", mock.Anything, domain.ID("1"), viewer).Return(errors.New("down")).Once()

	pnl := newTestPanel(api, func(n int) { counts = append(counts, n) })
	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	pnl.Delete(ctx, viewer, "1", confirmYes(t))

	state := pnl.Snapshot()
	assert.NotNil(t, domain.FindComment(state.Comments, "1"), "compensating reload restored the node")
	assert.Equal(t, 2, state.TopLevelCount)
	assert.Empty(t, counts, "a failed delete reports nothing")

	api.AssertExpectations(t)
}

// A like whose network call is still in flight must not break a delete of the
// same comment; whatever the like call's outcome, the comment stays gone.
func TestPanel_LikeThenDeleteInterleaved(t *testing.T) {
	tree := []domain.Comment{{ID: "1", AuthorID: "u1", Likes: 0, LikedByUser: false}}
	release := make(chan struct{})
	likeStarted := make(chan struct{})

	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(tree, nil).Once()
	api.On("ToggleLike", mock.Anything, domain.ID("1"), viewer).Run(func(mock.Arguments) {
		close(likeStarted)
		<-release
	}).Return(errors.New("late failure")).Once()
	api.On("DeleteComment", mock.Anything, domain.ID("1"), viewer).Return(nil).Once()
	// Compensating reload for the failed like: server no longer has the
	// comment.
	api.On("FetchComments", mock.Anything, postID, viewer).Return([]domain.Comment{}, nil).Once()

	pnl := newTestPanel(api, nil)
	ctx := context.Background()
	require.True(t, pnl.Load(ctx, viewer))

	done := make(chan struct{})
	go func() {
		defer close(done)
		pnl.ToggleLike(ctx, viewer, "1")
	}()

	<-likeStarted
	pnl.Delete(ctx, viewer, "1", confirmYes(t))
	assert.Nil(t, domain.FindComment(pnl.Snapshot().Comments, "1"))

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("like call never finished")
	}

	state := pnl.Snapshot()
	assert.Empty(t, state.Comments)
	assert.Equal(t, 0, state.TopLevelCount)

	api.AssertExpectations(t)
}

func TestPanel_SubmittingGuardBlocksDoubleSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	api := new(mocks.CommentsAPI)
	api.On("AddComment", mock.Anything, postID, viewer, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil).Once()
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	pnl := newTestPanel(api, nil)
	ctx := context.Background()
	pnl.SetComposeDraft("once")

	done := make(chan struct{})
	go func() {
		defer close(done)
		pnl.Add(ctx, viewer)
	}()

	<-started
	assert.True(t, pnl.Snapshot().Submitting)
	pnl.Add(ctx, viewer) // second gesture while in flight: no-op

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("add never finished")
	}

	assert.False(t, pnl.Snapshot().Submitting)
	api.AssertExpectations(t)
}

type fakeOpenController struct {
	open bool
}

func (f *fakeOpenController) IsOpen() bool      { return f.open }
func (f *fakeOpenController) SetOpen(open bool) { f.open = open }

func TestPanel_DelegatedOpenState(t *testing.T) {
	api := new(mocks.CommentsAPI)
	api.On("FetchComments", mock.Anything, postID, viewer).Return(serverTree(), nil).Once()

	controller := &fakeOpenController{}
	pnl := panel.New(postID, panel.Config{
		API:    api,
		Open:   controller,
		Logger: log.New(io.Discard, "", 0),
	})

	pnl.Toggle(context.Background(), viewer)
	assert.True(t, controller.open, "open state lives in the controller, not the panel")
	assert.True(t, pnl.Snapshot().Open, "snapshot mirrors the delegated flag")

	api.AssertExpectations(t)
}
