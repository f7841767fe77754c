package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/commentsapi"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/middleware"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
)

// PanelHandler drives panel sessions over HTTP. Each gesture the front end
// forwards maps onto one engine operation; the response always carries the
// fresh state snapshot so the client can render from it directly.
type PanelHandler struct {
	registry *panel.Registry
}

func NewPanelHandler(registry *panel.Registry) *PanelHandler {
	return &PanelHandler{registry: registry}
}

// flagConfirmer resolves the confirmation dialog from the request's explicit
// confirmed flag: the browser showed the dialog, we only relay the outcome.
type flagConfirmer bool

func (f flagConfirmer) Confirm(_ context.Context, _ panel.ConfirmRequest) (bool, error) {
	return bool(f), nil
}

type draftBody struct {
	Text string `json:"text"`
}

func (h *PanelHandler) Open(c *fiber.Ctx) error {
	postID := domain.NewID(c.Params("postId"))
	if postID.IsZero() {
		return middleware.BadRequest("Invalid post ID")
	}

	sessionID, p := h.registry.Create(postID)
	return success(c, fiber.StatusCreated, fiber.Map{
		"session_id": sessionID,
		"state":      p.Snapshot(),
	})
}

func (h *PanelHandler) Close(c *fiber.Ctx) error {
	h.registry.Close(c.Params("sessionId"))
	return success(c, fiber.StatusOK, nil)
}

func (h *PanelHandler) State(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	return h.state(c, p)
}

type commentView struct {
	domain.Comment
	CreatedAtDisplay string `json:"created_at_display,omitempty"`
}

type replyView struct {
	domain.ThreadReply
	CreatedAtDisplay string `json:"created_at_display,omitempty"`
}

type threadView struct {
	Root    commentView `json:"root"`
	Replies []replyView `json:"replies,omitempty"`
}

// Threads serves the two-level rendering view: each thread root with its
// replies flattened and annotated, timestamps already formatted for display.
func (h *PanelHandler) Threads(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}

	now := time.Now()
	threads := domain.Threads(p.Snapshot().Comments)
	views := make([]threadView, 0, len(threads))
	for _, t := range threads {
		view := threadView{
			Root: commentView{
				Comment:          t.Root,
				CreatedAtDisplay: domain.RelativeTime(t.Root.CreatedAt, now),
			},
		}
		for _, r := range t.Replies {
			view.Replies = append(view.Replies, replyView{
				ThreadReply:      r,
				CreatedAtDisplay: domain.RelativeTime(r.CreatedAt, now),
			})
		}
		views = append(views, view)
	}

	return success(c, fiber.StatusOK, fiber.Map{"threads": views})
}

func (h *PanelHandler) Toggle(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.Toggle(h.ctx(c), middleware.Viewer(c))
	return h.state(c, p)
}

func (h *PanelHandler) Reload(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.Load(h.ctx(c), middleware.Viewer(c))
	return h.state(c, p)
}

func (h *PanelHandler) SetComposeDraft(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	var body draftBody
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	p.SetComposeDraft(body.Text)
	return h.state(c, p)
}

func (h *PanelHandler) Add(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.Add(h.ctx(c), middleware.Viewer(c))
	return h.state(c, p)
}

func (h *PanelHandler) ToggleReply(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.ToggleReply(domain.NewID(c.Params("commentId")))
	return h.state(c, p)
}

func (h *PanelHandler) SetReplyDraft(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	var body draftBody
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	p.SetReplyDraft(domain.NewID(c.Params("commentId")), body.Text)
	return h.state(c, p)
}

func (h *PanelHandler) Reply(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.Reply(h.ctx(c), middleware.Viewer(c), domain.NewID(c.Params("commentId")))
	return h.state(c, p)
}

func (h *PanelHandler) BeginEdit(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.BeginEdit(domain.NewID(c.Params("commentId")))
	return h.state(c, p)
}

func (h *PanelHandler) SetEditDraft(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	var body draftBody
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	p.SetEditDraft(body.Text)
	return h.state(c, p)
}

func (h *PanelHandler) CancelEdit(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.CancelEdit()
	return h.state(c, p)
}

func (h *PanelHandler) SaveEdit(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.SaveEdit(h.ctx(c), middleware.Viewer(c))
	return h.state(c, p)
}

func (h *PanelHandler) ToggleLike(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	p.ToggleLike(h.ctx(c), middleware.Viewer(c), domain.NewID(c.Params("commentId")))
	return h.state(c, p)
}

// Delete relays the destructive-action flow. Without confirmed=true nothing
// is touched and the response carries the dialog the front end should show.
func (h *PanelHandler) Delete(c *fiber.Ctx) error {
	p, err := h.session(c)
	if err != nil {
		return err
	}
	commentID := domain.NewID(c.Params("commentId"))
	confirmed := c.QueryBool("confirmed")

	if !confirmed {
		snap := p.Snapshot()
		node := domain.FindComment(snap.Comments, commentID)
		if node == nil {
			return middleware.NotFound("Comment not found")
		}
		return success(c, fiber.StatusOK, fiber.Map{
			"deleted":      false,
			"confirmation": panel.DeleteConfirmation(node.IsTopLevel()),
		})
	}

	p.Delete(h.ctx(c), middleware.Viewer(c), commentID, flagConfirmer(true))
	return h.state(c, p)
}

func (h *PanelHandler) session(c *fiber.Ctx) (*panel.Panel, error) {
	p, ok := h.registry.Get(c.Params("sessionId"))
	if !ok {
		return nil, middleware.NotFound("Panel session not found or expired")
	}
	return p, nil
}

// ctx threads the viewer's bearer token through so a remote comments client
// can forward it.
func (h *PanelHandler) ctx(c *fiber.Ctx) context.Context {
	return commentsapi.WithToken(c.Context(), middleware.AccessToken(c))
}

func (h *PanelHandler) state(c *fiber.Ctx, p *panel.Panel) error {
	return success(c, fiber.StatusOK, fiber.Map{"state": p.Snapshot()})
}
