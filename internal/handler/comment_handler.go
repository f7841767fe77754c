package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/middleware"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/service"
)

// CommentHandler exposes the comments REST contract itself, the surface a
// remote panel (or any other front end) consumes.
type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID := domain.NewID(c.Params("postId"))
	if postID.IsZero() {
		return middleware.BadRequest("Invalid post ID")
	}

	comments, err := h.commentService.ListByPost(c.Context(), postID, middleware.Viewer(c))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{"comments": comments})
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	postID := domain.NewID(c.Params("postId"))
	if postID.IsZero() {
		return middleware.BadRequest("Invalid post ID")
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.commentService.Create(c.Context(), postID, middleware.Viewer(c), input)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusCreated, fiber.Map{"comment": comment})
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	commentID := domain.NewID(c.Params("commentId"))
	if commentID.IsZero() {
		return middleware.BadRequest("Invalid comment ID")
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.commentService.Update(c.Context(), commentID, middleware.Viewer(c), input)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{"comment": comment})
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	commentID := domain.NewID(c.Params("commentId"))
	if commentID.IsZero() {
		return middleware.BadRequest("Invalid comment ID")
	}

	if err := h.commentService.Delete(c.Context(), commentID, middleware.Viewer(c)); err != nil {
		return err
	}

	return success(c, fiber.StatusOK, nil)
}

func (h *CommentHandler) ToggleLike(c *fiber.Ctx) error {
	commentID := domain.NewID(c.Params("commentId"))
	if commentID.IsZero() {
		return middleware.BadRequest("Invalid comment ID")
	}

	liked, likes, err := h.commentService.ToggleLike(c.Context(), commentID, middleware.Viewer(c))
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"likes":         likes,
		"liked_by_user": liked,
	})
}
