package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/service"
)

type Handlers struct {
	Comment *CommentHandler
	Panel   *PanelHandler
}

func NewHandlers(services *service.Services, registry *panel.Registry) *Handlers {
	return &Handlers{
		Comment: NewCommentHandler(services.Comment),
		Panel:   NewPanelHandler(registry),
	}
}

// success wraps payloads in the API envelope every consumer of this service
// expects.
func success(c *fiber.Ctx, status int, data any) error {
	body := fiber.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}
