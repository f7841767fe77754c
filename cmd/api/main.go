package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/commentsapi"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/config"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/handler"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/middleware"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/repository"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	var (
		services  = &service.Services{}
		apiClient commentsapi.Client
		localMode = cfg.CommentsAPIBaseURL == ""
	)

	if localMode {
		db, err := config.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		minioClient, err := config.NewMinIOClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to MinIO: %v (avatar URLs will be empty)", err)
		}

		repos := repository.NewRepositories(db)
		services = service.NewServices(repos, redisClient, minioClient, cfg)
		apiClient = commentsapi.NewLocalClient(services.Comment)
		log.Println("Comments served from the local store")
	} else {
		apiClient = commentsapi.NewHTTPClient(cfg.CommentsAPIBaseURL, cfg.CommentsAPITimeout)
		log.Printf("Comments proxied to %s", cfg.CommentsAPIBaseURL)
	}

	registry := panel.NewRegistry(cfg.PanelSessionTTL, func(postID domain.ID) *panel.Panel {
		return panel.New(postID, panel.Config{
			API:     apiClient,
			OnCount: publishCommentCount(redisClient, postID),
		})
	})

	handlers := handler.NewHandlers(services, registry)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg, localMode)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// publishCommentCount keeps the per-post top-level comment count in redis so
// feed listings can show it without opening a panel.
func publishCommentCount(client *redis.Client, postID domain.ID) panel.CountFunc {
	return func(newCount int) {
		key := fmt.Sprintf("post:%s:comment_count", postID)
		if err := client.Set(context.Background(), key, newCount, 0).Err(); err != nil {
			log.Printf("publish comment count for post %s: %v", postID, err)
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config, localMode bool) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", middleware.ViewerFromToken(cfg.JWTSecret))

	if localMode {
		v1.Get("/posts/:postId/comments", h.Comment.List)
		v1.Post("/posts/:postId/comments", middleware.AuthRequired(), h.Comment.Create)
		v1.Put("/comments/:commentId", middleware.AuthRequired(), h.Comment.Update)
		v1.Delete("/comments/:commentId", middleware.AuthRequired(), h.Comment.Delete)
		v1.Post("/comments/:commentId/like", middleware.AuthRequired(), h.Comment.ToggleLike)
	}

	panels := v1.Group("/panel")
	panels.Post("/posts/:postId", h.Panel.Open)

	s := panels.Group("/sessions/:sessionId")
	s.Get("/", h.Panel.State)
	s.Get("/threads", h.Panel.Threads)
	s.Delete("/", h.Panel.Close)
	s.Post("/toggle", h.Panel.Toggle)
	s.Post("/reload", h.Panel.Reload)
	s.Put("/compose", h.Panel.SetComposeDraft)
	s.Post("/comments", h.Panel.Add)
	s.Post("/reply/:commentId/toggle", h.Panel.ToggleReply)
	s.Put("/reply/:commentId/draft", h.Panel.SetReplyDraft)
	s.Post("/reply/:commentId", h.Panel.Reply)
	s.Post("/edit/:commentId", h.Panel.BeginEdit)
	s.Put("/edit/draft", h.Panel.SetEditDraft)
	s.Post("/edit/save", h.Panel.SaveEdit)
	s.Delete("/edit", h.Panel.CancelEdit)
	s.Post("/like/:commentId", h.Panel.ToggleLike)
	s.Delete("/comments/:commentId", h.Panel.Delete)
}
