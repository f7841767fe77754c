package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/config"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/repository"
)

type Services struct {
	Comment CommentService
	Email   EmailService
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	emailService := NewEmailService(cfg)
	avatars := NewAvatarResolver(minioClient, cfg)

	commentService := NewCommentService(repos.Comment, redis, avatars)
	if emailService != nil {
		commentService.SetEmailService(emailService)
	}

	return &Services{
		Comment: commentService,
		Email:   emailService,
	}
}
