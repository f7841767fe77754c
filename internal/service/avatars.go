package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/config"
)

// AvatarResolver turns stored avatar object keys into URLs the front end can
// render. Publicly readable buckets get a plain URL; otherwise a short-lived
// presigned GET. Keys that already look like absolute URLs pass through.
type AvatarResolver struct {
	client *minio.Client
	cfg    *config.Config
}

func NewAvatarResolver(client *minio.Client, cfg *config.Config) *AvatarResolver {
	return &AvatarResolver{client: client, cfg: cfg}
}

func (r *AvatarResolver) URL(ctx context.Context, key *string) string {
	if key == nil || *key == "" {
		return ""
	}
	if strings.HasPrefix(*key, "http://") || strings.HasPrefix(*key, "https://") {
		return *key
	}

	if r.cfg.MinIOPublicRead {
		scheme := "http"
		if r.cfg.MinIOPublicUseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, r.cfg.MinIOPublicEndpoint, r.cfg.MinIOBucket, url.PathEscape(*key))
	}

	if r.client == nil {
		return ""
	}
	signed, err := r.client.PresignedGetObject(ctx, r.cfg.MinIOBucket, *key, 15*time.Minute, nil)
	if err != nil {
		log.Printf("presign avatar %s: %v", *key, err)
		return ""
	}
	return signed.String()
}
