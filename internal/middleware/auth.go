package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

const (
	viewerContextKey = "viewer"
	tokenContextKey  = "access_token"
)

// ViewerClaims is the access-token payload issued by the platform's auth
// service. The token carries everything the comment surfaces need about the
// current user, so no user lookup happens here.
type ViewerClaims struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ViewerFromToken extracts the current viewer from a bearer token when one is
// present and valid. It never rejects the request: without a viewer the
// comment panel is read-only, which is enforced downstream.
func ViewerFromToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		viewer, err := parseViewer(token, secret)
		if err != nil {
			return c.Next()
		}

		c.Locals(viewerContextKey, viewer)
		c.Locals(tokenContextKey, token)
		return c.Next()
	}
}

// AuthRequired rejects requests without a valid viewer. Used on the mutating
// comment endpoints; reads stay open.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Viewer(c) == nil {
			return Unauthorized("Authentication required")
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func parseViewer(token, secret string) (*domain.Viewer, error) {
	claims := &ViewerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &domain.Viewer{
		ID:     domain.NewID(claims.Subject),
		Name:   claims.Name,
		Avatar: claims.Avatar,
		Email:  claims.Email,
	}, nil
}

// Viewer returns the authenticated viewer, or nil.
func Viewer(c *fiber.Ctx) *domain.Viewer {
	viewer, ok := c.Locals(viewerContextKey).(*domain.Viewer)
	if !ok {
		return nil
	}
	return viewer
}

// AccessToken returns the raw bearer token for forwarding to a remote
// comments API, or "".
func AccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenContextKey).(string)
	return token
}
