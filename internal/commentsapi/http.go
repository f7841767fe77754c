package commentsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

type tokenKey struct{}

// WithToken attaches the viewer's bearer token to the context so the HTTP
// client can forward it on outbound calls.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// HTTPClient consumes a remote comments REST endpoint speaking the
// {success, message, data} envelope.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type commentsPayload struct {
	Comments []domain.Comment `json:"comments"`
}

func (c *HTTPClient) FetchComments(ctx context.Context, postID domain.ID, _ *domain.Viewer) ([]domain.Comment, error) {
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID.String()))

	var payload commentsPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, postID domain.ID, _ *domain.Viewer, in AddCommentInput) error {
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID.String()))
	return c.do(ctx, http.MethodPost, path, in, nil)
}

func (c *HTTPClient) UpdateComment(ctx context.Context, commentID domain.ID, _ *domain.Viewer, content string) error {
	path := fmt.Sprintf("/comments/%s", url.PathEscape(commentID.String()))
	return c.do(ctx, http.MethodPut, path, domain.UpdateCommentInput{Content: content}, nil)
}

func (c *HTTPClient) DeleteComment(ctx context.Context, commentID domain.ID, _ *domain.Viewer) error {
	path := fmt.Sprintf("/comments/%s", url.PathEscape(commentID.String()))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) ToggleLike(ctx context.Context, commentID domain.ID, _ *domain.Viewer) error {
	path := fmt.Sprintf("/comments/%s/like", url.PathEscape(commentID.String()))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// do issues one request and unwraps the response envelope into out. The
// viewer's bearer token, when present on the context, is forwarded as-is; the
// remote end owns authorization.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || (!env.Success && env.Message != "") {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("comments api: %s %s: %s", method, path, msg)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
