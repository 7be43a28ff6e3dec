package client

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

	"go.uber.org/zap"

	"comment-gateway/internal/domain"
	"comment-gateway/internal/dto"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/response"
)

const (
	commentsPath     = "/api/v1/comments"
	maxErrorSnippet  = 100
	maxResponseBytes = 4 << 20
)

// CommentClient defines the interface for Comment Service communication.
// token is the raw bearer credential; an empty token sends no Authorization header.
type CommentClient interface {
	// ListFlat returns every comment of a post in display order, without children
	ListFlat(ctx context.Context, token string, postID int64, query url.Values) (*dto.CommentListResponse, error)
	// ListTree returns root comments with nested children
	ListTree(ctx context.Context, token string, postID int64) (*dto.CommentTreeListResponse, error)
	// Get returns a single comment
	Get(ctx context.Context, token string, commentID int64) (*domain.Comment, error)
	// Create posts a root comment or, with ParentID set, a reply
	Create(ctx context.Context, token string, postID int64, req dto.CreateCommentRequest) (*dto.CreateCommentResponse, error)
	// Update replaces a comment's content
	Update(ctx context.Context, token string, commentID int64, req dto.UpdateCommentRequest) (*dto.UpdateCommentResponse, error)
	// Patch partially updates a comment
	Patch(ctx context.Context, token string, commentID int64, req dto.PatchCommentRequest) (*dto.UpdateCommentResponse, error)
	// Delete soft-deletes a comment; query is forwarded untouched
	Delete(ctx context.Context, token string, commentID int64, query url.Values) (*dto.DeleteCommentResponse, error)
	// Restore clears the soft-delete flag (admin only on the service side)
	Restore(ctx context.Context, token string, commentID int64) (*domain.Comment, error)
}

// commentClient implements CommentClient interface
type commentClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewCommentClient creates a new Comment Service client
func NewCommentClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) CommentClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *commentClient) ListFlat(ctx context.Context, token string, postID int64, query url.Values) (*dto.CommentListResponse, error) {
	var out dto.CommentListResponse
	path := fmt.Sprintf("%s/posts/%d/flat", commentsPath, postID)
	if err := c.do(ctx, http.MethodGet, path, query, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) ListTree(ctx context.Context, token string, postID int64) (*dto.CommentTreeListResponse, error) {
	var out dto.CommentTreeListResponse
	path := fmt.Sprintf("%s/posts/%d/tree", commentsPath, postID)
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Get(ctx context.Context, token string, commentID int64) (*domain.Comment, error) {
	var out domain.Comment
	path := fmt.Sprintf("%s/%d", commentsPath, commentID)
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Create(ctx context.Context, token string, postID int64, req dto.CreateCommentRequest) (*dto.CreateCommentResponse, error) {
	var out dto.CreateCommentResponse
	path := fmt.Sprintf("%s/posts/%d", commentsPath, postID)
	if err := c.do(ctx, http.MethodPost, path, nil, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Update(ctx context.Context, token string, commentID int64, req dto.UpdateCommentRequest) (*dto.UpdateCommentResponse, error) {
	var out dto.UpdateCommentResponse
	path := fmt.Sprintf("%s/%d", commentsPath, commentID)
	if err := c.do(ctx, http.MethodPut, path, nil, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Patch(ctx context.Context, token string, commentID int64, req dto.PatchCommentRequest) (*dto.UpdateCommentResponse, error) {
	var out dto.UpdateCommentResponse
	path := fmt.Sprintf("%s/%d", commentsPath, commentID)
	if err := c.do(ctx, http.MethodPatch, path, nil, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Delete(ctx context.Context, token string, commentID int64, query url.Values) (*dto.DeleteCommentResponse, error) {
	var out dto.DeleteCommentResponse
	path := fmt.Sprintf("%s/%d", commentsPath, commentID)
	if err := c.do(ctx, http.MethodDelete, path, query, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *commentClient) Restore(ctx context.Context, token string, commentID int64) (*domain.Comment, error) {
	var out domain.Comment
	path := fmt.Sprintf("%s/%d/restore", commentsPath, commentID)
	if err := c.do(ctx, http.MethodPatch, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes a 2xx JSON body into out.
// Non-2xx responses, and 2xx bodies that are not JSON, become
// *response.AppError carrying the service status and detail; transport
// failures become a network AppError.
func (c *commentClient) do(ctx context.Context, method, path string, query url.Values, token string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("Failed to marshal request body",
				zap.Error(err),
				zap.String("path", path),
			)
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err), zap.String("path", path))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(path, method, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to call comment service",
			zap.Error(err),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", duration),
		)
		return response.NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Error("Failed to read comment service response",
			zap.Error(err),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return response.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := ExtractDetail(resp.StatusCode, data)
		c.logger.Warn("Comment service returned non-success status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("detail", detail),
			zap.Duration("duration", duration),
		)
		return response.NewServiceError(resp.StatusCode, detail)
	}

	c.logger.Debug("Comment service call succeeded",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("Failed to decode comment service response",
			zap.Error(err),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return response.NewServiceError(resp.StatusCode, backendErrorDetail(data))
	}
	if p, ok := ctx.Value(passthroughKey{}).(*Passthrough); ok {
		p.Status = resp.StatusCode
		p.Body = json.RawMessage(data)
	}
	return nil
}

// Passthrough holds the undecoded body of the last successful call made
// with a context from WithPassthrough. Fields the gateway does not model,
// and explicit nulls, survive in Body.
type Passthrough struct {
	Status int
	Body   json.RawMessage
}

type passthroughKey struct{}

// WithPassthrough returns a context that keeps successful response bodies in p
func WithPassthrough(ctx context.Context) (context.Context, *Passthrough) {
	p := &Passthrough{}
	return context.WithValue(ctx, passthroughKey{}, p), p
}

// validationIssue is one entry of a FastAPI 422 detail list
type validationIssue struct {
	Msg string `json:"msg"`
}

// ExtractDetail turns an error body into the message shown to the user.
// A string detail is returned verbatim, a validation list is joined by "; ",
// a non-JSON body is reported as a backend error and an empty body falls back
// to the status text.
func ExtractDetail(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return statusText(status)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		var anything interface{}
		if json.Unmarshal(trimmed, &anything) == nil {
			return statusText(status)
		}
		return backendErrorDetail(trimmed)
	}

	if raw, ok := envelope["detail"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var issues []validationIssue
		if err := json.Unmarshal(raw, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				if issue.Msg != "" {
					msgs = append(msgs, issue.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if raw, ok := envelope["message"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return statusText(status)
}

func backendErrorDetail(body []byte) string {
	snippet := []rune(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet]
	}
	return "Backend error: " + string(snippet)
}

func statusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
