package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-gateway/internal/cache"
	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/dto"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/middleware"
	"comment-gateway/internal/response"
)

// CommentHandler proxies the comment API to the Comment Service. The bearer
// credential is forwarded untouched and service errors keep their status.
type CommentHandler struct {
	client  client.CommentClient
	cache   *cache.ListCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCommentHandler(c client.CommentClient, lc *cache.ListCache, m *metrics.Metrics, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		client:  c,
		cache:   lc,
		metrics: m,
		logger:  logger,
	}
}

// GetTree godoc
// @Summary      Comment tree of a post
// @Description  Root comments with nested replies (at most three levels below a root)
// @Tags         comments
// @Produce      json
// @Param        postId path int true "Post ID"
// @Success      200 {object} dto.CommentTreeListResponse
// @Failure      400 {object} response.ErrorResponse "Invalid post ID"
// @Failure      500 {object} response.ErrorResponse "Failed to fetch comments"
// @Router       /posts/{postId}/tree [get]
func (h *CommentHandler) GetTree(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	token := middleware.BearerToken(c)
	entry, hit := h.serveCached(c, token, postID, domain.ViewModeTree, "")
	if hit {
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.ListTree(ctx, token, postID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to fetch comments")
		return
	}
	h.sendList(c, token, entry, postID, raw, resp)
}

// GetFlat godoc
// @Summary      Flat comment list of a post
// @Description  Every comment in display order with its depth; the query string is forwarded
// @Tags         comments
// @Produce      json
// @Param        postId path int true "Post ID"
// @Success      200 {object} dto.CommentListResponse
// @Failure      400 {object} response.ErrorResponse "Invalid post ID"
// @Failure      500 {object} response.ErrorResponse "Failed to fetch comments"
// @Router       /posts/{postId}/flat [get]
func (h *CommentHandler) GetFlat(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	query := c.Request.URL.Query()
	rawQuery := query.Encode()
	token := middleware.BearerToken(c)
	entry, hit := h.serveCached(c, token, postID, domain.ViewModeFlat, rawQuery)
	if hit {
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.ListFlat(ctx, token, postID, query)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to fetch comments")
		return
	}
	h.sendList(c, token, entry, postID, raw, resp)
}

// GetComment godoc
// @Summary      Single comment
// @Tags         comments
// @Produce      json
// @Param        commentId path int true "Comment ID"
// @Success      200 {object} domain.Comment
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Failure      500 {object} response.ErrorResponse "Failed to fetch comment"
// @Router       /{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	comment, err := h.client.Get(ctx, middleware.BearerToken(c), commentID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to fetch comment")
		return
	}
	sendPassthrough(c, http.StatusOK, raw, comment)
}

// CreateComment godoc
// @Summary      Create a comment or reply
// @Description  Set parent_id to reply; the Comment Service rejects replies below depth 3
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "Post ID"
// @Param        request body dto.CreateCommentRequest true "Comment"
// @Success      201 {object} dto.CreateCommentResponse
// @Failure      400 {object} response.ErrorResponse "Invalid request body"
// @Failure      401 {object} response.ErrorResponse "Authorization header required"
// @Failure      500 {object} response.ErrorResponse "Failed to create comment"
// @Router       /posts/{postId} [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.Create(ctx, middleware.BearerToken(c), postID, req)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to create comment")
		return
	}

	h.cache.Invalidate(c.Request.Context(), postID)
	h.metrics.IncrementCommentCreated()
	sendPassthrough(c, http.StatusCreated, raw, resp)
}

// UpdateComment godoc
// @Summary      Replace a comment's content
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "Comment ID"
// @Param        request body dto.UpdateCommentRequest true "New content"
// @Success      200 {object} dto.UpdateCommentResponse
// @Failure      401 {object} response.ErrorResponse "Authorization header required"
// @Failure      403 {object} response.ErrorResponse "Not the author"
// @Failure      500 {object} response.ErrorResponse "Failed to update comment"
// @Router       /{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.Update(ctx, middleware.BearerToken(c), commentID, req)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to update comment")
		return
	}

	h.cache.InvalidateAll(c.Request.Context())
	h.metrics.IncrementCommentEdited()
	sendPassthrough(c, http.StatusOK, raw, resp)
}

// PatchComment godoc
// @Summary      Partially update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "Comment ID"
// @Param        request body dto.PatchCommentRequest true "Fields to change"
// @Success      200 {object} dto.UpdateCommentResponse
// @Failure      401 {object} response.ErrorResponse "Authorization header required"
// @Failure      500 {object} response.ErrorResponse "Failed to update comment"
// @Router       /{commentId} [patch]
func (h *CommentHandler) PatchComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	var req dto.PatchCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.Patch(ctx, middleware.BearerToken(c), commentID, req)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to update comment")
		return
	}

	h.cache.InvalidateAll(c.Request.Context())
	h.metrics.IncrementCommentEdited()
	sendPassthrough(c, http.StatusOK, raw, resp)
}

// DeleteComment godoc
// @Summary      Soft-delete a comment
// @Description  The query string is forwarded to the Comment Service
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "Comment ID"
// @Success      200 {object} dto.DeleteCommentResponse
// @Failure      401 {object} response.ErrorResponse "Authorization header required"
// @Failure      403 {object} response.ErrorResponse "Not the author"
// @Failure      500 {object} response.ErrorResponse "Failed to delete comment"
// @Router       /{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	resp, err := h.client.Delete(ctx, middleware.BearerToken(c), commentID, c.Request.URL.Query())
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to delete comment")
		return
	}

	h.cache.InvalidateAll(c.Request.Context())
	h.metrics.IncrementCommentDeleted()
	sendPassthrough(c, http.StatusOK, raw, resp)
}

// RestoreComment godoc
// @Summary      Restore a soft-deleted comment
// @Description  Administrators only
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "Comment ID"
// @Success      200 {object} domain.Comment
// @Failure      401 {object} response.ErrorResponse "Authorization header required"
// @Failure      403 {object} response.ErrorResponse "Administrators only"
// @Failure      500 {object} response.ErrorResponse "Failed to restore comment"
// @Router       /{commentId}/restore [patch]
func (h *CommentHandler) RestoreComment(c *gin.Context) {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	ctx, raw := client.WithPassthrough(c.Request.Context())
	restored, err := h.client.Restore(ctx, middleware.BearerToken(c), commentID)
	if err != nil {
		handleServiceError(c, h.logger, err, "Failed to restore comment")
		return
	}

	if restored.PostID != 0 {
		h.cache.Invalidate(c.Request.Context(), restored.PostID)
	} else {
		h.cache.InvalidateAll(c.Request.Context())
	}
	h.metrics.IncrementCommentRestored()
	sendPassthrough(c, http.StatusOK, raw, restored)
}

// serveCached answers anonymous list reads from the cache. On a miss the
// returned entry is where the fetched list gets stored.
func (h *CommentHandler) serveCached(c *gin.Context, token string, postID int64, mode domain.ViewMode, rawQuery string) (cache.Entry, bool) {
	if token != "" {
		return cache.Entry{}, false
	}
	entry := h.cache.Get(c.Request.Context(), postID, mode, rawQuery)
	if !entry.Hit {
		return entry, false
	}
	c.Header("X-Cache", "HIT")
	c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Body)
	return entry, true
}

func (h *CommentHandler) sendList(c *gin.Context, token string, entry cache.Entry, postID int64, raw *client.Passthrough, payload interface{}) {
	body := []byte(raw.Body)
	if len(body) == 0 {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			h.logger.Error("Failed to encode comment list", zap.Int64("post_id", postID), zap.Error(err))
			response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to fetch comments")
			return
		}
	}
	if token == "" {
		h.cache.Set(c.Request.Context(), entry, body)
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// sendPassthrough answers with the service's own body when the client kept
// it and falls back to encoding payload
func sendPassthrough(c *gin.Context, status int, raw *client.Passthrough, payload interface{}) {
	if raw != nil && len(raw.Body) > 0 {
		c.Data(status, "application/json; charset=utf-8", raw.Body)
		return
	}
	response.SendSuccess(c, status, payload)
}
