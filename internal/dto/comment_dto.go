package dto

import (
	"comment-gateway/internal/domain"
)

// CommentListResponse is the flat-mode list payload
// @Description Flat comment list. Each comment carries its own depth; children are absent.
type CommentListResponse struct {
	Comments []*domain.Comment `json:"comments"`
	Total    int               `json:"total"`
	PostID   int64             `json:"post_id"`
}

// CommentTreeListResponse is the tree-mode list payload
// @Description Root comments with nested children.
type CommentTreeListResponse struct {
	Comments []*domain.Comment `json:"comments"`
	Total    int               `json:"total"`
	PostID   int64             `json:"post_id"`
}

// CreateCommentRequest creates a root comment or, with ParentID, a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateCommentRequest replaces a comment's content
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PatchCommentRequest is a partial update; nil fields are left out of the body
type PatchCommentRequest struct {
	Content *string `json:"content,omitempty"`
}

// CreateCommentResponse is the summary returned after creation
type CreateCommentResponse struct {
	ID        int64            `json:"id"`
	PostID    int64            `json:"post_id"`
	ParentID  *int64           `json:"parent_id,omitempty"`
	Content   string           `json:"content"`
	Depth     int              `json:"depth"`
	Path      *string          `json:"path,omitempty"`
	AuthorID  int64            `json:"author_id"`
	CreatedAt domain.Timestamp `json:"created_at"`
	Message   string           `json:"message"`
}

// UpdateCommentResponse is the summary returned after an edit
type UpdateCommentResponse struct {
	ID        int64            `json:"id"`
	Content   string           `json:"content"`
	UpdatedAt domain.Timestamp `json:"updated_at"`
	Message   string           `json:"message"`
}

// DeleteCommentResponse acknowledges a soft delete
type DeleteCommentResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
