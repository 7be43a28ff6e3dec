package client

import (
	"context"
	"net/url"
	"sync"

	"comment-gateway/internal/domain"
	"comment-gateway/internal/dto"
)

// MockCommentClient implements CommentClient for tests without a running Comment Service.
// Unset Func fields return empty successful responses.
type MockCommentClient struct {
	ListFlatFunc func(ctx context.Context, token string, postID int64, query url.Values) (*dto.CommentListResponse, error)
	ListTreeFunc func(ctx context.Context, token string, postID int64) (*dto.CommentTreeListResponse, error)
	GetFunc      func(ctx context.Context, token string, commentID int64) (*domain.Comment, error)
	CreateFunc   func(ctx context.Context, token string, postID int64, req dto.CreateCommentRequest) (*dto.CreateCommentResponse, error)
	UpdateFunc   func(ctx context.Context, token string, commentID int64, req dto.UpdateCommentRequest) (*dto.UpdateCommentResponse, error)
	PatchFunc    func(ctx context.Context, token string, commentID int64, req dto.PatchCommentRequest) (*dto.UpdateCommentResponse, error)
	DeleteFunc   func(ctx context.Context, token string, commentID int64, query url.Values) (*dto.DeleteCommentResponse, error)
	RestoreFunc  func(ctx context.Context, token string, commentID int64) (*domain.Comment, error)

	mu    sync.Mutex
	calls map[string]int
}

// NewMockCommentClient creates a mock with no overrides
func NewMockCommentClient() *MockCommentClient {
	return &MockCommentClient{}
}

func (m *MockCommentClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked
func (m *MockCommentClient) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// TotalCalls returns the number of calls across all methods
func (m *MockCommentClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockCommentClient) ListFlat(ctx context.Context, token string, postID int64, query url.Values) (*dto.CommentListResponse, error) {
	m.record("ListFlat")
	if m.ListFlatFunc != nil {
		return m.ListFlatFunc(ctx, token, postID, query)
	}
	return &dto.CommentListResponse{Comments: []*domain.Comment{}, PostID: postID}, nil
}

func (m *MockCommentClient) ListTree(ctx context.Context, token string, postID int64) (*dto.CommentTreeListResponse, error) {
	m.record("ListTree")
	if m.ListTreeFunc != nil {
		return m.ListTreeFunc(ctx, token, postID)
	}
	return &dto.CommentTreeListResponse{Comments: []*domain.Comment{}, PostID: postID}, nil
}

func (m *MockCommentClient) Get(ctx context.Context, token string, commentID int64) (*domain.Comment, error) {
	m.record("Get")
	if m.GetFunc != nil {
		return m.GetFunc(ctx, token, commentID)
	}
	return &domain.Comment{ID: commentID}, nil
}

func (m *MockCommentClient) Create(ctx context.Context, token string, postID int64, req dto.CreateCommentRequest) (*dto.CreateCommentResponse, error) {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token, postID, req)
	}
	return &dto.CreateCommentResponse{ID: 1, PostID: postID, ParentID: req.ParentID, Content: req.Content}, nil
}

func (m *MockCommentClient) Update(ctx context.Context, token string, commentID int64, req dto.UpdateCommentRequest) (*dto.UpdateCommentResponse, error) {
	m.record("Update")
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, token, commentID, req)
	}
	return &dto.UpdateCommentResponse{ID: commentID, Content: req.Content}, nil
}

func (m *MockCommentClient) Patch(ctx context.Context, token string, commentID int64, req dto.PatchCommentRequest) (*dto.UpdateCommentResponse, error) {
	m.record("Patch")
	if m.PatchFunc != nil {
		return m.PatchFunc(ctx, token, commentID, req)
	}
	out := &dto.UpdateCommentResponse{ID: commentID}
	if req.Content != nil {
		out.Content = *req.Content
	}
	return out, nil
}

func (m *MockCommentClient) Delete(ctx context.Context, token string, commentID int64, query url.Values) (*dto.DeleteCommentResponse, error) {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token, commentID, query)
	}
	return &dto.DeleteCommentResponse{ID: commentID, Message: "Comment deleted successfully"}, nil
}

func (m *MockCommentClient) Restore(ctx context.Context, token string, commentID int64) (*domain.Comment, error) {
	m.record("Restore")
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, token, commentID)
	}
	return &domain.Comment{ID: commentID}, nil
}
