package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/dto"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/session"
)

var (
	// ErrSuperseded is returned by Refresh when a newer refresh was issued
	// before this one completed; its response was dropped.
	ErrSuperseded = errors.New("refresh superseded by a newer request")
	// ErrNoConfirmer is returned when Delete is called without a way to confirm
	ErrNoConfirmer = errors.New("delete requires a confirmer")
)

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, comment *domain.Comment) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, comment *domain.Comment) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, comment *domain.Comment) (bool, error) {
	return f(ctx, comment)
}

// Confirmed is a Confirmer that approves without asking; for callers that
// collected the confirmation up front (a confirm page, a -yes flag)
var Confirmed Confirmer = ConfirmFunc(func(context.Context, *domain.Comment) (bool, error) {
	return true, nil
})

// CommentMutator is the subset of the engine used by node and form state
type CommentMutator interface {
	Create(ctx context.Context, content string, parentID *int64) (*dto.CreateCommentResponse, error)
	Edit(ctx context.Context, commentID int64, content string) (*dto.UpdateCommentResponse, error)
	Delete(ctx context.Context, commentID int64, confirm Confirmer) (bool, error)
}

// ListState is a point-in-time copy of the engine's list
type ListState struct {
	PostID   int64
	ViewMode domain.ViewMode
	Comments []*domain.Comment
	Total    int
	Loading  bool
	Loaded   bool
	// Err is the last refresh failure; cleared by the next successful refresh
	Err error
}

// EngineConfig holds the engine's collaborators
type EngineConfig struct {
	Client   client.CommentClient
	Sessions session.Provider
	PostID   int64
	ViewMode domain.ViewMode
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	// OnMutation runs after every successful mutation, before the refetch
	OnMutation func(postID int64)
}

// CommentEngine fetches the comments of one post and applies mutations,
// refetching the whole list after each one.
type CommentEngine struct {
	client     client.CommentClient
	sessions   session.Provider
	postID     int64
	metrics    *metrics.Metrics
	logger     *zap.Logger
	onMutation func(postID int64)

	// opMu serializes mutations
	opMu sync.Mutex

	mu       sync.Mutex
	viewMode domain.ViewMode
	comments []*domain.Comment
	total    int
	loaded   bool
	err      error
	seq      uint64
	inflight int
}

// NewCommentEngine creates an engine for one post
func NewCommentEngine(cfg EngineConfig) *CommentEngine {
	mode := cfg.ViewMode
	if mode == "" {
		mode = domain.DefaultViewMode
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.Static(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentEngine{
		client:     cfg.Client,
		sessions:   sessions,
		postID:     cfg.PostID,
		metrics:    cfg.Metrics,
		logger:     logger,
		onMutation: cfg.OnMutation,
		viewMode:   mode,
	}
}

// PostID returns the post this engine is bound to
func (e *CommentEngine) PostID() int64 {
	return e.postID
}

// Viewer returns the identity of the current session
func (e *CommentEngine) Viewer() domain.Viewer {
	return e.sessions.Current().Viewer()
}

// Session returns the current session, nil when anonymous
func (e *CommentEngine) Session() *session.Session {
	return e.sessions.Current()
}

// Snapshot returns a copy of the list state
func (e *CommentEngine) Snapshot() ListState {
	e.mu.Lock()
	defer e.mu.Unlock()
	comments := make([]*domain.Comment, len(e.comments))
	copy(comments, e.comments)
	return ListState{
		PostID:   e.postID,
		ViewMode: e.viewMode,
		Comments: comments,
		Total:    e.total,
		Loading:  e.inflight > 0,
		Loaded:   e.loaded,
		Err:      e.err,
	}
}

// SetViewMode switches the representation and refetches from the new
// endpoint. The previous list is discarded first. Selecting the current mode
// does nothing.
func (e *CommentEngine) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if mode != domain.ViewModeFlat && mode != domain.ViewModeTree {
		return fmt.Errorf("unknown view mode %q", mode)
	}

	e.mu.Lock()
	if e.viewMode == mode {
		e.mu.Unlock()
		return nil
	}
	e.viewMode = mode
	e.comments = nil
	e.total = 0
	e.loaded = false
	e.err = nil
	e.mu.Unlock()

	e.logger.Debug("View mode changed",
		zap.Int64("post_id", e.postID),
		zap.String("view_mode", string(mode)),
	)
	return e.Refresh(ctx)
}

// Refresh fetches the list for the current view mode. A failure keeps the
// previous list and records the error. A response that arrives after a newer
// Refresh was issued is dropped and ErrSuperseded is returned.
func (e *CommentEngine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.seq++
	token := e.seq
	mode := e.viewMode
	e.inflight++
	e.mu.Unlock()

	comments, total, err := e.fetch(ctx, mode)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--

	if token != e.seq {
		if e.metrics != nil {
			e.metrics.IncrementStaleResponse()
		}
		e.logger.Debug("Discarded stale comment list",
			zap.Int64("post_id", e.postID),
			zap.Uint64("token", token),
			zap.Uint64("latest", e.seq),
		)
		return ErrSuperseded
	}

	if e.metrics != nil {
		e.metrics.RecordRefresh(string(mode), err)
	}

	if err != nil {
		e.err = err
		e.logger.Warn("Failed to refresh comments",
			zap.Int64("post_id", e.postID),
			zap.String("view_mode", string(mode)),
			zap.Error(err),
		)
		return err
	}

	e.comments = comments
	e.total = total
	e.loaded = true
	e.err = nil
	return nil
}

func (e *CommentEngine) fetch(ctx context.Context, mode domain.ViewMode) ([]*domain.Comment, int, error) {
	token := e.sessions.Current().BearerToken()
	if mode == domain.ViewModeFlat {
		resp, err := e.client.ListFlat(ctx, token, e.postID, nil)
		if err != nil {
			return nil, 0, err
		}
		return resp.Comments, resp.Total, nil
	}
	resp, err := e.client.ListTree(ctx, token, e.postID)
	if err != nil {
		return nil, 0, err
	}
	return resp.Comments, resp.Total, nil
}

// Create posts a root comment, or a reply when parentID is set
func (e *CommentEngine) Create(ctx context.Context, content string, parentID *int64) (*dto.CreateCommentResponse, error) {
	action := "comment"
	if parentID != nil {
		action = "reply"
	}
	s, err := e.requireSession(action)
	if err != nil {
		return nil, err
	}
	trimmed, err := e.validate(content)
	if err != nil {
		return nil, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	resp, err := e.client.Create(ctx, s.Token, e.postID, dto.CreateCommentRequest{
		Content:  trimmed,
		ParentID: parentID,
	})
	if err != nil {
		e.logMutationFailure("create", 0, err)
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.IncrementCommentCreated()
	}
	e.afterMutation(ctx, "create", resp.ID)
	return resp, nil
}

// Edit replaces a comment's content. Ownership is enforced by the Comment
// Service; callers only offer the action to owners and admins.
func (e *CommentEngine) Edit(ctx context.Context, commentID int64, content string) (*dto.UpdateCommentResponse, error) {
	s, err := e.requireSession("edit")
	if err != nil {
		return nil, err
	}
	trimmed, err := e.validate(content)
	if err != nil {
		return nil, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	resp, err := e.client.Update(ctx, s.Token, commentID, dto.UpdateCommentRequest{Content: trimmed})
	if err != nil {
		e.logMutationFailure("edit", commentID, err)
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.IncrementCommentEdited()
	}
	e.afterMutation(ctx, "edit", commentID)
	return resp, nil
}

// Delete soft-deletes a comment after confirm approves it. A declined
// confirmation sends nothing and returns (false, nil).
func (e *CommentEngine) Delete(ctx context.Context, commentID int64, confirm Confirmer) (bool, error) {
	s, err := e.requireSession("delete")
	if err != nil {
		return false, err
	}
	if confirm == nil {
		return false, ErrNoConfirmer
	}

	target := e.find(commentID)
	if target == nil {
		target = &domain.Comment{ID: commentID, PostID: e.postID}
	}
	ok, err := confirm.Confirm(ctx, target)
	if err != nil {
		return false, err
	}
	if !ok {
		e.logger.Debug("Delete cancelled", zap.Int64("comment_id", commentID))
		return false, nil
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if _, err := e.client.Delete(ctx, s.Token, commentID, nil); err != nil {
		e.logMutationFailure("delete", commentID, err)
		return false, err
	}
	if e.metrics != nil {
		e.metrics.IncrementCommentDeleted()
	}
	e.afterMutation(ctx, "delete", commentID)
	return true, nil
}

// Restore clears the soft-delete flag. Only administrators succeed; the
// Comment Service decides.
func (e *CommentEngine) Restore(ctx context.Context, commentID int64) (*domain.Comment, error) {
	s, err := e.requireSession("restore")
	if err != nil {
		return nil, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	restored, err := e.client.Restore(ctx, s.Token, commentID)
	if err != nil {
		e.logMutationFailure("restore", commentID, err)
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.IncrementCommentRestored()
	}
	e.afterMutation(ctx, "restore", commentID)
	return restored, nil
}

func (e *CommentEngine) requireSession(action string) (*session.Session, error) {
	s := e.sessions.Current()
	if !s.IsAuthenticated() {
		if e.metrics != nil {
			e.metrics.IncrementLocalRejection("auth_required")
		}
		return nil, authRequired(action)
	}
	return s, nil
}

func (e *CommentEngine) validate(content string) (string, error) {
	trimmed, err := ValidateContent(content)
	if err != nil && e.metrics != nil {
		e.metrics.IncrementLocalRejection("validation")
	}
	return trimmed, err
}

// afterMutation notifies the hook and refetches. A refetch failure does not
// fail the mutation; it is left in the list error.
func (e *CommentEngine) afterMutation(ctx context.Context, op string, commentID int64) {
	e.logger.Info("Comment mutation succeeded",
		zap.String("operation", op),
		zap.Int64("post_id", e.postID),
		zap.Int64("comment_id", commentID),
	)
	if e.onMutation != nil {
		e.onMutation(e.postID)
	}
	if err := e.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		e.logger.Warn("Refetch after mutation failed",
			zap.String("operation", op),
			zap.Int64("post_id", e.postID),
			zap.Error(err),
		)
	}
}

func (e *CommentEngine) logMutationFailure(op string, commentID int64, err error) {
	e.logger.Warn("Comment mutation failed",
		zap.String("operation", op),
		zap.Int64("post_id", e.postID),
		zap.Int64("comment_id", commentID),
		zap.Error(err),
	)
}

func (e *CommentEngine) find(commentID int64) *domain.Comment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Find(e.comments, commentID)
}
