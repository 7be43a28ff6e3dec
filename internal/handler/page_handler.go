package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-gateway/internal/cache"
	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/middleware"
	"comment-gateway/internal/render"
	"comment-gateway/internal/service"
	"comment-gateway/internal/session"
)

// PageHandler serves the server-rendered comment section of a post. Every
// form posts back and redirects to the list on success, so the page always
// shows the refetched list. A failed action re-renders the page with the
// draft kept and the error shown next to the form.
type PageHandler struct {
	client  client.CommentClient
	cache   *cache.ListCache
	metrics *metrics.Metrics
	logger  *zap.Logger
	prefix  string
}

// NewPageHandler creates the page handler; prefix is the path the page routes are mounted under
func NewPageHandler(c client.CommentClient, lc *cache.ListCache, m *metrics.Metrics, logger *zap.Logger, prefix string) *PageHandler {
	return &PageHandler{
		client:  c,
		cache:   lc,
		metrics: m,
		logger:  logger,
		prefix:  prefix,
	}
}

// Show renders the comment section. Query parameters: view (tree|flat),
// reply, edit and confirm_delete (comment ids).
func (h *PageHandler) Show(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid post ID", "")
		return
	}
	mode := h.viewMode(c.Query("view"))

	engine := h.engine(c, postID, mode)
	h.load(c.Request.Context(), engine)

	ui := render.UIState{
		ReplyTo:         queryID(c, "reply"),
		EditID:          queryID(c, "edit"),
		ConfirmDeleteID: queryID(c, "confirm_delete"),
	}
	h.renderList(c, http.StatusOK, engine, ui)
}

// Create posts a new comment, or a reply when parent_id is sent
func (h *PageHandler) Create(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid post ID", "")
		return
	}
	mode := h.viewMode(c.PostForm("view"))

	var parentID int64
	if raw := c.PostForm("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.renderError(c, http.StatusBadRequest, "Invalid parent comment ID", h.pagePath(postID, mode))
			return
		}
		parentID = id
	}

	engine := h.engine(c, postID, mode)
	h.load(c.Request.Context(), engine)

	var form *service.ComposeForm
	if parentID == 0 {
		form = service.NewCreateForm(engine)
	} else {
		form = h.node(engine, parentID).ReplyForm(engine)
	}
	form.SetDraft(c.PostForm("content"))

	if err := form.Submit(c.Request.Context()); err != nil {
		h.renderList(c, statusForError(err), engine, render.UIState{
			ReplyTo:    parentID,
			FormTarget: parentID,
			FormDraft:  form.Draft(),
			FormError:  render.ErrorMessage(err),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, h.pagePath(postID, mode))
}

// Edit saves new content for a comment
func (h *PageHandler) Edit(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid post ID", "")
		return
	}
	mode := h.viewMode(c.PostForm("view"))
	commentID, ok := parseID(c, "commentId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid comment ID", h.pagePath(postID, mode))
		return
	}

	engine := h.engine(c, postID, mode)
	h.load(c.Request.Context(), engine)

	form := h.node(engine, commentID).EditForm(engine)
	form.SetDraft(c.PostForm("content"))

	if err := form.Submit(c.Request.Context()); err != nil {
		h.renderList(c, statusForError(err), engine, render.UIState{
			EditID:     commentID,
			FormTarget: commentID,
			FormDraft:  form.Draft(),
			FormError:  render.ErrorMessage(err),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, h.pagePath(postID, mode)+fmt.Sprintf("#comment-%d", commentID))
}

// Delete soft-deletes a comment once the form carries confirm=yes.
// Without it nothing is sent and the list is shown again.
func (h *PageHandler) Delete(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid post ID", "")
		return
	}
	mode := h.viewMode(c.PostForm("view"))
	commentID, ok := parseID(c, "commentId")
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid comment ID", h.pagePath(postID, mode))
		return
	}

	engine := h.engine(c, postID, mode)
	h.load(c.Request.Context(), engine)

	confirmed := c.PostForm("confirm") == "yes"
	confirm := service.ConfirmFunc(func(context.Context, *domain.Comment) (bool, error) {
		return confirmed, nil
	})

	var err error
	if comment := domain.Find(engine.Snapshot().Comments, commentID); comment != nil {
		_, err = service.NewNodeState(comment, engine.Viewer()).Delete(c.Request.Context(), engine, confirm)
	} else {
		// not in the loaded list; the Comment Service decides
		_, err = engine.Delete(c.Request.Context(), commentID, confirm)
	}
	if err != nil {
		h.renderList(c, statusForError(err), engine, render.UIState{
			ConfirmDeleteID: commentID,
			DeleteError:     render.ErrorMessage(err),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, h.pagePath(postID, mode))
}

func (h *PageHandler) engine(c *gin.Context, postID int64, mode domain.ViewMode) *service.CommentEngine {
	ctx := c.Request.Context()
	return service.NewCommentEngine(service.EngineConfig{
		Client:   h.client,
		Sessions: session.Static(middleware.SessionFrom(c)),
		PostID:   postID,
		ViewMode: mode,
		Metrics:  h.metrics,
		Logger:   h.logger,
		OnMutation: func(postID int64) {
			h.cache.Invalidate(ctx, postID)
		},
	})
}

// load fetches the list; a failure is kept in the engine state and shown on the page
func (h *PageHandler) load(ctx context.Context, engine *service.CommentEngine) {
	if err := engine.Refresh(ctx); err != nil {
		h.logger.Debug("Comment list load failed",
			zap.Int64("post_id", engine.PostID()),
			zap.Error(err),
		)
	}
}

// node returns the state of a loaded comment, or of a bare placeholder when
// the comment is not in the list
func (h *PageHandler) node(engine *service.CommentEngine, commentID int64) *service.NodeState {
	comment := domain.Find(engine.Snapshot().Comments, commentID)
	if comment == nil {
		comment = &domain.Comment{ID: commentID, PostID: engine.PostID()}
	}
	return service.NewNodeState(comment, engine.Viewer())
}

func (h *PageHandler) renderList(c *gin.Context, status int, engine *service.CommentEngine, ui render.UIState) {
	state := engine.Snapshot()
	view := render.BuildList(state, engine.Session(), ui, h.basePath(state.PostID))
	c.HTML(status, render.PageComments, view)
}

func (h *PageHandler) renderError(c *gin.Context, status int, message, back string) {
	c.HTML(status, render.PageError, render.ErrorPage{
		Title:   http.StatusText(status),
		Message: message,
		Back:    back,
	})
}

func (h *PageHandler) viewMode(raw string) domain.ViewMode {
	mode, err := domain.ParseViewMode(raw)
	if err != nil {
		return domain.DefaultViewMode
	}
	return mode
}

func (h *PageHandler) basePath(postID int64) string {
	return fmt.Sprintf("%s/posts/%d/comments", h.prefix, postID)
}

func (h *PageHandler) pagePath(postID int64, mode domain.ViewMode) string {
	return fmt.Sprintf("%s?view=%s", h.basePath(postID), mode)
}

func queryID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
