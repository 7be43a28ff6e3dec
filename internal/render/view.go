package render

import (
	"fmt"
	"html/template"
	"unicode/utf8"

	"comment-gateway/internal/domain"
	"comment-gateway/internal/service"
	"comment-gateway/internal/session"
)

// TimeLayout is how comment timestamps are shown
const TimeLayout = "2006-01-02 15:04:05"

var depthClasses = []string{"depth-blue", "depth-green", "depth-purple", "depth-orange"}

// DepthClass returns the border colour class for a depth, cycling every four levels
func DepthClass(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return depthClasses[depth%len(depthClasses)]
}

// UIState carries the page's transient toggles (from the query string) and
// the outcome of a failed form submit that is being re-rendered.
type UIState struct {
	ReplyTo         int64
	EditID          int64
	ConfirmDeleteID int64

	// FormTarget is the comment whose form failed; 0 is the top-level form
	FormTarget int64
	FormDraft  string
	FormError  string
	// DeleteError is shown on the node named by ConfirmDeleteID
	DeleteError string
}

// FormView is a compose form as rendered
type FormView struct {
	Draft     string
	Error     string
	Remaining int
}

func newFormView(draft, errMsg string) *FormView {
	return &FormView{
		Draft:     draft,
		Error:     errMsg,
		Remaining: domain.MaxContentLength - utf8.RuneCountInString(draft),
	}
}

// NodeView is one comment prepared for display
type NodeView struct {
	ID          int64
	ParentID    *int64
	Depth       int
	AuthorLabel string
	Content     string
	ContentHTML template.HTML
	CreatedAt   string
	Edited      bool
	UpdatedAt   string
	IsDeleted   bool
	DepthClass  string

	IsOwner   bool
	CanEdit   bool
	CanDelete bool
	CanReply  bool

	IsReplying       bool
	IsEditing        bool
	ConfirmingDelete bool
	ReplyForm        *FormView
	EditForm         *FormView
	DeleteError      string

	Children []*NodeView
}

// HasActions reports whether any action button is shown
func (n *NodeView) HasActions() bool {
	return n.CanReply || n.CanEdit || n.CanDelete
}

// BuildNodes converts comments into view nodes for viewer. Recursion follows
// Children, which the Comment Service bounds by the depth cap.
func BuildNodes(comments []*domain.Comment, viewer domain.Viewer, ui UIState) []*NodeView {
	nodes := make([]*NodeView, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		nodes = append(nodes, buildNode(c, viewer, ui))
	}
	return nodes
}

func buildNode(c *domain.Comment, viewer domain.Viewer, ui UIState) *NodeView {
	state := service.NewNodeState(c, viewer)

	n := &NodeView{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Depth:       c.Depth,
		AuthorLabel: c.AuthorLabel(),
		Content:     c.Content,
		ContentHTML: Content(c.Content),
		Edited:      c.IsEdited(),
		IsDeleted:   c.IsDeleted,
		DepthClass:  DepthClass(c.Depth),
		IsOwner:     state.IsOwner(),
		CanEdit:     state.CanEdit(),
		CanDelete:   state.CanDelete(),
		CanReply:    state.CanReply(),
	}
	if !c.CreatedAt.IsZero() {
		n.CreatedAt = c.CreatedAt.UTC().Format(TimeLayout)
	}
	if n.Edited {
		n.UpdatedAt = c.UpdatedAt.UTC().Format(TimeLayout)
	}

	if ui.ReplyTo == c.ID && state.StartReply() {
		n.IsReplying = true
		n.CanReply = state.CanReply()
		draft, errMsg := formOutcome(ui, c.ID, "")
		n.ReplyForm = newFormView(draft, errMsg)
	}
	if ui.EditID == c.ID {
		if content, ok := state.StartEdit(); ok {
			n.IsEditing = true
			draft, errMsg := formOutcome(ui, c.ID, content)
			n.EditForm = newFormView(draft, errMsg)
		}
	}
	if ui.ConfirmDeleteID == c.ID && n.CanDelete {
		n.ConfirmingDelete = true
		n.DeleteError = ui.DeleteError
	}

	if len(c.Children) > 0 {
		n.Children = BuildNodes(c.Children, viewer, ui)
	}
	return n
}

func formOutcome(ui UIState, target int64, fallback string) (string, string) {
	if ui.FormTarget == target && ui.FormError != "" {
		return ui.FormDraft, ui.FormError
	}
	return fallback, ""
}

// ListView is the whole comment section as rendered
type ListView struct {
	PostID   int64
	ViewMode domain.ViewMode
	IsTree   bool
	Total    int
	Nodes    []*NodeView
	Error    string

	SignedIn    bool
	ViewerLabel string
	IsAdmin     bool
	Compose     *FormView

	// BasePath is the page URL the forms post back to
	BasePath string
}

// IsEmpty reports whether the empty state is shown
func (v *ListView) IsEmpty() bool {
	return len(v.Nodes) == 0
}

// BuildList assembles the view of an engine snapshot for the given session
func BuildList(state service.ListState, s *session.Session, ui UIState, basePath string) *ListView {
	viewer := s.Viewer()
	v := &ListView{
		PostID:   state.PostID,
		ViewMode: state.ViewMode,
		IsTree:   state.ViewMode == domain.ViewModeTree,
		Total:    state.Total,
		Nodes:    BuildNodes(state.Comments, viewer, ui),
		SignedIn: s.IsAuthenticated(),
		IsAdmin:  viewer.IsAdmin,
		BasePath: basePath,
	}
	if state.Err != nil {
		v.Error = ErrorMessage(state.Err)
	}
	if v.SignedIn {
		v.ViewerLabel = viewerLabel(s)
		draft, errMsg := formOutcome(ui, 0, "")
		v.Compose = newFormView(draft, errMsg)
	}
	if msg := unplacedError(v, ui); msg != "" && v.Error == "" {
		v.Error = msg
	}
	return v
}

// unplacedError returns a form or delete error that no rendered form shows,
// so it can be reported at the top of the list instead
func unplacedError(v *ListView, ui UIState) string {
	if ui.FormError != "" {
		placed := ui.FormTarget == 0 && v.Compose != nil
		if ui.FormTarget != 0 {
			placed = findNode(v.Nodes, func(n *NodeView) bool {
				return n.ID == ui.FormTarget && (n.ReplyForm != nil || n.EditForm != nil)
			})
		}
		if !placed {
			return ui.FormError
		}
	}
	if ui.DeleteError != "" && !findNode(v.Nodes, func(n *NodeView) bool {
		return n.ID == ui.ConfirmDeleteID && n.ConfirmingDelete
	}) {
		return ui.DeleteError
	}
	return ""
}

func findNode(nodes []*NodeView, match func(n *NodeView) bool) bool {
	for _, n := range nodes {
		if match(n) || findNode(n.Children, match) {
			return true
		}
	}
	return false
}

func viewerLabel(s *session.Session) string {
	switch {
	case s.Username != "" && s.UserID != nil:
		return fmt.Sprintf("%s (ID: %d)", s.Username, *s.UserID)
	case s.Username != "":
		return s.Username
	case s.UserID != nil:
		return fmt.Sprintf("User #%d", *s.UserID)
	default:
		return "Signed in"
	}
}
