package domain

import "fmt"

// ViewMode selects the list representation requested from the Comment Service
type ViewMode string

const (
	ViewModeFlat ViewMode = "flat"
	ViewModeTree ViewMode = "tree"
)

// DefaultViewMode is the mode a new engine starts in
const DefaultViewMode = ViewModeTree

// ParseViewMode validates a view mode string; empty means the default
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "":
		return DefaultViewMode, nil
	case ViewModeFlat, ViewModeTree:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// Viewer is the identity comments are rendered for. A nil UserID is an anonymous viewer.
type Viewer struct {
	UserID  *int64
	IsAdmin bool
}

// Anonymous returns a viewer without an identity
func Anonymous() Viewer {
	return Viewer{}
}

// NewViewer returns a signed-in viewer
func NewViewer(userID int64, isAdmin bool) Viewer {
	return Viewer{UserID: &userID, IsAdmin: isAdmin}
}

// IsAnonymous reports whether the viewer has no identity
func (v Viewer) IsAnonymous() bool {
	return v.UserID == nil
}

// IsOwner reports whether the viewer authored the comment
func (v Viewer) IsOwner(c *Comment) bool {
	return v.UserID != nil && *v.UserID == c.AuthorID
}

// CanEdit reports whether the viewer may edit the comment (owner or admin)
func (v Viewer) CanEdit(c *Comment) bool {
	return v.IsOwner(c) || v.IsAdmin
}

// CanDelete follows the same rule as CanEdit
func (v Viewer) CanDelete(c *Comment) bool {
	return v.IsOwner(c) || v.IsAdmin
}

// CanRestore reports whether the viewer may restore a soft-deleted comment
func (v Viewer) CanRestore(c *Comment) bool {
	return v.IsAdmin && c.IsDeleted
}
