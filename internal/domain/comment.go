package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxContentLength is the maximum comment length in characters
	MaxContentLength = 1000
	// MaxReplyDepth is the depth at which replies are no longer offered
	MaxReplyDepth = 3
)

// Comment represents a comment node on a post.
// Children is only populated in tree-mode responses.
type Comment struct {
	ID             int64      `json:"id"`
	PostID         int64      `json:"post_id"`
	ParentID       *int64     `json:"parent_id,omitempty"`
	AuthorID       int64      `json:"author_id"`
	Content        string     `json:"content"`
	Depth          int        `json:"depth"`
	Path           *string    `json:"path,omitempty"`
	OrderNum       int        `json:"order_num"`
	CreatedAt      Timestamp  `json:"created_at"`
	UpdatedAt      *Timestamp `json:"updated_at,omitempty"`
	IsDeleted      bool       `json:"is_deleted"`
	AuthorUsername *string    `json:"author_username,omitempty"`
	AuthorEmail    *string    `json:"author_email,omitempty"`
	Children       []*Comment `json:"children,omitempty"`
}

// IsRoot reports whether the comment has no parent
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// IsEdited reports whether the comment carries an edit timestamp
func (c *Comment) IsEdited() bool {
	return c.UpdatedAt != nil && !c.UpdatedAt.IsZero()
}

// AcceptsReplies reports whether a reply may be composed under this comment
func (c *Comment) AcceptsReplies() bool {
	return !c.IsDeleted && c.Depth < MaxReplyDepth
}

// AuthorLabel returns the display name, falling back to the author id
func (c *Comment) AuthorLabel() string {
	if c.AuthorUsername != nil && strings.TrimSpace(*c.AuthorUsername) != "" {
		return *c.AuthorUsername
	}
	return fmt.Sprintf("User #%d", c.AuthorID)
}

// Timestamp decodes the timestamp formats emitted by the Comment Service.
// Naive timestamps (no offset) are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses any of the accepted layouts
func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
