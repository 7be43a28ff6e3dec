package service

import (
	"context"
	"sync"

	"comment-gateway/internal/domain"
)

// NodeState is the transient UI state of one rendered comment. The three
// toggles are independent of each other.
type NodeState struct {
	comment *domain.Comment
	viewer  domain.Viewer

	mu         sync.Mutex
	isReplying bool
	isEditing  bool
	isDeleting bool
	lastErr    error
}

// NewNodeState binds a comment to the viewer it is rendered for
func NewNodeState(comment *domain.Comment, viewer domain.Viewer) *NodeState {
	return &NodeState{comment: comment, viewer: viewer}
}

// Comment returns the underlying comment
func (n *NodeState) Comment() *domain.Comment {
	return n.comment
}

// IsOwner reports whether the viewer wrote the comment
func (n *NodeState) IsOwner() bool {
	return n.viewer.IsOwner(n.comment)
}

// CanEdit is false on deleted comments regardless of ownership
func (n *NodeState) CanEdit() bool {
	return !n.comment.IsDeleted && n.viewer.CanEdit(n.comment)
}

// CanDelete is false on deleted comments regardless of ownership
func (n *NodeState) CanDelete() bool {
	return !n.comment.IsDeleted && n.viewer.CanDelete(n.comment)
}

// CanReply reports whether the reply action is offered
func (n *NodeState) CanReply() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.canReplyLocked()
}

func (n *NodeState) canReplyLocked() bool {
	return n.comment.AcceptsReplies() && !n.isReplying
}

// IsReplying reports whether the reply form is open
func (n *NodeState) IsReplying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isReplying
}

// IsEditing reports whether the inline edit form is open
func (n *NodeState) IsEditing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isEditing
}

// IsDeleting reports whether a confirmed delete is in flight
func (n *NodeState) IsDeleting() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isDeleting
}

// Err returns the last failure of an action on this node
func (n *NodeState) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastErr
}

// StartReply opens the reply form. At the depth cap, on a deleted comment or
// when the form is already open it does nothing and returns false.
func (n *NodeState) StartReply() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.canReplyLocked() {
		return false
	}
	n.isReplying = true
	return true
}

// CancelReply closes the reply form
func (n *NodeState) CancelReply() {
	n.mu.Lock()
	n.isReplying = false
	n.mu.Unlock()
}

// StartEdit opens the edit form and returns the content to pre-fill it with
func (n *NodeState) StartEdit() (string, bool) {
	if !n.CanEdit() {
		return "", false
	}
	n.mu.Lock()
	n.isEditing = true
	n.mu.Unlock()
	return n.comment.Content, true
}

// CancelEdit closes the edit form, discarding the draft
func (n *NodeState) CancelEdit() {
	n.mu.Lock()
	n.isEditing = false
	n.mu.Unlock()
}

// ReplyForm returns a compose form that posts a reply to this comment and
// closes the reply toggle on success. Submitting to a deleted comment or one
// at the depth cap fails locally without a request.
func (n *NodeState) ReplyForm(m CommentMutator) *ComposeForm {
	parentID := n.comment.ID
	return NewComposeForm(FormReply, "", func(ctx context.Context, content string) error {
		if !n.comment.AcceptsReplies() {
			return repliesClosed()
		}
		if _, err := m.Create(ctx, content, &parentID); err != nil {
			return err
		}
		n.CancelReply()
		return nil
	})
}

// EditForm returns a compose form pre-filled with the comment content that
// saves through m and closes the edit toggle on success
func (n *NodeState) EditForm(m CommentMutator) *ComposeForm {
	commentID := n.comment.ID
	return NewComposeForm(FormEdit, n.comment.Content, func(ctx context.Context, content string) error {
		if _, err := m.Edit(ctx, commentID, content); err != nil {
			return err
		}
		n.CancelEdit()
		return nil
	})
}

// Delete asks confirm, marks the node pending while the request is in flight
// and clears the pending mark afterwards. Failures are kept on the node; there
// is no retry.
func (n *NodeState) Delete(ctx context.Context, m CommentMutator, confirm Confirmer) (bool, error) {
	if !n.CanDelete() {
		return false, nil
	}
	if confirm == nil {
		return false, ErrNoConfirmer
	}

	pending := ConfirmFunc(func(ctx context.Context, c *domain.Comment) (bool, error) {
		ok, err := confirm.Confirm(ctx, c)
		if ok && err == nil {
			n.mu.Lock()
			n.isDeleting = true
			n.lastErr = nil
			n.mu.Unlock()
		}
		return ok, err
	})

	deleted, err := m.Delete(ctx, n.comment.ID, pending)

	n.mu.Lock()
	n.isDeleting = false
	if err != nil {
		n.lastErr = err
	}
	n.mu.Unlock()
	return deleted, err
}
