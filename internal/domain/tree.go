package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDepthMismatch is returned when a node's depth does not follow its parent
	ErrDepthMismatch = errors.New("comment depth does not match its position")
	// ErrParentMismatch is returned when a child's parent_id does not name its parent
	ErrParentMismatch = errors.New("comment parent does not match its position")
	// ErrOrphan is returned when a flat list references a parent it does not contain
	ErrOrphan = errors.New("comment parent not found")
)

// Walk visits every node depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func Walk(roots []*Comment, fn func(c *Comment) bool) {
	for _, c := range roots {
		if c == nil {
			continue
		}
		if fn(c) {
			Walk(c.Children, fn)
		}
	}
}

// Find returns the node with the given id, or nil
func Find(roots []*Comment, id int64) *Comment {
	var found *Comment
	Walk(roots, func(c *Comment) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes including nested children
func Count(roots []*Comment) int {
	n := 0
	Walk(roots, func(*Comment) bool {
		n++
		return true
	})
	return n
}

// ValidateTree checks that roots sit at depth 0 and every child is one level
// below its parent and points at it.
func ValidateTree(roots []*Comment) error {
	for _, root := range roots {
		if root.Depth != 0 {
			return fmt.Errorf("comment %d at depth %d: %w", root.ID, root.Depth, ErrDepthMismatch)
		}
		if err := validateChildren(root); err != nil {
			return err
		}
	}
	return nil
}

func validateChildren(parent *Comment) error {
	for _, child := range parent.Children {
		if child.Depth != parent.Depth+1 {
			return fmt.Errorf("comment %d at depth %d under %d at depth %d: %w",
				child.ID, child.Depth, parent.ID, parent.Depth, ErrDepthMismatch)
		}
		if child.ParentID == nil || *child.ParentID != parent.ID {
			return fmt.Errorf("comment %d under %d: %w", child.ID, parent.ID, ErrParentMismatch)
		}
		if err := validateChildren(child); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFlat checks a flat list: every parent appears before its children
// and every child is exactly one level below its parent.
func ValidateFlat(comments []*Comment) error {
	depths := make(map[int64]int, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			if c.Depth != 0 {
				return fmt.Errorf("comment %d at depth %d: %w", c.ID, c.Depth, ErrDepthMismatch)
			}
		} else {
			parentDepth, ok := depths[*c.ParentID]
			if !ok {
				return fmt.Errorf("comment %d references %d: %w", c.ID, *c.ParentID, ErrOrphan)
			}
			if c.Depth != parentDepth+1 {
				return fmt.Errorf("comment %d at depth %d under depth %d: %w",
					c.ID, c.Depth, parentDepth, ErrDepthMismatch)
			}
		}
		depths[c.ID] = c.Depth
	}
	return nil
}
