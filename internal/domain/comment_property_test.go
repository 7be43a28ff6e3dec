package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildTree creates a full tree with the given fanout down to maxDepth
func buildTree(fanout, maxDepth int) []*Comment {
	var nextID int64
	var build func(parent *Comment, depth int) []*Comment
	build = func(parent *Comment, depth int) []*Comment {
		if depth > maxDepth {
			return nil
		}
		nodes := make([]*Comment, 0, fanout)
		for i := 0; i < fanout; i++ {
			nextID++
			c := &Comment{ID: nextID, AuthorID: nextID % 3, Depth: depth}
			if parent != nil {
				parentID := parent.ID
				c.ParentID = &parentID
			}
			c.Children = build(c, depth+1)
			nodes = append(nodes, c)
		}
		return nodes
	}
	return build(nil, 0)
}

// flatten lists a tree in pre-order without children
func flatten(roots []*Comment) []*Comment {
	var out []*Comment
	Walk(roots, func(c *Comment) bool {
		copied := *c
		copied.Children = nil
		out = append(out, &copied)
		return true
	})
	return out
}

func TestProperty_TreeDepthInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every child sits exactly one level below its parent", prop.ForAll(
		func(fanout, maxDepth int) bool {
			roots := buildTree(fanout, maxDepth)
			if ValidateTree(roots) != nil {
				return false
			}
			for _, r := range roots {
				if r.Depth != 0 || !r.IsRoot() {
					return false
				}
			}
			return ValidateFlat(flatten(roots)) == nil
		},
		gen.IntRange(1, 3),
		gen.IntRange(0, MaxReplyDepth),
	))

	properties.Property("shifting any node's depth breaks the invariant", prop.ForAll(
		func(fanout, maxDepth, pick int) bool {
			roots := buildTree(fanout, maxDepth)
			nodes := flatten(roots)
			target := Find(roots, nodes[pick%len(nodes)].ID)
			target.Depth++
			return ValidateTree(roots) != nil
		},
		gen.IntRange(1, 3),
		gen.IntRange(0, MaxReplyDepth),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_ReplyAvailability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("replies are offered iff depth < 3 on a live comment", prop.ForAll(
		func(depth int, deleted bool) bool {
			c := &Comment{Depth: depth, IsDeleted: deleted}
			return c.AcceptsReplies() == (depth < MaxReplyDepth && !deleted)
		},
		gen.IntRange(0, 10),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_OwnershipPermissions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("edit/delete allowed iff owner or admin", prop.ForAll(
		func(viewerID, authorID int64, isAdmin, anonymous bool) bool {
			c := &Comment{AuthorID: authorID}
			v := NewViewer(viewerID, isAdmin)
			if anonymous {
				v = Viewer{IsAdmin: isAdmin}
			}
			want := (!anonymous && viewerID == authorID) || isAdmin
			return v.CanEdit(c) == want && v.CanDelete(c) == want
		},
		gen.Int64Range(1, 5),
		gen.Int64Range(1, 5),
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("anonymous non-admin viewers never get actions", prop.ForAll(
		func(authorID int64) bool {
			c := &Comment{AuthorID: authorID}
			v := Anonymous()
			return !v.CanEdit(c) && !v.CanDelete(c) && !v.CanRestore(c)
		},
		gen.Int64Range(0, 1000),
	))

	properties.TestingRun(t)
}
