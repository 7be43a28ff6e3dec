package render

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints the list for a terminal. Tree mode nests children;
// flat mode indents each comment by its depth.
func WriteText(w io.Writer, v *ListView) error {
	tw := &textWriter{w: w}

	mode := "flat"
	if v.IsTree {
		mode = "tree"
	}
	tw.printf("Comments (%d) [%s view] post #%d\n", v.Total, mode, v.PostID)
	if v.SignedIn {
		admin := ""
		if v.IsAdmin {
			admin = " - Admin"
		}
		tw.printf("Logged in as: %s%s\n", v.ViewerLabel, admin)
	} else {
		tw.printf("You are not logged in. Log in to create, edit, or delete comments.\n")
	}
	if v.Error != "" {
		tw.printf("! %s\n", v.Error)
	}
	tw.printf("\n")

	if v.IsEmpty() {
		tw.printf("No comments yet. Be the first to comment!\n")
		return tw.err
	}
	for _, n := range v.Nodes {
		writeNode(tw, n, v.IsTree)
	}
	return tw.err
}

func writeNode(tw *textWriter, n *NodeView, tree bool) {
	indent := strings.Repeat("    ", n.Depth)

	header := fmt.Sprintf("#%d %s", n.ID, n.AuthorLabel)
	if n.CreatedAt != "" {
		header += " · " + n.CreatedAt
	}
	if n.Edited {
		header += " (edited)"
	}
	header += fmt.Sprintf(" · Depth %d", n.Depth)
	if n.IsDeleted {
		header += " [deleted]"
	}
	tw.printf("%s%s\n", indent, header)

	for _, line := range strings.Split(n.Content, "\n") {
		tw.printf("%s  %s\n", indent, line)
	}

	var actions []string
	if n.CanReply {
		actions = append(actions, "reply")
	}
	if n.CanEdit {
		actions = append(actions, "edit")
	}
	if n.CanDelete {
		actions = append(actions, "delete")
	}
	if len(actions) > 0 {
		tw.printf("%s  [%s]\n", indent, strings.Join(actions, "] ["))
	}

	if tree {
		for _, child := range n.Children {
			writeNode(tw, child, tree)
		}
	}
}

// textWriter keeps the first write error
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
