package domain

// NormalizeTree annotates every node reachable from the top-level list with
// its RootParentID. Top-level comments anchor their own thread; a reply at any
// depth inherits the root already assigned to its immediate parent, so deeper
// server-side nesting collapses semantically to the nearest top-level
// ancestor. The nesting itself is preserved, never flattened.
//
// Nodes with a zero id are passed through untouched; they simply never match
// anything downstream.
func NormalizeTree(comments []Comment) []Comment {
	out := make([]Comment, len(comments))
	for i := range comments {
		c := comments[i]
		c.RootParentID = c.ID
		c.Replies = annotateReplies(c.Replies, c.RootParentID)
		out[i] = c
	}
	return out
}

func annotateReplies(replies []Comment, root ID) []Comment {
	if len(replies) == 0 {
		return replies
	}
	out := make([]Comment, len(replies))
	for i := range replies {
		r := replies[i]
		r.RootParentID = root
		r.Replies = annotateReplies(r.Replies, root)
		out[i] = r
	}
	return out
}

// FindComment returns a pointer to the node with the given id, recursing
// through replies, or nil when absent.
func FindComment(comments []Comment, id ID) *Comment {
	if id.IsZero() {
		return nil
	}
	for i := range comments {
		if comments[i].ID.Equal(id) {
			return &comments[i]
		}
		if found := FindComment(comments[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// RemoveComment filters the node with the given id, and everything nested
// under it, out of the tree. A node survives only if its own id does not match
// and its replies, recursively, are filtered the same way.
func RemoveComment(comments []Comment, id ID) []Comment {
	out := make([]Comment, 0, len(comments))
	for i := range comments {
		if comments[i].ID.Equal(id) {
			continue
		}
		c := comments[i]
		c.Replies = RemoveComment(c.Replies, id)
		out = append(out, c)
	}
	return out
}

// CloneComments deep-copies a comment tree so snapshots stay stable while the
// original keeps mutating.
func CloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	for i := range comments {
		c := comments[i]
		c.Replies = CloneComments(c.Replies)
		out[i] = c
	}
	return out
}

// RootOf resolves the thread root for the node with the given id. Falls back
// to the id itself when the node is not in the tree.
func RootOf(comments []Comment, id ID) ID {
	if node := FindComment(comments, id); node != nil && !node.RootParentID.IsZero() {
		return node.RootParentID
	}
	return id
}
