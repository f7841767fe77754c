package domain

// ThreadReply is a reply flattened under its thread root. InReplyTo keeps the
// immediate parent so the UI can still show "@name" style context even though
// only two visual levels are rendered.
type ThreadReply struct {
	Comment
	InReplyTo ID `json:"in_reply_to,omitempty"`
}

// Thread is the explicit two-level view of a comment thread: the top-level
// root plus a flat, depth-first ordered list of every comment transitively
// replying to it.
type Thread struct {
	Root    Comment       `json:"root"`
	Replies []ThreadReply `json:"replies,omitempty"`
}

// Threads collapses a normalized tree into its two-level thread views. The
// input order of top-level comments is preserved.
func Threads(comments []Comment) []Thread {
	out := make([]Thread, 0, len(comments))
	for i := range comments {
		root := comments[i]
		replies := flattenReplies(root.Replies, root.ID, nil)
		root.Replies = nil
		out = append(out, Thread{Root: root, Replies: replies})
	}
	return out
}

func flattenReplies(replies []Comment, parent ID, acc []ThreadReply) []ThreadReply {
	for i := range replies {
		r := replies[i]
		children := r.Replies
		r.Replies = nil
		acc = append(acc, ThreadReply{Comment: r, InReplyTo: parent})
		acc = flattenReplies(children, r.ID, acc)
	}
	return acc
}
