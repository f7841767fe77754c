package domain

// Comment is a single node in a post's comment tree. Timestamps stay in their
// RFC 3339 wire form; RelativeTime renders them for display.
type Comment struct {
	ID           ID     `json:"id"`
	PostID       ID     `json:"post_id,omitempty"`
	AuthorID     ID     `json:"author_id"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
	Content      string `json:"content"`

	// ParentCommentID is set only on replies and names the immediate parent,
	// which may itself be a reply.
	ParentCommentID ID `json:"parent_comment_id,omitempty"`

	// RootParentID is computed by NormalizeTree, never taken from the server.
	// For a top-level comment it equals ID; for any reply it is the id of the
	// top-level comment anchoring the thread.
	RootParentID ID `json:"root_parent_id,omitempty"`

	Likes       int  `json:"likes"`
	LikedByUser bool `json:"liked_by_user"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	Replies []Comment `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment anchors its own thread. Only valid
// after normalization.
func (c *Comment) IsTopLevel() bool {
	return c.RootParentID.Equal(c.ID)
}

// Viewer is the current authenticated user as supplied by the auth layer.
// A nil *Viewer disables composing, replying, editing, deleting and liking.
type Viewer struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
}

type CreateCommentInput struct {
	Content         string `json:"content" validate:"required,min=1,max=2000"`
	ParentCommentID ID     `json:"parent_comment_id,omitempty"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
