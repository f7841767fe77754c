package panel

import (
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

// State is the interaction state of one open comment panel. It lives for as
// long as the panel session does and is the single source of truth for
// rendering.
type State struct {
	// Comments is the normalized tree. Replaced wholesale on every reload,
	// mutated in place only by the narrow optimistic transforms (like toggle,
	// delete filter).
	Comments []domain.Comment `json:"comments"`

	// Loaded flips once the first fetch has landed; a collapsed panel is
	// never fetched.
	Loaded bool `json:"loaded"`

	// Open is the panel's own open/close flag. Unused when the session
	// delegates open state to an OpenController.
	Open bool `json:"open"`

	// EditingID and EditDraft hold the single edit session allowed across the
	// whole tree. EditDraft is seeded from the comment's content when editing
	// begins.
	EditingID domain.ID `json:"editing_id,omitempty"`
	EditDraft string    `json:"edit_draft,omitempty"`

	// ReplyingTo identifies the comment whose reply box is open; at most one
	// across the panel, toggled closed by targeting it again.
	ReplyingTo domain.ID `json:"replying_to,omitempty"`

	// ReplyDrafts keys draft text by thread root, not by the clicked node, so
	// switching reply targets within a thread keeps the draft and switching
	// threads never bleeds text across.
	ReplyDrafts map[domain.ID]string `json:"reply_drafts,omitempty"`

	ComposeDraft string `json:"compose_draft,omitempty"`

	// Submitting is a single in-flight flag shared by Add, Reply and Edit to
	// block duplicate submissions from one gesture. Like and Delete are not
	// guarded by it.
	Submitting bool `json:"submitting"`

	// TopLevelCount tracks the number of top-level comments, the figure the
	// external count listener is told about.
	TopLevelCount int `json:"top_level_count"`
}

func newState() State {
	return State{ReplyDrafts: make(map[domain.ID]string)}
}

// clone deep-copies the state so snapshots stay stable under later mutation.
func (s State) clone() State {
	out := s
	out.Comments = domain.CloneComments(s.Comments)
	out.ReplyDrafts = make(map[domain.ID]string, len(s.ReplyDrafts))
	for k, v := range s.ReplyDrafts {
		out.ReplyDrafts[k] = v
	}
	return out
}
