package models

import "time"

// Post visibility levels. Gating is resolved server-side when a signed media
// URL is requested; the stored value is the single source of truth.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityOnRequest = "on_request"
	VisibilityPrivate   = "private"
)

func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityOnRequest, VisibilityPrivate:
		return true
	}
	return false
}

type Post struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	AuthorID     string    `bson:"author_id" json:"author_id"`
	Title        string    `bson:"title" json:"title"`
	Body         string    `bson:"body,omitempty" json:"body,omitempty"`
	Tags         []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	MediaID      string    `bson:"media_id,omitempty" json:"media_id,omitempty"`
	Visibility   string    `bson:"visibility" json:"visibility"`
	LikeCount    int64     `bson:"like_count" json:"like_count"`
	CommentCount int64     `bson:"comment_count" json:"comment_count"`
	SaveCount    int64     `bson:"save_count" json:"save_count"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// PostView decorates a post with per-viewer flags; the client's optimistic
// toggles reconcile against these.
type PostView struct {
	*Post
	Liked           bool `json:"liked"`
	Saved           bool `json:"saved"`
	HasAccess       bool `json:"has_access"`
	AccessRequested bool `json:"access_requested"`
}
