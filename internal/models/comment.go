package models

import "time"

// MaxCommentDepth caps reply nesting. Top-level comments are depth 0.
const MaxCommentDepth = 4

// Comment is a node in a post's comment tree. Replies are fetched lazily per
// node, so the stored ReplyCount drives the "view replies" affordance.
type Comment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	PostID     string    `bson:"post_id" json:"post_id"`
	ParentID   string    `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	Body       string    `bson:"body" json:"body"`
	Depth      int       `bson:"depth" json:"depth"`
	ReplyCount int64     `bson:"reply_count" json:"reply_count"`
	EditedAt   *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
