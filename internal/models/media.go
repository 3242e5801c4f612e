package models

import "time"

type Media struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Key         string    `bson:"key" json:"-"`
	Thumbnail   string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Type        string    `bson:"type" json:"type"` // image|video
	Size        int64     `bson:"size" json:"size"`
	ContentType string    `bson:"content_type" json:"content_type"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Access request lifecycle for gated media.
const (
	AccessPending  = "pending"
	AccessApproved = "approved"
	AccessDenied   = "denied"
)

// AccessRequest records a viewer asking the owner for permission to view a
// gated post's media.
type AccessRequest struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	MediaID     string    `bson:"media_id" json:"media_id"`
	PostID      string    `bson:"post_id,omitempty" json:"post_id,omitempty"`
	RequesterID string    `bson:"requester_id" json:"requester_id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	DecidedAt   *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}
