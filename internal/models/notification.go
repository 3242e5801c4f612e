package models

import "time"

// Notification types, one per fan-out event.
const (
	NotifyLike           = "like"
	NotifySave           = "save"
	NotifyComment        = "comment"
	NotifyReply          = "reply"
	NotifyFollow         = "follow"
	NotifyMessage        = "message"
	NotifyAccessRequest  = "access_request"
	NotifyAccessDecision = "access_decision"
)

type Notification struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Type        string    `bson:"type" json:"type"`
	ActorID     string    `bson:"actor_id" json:"actor_id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	TargetID    string    `bson:"target_id,omitempty" json:"target_id,omitempty"`
	TargetType  string    `bson:"target_type,omitempty" json:"target_type,omitempty"` // post|comment|thread|user|media
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Follow is one edge in the connection graph.
type Follow struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	FollowerID string    `bson:"follower_id" json:"follower_id"`
	FolloweeID string    `bson:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
