package events

import "time"

// Event kinds published on the fan-out topic.
const (
	MessageCreated  = "message.created"
	PostLiked       = "post.liked"
	PostSaved       = "post.saved"
	CommentCreated  = "comment.created"
	FollowCreated   = "follow.created"
	AccessRequested = "access.requested"
	AccessDecided   = "access.decided"
)

// Event is the envelope every domain service publishes. Recipients lists the
// user ids the notifier should fan out to; the actor is never notified about
// their own action.
type Event struct {
	Kind       string    `json:"kind"`
	ActorID    string    `json:"actor_id"`
	Recipients []string  `json:"recipients"`
	TargetID   string    `json:"target_id,omitempty"`
	TargetType string    `json:"target_type,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
