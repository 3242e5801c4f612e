package models

import "time"

const (
	ThreadDirect = "direct"
	ThreadGroup  = "group"
)

// Thread is a messaging conversation container, 1:1 or group.
type Thread struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Kind        string    `bson:"kind" json:"kind"`
	Name        string    `bson:"name,omitempty" json:"name,omitempty"`
	Members     []string  `bson:"members" json:"members"`
	// LeftBy holds members who deleted/left the thread; they no longer see it.
	LeftBy      []string  `bson:"left_by,omitempty" json:"-"`
	LastMessage *Message  `bson:"last_message,omitempty" json:"last_message,omitempty"`
	// Unread maps member id to that member's unread count. Only an explicit
	// mark-read resets an entry.
	Unread    map[string]int64 `bson:"unread,omitempty" json:"-"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is an active member of the thread.
func (t *Thread) HasMember(userID string) bool {
	for _, left := range t.LeftBy {
		if left == userID {
			return false
		}
	}
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ThreadView is a thread decorated for one viewer.
type ThreadView struct {
	*Thread
	UnreadCount int64 `json:"unread_count"`
}
