package models

import "time"

// Message is a single chat message. Messages are append-only: once stored
// they are never edited or deleted.
type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ThreadID  string    `bson:"thread_id" json:"thread_id"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
