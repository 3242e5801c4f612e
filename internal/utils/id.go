package utils

import "github.com/google/uuid"

// NewID returns a new random identifier for Mongo documents.
func NewID() string { return uuid.NewString() }
