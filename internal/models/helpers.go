package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID generates a new unique entity ID
func NewID() string {
	return uuid.New().String()
}

// GenerateID generates a short prefixed ID, used for event identifiers
func GenerateID(prefix string) string {
	id := uuid.New().String()

	return fmt.Sprintf("%s-%s", prefix, id[:8])
}

// GetCurrentTime returns the current time in UTC
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
