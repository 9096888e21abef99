package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemoryTurn is one persisted conversation exchange for a user, embedded for
// similarity search and timestamped for chronological listing.
type MemoryTurn struct {
	Id             uuid.UUID
	UserId         uint
	UserMessage    string
	BotMessage     string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
