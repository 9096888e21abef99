package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uint
	Title     string
	Content   string
	OwnerId   uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentEmbedding is one embedded chunk of a document's content.
type DocumentEmbedding struct {
	Id             uuid.UUID
	DocumentId     uint
	Chunk          string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
}
