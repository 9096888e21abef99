package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Document struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text"`
	OwnerId   uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId     uint            `gorm:"not null;index"`
	Chunk          string          `gorm:"type:text"`
	ChunkIndex     int             `gorm:"default:0"` // 0-based index for ordering
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
