package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type MemoryTurn struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uint            `gorm:"not null;index"`
	UserMessage    string          `gorm:"type:text;not null"`
	BotMessage     string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index"`
}

func (MemoryTurn) TableName() string {
	return "memory_turns"
}
