package model

import (
	"time"

	"gorm.io/datatypes"
)

// Checkpoint is a key-value snapshot of a pipeline run keyed by config id.
// Writes upsert: one row per config id, last write wins, Version counts
// overwrites.
type Checkpoint struct {
	ConfigId  string         `gorm:"type:varchar(64);primaryKey"`
	State     datatypes.JSON `gorm:"not null"`
	Version   int            `gorm:"not null;default:1"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Checkpoint) TableName() string {
	return "checkpoints"
}
