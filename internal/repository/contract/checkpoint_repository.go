package contract

import (
	"context"

	"quizgen-be/internal/entity"
)

type CheckpointRepository interface {
	// Upsert writes the checkpoint for its config id, replacing any prior row
	// and incrementing the version counter.
	Upsert(ctx context.Context, checkpoint *entity.Checkpoint) error
	// FindByConfigId returns the stored checkpoint, or nil if none exists.
	FindByConfigId(ctx context.Context, configId string) (*entity.Checkpoint, error)
}
