package implementation

import (
	"context"
	"errors"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/mapper"
	"quizgen-be/internal/model"
	"quizgen-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckpointRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CheckpointMapper
}

func NewCheckpointRepository(db *gorm.DB) contract.CheckpointRepository {
	return &CheckpointRepositoryImpl{
		db:     db,
		mapper: mapper.NewCheckpointMapper(),
	}
}

// Upsert is last-write-wins per config id. The version counter makes
// overwrites observable without keeping history rows around.
func (r *CheckpointRepositoryImpl) Upsert(ctx context.Context, checkpoint *entity.Checkpoint) error {
	m := r.mapper.ToModel(checkpoint)
	m.Version = 1

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "config_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"state":   m.State,
				"version": gorm.Expr("checkpoints.version + 1"),
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}

	// Re-read so the caller sees the effective version
	stored, err := r.FindByConfigId(ctx, checkpoint.ConfigId)
	if err != nil {
		return err
	}
	if stored != nil {
		*checkpoint = *stored
	}
	return nil
}

func (r *CheckpointRepositoryImpl) FindByConfigId(ctx context.Context, configId string) (*entity.Checkpoint, error) {
	var m model.Checkpoint
	err := r.db.WithContext(ctx).Where("config_id = ?", configId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
