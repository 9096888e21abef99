package mapper

import (
	"quizgen-be/internal/entity"
	"quizgen-be/internal/model"

	"gorm.io/datatypes"
)

type CheckpointMapper struct{}

func NewCheckpointMapper() *CheckpointMapper {
	return &CheckpointMapper{}
}

func (m *CheckpointMapper) ToEntity(c *model.Checkpoint) *entity.Checkpoint {
	if c == nil {
		return nil
	}
	return &entity.Checkpoint{
		ConfigId:  c.ConfigId,
		State:     []byte(c.State),
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CheckpointMapper) ToModel(c *entity.Checkpoint) *model.Checkpoint {
	if c == nil {
		return nil
	}
	return &model.Checkpoint{
		ConfigId:  c.ConfigId,
		State:     datatypes.JSON(c.State),
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}
}
