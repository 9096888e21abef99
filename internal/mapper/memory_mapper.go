package mapper

import (
	"quizgen-be/internal/entity"
	"quizgen-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type MemoryTurnMapper struct{}

func NewMemoryTurnMapper() *MemoryTurnMapper {
	return &MemoryTurnMapper{}
}

func (m *MemoryTurnMapper) ToEntity(t *model.MemoryTurn) *entity.MemoryTurn {
	if t == nil {
		return nil
	}
	return &entity.MemoryTurn{
		Id:             t.Id,
		UserId:         t.UserId,
		UserMessage:    t.UserMessage,
		BotMessage:     t.BotMessage,
		EmbeddingValue: t.EmbeddingValue.Slice(),
		CreatedAt:      t.CreatedAt,
	}
}

func (m *MemoryTurnMapper) ToModel(t *entity.MemoryTurn) *model.MemoryTurn {
	if t == nil {
		return nil
	}
	return &model.MemoryTurn{
		Id:             t.Id,
		UserId:         t.UserId,
		UserMessage:    t.UserMessage,
		BotMessage:     t.BotMessage,
		EmbeddingValue: pgvector.NewVector(t.EmbeddingValue),
		CreatedAt:      t.CreatedAt,
	}
}

func (m *MemoryTurnMapper) ToEntities(turns []*model.MemoryTurn) []*entity.MemoryTurn {
	entities := make([]*entity.MemoryTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
