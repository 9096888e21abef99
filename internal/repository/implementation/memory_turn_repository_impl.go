package implementation

import (
	"context"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/mapper"
	"quizgen-be/internal/model"
	"quizgen-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MemoryTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryTurnMapper
}

func NewMemoryTurnRepository(db *gorm.DB) contract.MemoryTurnRepository {
	return &MemoryTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryTurnMapper(),
	}
}

func (r *MemoryTurnRepositoryImpl) CreateBulk(ctx context.Context, turns []*entity.MemoryTurn) error {
	if len(turns) == 0 {
		return nil
	}
	models := make([]*model.MemoryTurn, len(turns))
	for i, t := range turns {
		models[i] = r.mapper.ToModel(t)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*turns[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MemoryTurnRepositoryImpl) ListByUser(ctx context.Context, userId uint) ([]*entity.MemoryTurn, error) {
	var models []*model.MemoryTurn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilar ranks a user's turns by cosine similarity of their embedding
// to the query vector (<=> is cosine distance in pgvector).
func (r *MemoryTurnRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uint) ([]*contract.ScoredMemoryTurn, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.MemoryTurn
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_turns").
		Select("memory_turns.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("user_id = ?", userId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryTurn, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMemoryTurn{
			Turn:       r.mapper.ToEntity(&res.MemoryTurn),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
