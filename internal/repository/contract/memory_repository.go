package contract

import (
	"context"

	"quizgen-be/internal/entity"
)

// ScoredMemoryTurn pairs a stored turn with its cosine similarity to a query
// vector.
type ScoredMemoryTurn struct {
	Turn       *entity.MemoryTurn
	Similarity float64
}

type MemoryTurnRepository interface {
	CreateBulk(ctx context.Context, turns []*entity.MemoryTurn) error
	// ListByUser returns a user's turns ordered by created_at ascending.
	ListByUser(ctx context.Context, userId uint) ([]*entity.MemoryTurn, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uint) ([]*ScoredMemoryTurn, error)
}
