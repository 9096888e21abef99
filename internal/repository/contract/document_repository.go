package contract

import (
	"context"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/specification"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// ScoredDocumentEmbedding pairs an embedded chunk with its cosine similarity
// to a query vector.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uint) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int, ownerId uint) ([]*ScoredDocumentEmbedding, error)
}
