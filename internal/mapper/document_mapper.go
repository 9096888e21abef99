package mapper

import (
	"quizgen-be/internal/entity"
	"quizgen-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		OwnerId:   d.OwnerId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		OwnerId:   d.OwnerId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &entity.DocumentEmbedding{
		Id:             e.Id,
		DocumentId:     e.DocumentId,
		Chunk:          e.Chunk,
		ChunkIndex:     e.ChunkIndex,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &model.DocumentEmbedding{
		Id:             e.Id,
		DocumentId:     e.DocumentId,
		Chunk:          e.Chunk,
		ChunkIndex:     e.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}
