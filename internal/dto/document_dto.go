package dto

import "time"

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required,min=1"`
	Content string `json:"content"`
	OwnerId uint   `json:"owner_id" validate:"required"`
}

type UpdateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type DocumentResponse struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerId   uint      `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSearchResultResponse is one embedded chunk ranked against a
// semantic search query.
type DocumentSearchResultResponse struct {
	DocumentId uint    `json:"document_id"`
	Chunk      string  `json:"chunk"`
	ChunkIndex int     `json:"chunk_index"`
	Similarity float64 `json:"similarity"`
}

// PublishEmbedDocumentMessage is the payload of the embed-document topic.
type PublishEmbedDocumentMessage struct {
	DocumentId uint `json:"document_id"`
}
