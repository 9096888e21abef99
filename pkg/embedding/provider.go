package embedding

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider generates a vector representation of a piece of text.
// taskType is a hint some backends use ("retrieval_document", "retrieval_query");
// backends that don't distinguish may ignore it.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
