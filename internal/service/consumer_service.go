package service

import (
	"context"
	"encoding/json"

	"quizgen-be/internal/dto"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/pkg/logger"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/embedding"
	"quizgen-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService processes embed-document messages: it chunks the
// document's content, embeds each chunk and replaces the document's stored
// embeddings.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid messages would loop forever on Nack
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack() // retriable
		return
	}
	if document == nil {
		cs.logger.Warn("consumer", "document not found, skipping", map[string]interface{}{
			"document_id": payload.DocumentId,
		})
		msg.Ack()
		return
	}
	if document.Content == "" {
		msg.Ack()
		return
	}

	// ChunkSize 1500 chars with 200 overlap keeps chunks well inside the
	// embedding model's context window.
	chunks := utils.SplitText(document.Content, 1500, 200)
	cs.logger.Info("consumer", "embedding document", map[string]interface{}{
		"document_id": document.Id,
		"chunks":      len(chunks),
	})

	embeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "retrieval_document")
		if err != nil {
			cs.logger.Error("consumer", "embedding generation failed", map[string]interface{}{
				"document_id": document.Id,
				"chunk_index": i,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		embeddings = append(embeddings, &entity.DocumentEmbedding{
			DocumentId:     document.Id,
			Chunk:          chunk,
			ChunkIndex:     i,
			EmbeddingValue: res.Embedding.Values,
		})
	}

	// Replace rather than accumulate: re-embedding a document must not leave
	// stale chunks behind.
	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		cs.logger.Error("consumer", "failed to clear old embeddings", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		cs.logger.Error("consumer", "failed to store embeddings", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	// Count after the replace so a stale-chunk leak shows up in the logs.
	stored, err := uow.DocumentEmbeddingRepository().Count(ctx, specification.ByDocumentID{DocumentID: document.Id})
	if err != nil {
		stored = int64(len(embeddings))
	}
	cs.logger.Info("consumer", "document embedded", map[string]interface{}{
		"document_id": document.Id,
		"stored":      stored,
	})

	msg.Ack()
}
