package service

import (
	"context"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/pkg/logger"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/embedding"
	"quizgen-be/pkg/events"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Get(ctx context.Context, id uint) (*dto.DocumentResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Search(ctx context.Context, ownerId uint, query string, limit int) ([]*dto.DocumentSearchResultResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.OwnerId})
	if err != nil {
		return nil, apperr.Persistence("load owner %d: %v", req.OwnerId, err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d", req.OwnerId)
	}

	document := &entity.Document{
		Title:   req.Title,
		Content: req.Content,
		OwnerId: req.OwnerId,
	}
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, apperr.Persistence("create document: %v", err)
	}

	s.publishEmbedMessage(ctx, document.Id)

	return toDocumentResponse(document), nil
}

func (s *documentService) Get(ctx context.Context, id uint) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperr.Persistence("load document %d: %v", id, err)
	}
	if document == nil {
		return nil, apperr.NotFound("document %d", id)
	}

	return toDocumentResponse(document), nil
}

func (s *documentService) Update(ctx context.Context, id uint, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperr.Persistence("load document %d: %v", id, err)
	}
	if document == nil {
		return nil, apperr.NotFound("document %d", id)
	}

	if req.Title != "" {
		document.Title = req.Title
	}
	document.Content = req.Content

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, apperr.Persistence("update document %d: %v", id, err)
	}

	s.publishEmbedMessage(ctx, document.Id)

	return toDocumentResponse(document), nil
}

// Search ranks the owner's embedded document chunks by similarity to the
// query text, mirroring the memory search path.
func (s *documentService) Search(ctx context.Context, ownerId uint, query string, limit int) ([]*dto.DocumentSearchResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ownerId})
	if err != nil {
		return nil, apperr.Persistence("load owner %d: %v", ownerId, err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d", ownerId)
	}

	res, err := s.embeddingProvider.Generate(query, "retrieval_query")
	if err != nil {
		return nil, apperr.Upstream("embed search query: %v", err)
	}

	scored, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, res.Embedding.Values, limit, ownerId)
	if err != nil {
		return nil, apperr.Persistence("search documents for owner %d: %v", ownerId, err)
	}

	results := make([]*dto.DocumentSearchResultResponse, len(scored))
	for i, s := range scored {
		results[i] = &dto.DocumentSearchResultResponse{
			DocumentId: s.Embedding.DocumentId,
			Chunk:      s.Embedding.Chunk,
			ChunkIndex: s.Embedding.ChunkIndex,
			Similarity: s.Similarity,
		}
	}
	return results, nil
}

// publishEmbedMessage queues the document for re-embedding. Embedding is
// auxiliary, so a publish failure is logged and swallowed.
func (s *documentService) publishEmbedMessage(ctx context.Context, documentId uint) {
	event := events.NewEvent("EMBED_DOCUMENT_CONTENT", dto.PublishEmbedDocumentMessage{DocumentId: documentId})
	if err := s.publisherService.Publish(ctx, event); err != nil {
		s.logger.Warn("document", "failed to publish embed message", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
	}
}

func toDocumentResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        document.Id,
		Title:     document.Title,
		Content:   document.Content,
		OwnerId:   document.OwnerId,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}
