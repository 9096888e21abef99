package workflow

import (
	"context"
	"fmt"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/embedding"
)

// MemoryStore persists per-user conversation turns, embedded for similarity
// search and timestamped for chronological listing. Append only embeds the
// turns it is handed, so already-stored history is never re-embedded.
type MemoryStore struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
}

func NewMemoryStore(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider) *MemoryStore {
	return &MemoryStore{
		uowFactory: uowFactory,
		embedder:   embedder,
	}
}

func (m *MemoryStore) Append(ctx context.Context, userID uint, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}

	records := make([]*entity.MemoryTurn, len(turns))
	for i, turn := range turns {
		res, err := m.embedder.Generate(fmt.Sprintf("%s %s", turn.User, turn.Bot), "retrieval_document")
		if err != nil {
			return apperr.Upstream("embed conversation turn: %v", err)
		}
		records[i] = &entity.MemoryTurn{
			UserId:         userID,
			UserMessage:    turn.User,
			BotMessage:     turn.Bot,
			EmbeddingValue: res.Embedding.Values,
		}
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MemoryTurnRepository().CreateBulk(ctx, records); err != nil {
		return apperr.Persistence("store conversation turns for user %d: %v", userID, err)
	}
	return nil
}

// List returns the user's turns in chronological order.
func (m *MemoryStore) List(ctx context.Context, userID uint) ([]Turn, error) {
	uow := m.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.MemoryTurnRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list conversation turns for user %d: %v", userID, err)
	}

	turns := make([]Turn, len(records))
	for i, record := range records {
		turns[i] = Turn{User: record.UserMessage, Bot: record.BotMessage}
	}
	return turns, nil
}

// Search returns the user's turns most similar to the query text.
func (m *MemoryStore) Search(ctx context.Context, userID uint, query string, limit int) ([]Turn, error) {
	res, err := m.embedder.Generate(query, "retrieval_query")
	if err != nil {
		return nil, apperr.Upstream("embed memory query: %v", err)
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.MemoryTurnRepository().SearchSimilar(ctx, res.Embedding.Values, limit, userID)
	if err != nil {
		return nil, apperr.Persistence("search conversation turns for user %d: %v", userID, err)
	}

	turns := make([]Turn, len(scored))
	for i, s := range scored {
		turns[i] = Turn{User: s.Turn.UserMessage, Bot: s.Turn.BotMessage}
	}
	return turns, nil
}
