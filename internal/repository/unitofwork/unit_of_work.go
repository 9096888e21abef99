package unitofwork

import (
	"context"

	"quizgen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	QuizRepository() contract.QuizRepository
	QuestionRepository() contract.QuestionRepository
	MemoryTurnRepository() contract.MemoryTurnRepository
	CheckpointRepository() contract.CheckpointRepository
}
