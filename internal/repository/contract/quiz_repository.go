package contract

import (
	"context"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/specification"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *entity.Quiz) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quiz, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Quiz, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
