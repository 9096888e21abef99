package implementation

import (
	"context"
	"errors"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/mapper"
	"quizgen-be/internal/model"
	"quizgen-be/internal/repository/contract"
	"quizgen-be/internal/repository/specification"

	"gorm.io/gorm"
)

type QuizRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuizMapper
}

func NewQuizRepository(db *gorm.DB) contract.QuizRepository {
	return &QuizRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuizMapper(),
	}
}

func (r *QuizRepositoryImpl) Create(ctx context.Context, quiz *entity.Quiz) error {
	m := r.mapper.ToModel(quiz)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*quiz = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuizRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quiz, error) {
	var m model.Quiz
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuizRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Quiz, error) {
	var models []*model.Quiz
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QuizRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

type QuestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QuestionMapper
}

func NewQuestionRepository(db *gorm.DB) contract.QuestionRepository {
	return &QuestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewQuestionMapper(),
	}
}

func (r *QuestionRepositoryImpl) Create(ctx context.Context, question *entity.Question) error {
	m := r.mapper.ToModel(question)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*question = *r.mapper.ToEntity(m)
	return nil
}

func (r *QuestionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error) {
	var m model.Question
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QuestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	var models []*model.Question
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QuestionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Question{}).Count(&count).Error
	return count, err
}
