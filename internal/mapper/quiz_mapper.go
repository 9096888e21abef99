package mapper

import (
	"quizgen-be/internal/entity"
	"quizgen-be/internal/model"
)

type QuizMapper struct{}

func NewQuizMapper() *QuizMapper {
	return &QuizMapper{}
}

func (m *QuizMapper) ToEntity(q *model.Quiz) *entity.Quiz {
	if q == nil {
		return nil
	}
	return &entity.Quiz{
		Id:         q.Id,
		Title:      q.Title,
		OwnerId:    q.OwnerId,
		DocumentId: q.DocumentId,
		CreatedAt:  q.CreatedAt,
	}
}

func (m *QuizMapper) ToModel(q *entity.Quiz) *model.Quiz {
	if q == nil {
		return nil
	}
	return &model.Quiz{
		Id:         q.Id,
		Title:      q.Title,
		OwnerId:    q.OwnerId,
		DocumentId: q.DocumentId,
		CreatedAt:  q.CreatedAt,
	}
}

func (m *QuizMapper) ToEntities(quizzes []*model.Quiz) []*entity.Quiz {
	entities := make([]*entity.Quiz, len(quizzes))
	for i, q := range quizzes {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}
	return &entity.Question{
		Id:            q.Id,
		QuizId:        q.QuizId,
		Text:          q.Text,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		CreatedAt:     q.CreatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}
	return &model.Question{
		Id:            q.Id,
		QuizId:        q.QuizId,
		Text:          q.Text,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		CreatedAt:     q.CreatedAt,
	}
}

func (m *QuestionMapper) ToEntities(questions []*model.Question) []*entity.Question {
	entities := make([]*entity.Question, len(questions))
	for i, q := range questions {
		entities[i] = m.ToEntity(q)
	}
	return entities
}
