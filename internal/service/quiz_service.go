package service

import (
	"context"
	"time"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/pkg/logger"
	"quizgen-be/internal/repository/memory"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/internal/workflow"
	"quizgen-be/pkg/store"

	"github.com/google/uuid"
)

type IQuizService interface {
	Create(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	Get(ctx context.Context, id uint) (*dto.QuizResponse, error)
	ListByOwner(ctx context.Context, ownerId uint) ([]*dto.QuizResponse, error)
	CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, quizId, questionId uint) (*dto.QuestionResponse, error)
	Generate(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	GetRunStatus(ctx context.Context, sessionId string) (*dto.RunStatusResponse, error)
}

type quizService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *workflow.Pipeline
	runRepo    *memory.RunRepository
	logger     logger.ILogger
}

func NewQuizService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *workflow.Pipeline,
	runRepo *memory.RunRepository,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		runRepo:    runRepo,
		logger:     log,
	}
}

func (s *quizService) Create(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.OwnerId})
	if err != nil {
		return nil, apperr.Persistence("load owner %d: %v", req.OwnerId, err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d", req.OwnerId)
	}

	quiz := &entity.Quiz{
		Title:      req.Title,
		OwnerId:    req.OwnerId,
		DocumentId: req.DocumentId,
	}
	if err := uow.QuizRepository().Create(ctx, quiz); err != nil {
		return nil, apperr.Persistence("create quiz: %v", err)
	}

	return toQuizResponse(quiz, nil), nil
}

func (s *quizService) Get(ctx context.Context, id uint) (*dto.QuizResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	quiz, err := uow.QuizRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperr.Persistence("load quiz %d: %v", id, err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("quiz %d", id)
	}

	questions, err := uow.QuestionRepository().FindAll(ctx, specification.ByQuizID{QuizID: id})
	if err != nil {
		return nil, apperr.Persistence("load questions for quiz %d: %v", id, err)
	}

	return toQuizResponse(quiz, questions), nil
}

func (s *quizService) ListByOwner(ctx context.Context, ownerId uint) ([]*dto.QuizResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	quizzes, err := uow.QuizRepository().FindAll(ctx, specification.OwnedBy{OwnerID: ownerId})
	if err != nil {
		return nil, apperr.Persistence("list quizzes for owner %d: %v", ownerId, err)
	}

	result := make([]*dto.QuizResponse, len(quizzes))
	for i, quiz := range quizzes {
		result[i] = toQuizResponse(quiz, nil)
	}
	return result, nil
}

func (s *quizService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	quiz, err := uow.QuizRepository().FindOne(ctx, specification.ByID{ID: req.QuizId})
	if err != nil {
		return nil, apperr.Persistence("load quiz %d: %v", req.QuizId, err)
	}
	if quiz == nil {
		return nil, apperr.NotFound("quiz %d", req.QuizId)
	}

	question := &entity.Question{
		QuizId:        req.QuizId,
		Text:          req.Text,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
	}
	if err := uow.QuestionRepository().Create(ctx, question); err != nil {
		return nil, apperr.Persistence("create question: %v", err)
	}

	return toQuestionResponse(question), nil
}

func (s *quizService) GetQuestion(ctx context.Context, quizId, questionId uint) (*dto.QuestionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	question, err := uow.QuestionRepository().FindOne(ctx,
		specification.ByID{ID: questionId},
		specification.ByQuizID{QuizID: quizId},
	)
	if err != nil {
		return nil, apperr.Persistence("load question %d: %v", questionId, err)
	}
	if question == nil {
		return nil, apperr.NotFound("question %d in quiz %d", questionId, quizId)
	}

	return toQuestionResponse(question), nil
}

// Generate runs the four-stage quiz pipeline synchronously. The run is
// tracked in the run repository for status polling either way; the durable
// trail lives in the checkpoint store under the same session id.
func (s *quizService) Generate(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	sessionId := uuid.NewString()

	run := &store.Run{
		SessionID:  sessionId,
		UserID:     req.UserId,
		DocumentID: req.DocumentId,
		Status:     store.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	s.runRepo.Save(run)

	state := workflow.NewQuizState(sessionId, req.UserId, req.DocumentId, req.DocumentText)
	state, err := s.pipeline.Run(ctx, state)

	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		run.Status = store.RunStatusFailed
		run.Error = err.Error()
		s.runRepo.Save(run)
		s.logger.Error("quiz", "generation failed", map[string]interface{}{
			"session": sessionId,
			"error":   err.Error(),
		})
		return nil, err
	}

	run.Status = store.RunStatusCompleted
	run.QuizID = state.QuizID
	run.QuestionID = state.QuestionID
	s.runRepo.Save(run)

	return &dto.GenerateQuizResponse{
		SessionId:     sessionId,
		QuizId:        state.QuizID,
		QuestionId:    state.QuestionID,
		Question:      state.Question,
		CorrectAnswer: state.CorrectAnswer,
		Explanation:   state.Explanation,
	}, nil
}

// GetRunStatus answers from the in-memory run view first and falls back to
// the checkpoint store for runs that outlived the cache.
func (s *quizService) GetRunStatus(ctx context.Context, sessionId string) (*dto.RunStatusResponse, error) {
	if run, found := s.runRepo.Get(sessionId); found {
		return &dto.RunStatusResponse{
			SessionId:  run.SessionID,
			Status:     string(run.Status),
			QuizId:     run.QuizID,
			QuestionId: run.QuestionID,
			Error:      run.Error,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		}, nil
	}

	state, err := s.pipeline.LoadState(ctx, sessionId)
	if err != nil {
		return nil, apperr.Persistence("load checkpoint %s: %v", sessionId, err)
	}
	if state == nil {
		return nil, apperr.NotFound("run %s", sessionId)
	}

	// Generation is synchronous, so a run whose cache entry has expired is
	// terminal: the checkpoint tells us whether it got as far as a quiz.
	status := store.RunStatusFailed
	if state.QuizID != 0 {
		status = store.RunStatusCompleted
	}
	return &dto.RunStatusResponse{
		SessionId:  sessionId,
		Status:     string(status),
		QuizId:     state.QuizID,
		QuestionId: state.QuestionID,
	}, nil
}

func toQuizResponse(quiz *entity.Quiz, questions []*entity.Question) *dto.QuizResponse {
	resp := &dto.QuizResponse{
		Id:         quiz.Id,
		Title:      quiz.Title,
		OwnerId:    quiz.OwnerId,
		DocumentId: quiz.DocumentId,
		CreatedAt:  quiz.CreatedAt,
	}
	for _, question := range questions {
		resp.Questions = append(resp.Questions, *toQuestionResponse(question))
	}
	return resp
}

func toQuestionResponse(question *entity.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		Id:            question.Id,
		QuizId:        question.QuizId,
		Text:          question.Text,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}
}
