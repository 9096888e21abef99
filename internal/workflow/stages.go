package workflow

import (
	"context"
	"fmt"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/pkg/llm"
)

// Stage 1: overwrite the document's stored content with the text supplied in
// the run state.
func (p *Pipeline) saveDocumentText(ctx context.Context, state *QuizState) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: state.DocumentID})
	if err != nil {
		return apperr.Persistence("load document %d: %v", state.DocumentID, err)
	}
	if document == nil {
		return apperr.NotFound("document %d", state.DocumentID)
	}

	document.Content = state.DocumentText
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return apperr.Persistence("update document %d: %v", state.DocumentID, err)
	}

	state.DocumentID = document.Id
	return nil
}

// Stage 2: generate one comprehension question from the stored document text.
// The document is reloaded from the store; the caller-supplied text is not
// trusted once stage 1 has committed.
func (p *Pipeline) generateQuestion(ctx context.Context, state *QuizState) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: state.DocumentID})
	if err != nil {
		return apperr.Persistence("load document %d: %v", state.DocumentID, err)
	}
	if document == nil {
		return apperr.NotFound("document %d", state.DocumentID)
	}
	if document.Content == "" {
		return apperr.Validation("document %d has no content", state.DocumentID)
	}

	prompt := buildQuestionPrompt(document.Content)
	raw, err := p.llmProvider.Generate(ctx, prompt, llm.WithTemperature(questionTemperature))
	if err != nil {
		return apperr.Upstream("question completion: %v", err)
	}

	result, err := parseQuestionOutput(raw)
	if err != nil {
		return err
	}

	state.Question = result.Question
	state.CorrectAnswer = result.CorrectAnswer
	state.Explanation = result.Explanation
	return nil
}

// Stage 3: append exactly one synthesized turn for this run and persist it to
// the memory store.
func (p *Pipeline) recordConversation(ctx context.Context, state *QuizState) error {
	turn := Turn{
		User: fmt.Sprintf("Requested quiz for document %d", state.DocumentID),
		Bot:  fmt.Sprintf("Generated question: %s", state.Question),
	}
	state.ConversationHistory = append(state.ConversationHistory, turn)

	return p.memory.Append(ctx, state.UserID, turn)
}

// Stage 4: persist the quiz and its question atomically. One transaction
// covers both inserts so a failure between them cannot leave an orphaned
// quiz.
func (p *Pipeline) storeQuizResults(ctx context.Context, state *QuizState) error {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperr.Persistence("begin quiz transaction: %v", err)
	}

	quiz := &entity.Quiz{
		Title:      fmt.Sprintf("Quiz for Document %d", state.DocumentID),
		OwnerId:    state.UserID,
		DocumentId: state.DocumentID,
	}
	if err := uow.QuizRepository().Create(ctx, quiz); err != nil {
		uow.Rollback()
		return apperr.Persistence("create quiz: %v", err)
	}

	question := &entity.Question{
		QuizId:        quiz.Id,
		Text:          state.Question,
		CorrectAnswer: state.CorrectAnswer,
		Explanation:   state.Explanation,
	}
	if err := uow.QuestionRepository().Create(ctx, question); err != nil {
		uow.Rollback()
		return apperr.Persistence("create question: %v", err)
	}

	if err := uow.Commit(); err != nil {
		return apperr.Persistence("commit quiz transaction: %v", err)
	}

	state.QuizID = quiz.Id
	state.QuestionID = question.Id
	return nil
}
