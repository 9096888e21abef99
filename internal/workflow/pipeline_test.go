package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/contract"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/embedding"
	"quizgen-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes -------------------------------------------------------

type fakeStore struct {
	users       map[uint]*entity.User
	documents   map[uint]*entity.Document
	quizzes     map[uint]*entity.Quiz
	questions   map[uint]*entity.Question
	memoryTurns []*entity.MemoryTurn
	checkpoints map[string]*entity.Checkpoint

	nextQuizId     uint
	nextQuestionId uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uint]*entity.User),
		documents:   make(map[uint]*entity.Document),
		quizzes:     make(map[uint]*entity.Quiz),
		questions:   make(map[uint]*entity.Question),
		checkpoints: make(map[string]*entity.Checkpoint),
	}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{store: u.store}
}
func (u *fakeUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}
func (u *fakeUow) QuizRepository() contract.QuizRepository {
	return &fakeQuizRepo{store: u.store}
}
func (u *fakeUow) QuestionRepository() contract.QuestionRepository {
	return &fakeQuestionRepo{store: u.store}
}
func (u *fakeUow) MemoryTurnRepository() contract.MemoryTurnRepository {
	return &fakeMemoryTurnRepo{store: u.store}
}
func (u *fakeUow) CheckpointRepository() contract.CheckpointRepository {
	return &fakeCheckpointRepo{store: u.store}
}

func idFromSpecs(specs []specification.Specification) (uint, bool) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return 0, false
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if id, ok := idFromSpecs(specs); ok {
		return r.store.users[id], nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

type fakeDocumentRepo struct {
	store *fakeStore
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.store.documents[document.Id] = document
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error {
	if _, ok := r.store.documents[document.Id]; !ok {
		return errors.New("document not found")
	}
	copied := *document
	r.store.documents[document.Id] = &copied
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	if id, ok := idFromSpecs(specs); ok {
		if doc, found := r.store.documents[id]; found {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.documents)), nil
}

type fakeQuizRepo struct {
	store *fakeStore
}

func (r *fakeQuizRepo) Create(ctx context.Context, quiz *entity.Quiz) error {
	r.store.nextQuizId++
	quiz.Id = r.store.nextQuizId
	r.store.quizzes[quiz.Id] = quiz
	return nil
}

func (r *fakeQuizRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Quiz, error) {
	if id, ok := idFromSpecs(specs); ok {
		return r.store.quizzes[id], nil
	}
	return nil, nil
}

func (r *fakeQuizRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Quiz, error) {
	return nil, nil
}

func (r *fakeQuizRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.quizzes)), nil
}

type fakeQuestionRepo struct {
	store *fakeStore
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	r.store.nextQuestionId++
	question.Id = r.store.nextQuestionId
	r.store.questions[question.Id] = question
	return nil
}

func (r *fakeQuestionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error) {
	if id, ok := idFromSpecs(specs); ok {
		return r.store.questions[id], nil
	}
	return nil, nil
}

func (r *fakeQuestionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	return nil, nil
}

func (r *fakeQuestionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.questions)), nil
}

type fakeMemoryTurnRepo struct {
	store *fakeStore
}

func (r *fakeMemoryTurnRepo) CreateBulk(ctx context.Context, turns []*entity.MemoryTurn) error {
	r.store.memoryTurns = append(r.store.memoryTurns, turns...)
	return nil
}

func (r *fakeMemoryTurnRepo) ListByUser(ctx context.Context, userId uint) ([]*entity.MemoryTurn, error) {
	var result []*entity.MemoryTurn
	for _, turn := range r.store.memoryTurns {
		if turn.UserId == userId {
			result = append(result, turn)
		}
	}
	return result, nil
}

func (r *fakeMemoryTurnRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, userId uint) ([]*contract.ScoredMemoryTurn, error) {
	var result []*contract.ScoredMemoryTurn
	for _, turn := range r.store.memoryTurns {
		if turn.UserId != userId {
			continue
		}
		result = append(result, &contract.ScoredMemoryTurn{Turn: turn, Similarity: 1})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

type fakeCheckpointRepo struct {
	store *fakeStore
}

func (r *fakeCheckpointRepo) Upsert(ctx context.Context, checkpoint *entity.Checkpoint) error {
	if prior, ok := r.store.checkpoints[checkpoint.ConfigId]; ok {
		checkpoint.Version = prior.Version + 1
	} else {
		checkpoint.Version = 1
	}
	r.store.checkpoints[checkpoint.ConfigId] = checkpoint
	return nil
}

func (r *fakeCheckpointRepo) FindByConfigId(ctx context.Context, configId string) (*entity.Checkpoint, error) {
	return r.store.checkpoints[configId], nil
}

type fakeLLM struct {
	response string
	err      error

	prompts      []string
	temperatures []float64
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		return f.Generate(ctx, history[len(history)-1].Content, options...)
	}
	return f.Generate(ctx, "", options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	opts := llm.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	f.prompts = append(f.prompts, prompt)
	f.temperatures = append(f.temperatures, opts.Temperature)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- tests -----------------------------------------------------------------

const goodCompletion = `{
	"question": "What powers the water cycle?",
	"correct_answer": "Solar energy",
	"explanation": "The sun drives evaporation, which starts the cycle."
}`

func newTestPipeline(store *fakeStore, provider llm.LLMProvider, embedder embedding.EmbeddingProvider) *Pipeline {
	factory := &fakeFactory{store: store}
	memory := NewMemoryStore(factory, embedder)
	checkpointer := NewCheckpointer(factory)
	return NewQuizPipeline(factory, provider, memory, checkpointer, nopLogger{})
}

func TestPipelineRunHappyPath(t *testing.T) {
	store := newFakeStore()
	store.documents[7] = &entity.Document{Id: 7, Title: "Water Cycle", OwnerId: 3}

	provider := &fakeLLM{response: goodCompletion}
	embedder := &fakeEmbedder{}
	pipeline := newTestPipeline(store, provider, embedder)

	state := NewQuizState("session-1", 3, 7, "Water evaporates, condenses and falls as rain.")
	state, err := pipeline.Run(context.Background(), state)
	require.NoError(t, err)

	// Stage 1 persisted the supplied text
	assert.Equal(t, "Water evaporates, condenses and falls as rain.", store.documents[7].Content)

	// Stage 2 filled the question fields from the completion
	assert.Equal(t, "What powers the water cycle?", state.Question)
	assert.Equal(t, "Solar energy", state.CorrectAnswer)
	assert.Equal(t, "The sun drives evaporation, which starts the cycle.", state.Explanation)
	require.Len(t, provider.temperatures, 1)
	assert.InDelta(t, 0.7, provider.temperatures[0], 0.001)

	// Stage 3 appended exactly one synthesized turn
	require.Len(t, state.ConversationHistory, 1)
	assert.Equal(t, "Requested quiz for document 7", state.ConversationHistory[0].User)
	assert.Equal(t, "Generated question: What powers the water cycle?", state.ConversationHistory[0].Bot)
	require.Len(t, store.memoryTurns, 1)
	assert.Equal(t, uint(3), store.memoryTurns[0].UserId)

	// Stage 4 persisted quiz and question linked together
	require.NotZero(t, state.QuizID)
	require.NotZero(t, state.QuestionID)
	quiz := store.quizzes[state.QuizID]
	require.NotNil(t, quiz)
	assert.Equal(t, "Quiz for Document 7", quiz.Title)
	assert.Equal(t, uint(3), quiz.OwnerId)
	question := store.questions[state.QuestionID]
	require.NotNil(t, question)
	assert.Equal(t, quiz.Id, question.QuizId)
	assert.Equal(t, state.Question, question.Text)

	// One checkpoint per completed stage, upserted under one key
	checkpoint := store.checkpoints["session-1"]
	require.NotNil(t, checkpoint)
	assert.Equal(t, 4, checkpoint.Version)

	loaded, err := pipeline.LoadState(context.Background(), "session-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.QuizID, loaded.QuizID)
	assert.Equal(t, state.ConversationHistory, loaded.ConversationHistory)
}

func TestPipelineFailsOnMissingDocument(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(store, &fakeLLM{response: goodCompletion}, &fakeEmbedder{})

	state := NewQuizState("session-2", 3, 99, "some text")
	_, err := pipeline.Run(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, store.quizzes)
	assert.Nil(t, store.checkpoints["session-2"])
}

func TestPipelineFailsOnEmptyContent(t *testing.T) {
	store := newFakeStore()
	store.documents[7] = &entity.Document{Id: 7, Title: "Empty", OwnerId: 3}
	pipeline := newTestPipeline(store, &fakeLLM{response: goodCompletion}, &fakeEmbedder{})

	state := NewQuizState("session-3", 3, 7, "")
	_, err := pipeline.Run(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Stage 1 still committed; later stages did not run
	assert.Empty(t, store.quizzes)
	assert.Empty(t, store.memoryTurns)
}

func TestPipelineRejectsMalformedCompletion(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "I cannot answer that."},
		{name: "missing explanation", response: `{"question": "Q?", "correct_answer": "A"}`},
		{name: "empty question", response: `{"question": " ", "correct_answer": "A", "explanation": "E"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.documents[7] = &entity.Document{Id: 7, Title: "Doc", OwnerId: 3}
			pipeline := newTestPipeline(store, &fakeLLM{response: tt.response}, &fakeEmbedder{})

			state := NewQuizState("session-4", 3, 7, "content")
			state, err := pipeline.Run(context.Background(), state)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)

			// A rejected completion leaves no partial trace downstream
			assert.Empty(t, state.ConversationHistory)
			assert.Empty(t, store.memoryTurns)
			assert.Empty(t, store.quizzes)
			assert.Zero(t, state.QuizID)
		})
	}
}

func TestPipelineWrapsUpstreamError(t *testing.T) {
	store := newFakeStore()
	store.documents[7] = &entity.Document{Id: 7, Title: "Doc", OwnerId: 3}
	provider := &fakeLLM{err: fmt.Errorf("connection refused")}
	pipeline := newTestPipeline(store, provider, &fakeEmbedder{})

	state := NewQuizState("session-5", 3, 7, "content")
	_, err := pipeline.Run(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestCheckpointerLastWriteWins(t *testing.T) {
	store := newFakeStore()
	factory := &fakeFactory{store: store}
	checkpointer := NewCheckpointer(factory)
	ctx := context.Background()

	first := NewQuizState("cfg-1", 1, 2, "first")
	second := NewQuizState("cfg-1", 1, 2, "second")
	second.Question = "Q?"

	require.NoError(t, checkpointer.Put(ctx, "cfg-1", first))
	require.NoError(t, checkpointer.Put(ctx, "cfg-1", second))

	loaded, err := checkpointer.Get(ctx, "cfg-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "second", loaded.DocumentText)
	assert.Equal(t, "Q?", loaded.Question)
	assert.Equal(t, 2, store.checkpoints["cfg-1"].Version)
}

func TestCheckpointerGetUnknownSession(t *testing.T) {
	checkpointer := NewCheckpointer(&fakeFactory{store: newFakeStore()})

	loaded, err := checkpointer.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	memory := NewMemoryStore(&fakeFactory{store: store}, embedder)
	ctx := context.Background()

	turns := []Turn{
		{User: "Requested quiz for document 1", Bot: "Generated question: Q1?"},
		{User: "Requested quiz for document 2", Bot: "Generated question: Q2?"},
	}
	require.NoError(t, memory.Append(ctx, 5, turns...))
	require.NoError(t, memory.Append(ctx, 9, Turn{User: "other user", Bot: "other answer"}))

	// Each stored turn was embedded once
	assert.Equal(t, 3, embedder.calls)

	listed, err := memory.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, turns, listed)

	found, err := memory.Search(ctx, 5, "quiz", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestMemoryStoreAppendEmbedFailure(t *testing.T) {
	store := newFakeStore()
	memory := NewMemoryStore(&fakeFactory{store: store}, &fakeEmbedder{err: errors.New("model not loaded")})

	err := memory.Append(context.Background(), 5, Turn{User: "u", Bot: "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Empty(t, store.memoryTurns)
}
