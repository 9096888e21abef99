package service

import (
	"context"

	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/contract"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/embedding"
	"quizgen-be/pkg/events"
	"quizgen-be/pkg/llm"
)

// In-memory store and unit-of-work fakes shared by the service tests.

type fakeStore struct {
	users       map[uint]*entity.User
	documents   map[uint]*entity.Document
	quizzes     map[uint]*entity.Quiz
	questions   map[uint]*entity.Question
	memoryTurns []*entity.MemoryTurn
	embeddings  []*entity.DocumentEmbedding
	checkpoints map[string]*entity.Checkpoint

	nextUserId     uint
	nextDocumentId uint
	nextQuizId     uint
	nextQuestionId uint

	createUserErr error
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
	return &fakeDocumentEmbeddingRepo{store: u.store}
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
	if r.store.createUserErr != nil {
		return r.store.createUserErr
	}
	r.store.nextUserId++
	user.Id = r.store.nextUserId
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
	for _, spec := range specs {
		if byEmail, ok := spec.(specification.ByEmail); ok {
			var count int64
			for _, user := range r.store.users {
				if user.Email == byEmail.Email {
					count++
				}
			}
			return count, nil
		}
	}
	return int64(len(r.store.users)), nil
}

type fakeDocumentRepo struct {
	store *fakeStore
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.store.nextDocumentId++
	document.Id = r.store.nextDocumentId
	r.store.documents[document.Id] = document
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error {
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

type fakeDocumentEmbeddingRepo struct {
	store *fakeStore
}

func (r *fakeDocumentEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error {
	r.store.embeddings = append(r.store.embeddings, embeddings...)
	return nil
}

func (r *fakeDocumentEmbeddingRepo) DeleteByDocumentId(ctx context.Context, documentId uint) error {
	kept := r.store.embeddings[:0]
	for _, e := range r.store.embeddings {
		if e.DocumentId != documentId {
			kept = append(kept, e)
		}
	}
	r.store.embeddings = kept
	return nil
}

func (r *fakeDocumentEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	for _, spec := range specs {
		if byDoc, ok := spec.(specification.ByDocumentID); ok {
			var count int64
			for _, e := range r.store.embeddings {
				if e.DocumentId == byDoc.DocumentID {
					count++
				}
			}
			return count, nil
		}
	}
	return int64(len(r.store.embeddings)), nil
}

func (r *fakeDocumentEmbeddingRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, ownerId uint) ([]*contract.ScoredDocumentEmbedding, error) {
	var result []*contract.ScoredDocumentEmbedding
	for _, e := range r.store.embeddings {
		doc, found := r.store.documents[e.DocumentId]
		if !found || doc.OwnerId != ownerId {
			continue
		}
		result = append(result, &contract.ScoredDocumentEmbedding{Embedding: e, Similarity: 1})
		if len(result) == limit {
			break
		}
	}
	return result, nil
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
	var result []*entity.Quiz
	for _, spec := range specs {
		if owned, ok := spec.(specification.OwnedBy); ok {
			for _, quiz := range r.store.quizzes {
				if quiz.OwnerId == owned.OwnerID {
					result = append(result, quiz)
				}
			}
			return result, nil
		}
	}
	for _, quiz := range r.store.quizzes {
		result = append(result, quiz)
	}
	return result, nil
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
	id, hasId := idFromSpecs(specs)
	if !hasId {
		return nil, nil
	}
	question, found := r.store.questions[id]
	if !found {
		return nil, nil
	}
	for _, spec := range specs {
		if byQuiz, ok := spec.(specification.ByQuizID); ok && question.QuizId != byQuiz.QuizID {
			return nil, nil
		}
	}
	return question, nil
}

func (r *fakeQuestionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	var result []*entity.Question
	for _, spec := range specs {
		if byQuiz, ok := spec.(specification.ByQuizID); ok {
			for _, question := range r.store.questions {
				if question.QuizId == byQuiz.QuizID {
					result = append(result, question)
				}
			}
			return result, nil
		}
	}
	return result, nil
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

// --- provider and infrastructure fakes -------------------------------------

type staticEmbedder struct{}

func (staticEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, options...)
}

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
