package workflow

import (
	"context"
	"fmt"

	"quizgen-be/internal/pkg/logger"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/pkg/llm"
)

// StageFunc is one unit of work: it reads and extends the shared state and
// has a single side-effecting responsibility.
type StageFunc func(ctx context.Context, state *QuizState) error

type Stage struct {
	Name string
	Run  StageFunc
}

// Pipeline runs a fixed linear sequence of stages over a QuizState. There is
// no branching, no retry and no compensation: the first stage error aborts
// the run, and writes committed by earlier stages stand. A checkpoint is
// written after every completed stage.
type Pipeline struct {
	uowFactory   unitofwork.RepositoryFactory
	llmProvider  llm.LLMProvider
	memory       *MemoryStore
	checkpointer *Checkpointer
	logger       logger.ILogger

	stages []Stage
}

func NewQuizPipeline(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	memory *MemoryStore,
	checkpointer *Checkpointer,
	log logger.ILogger,
) *Pipeline {
	p := &Pipeline{
		uowFactory:   uowFactory,
		llmProvider:  llmProvider,
		memory:       memory,
		checkpointer: checkpointer,
		logger:       log,
	}

	p.stages = []Stage{
		{Name: "save_text", Run: p.saveDocumentText},
		{Name: "generate_question", Run: p.generateQuestion},
		{Name: "conversation", Run: p.recordConversation},
		{Name: "store_results", Run: p.storeQuizResults},
	}

	return p
}

// Run executes the stages in order and returns the final state. On failure
// the partially mutated state is returned alongside the wrapped stage error.
func (p *Pipeline) Run(ctx context.Context, state *QuizState) (*QuizState, error) {
	for _, stage := range p.stages {
		p.logger.Info("workflow", "stage started", map[string]interface{}{
			"stage":   stage.Name,
			"session": state.SessionID,
		})

		if err := stage.Run(ctx, state); err != nil {
			p.logger.Error("workflow", "stage failed", map[string]interface{}{
				"stage":   stage.Name,
				"session": state.SessionID,
				"error":   err.Error(),
			})
			return state, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		if err := p.checkpointer.Put(ctx, state.SessionID, state); err != nil {
			p.logger.Error("workflow", "checkpoint write failed", map[string]interface{}{
				"stage":   stage.Name,
				"session": state.SessionID,
				"error":   err.Error(),
			})
			return state, fmt.Errorf("checkpoint after %s: %w", stage.Name, err)
		}
	}

	p.logger.Info("workflow", "pipeline completed", map[string]interface{}{
		"session":     state.SessionID,
		"quiz_id":     state.QuizID,
		"question_id": state.QuestionID,
	})
	return state, nil
}

// LoadState returns the last checkpointed state for a session, or nil if the
// session was never checkpointed.
func (p *Pipeline) LoadState(ctx context.Context, sessionID string) (*QuizState, error) {
	return p.checkpointer.Get(ctx, sessionID)
}
