package workflow

import (
	"context"
	"encoding/json"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/unitofwork"
)

// Checkpointer snapshots a run's state into a key-value store keyed by the
// run's session id. Writes upsert (last-write-wins), so a resumed run reads a
// single unambiguous checkpoint rather than scanning duplicates.
type Checkpointer struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCheckpointer(uowFactory unitofwork.RepositoryFactory) *Checkpointer {
	return &Checkpointer{uowFactory: uowFactory}
}

func (c *Checkpointer) Put(ctx context.Context, configID string, state *QuizState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return apperr.Persistence("marshal checkpoint for %s: %v", configID, err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	checkpoint := &entity.Checkpoint{
		ConfigId: configID,
		State:    blob,
	}
	if err := uow.CheckpointRepository().Upsert(ctx, checkpoint); err != nil {
		return apperr.Persistence("store checkpoint for %s: %v", configID, err)
	}
	return nil
}

// Get returns the latest stored state for the config id, or nil if the run
// was never checkpointed.
func (c *Checkpointer) Get(ctx context.Context, configID string) (*QuizState, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	checkpoint, err := uow.CheckpointRepository().FindByConfigId(ctx, configID)
	if err != nil {
		return nil, apperr.Persistence("load checkpoint for %s: %v", configID, err)
	}
	if checkpoint == nil {
		return nil, nil
	}

	var state QuizState
	if err := json.Unmarshal(checkpoint.State, &state); err != nil {
		return nil, apperr.Persistence("decode checkpoint for %s: %v", configID, err)
	}
	return &state, nil
}
