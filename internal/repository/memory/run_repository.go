package memory

import (
	"time"

	"quizgen-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type RunRepository struct {
	cache *cache.Cache
}

func NewRunRepository() *RunRepository {
	// Runs expire an hour after their last update; expired entries are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &RunRepository{
		cache: c,
	}
}

func (r *RunRepository) Save(run *store.Run) {
	r.cache.Set(run.SessionID, run, cache.DefaultExpiration)
}

func (r *RunRepository) Get(sessionID string) (*store.Run, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Run), true
	}
	return nil, false
}

func (r *RunRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
