package entity

import "time"

// Checkpoint is the durable snapshot of a pipeline run's state, keyed by the
// run's config id. One row per config id; writes overwrite and bump Version.
type Checkpoint struct {
	ConfigId  string
	State     []byte // serialized workflow state
	Version   int
	UpdatedAt time.Time
}
