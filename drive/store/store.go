// Package store persists tracks, networks and training run summaries.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotInitialized is returned by every operation before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Store saves named track and network records and run summaries. Track and
// network payloads are the JSON records produced by the drive package.
type Store interface {
	Init(ctx context.Context) error
	SaveTrack(ctx context.Context, name string, payload []byte) error
	GetTrack(ctx context.Context, name string) ([]byte, bool, error)
	ListTracks(ctx context.Context) ([]string, error)
	SaveNetwork(ctx context.Context, name string, payload []byte) error
	GetNetwork(ctx context.Context, name string) ([]byte, bool, error)
	ListNetworks(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run RunSummary) error
	GetRun(ctx context.Context, id string) (RunSummary, bool, error)
}

// RunSummary describes a finished training run.
type RunSummary struct {
	ID          string    `json:"id"`
	Outcome     string    `json:"outcome"`
	Generations int       `json:"generations"`
	BestFitness float64   `json:"bestFitness"`
	History     []float64 `json:"history"`
	Network     string    `json:"network,omitempty"` // name the result was saved under
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
