// Package store persists resolved models beyond a single process.
//
// Resolved POMs are long-lived and cacheable: a model is stored under both
// its UUID and the structural fingerprint of the partial state that
// produced it; the API server stores each model it resolves and serves it
// back by ID. Two backends are provided: an in-memory
// store for tests and single-shot CLI runs, and a MongoDB store for server
// deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pomtree/pomtree/pkg/pom"
)

// ErrNotFound is returned when no model exists for the given key.
var ErrNotFound = errors.New("model not found")

// Record wraps a resolved model with its storage keys.
type Record struct {
	ID          string    `bson:"_id" json:"id"`
	Fingerprint string    `bson:"fingerprint" json:"fingerprint"`
	Coordinates string    `bson:"coordinates" json:"coordinates"`
	Model       *pom.Pom  `bson:"model" json:"model"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Store persists resolved models keyed by model ID and by structural
// fingerprint. Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a resolved model under its ID and fingerprint.
	// Storing an existing fingerprint overwrites the previous record.
	Put(ctx context.Context, fingerprint string, model *pom.Pom) error

	// GetByID retrieves a model by its UUID string.
	GetByID(ctx context.Context, id string) (*Record, error)

	// GetByFingerprint retrieves a model by structural fingerprint.
	GetByFingerprint(ctx context.Context, fingerprint string) (*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func newRecord(fingerprint string, model *pom.Pom) Record {
	return Record{
		ID:          model.ID.String(),
		Fingerprint: fingerprint,
		Coordinates: model.Coordinates(),
		Model:       model,
		CreatedAt:   time.Now().UTC(),
	}
}

// restoreModelID copies the record's string ID back onto the decoded
// model, whose own ID is not part of document encoding.
func restoreModelID(rec *Record) {
	if rec.Model == nil {
		return
	}
	if id, err := uuid.Parse(rec.ID); err == nil {
		rec.Model.ID = id
	}
}
