// Package store provides persistence for computed explanations.
//
// This package defines the Store interface for explanation records, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - redis: Redis-backed storage for multi-instance server deployments
//   - mongo: MongoDB-backed document storage for the hosted platform
//
// # Architecture
//
// An [Explanation] records one importance run: the scores plus enough
// provenance (dataset label, model endpoint, filter classes, seed) to
// reproduce it. Records carry a TTL; expired records read as missing and
// Cleanup removes them.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// CLI
//	st, err := store.NewFileStore("")  // Uses ~/.config/skater/explanations/
//
//	// Server
//	st, err := store.NewRedisStore(ctx, store.RedisConfig{Addr: "localhost:6379"})
//
// Persist a run:
//
//	rec := store.New("iris.csv", scores, store.DefaultTTL)
//	if err := st.Set(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/raonyguimaraes/skater/pkg/interpret"
)

// DefaultTTL is the default lifetime of a stored explanation.
const DefaultTTL = 7 * 24 * time.Hour

// Explanation records one completed importance run.
type Explanation struct {
	ID            string                `json:"id" bson:"id"`
	Dataset       string                `json:"dataset,omitempty" bson:"dataset,omitempty"`
	ModelURL      string                `json:"model_url,omitempty" bson:"model_url,omitempty"`
	FilterClasses []string              `json:"filter_classes,omitempty" bson:"filter_classes,omitempty"`
	Seed          uint64                `json:"seed" bson:"seed"`
	Scores        interpret.Importances `json:"scores" bson:"scores"`
	CreatedAt     time.Time             `json:"created_at" bson:"created_at"`
	ExpiresAt     time.Time             `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the record has passed its TTL.
func (e *Explanation) IsExpired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// New creates an Explanation with a fresh UUID and the given TTL.
// A ttl of 0 means the record never expires.
func New(datasetLabel string, scores interpret.Importances, ttl time.Duration) *Explanation {
	now := time.Now()
	rec := &Explanation{
		ID:        uuid.NewString(),
		Dataset:   datasetLabel,
		Scores:    scores,
		CreatedAt: now,
	}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec
}

// Store is the interface for explanation storage backends.
type Store interface {
	// Get retrieves an explanation by ID.
	// Returns nil, nil if the record doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Explanation, error)

	// Set stores an explanation.
	Set(ctx context.Context, rec *Explanation) error

	// Delete removes an explanation.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records (may be a no-op for backends with
	// native TTL support, such as Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
