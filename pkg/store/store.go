// Package store persists laid-out treemaps for the HTTP service.
//
// A [Record] holds the serialized layout together with the options it was
// computed with. Three backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [FileStore]: one JSON file per record in a directory
//   - [MongoStore]: MongoDB collection for shared deployments
//
// Records are identified by random UUIDs assigned on [Store.Save].
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Record is one stored layout.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name" bson:"name"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	Options   map[string]string `json:"options,omitempty" bson:"options,omitempty"`

	// Layout is the layout JSON document. List results leave it empty.
	Layout []byte `json:"layout,omitempty" bson:"layout,omitempty"`
}

// Store is the interface for layout storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Save stores rec. An empty ID is replaced by a new UUID and a zero
	// CreatedAt by the current time; both are written back to rec.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or an error with code
	// NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records without their layout payload, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record, or returns an error with code NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases the backend's resources.
	Close() error
}

// NewID returns a new random record identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the form produced by [NewID].
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// prepare fills in the ID and creation time of a record about to be saved.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

// summary returns a copy of rec without its layout payload.
func summary(rec *Record) *Record {
	return &Record{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Options:   rec.Options,
	}
}

// sortNewest orders records by creation time, newest first, then by ID.
func sortNewest(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
