// Package store persists serialized layouts.
//
// A [Store] maps layout IDs to opaque byte payloads, normally the JSON
// produced by [github.com/matzehuels/remotelayout/pkg/io.Marshal]. Backends:
//
//   - [MemoryStore]: process-local map, for tests and the HTTP server's
//     scratch mode
//   - [FileStore]: one file per layout under a hashed fan-out directory, for
//     CLI usage
//   - [RedisStore]: shared storage for multi-instance deployments
//   - [MongoStore]: one document per layout in a MongoDB collection
//
// Use [Open] to construct the backend named by a [Config].
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
)

// ErrNotFound is returned by [Store.Get] when no layout has the given ID.
var ErrNotFound = errors.New("layout not found")

// Store is the persistence boundary for serialized layouts.
type Store interface {
	// Get returns the payload stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Put stores data under id, replacing any previous payload.
	Put(ctx context.Context, id string, data []byte) error

	// Delete removes id. Deleting a missing layout is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the stored IDs in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string. The API uses it as an ETag.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func sorted(ids []string) []string {
	slices.Sort(ids)
	return ids
}
