package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/remotelayout/pkg/observability"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the valid backend names.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// ErrUnknownBackend is returned by [Open] for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Config selects and configures a backend. It is the [store] section of the
// configuration file.
type Config struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// Open constructs the configured backend. The returned store reports every
// Get, Put and Delete to the registered [observability.StoreHooks].
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile, "":
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis, cfg.TTL)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Instrument(s, backend), nil
}

// Instrument wraps s so that its operations are reported to the store hooks
// under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, len(data), err)
	return data, err
}

func (s *instrumented) Put(ctx context.Context, id string, data []byte) error {
	err := s.Store.Put(ctx, id, data)
	observability.Store().OnSave(ctx, s.backend, id, len(data), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}
