package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/formstate"
	"github.com/aretw0/formstate/pkg/adapters/file"
	"github.com/aretw0/formstate/pkg/adapters/memory"
	"github.com/aretw0/formstate/pkg/adapters/redis"
	"github.com/aretw0/formstate/pkg/adapters/sqlite"
	"github.com/aretw0/formstate/pkg/persistence/middleware"
	"github.com/aretw0/formstate/pkg/ports"
)

// Backend is an opened snapshot store with its optional distributed locker.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker

	closers []func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Options converts the backend into engine options.
func (b *Backend) Options() []formstate.Option {
	opts := []formstate.Option{formstate.WithStore(b.Store)}
	if b.Locker != nil {
		opts = append(opts, formstate.WithLocker(b.Locker))
	}
	return opts
}

// OpenBackend opens the store selected by cfg.Store.
func OpenBackend(cfg Config) (*Backend, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil

	case StoreFile:
		return &Backend{Store: file.New(cfg.Dir)}, nil

	case StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, closers: []func() error{store.Close}}, nil

	case StoreRedis:
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, opts...)
		b := &Backend{Store: store, closers: []func() error{store.Close}}
		if cfg.RedisLock {
			b.Locker = redis.NewLocker(store.Client(), redis.DefaultPrefix)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown store %q (want memory, file, sqlite or redis)", cfg.Store)
	}
}

// Middlewares builds the store middleware stack: PII masking runs before
// encryption so masked values are what gets encrypted.
func Middlewares(cfg Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.PIIFields) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.PIIFields)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}
