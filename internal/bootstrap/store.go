package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/adapters/filestore"
	redisstore "github.com/target/timeclock/internal/adapters/redis"
	"github.com/target/timeclock/internal/ports"
)

// StoreOptions selects and configures the credential store.
type StoreOptions struct {
	Store  config.StoreConfig
	Redis  config.RedisConfig
	Logger *slog.Logger
}

// NewCredentialStore builds the configured credential store. The returned
// func releases any connection the store holds.
func NewCredentialStore(ctx context.Context, opts StoreOptions) (ports.CredentialStore, func() error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Store.Backend {
	case config.StoreBackendRedis:
		client, err := ConnectRedis(ctx, RedisOptions{Config: opts.Redis, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("credential store: %w", err)
		}
		store := redisstore.NewCredentialStore(redisstore.CredentialStoreOptions{
			Client: client,
			Prefix: opts.Store.RedisPrefix(),
			Logger: logger,
		})
		return store, client.Close, nil
	default:
		store, err := filestore.New(filestore.Options{Dir: opts.Store.Dir, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("credential store: %w", err)
		}
		return store, func() error { return nil }, nil
	}
}
