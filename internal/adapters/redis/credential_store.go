package redis

// Package redis provides Redis-based adapters for the timeclock client.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/ports"
)

const (
	tokenKey = "tc_token"
	userKey  = "tc_user"

	defaultPrefix = "timeclock:default:"
)

var _ ports.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is a Redis-based credential store for shared terminals where
// several client processes act for the same profile. Keys carry no TTL; a
// token stays provisionally valid until the backend rejects it.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// CredentialStoreOptions configures a CredentialStore.
type CredentialStoreOptions struct {
	Client redis.UniversalClient
	// Prefix namespaces the keys, e.g. "timeclock:default:".
	Prefix string
	Logger *slog.Logger
}

// NewCredentialStore creates a new Redis-based credential store.
func NewCredentialStore(opts CredentialStoreOptions) *CredentialStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{
		client: opts.Client,
		prefix: prefix,
		logger: logger.With("component", "redis_credential_store"),
	}
}

func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	tok, err := s.client.Get(ctx, s.prefix+tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return tok, nil
}

func (s *CredentialStore) SetToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.prefix+tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *CredentialStore) User(ctx context.Context) (*domainauth.User, error) {
	data, err := s.client.Get(ctx, s.prefix+userKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}

	u, decodeErr := decodeUser(data)
	if decodeErr != nil {
		s.logger.WarnContext(ctx, "ignoring malformed cached user",
			"key", s.prefix+userKey, "code", apperrors.GetCode(decodeErr), "error", decodeErr)
		return nil, nil
	}
	return u, nil
}

// decodeUser treats a null or empty profile as absent.
func decodeUser(data []byte) (*domainauth.User, error) {
	var u domainauth.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMalformedCache, "malformed cached user")
	}
	if u == (domainauth.User{}) {
		return nil, nil
	}
	return &u, nil
}

func (s *CredentialStore) SetUser(ctx context.Context, user domainauth.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+userKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

// Clear removes token and user in a single DEL.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.prefix+tokenKey, s.prefix+userKey).Err(); err != nil {
		return fmt.Errorf("redis del credentials: %w", err)
	}
	return nil
}
