// Package filestore keeps credentials in plain files under a private directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	domainauth "github.com/target/timeclock/internal/domain/auth"
	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/ports"
)

const (
	tokenFile = "tc_token"
	userFile  = "tc_user"

	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600
)

var _ ports.CredentialStore = (*Store)(nil)

// Store is a file-backed credential store. Each value lives in its own file so
// token and user can be written independently.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Options configures a Store.
type Options struct {
	Dir    string
	Logger *slog.Logger
}

// New creates a Store rooted at opts.Dir. The directory is created lazily on first write.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("credential directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: opts.Dir, logger: logger.With("component", "filestore")}, nil
}

// Dir returns the directory holding the credential files.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Token(_ context.Context) (string, error) {
	data, err := s.read(tokenFile)
	if err != nil || data == nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) SetToken(_ context.Context, token string) error {
	return s.write(tokenFile, []byte(token))
}

func (s *Store) User(_ context.Context) (*domainauth.User, error) {
	data, err := s.read(userFile)
	if err != nil || data == nil {
		return nil, err
	}

	u, decodeErr := decodeUser(data)
	if decodeErr != nil {
		s.logger.Warn("ignoring malformed cached user", "code", apperrors.GetCode(decodeErr), "error", decodeErr)
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

func (s *Store) SetUser(_ context.Context, user domainauth.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.write(userFile, data)
}

func (s *Store) Clear(_ context.Context) error {
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// read returns nil data when the file does not exist.
func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// write replaces name atomically so a crash never leaves a half-written credential.
func (s *Store) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
