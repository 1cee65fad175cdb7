// Package checkpoint implements the file-backed checkpoint store.
package checkpoint

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultReadTimeout bounds the wait for the shared lock.
	DefaultReadTimeout = 10 * time.Second
	// DefaultWriteTimeout bounds the wait for the exclusive lock.
	DefaultWriteTimeout = 30 * time.Second

	lockRetryDelay = 50 * time.Millisecond
	indent         = "    "
)

// Store implements ports.CheckpointStore using a flat JSON file guarded by a sibling lock file.
//
// The file maps base64 fingerprints to base64 payloads. Every operation re-reads the file
// under the lock, so concurrent writers from other processes are merged rather than lost.
type Store struct {
	path         string
	lockPath     string
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       ports.Logger

	// flock locks belong to a file descriptor, so goroutines are serialized here as well.
	mu sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeouts overrides the shared and exclusive lock bounds.
func WithLockTimeouts(read, write time.Duration) Option {
	return func(s *Store) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// WithLogger sets the logger used for recoverable faults such as a corrupt file.
func WithLogger(l ports.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a Store backed by the file at path. Nothing is created until the first write.
func NewStore(path string, opts ...Option) *Store {
	clean := filepath.Clean(path)
	s := &Store{
		path:         clean,
		lockPath:     clean + ".lock",
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the store file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key domain.Fingerprint) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	entries := s.read()
	encoded, ok := entries[string(key)]
	if !ok {
		return nil, false, nil
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.warn("skipping undecodable checkpoint payload", "key", key.Digest(), "error", err)
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores payload under key, merging with entries written by other processes.
func (s *Store) Put(ctx context.Context, key domain.Fingerprint, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	entries := s.read()
	entries[string(key)] = base64.StdEncoding.EncodeToString(payload)
	return s.write(entries)
}

// Clear removes every entry whose decoded description matches pattern.
// It returns the removed descriptions.
func (s *Store) Clear(ctx context.Context, pattern string) ([]string, error) {
	match, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, statErr := os.Stat(s.path); errors.Is(statErr, fs.ErrNotExist) {
		return nil, nil
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries := s.read()
	var removed []string
	for key := range entries {
		description, decodeErr := domain.Decode(domain.Fingerprint(key))
		if decodeErr != nil {
			s.warn("skipping undecodable checkpoint key", "key", domain.Preview(key, 32))
			continue
		}
		if match(description) {
			delete(entries, key)
			removed = append(removed, description)
		}
	}

	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.write(entries); err != nil {
		return nil, err
	}
	return removed, nil
}

// DeleteAll removes the store file and its lock file. Missing files are ignored.
func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range []string{s.path, s.lockPath} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreDeleteFailed.Error()), "path", p)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return 0, err
	}
	defer unlock()

	return len(s.read()), nil
}

func (s *Store) acquire(ctx context.Context, exclusive bool) (func(), error) {
	timeout := s.readTimeout
	if exclusive {
		timeout = s.writeTimeout
	}

	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", s.lockPath)
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(s.lockPath)
	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = fl.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = fl.TryRLockContext(lockCtx, lockRetryDelay)
	}

	switch {
	case locked:
		return func() { _ = fl.Unlock() }, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, zerr.With(zerr.With(errors.Join(domain.ErrLockTimeout, err), "path", s.lockPath), "timeout", timeout.String())
	case err != nil:
		return nil, zerr.With(errors.Join(domain.ErrLockFailed, err), "path", s.lockPath)
	default:
		return nil, zerr.With(domain.ErrLockFailed, "path", s.lockPath)
	}
}

// read loads the entries. A missing, empty or corrupt file reads as an empty store.
func (s *Store) read() map[string]string {
	entries := make(map[string]string)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn("checkpoint store unreadable, treating as empty", "path", s.path, "error", err)
		}
		return entries
	}
	if len(data) == 0 {
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.warn("checkpoint store corrupt, treating as empty", "path", s.path, "error", err)
		return make(map[string]string)
	}
	return entries
}

// write replaces the store file atomically. Callers hold the exclusive lock.
func (s *Store) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", indent)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmpName)
	}
	//nolint:gosec // Store files are shared between runs of the same user
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	return nil
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
