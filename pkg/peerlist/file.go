package peerlist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	logging "github.com/ipfs/go-log/v2"
)

const (
	// DefaultFileName is the peer list file used when no other path is configured.
	DefaultFileName = "tetrispeerslist.txt"

	// LockSuffix is appended to the peer list path to name its lock file.
	LockSuffix = ".lock"

	defaultFilePerm = 0o644
	defaultDirPerm  = 0o750
)

// ErrLockTimeout is returned when the peer list lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for peer list lock")

// FileBackend stores the set as a newline separated text file.
//
// Writers hold an exclusive flock on a sibling lock file and replace the
// list by renaming a fully written temp file over it, so readers never see
// a partially written list.
type FileBackend struct {
	path        string
	lock        *flock.Flock
	retryDelay  time.Duration
	lockTimeout time.Duration
	logger      logging.EventLogger
}

var _ Backend = &FileBackend{}

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithLockRetry sets how often a contended lock is retried.
func WithLockRetry(d time.Duration) FileOption {
	return func(b *FileBackend) {
		if d > 0 {
			b.retryDelay = d
		}
	}
}

// WithLockTimeout bounds how long Lock waits. Zero waits until ctx is done.
func WithLockTimeout(d time.Duration) FileOption {
	return func(b *FileBackend) {
		b.lockTimeout = d
	}
}

// NewFileBackend returns a backend for the list at path.
func NewFileBackend(path string, logger logging.EventLogger, opts ...FileOption) *FileBackend {
	b := &FileBackend{
		path:       path,
		lock:       flock.New(path + LockSuffix),
		retryDelay: 10 * time.Millisecond,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the peer list location.
func (b *FileBackend) Path() string {
	return b.path
}

// Lock implements Backend.
func (b *FileBackend) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), defaultDirPerm); err != nil {
		return nil, fmt.Errorf("creating peer list directory: %w", err)
	}

	if b.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.lockTimeout)
		defer cancel()
	}

	locked, err := b.lock.TryLockContext(ctx, b.retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, b.lock.Path())
		}
		return nil, fmt.Errorf("locking %s: %w", b.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, b.lock.Path())
	}
	b.logger.Debugf("acquired lock %s", b.lock.Path())

	return b.lock.Unlock, nil
}

// Load implements Backend. A missing file is an empty set.
func (b *FileBackend) Load(_ context.Context) (*Set, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.logger.Debugf("peer list %s does not exist yet", b.path)
		return NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	return ParseSet(data), nil
}

// Save implements Backend.
func (b *FileBackend) Save(_ context.Context, s *Set) error {
	data, err := s.MarshalText()
	if err != nil {
		return err
	}

	perm := os.FileMode(defaultFilePerm)
	if info, err := os.Stat(b.path); err == nil {
		perm = info.Mode().Perm()
	}

	return atomicWriteFile(b.path, data, perm)
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return b.lock.Close()
}

// atomicWriteFile writes data to a temp file next to path, syncs it and
// renames it over path. On failure path is left untouched.
func atomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("writing temp file: %w", err), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return errors.Join(fmt.Errorf("syncing temp file: %w", err), tmp.Close())
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Join(fmt.Errorf("setting file mode: %w", err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
