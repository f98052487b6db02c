package peerlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
)

// Backend persists a Set. Implementations must make Lock exclusive for the
// whole load-mutate-save cycle.
type Backend interface {
	// Lock acquires exclusive access and returns the matching release func.
	Lock(ctx context.Context) (unlock func() error, err error)
	// Load returns the persisted set. A backend with nothing persisted yet
	// returns an empty set.
	Load(ctx context.Context) (*Set, error)
	// Save replaces the persisted set with s.
	Save(ctx context.Context, s *Set) error
	// Close releases backend resources.
	Close() error
}

// Store is the peer list surface used by the CLI.
type Store interface {
	// Add inserts the normalized address unless already present.
	Add(ctx context.Context, raw string) (AddResult, error)
	// Remove deletes every copy of the normalized address.
	Remove(ctx context.Context, raw string) (RemoveResult, error)
	// List returns members in insertion order.
	List(ctx context.Context) ([]string, error)
	// Has reports membership of the normalized address.
	Has(ctx context.Context, raw string) (bool, error)
	// Clear removes every member and returns how many there were.
	Clear(ctx context.Context) (int, error)
	// Close releases the backend.
	Close() error
}

// AddResult describes the outcome of Store.Add.
type AddResult struct {
	Address string
	Added   bool
}

// RemoveResult describes the outcome of Store.Remove.
type RemoveResult struct {
	Address string
	Removed bool
}

// DefaultStore runs every operation as a locked load-mutate-save cycle over
// a Backend. Nothing is cached between calls.
type DefaultStore struct {
	backend Backend
	logger  logging.EventLogger
	metrics *Metrics
}

var _ Store = &DefaultStore{}

// NewStore returns a store over backend. A nil metrics uses NopMetrics.
func NewStore(backend Backend, logger logging.EventLogger, metrics *Metrics) *DefaultStore {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &DefaultStore{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// Add implements Store.
func (s *DefaultStore) Add(ctx context.Context, raw string) (AddResult, error) {
	addr, err := Normalize(raw)
	if err != nil {
		return AddResult{}, err
	}

	var added bool
	err = s.update(ctx, func(set *Set) bool {
		added = set.Add(addr)
		return added
	})
	if err != nil {
		return AddResult{}, fmt.Errorf("adding %s: %w", addr, err)
	}

	if added {
		s.metrics.Adds.Add(1)
		s.logger.Infof("added peer %s", addr)
	} else {
		s.metrics.Noops.Add(1)
		s.logger.Debugf("peer %s already listed", addr)
	}
	return AddResult{Address: addr, Added: added}, nil
}

// Remove implements Store.
func (s *DefaultStore) Remove(ctx context.Context, raw string) (RemoveResult, error) {
	addr, err := Normalize(raw)
	if err != nil {
		return RemoveResult{}, err
	}

	var removed bool
	err = s.update(ctx, func(set *Set) bool {
		removed = set.Remove(addr)
		return removed
	})
	if err != nil {
		return RemoveResult{}, fmt.Errorf("removing %s: %w", addr, err)
	}

	if removed {
		s.metrics.Removes.Add(1)
		s.logger.Infof("removed peer %s", addr)
	} else {
		s.metrics.Noops.Add(1)
		s.logger.Debugf("peer %s not listed", addr)
	}
	return RemoveResult{Address: addr, Removed: removed}, nil
}

// List implements Store.
func (s *DefaultStore) List(ctx context.Context) ([]string, error) {
	var addrs []string
	err := s.view(ctx, func(set *Set) {
		addrs = set.Addresses()
	})
	if err != nil {
		return nil, fmt.Errorf("listing peers: %w", err)
	}
	return addrs, nil
}

// Has implements Store.
func (s *DefaultStore) Has(ctx context.Context, raw string) (bool, error) {
	addr, err := Normalize(raw)
	if err != nil {
		return false, err
	}

	var ok bool
	err = s.view(ctx, func(set *Set) {
		ok = set.Has(addr)
	})
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", addr, err)
	}
	return ok, nil
}

// Clear implements Store.
func (s *DefaultStore) Clear(ctx context.Context) (int, error) {
	var n int
	err := s.update(ctx, func(set *Set) bool {
		n = set.Len()
		set.Clear()
		return n > 0
	})
	if err != nil {
		return 0, fmt.Errorf("clearing peers: %w", err)
	}
	s.metrics.Removes.Add(float64(n))
	s.logger.Infof("cleared %d peers", n)
	return n, nil
}

// Close implements Store.
func (s *DefaultStore) Close() error {
	return s.backend.Close()
}

// update loads the set under lock and saves it when fn reports a change.
func (s *DefaultStore) update(ctx context.Context, fn func(*Set) bool) (err error) {
	unlock, err := s.backend.Lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, unlock())
	}()

	set, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	if fn(set) {
		start := time.Now()
		if err := s.backend.Save(ctx, set); err != nil {
			return err
		}
		s.metrics.SaveTime.Observe(time.Since(start).Seconds())
	}
	s.metrics.Members.Set(float64(set.Len()))
	return nil
}

// view loads the set under lock without saving.
func (s *DefaultStore) view(ctx context.Context, fn func(*Set)) (err error) {
	unlock, err := s.backend.Lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, unlock())
	}()

	set, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	fn(set)
	return nil
}
