package peerlist

import (
	"context"
	"fmt"
	"sync"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
)

// peersPrefix namespaces member entries inside the datastore.
const peersPrefix = "/peers"

// DatastoreBackend keeps the set in a go-datastore, one key per member.
// Keys carry a zero padded sequence so a key ordered query yields
// insertion order.
type DatastoreBackend struct {
	mu     sync.Mutex
	db     ds.Batching
	logger logging.EventLogger
}

var _ Backend = &DatastoreBackend{}

// NewDatastoreBackend returns a backend over db. The backend owns db and
// closes it on Close.
func NewDatastoreBackend(db ds.Batching, logger logging.EventLogger) *DatastoreBackend {
	return &DatastoreBackend{
		db:     db,
		logger: logger,
	}
}

// Lock implements Backend. Exclusion across processes comes from the
// underlying database's own directory lock.
func (b *DatastoreBackend) Lock(_ context.Context) (func() error, error) {
	b.mu.Lock()
	return func() error {
		b.mu.Unlock()
		return nil
	}, nil
}

// Load implements Backend.
func (b *DatastoreBackend) Load(ctx context.Context) (*Set, error) {
	results, err := b.db.Query(ctx, query.Query{
		Prefix: peersPrefix,
		Orders: []query.Order{query.OrderByKey{}},
	})
	if err != nil {
		return nil, fmt.Errorf("querying peers: %w", err)
	}
	defer results.Close()

	s := NewSet()
	for r := range results.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("iterating peers: %w", r.Error)
		}
		s.Add(string(r.Value))
	}
	return s, nil
}

// Save implements Backend. The previous members are replaced in one batch.
func (b *DatastoreBackend) Save(ctx context.Context, s *Set) error {
	results, err := b.db.Query(ctx, query.Query{Prefix: peersPrefix, KeysOnly: true})
	if err != nil {
		return fmt.Errorf("querying peers: %w", err)
	}
	existing, err := results.Rest()
	if err != nil {
		return fmt.Errorf("iterating peers: %w", err)
	}

	batch, err := b.db.Batch(ctx)
	if err != nil {
		return fmt.Errorf("creating batch: %w", err)
	}
	for _, e := range existing {
		if err := batch.Delete(ctx, ds.NewKey(e.Key)); err != nil {
			return fmt.Errorf("deleting %s: %w", e.Key, err)
		}
	}
	for i, addr := range s.Addresses() {
		if err := batch.Put(ctx, peerKey(i), []byte(addr)); err != nil {
			return fmt.Errorf("storing %s: %w", addr, err)
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("committing peers: %w", err)
	}
	b.logger.Debugf("stored %d peers", s.Len())
	return nil
}

// Close implements Backend.
func (b *DatastoreBackend) Close() error {
	return b.db.Close()
}

func peerKey(seq int) ds.Key {
	return ds.NewKey(fmt.Sprintf("%s/%020d", peersPrefix, seq))
}
