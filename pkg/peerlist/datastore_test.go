package peerlist

import (
	"context"
	"testing"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatastoreBackend_SaveReplacesPrefix(t *testing.T) {
	ctx := context.Background()
	db := dssync.MutexWrap(ds.NewMapDatastore())
	b := NewDatastoreBackend(db, logging.Logger("test"))

	require.NoError(t, b.Save(ctx, NewSet("a", "b", "c")))
	require.NoError(t, b.Save(ctx, NewSet("c", "a")))

	s, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, s.Addresses())

	results, err := db.Query(ctx, query.Query{Prefix: peersPrefix, KeysOnly: true})
	require.NoError(t, err)
	entries, err := results.Rest()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDatastoreBackend_KeepsInsertionOrderPastTen(t *testing.T) {
	ctx := context.Background()
	b := NewDatastoreBackend(dssync.MutexWrap(ds.NewMapDatastore()), logging.Logger("test"))

	var addrs []string
	for i := 0; i < 12; i++ {
		addrs = append(addrs, string(rune('a'+11-i)))
	}
	require.NoError(t, b.Save(ctx, NewSet(addrs...)))

	s, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, addrs, s.Addresses())
}

func TestDatastoreBackend_LeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	db := dssync.MutexWrap(ds.NewMapDatastore())
	other := ds.NewKey("/meta/version")
	require.NoError(t, db.Put(ctx, other, []byte("1")))

	b := NewDatastoreBackend(db, logging.Logger("test"))
	require.NoError(t, b.Save(ctx, NewSet("a")))
	require.NoError(t, b.Save(ctx, NewSet()))

	v, err := db.Get(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestDatastoreBackend_Lock(t *testing.T) {
	b := NewDatastoreBackend(dssync.MutexWrap(ds.NewMapDatastore()), logging.Logger("test"))

	unlock, err := b.Lock(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := b.Lock(context.Background())
		if err == nil {
			_ = u()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	default:
	}

	require.NoError(t, unlock())
	<-acquired
}
