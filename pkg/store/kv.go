package store

import (
	"fmt"
	"os"
	"path/filepath"

	ds "github.com/ipfs/go-datastore"
	badger4 "github.com/ipfs/go-ds-badger4"
)

// NewDefaultKVStore opens a badger backed datastore at rootDir/dbPath/dbName.
// A relative dbPath is resolved against rootDir.
func NewDefaultKVStore(rootDir, dbPath, dbName string) (ds.Batching, error) {
	path := filepath.Join(rootify(rootDir, dbPath), dbName)
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return badger4.NewDatastore(path, nil)
}

// NewDefaultInMemoryKVStore builds a badger datastore that never touches disk.
func NewDefaultInMemoryKVStore() (ds.Batching, error) {
	opts := badger4.DefaultOptions
	opts.Options = opts.Options.WithInMemory(true)
	return badger4.NewDatastore("", &opts)
}

func rootify(rootDir, dbPath string) string {
	if filepath.IsAbs(dbPath) {
		return dbPath
	}
	return filepath.Join(rootDir, dbPath)
}
