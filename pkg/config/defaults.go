package config

import "time"

const (
	// DefaultDirPerm is the default permissions used when creating directories.
	DefaultDirPerm = 0750

	// DefaultRootDir is the working directory, where the peer list lives unless told otherwise.
	DefaultRootDir = "."

	// DefaultPeerListFile is the peer list file name.
	DefaultPeerListFile = "tetrispeerslist.txt"

	// DefaultDBPath is the badger database directory, relative to the root directory.
	DefaultDBPath = "data"

	// DefaultLogLevel keeps stderr quiet so stdout carries only command output.
	DefaultLogLevel = "error"
)

// DefaultConfig keeps default values of Config
var DefaultConfig = Config{
	RootDir: DefaultRootDir,
	PeerList: PeerListConfig{
		File:        DefaultPeerListFile,
		Backend:     BackendFile,
		DBPath:      DefaultDBPath,
		LockRetry:   DurationWrapper{10 * time.Millisecond},
		LockTimeout: DurationWrapper{30 * time.Second},
	},
	Log: LogConfig{
		Level:  DefaultLogLevel,
		Format: "text",
	},
	Instrumentation: DefaultInstrumentationConfig(),
}
