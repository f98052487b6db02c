package cmd

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	peerconf "github.com/tetrisp2p/peerlist/pkg/config"
	"github.com/tetrisp2p/peerlist/pkg/peerlist"
	"github.com/tetrisp2p/peerlist/pkg/store"
)

// peersDBName is the badger database directory inside the configured db path.
const peersDBName = "peers"

// ParseConfig is an helper that loads the configuration and validates it.
func ParseConfig(cmd *cobra.Command) (peerconf.Config, error) {
	config, err := peerconf.Load(cmd)
	if err != nil {
		return peerconf.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return peerconf.Config{}, fmt.Errorf("failed to validate config: %w", err)
	}

	return config, nil
}

// SetupLogger configures and returns a logger based on the provided configuration.
// It applies the following settings from the config:
//   - Log format (text or JSON)
//   - Log level (debug, info, warn, error)
//
// Logs go to stderr so stdout carries only command output.
func SetupLogger(config peerconf.LogConfig) logging.EventLogger {
	logCfg := logging.Config{
		Stderr: true,
		Format: logging.PlaintextOutput,
	}

	if config.Format == "json" {
		logCfg.Format = logging.JSONOutput
	}

	level, err := logging.LevelFromString(config.Level)
	if err == nil {
		logCfg.Level = level
	} else {
		logCfg.Level = logging.LevelError
	}

	logging.SetupLogging(logCfg)

	return logging.Logger("peerlist")
}

// NewStore opens the peer list store selected by config.
func NewStore(config peerconf.Config, logger logging.EventLogger, metrics *peerlist.Metrics) (peerlist.Store, error) {
	var backend peerlist.Backend
	switch config.PeerList.Backend {
	case peerconf.BackendBadger:
		db, err := store.NewDefaultKVStore(config.RootDir, config.PeerList.DBPath, peersDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to open peer database: %w", err)
		}
		backend = peerlist.NewDatastoreBackend(db, logger)
	case peerconf.BackendFile:
		backend = peerlist.NewFileBackend(
			config.PeerListPath(),
			logger,
			peerlist.WithLockRetry(config.PeerList.LockRetry.Duration),
			peerlist.WithLockTimeout(config.PeerList.LockTimeout.Duration),
		)
	default:
		return nil, fmt.Errorf("unknown backend %q", config.PeerList.Backend)
	}

	return peerlist.NewStore(backend, logger, metrics), nil
}

// withStore loads the config, opens the store, runs fn and releases
// everything afterwards. Metrics are flushed to the configured textfile
// even when fn fails.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s peerlist.Store) error) (err error) {
	config, err := ParseConfig(cmd)
	if err != nil {
		return err
	}
	logger := SetupLogger(config.Log)

	metrics := peerlist.NopMetrics()
	var registry *prometheus.Registry
	if config.Instrumentation.IsMetricsEnabled() {
		registry = prometheus.NewRegistry()
		metrics = peerlist.PrometheusMetrics(registry, config.Instrumentation.Namespace, "backend", config.PeerList.Backend)
	}

	s, err := NewStore(config, logger, metrics)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
		if registry != nil {
			err = errors.Join(err, WriteMetrics(config.Instrumentation.MetricsFile, registry))
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}
