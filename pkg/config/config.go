package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Base configuration flags

	// FlagRootDir is a flag for specifying the root directory
	FlagRootDir = "home"

	// Peer list configuration flags

	// FlagFile is a flag for specifying the peer list file
	FlagFile = "peerlist.file"
	// FlagBackend is a flag for selecting the storage backend
	FlagBackend = "peerlist.backend"
	// FlagDBPath is a flag for specifying the database path used by the badger backend
	FlagDBPath = "peerlist.db_path"
	// FlagLockRetry is a flag for specifying how often a contended lock is retried
	FlagLockRetry = "peerlist.lock_retry"
	// FlagLockTimeout is a flag for bounding how long to wait for the peer list lock
	FlagLockTimeout = "peerlist.lock_timeout"

	// Logging configuration flags

	// FlagLogLevel is a flag for specifying the log level
	FlagLogLevel = "log.level"
	// FlagLogFormat is a flag for specifying the log format
	FlagLogFormat = "log.format"

	// Instrumentation configuration flags

	// FlagMetricsFile is a flag for specifying the Prometheus textfile to write metrics to
	FlagMetricsFile = "instrumentation.metrics_file"
	// FlagMetricsNamespace is a flag for specifying the metrics namespace
	FlagMetricsNamespace = "instrumentation.namespace"
)

const (
	// BackendFile stores the list as a plain text file.
	BackendFile = "file"
	// BackendBadger stores the list in a badger datastore.
	BackendBadger = "badger"
)

// DurationWrapper is a wrapper for time.Duration that implements encoding.TextMarshaler and encoding.TextUnmarshaler
// needed for YAML marshalling/unmarshalling especially for time.Duration
type DurationWrapper struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler to format the duration as text
func (d DurationWrapper) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler to parse the duration from text
func (d *DurationWrapper) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config stores peerlist configuration.
type Config struct {
	// Base configuration
	RootDir string `mapstructure:"-" yaml:"-" comment:"Root directory where peerlist files are located"`

	// Peer list storage configuration
	PeerList PeerListConfig `mapstructure:"peerlist" yaml:"peerlist"`

	// Logging configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Instrumentation configuration
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

// PeerListConfig contains the peer list storage parameters
type PeerListConfig struct {
	File        string          `mapstructure:"file" yaml:"file" comment:"Path of the peer list file. Relative paths are resolved against the root directory."`
	Backend     string          `mapstructure:"backend" yaml:"backend" comment:"Storage backend (file, badger). The file backend keeps one address per line."`
	DBPath      string          `mapstructure:"db_path" yaml:"db_path" comment:"Directory of the badger database, used only by the badger backend."`
	LockRetry   DurationWrapper `mapstructure:"lock_retry" yaml:"lock_retry" comment:"Interval between attempts to take the peer list lock while another process holds it. Examples: \"10ms\", \"100ms\"."`
	LockTimeout DurationWrapper `mapstructure:"lock_timeout" yaml:"lock_timeout" comment:"Maximum time to wait for the peer list lock. Use 0 to wait indefinitely."`
}

// LogConfig contains all logging configuration parameters
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" comment:"Log level (debug, info, warn, error)"`
	Format string `mapstructure:"format" yaml:"format" comment:"Log format (text, json)"`
}

// AddGlobalFlags registers the flags that are common to every command.
// This includes logging configuration and the root directory.
func AddGlobalFlags(cmd *cobra.Command) {
	def := DefaultConfig

	cmd.PersistentFlags().String(FlagRootDir, def.RootDir, "Root directory for peerlist data and configuration")
	cmd.PersistentFlags().String(FlagLogLevel, def.Log.Level, "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(FlagLogFormat, def.Log.Format, "Set the log format (text, json)")
}

// AddFlags adds peer list storage options to cobra Command.
func AddFlags(cmd *cobra.Command) {
	def := DefaultConfig

	cmd.Flags().String(FlagFile, def.PeerList.File, "peer list file")
	cmd.Flags().String(FlagBackend, def.PeerList.Backend, "storage backend (file, badger)")
	cmd.Flags().String(FlagDBPath, def.PeerList.DBPath, "badger database directory")
	cmd.Flags().Duration(FlagLockRetry, def.PeerList.LockRetry.Duration, "retry interval while the peer list lock is held elsewhere")
	cmd.Flags().Duration(FlagLockTimeout, def.PeerList.LockTimeout.Duration, "maximum wait for the peer list lock (0 waits forever)")

	instrDef := DefaultInstrumentationConfig()
	cmd.Flags().String(FlagMetricsFile, instrDef.MetricsFile, "write Prometheus metrics to this textfile after each command")
	cmd.Flags().String(FlagMetricsNamespace, instrDef.Namespace, "namespace of the exported metrics")
}

// PeerListPath returns the peer list file location resolved against RootDir.
func (c Config) PeerListPath() string {
	if filepath.IsAbs(c.PeerList.File) {
		return c.PeerList.File
	}
	return filepath.Join(c.RootDir, c.PeerList.File)
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.PeerList.File == "" {
		return errors.New("peer list file cannot be empty")
	}

	switch c.PeerList.Backend {
	case BackendFile:
	case BackendBadger:
		if c.PeerList.DBPath == "" {
			return errors.New("db path cannot be empty for the badger backend")
		}
	default:
		return fmt.Errorf("unknown backend %q, expected %s or %s", c.PeerList.Backend, BackendFile, BackendBadger)
	}

	if c.PeerList.LockRetry.Duration < 0 || c.PeerList.LockTimeout.Duration < 0 {
		return errors.New("lock durations cannot be negative")
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q, expected text or json", c.Log.Format)
	}

	return c.Instrumentation.ValidateBasic()
}

// Load loads the configuration in the following order of precedence:
// 1. DefaultConfig (lowest priority)
// 2. YAML configuration file in the root directory
// 3. Command line flags (highest priority)
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	config := DefaultConfig

	home, _ := cmd.Flags().GetString(FlagRootDir)
	if home != "" {
		config.RootDir = home
	}

	// SetConfigFile rather than a name search, which would also match an
	// extensionless file such as the peerlist binary itself.
	configPath := filepath.Join(config.RootDir, ConfigName)
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("error reading YAML configuration: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("error reading YAML configuration: %w", err)
	}

	var flagErrs error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == FlagRootDir {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			flagErrs = multierror.Append(flagErrs, err)
		}
	})
	if flagErrs != nil {
		return config, fmt.Errorf("unable to bind flags: %w", flagErrs)
	}

	if err := v.Unmarshal(&config, func(c *mapstructure.DecoderConfig) {
		c.TagName = "mapstructure"
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			func(f reflect.Type, t reflect.Type, data any) (any, error) {
				if t == reflect.TypeOf(DurationWrapper{}) && f.Kind() == reflect.String {
					if str, ok := data.(string); ok {
						duration, err := time.ParseDuration(str)
						if err != nil {
							return nil, err
						}
						return DurationWrapper{Duration: duration}, nil
					}
				}
				return data, nil
			},
		)
	}); err != nil {
		return config, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}
