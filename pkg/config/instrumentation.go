package config

import "errors"

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// MetricsFile is where metrics are written in the Prometheus text
	// format after every command, for a node exporter textfile collector.
	// Empty disables metrics.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" comment:"Write Prometheus metrics to this file after each command (node exporter textfile format). Empty disables metrics."`

	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" yaml:"namespace" comment:"Namespace prefixed to every metric name."`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() InstrumentationConfig {
	return InstrumentationConfig{
		MetricsFile: "",
		Namespace:   "peerlist",
	}
}

// ValidateBasic performs basic validation.
func (cfg InstrumentationConfig) ValidateBasic() error {
	if cfg.IsMetricsEnabled() && cfg.Namespace == "" {
		return errors.New("namespace cannot be empty when metrics are enabled")
	}
	return nil
}

// IsMetricsEnabled returns true if metrics should be written.
func (cfg InstrumentationConfig) IsMetricsEnabled() bool {
	return cfg.MetricsFile != ""
}
