package bootstrap

import (
	"log/slog"

	"github.com/target/timeclock/config"
	"github.com/target/timeclock/internal/observability/statsd"
)

// BuildMetrics returns the StatsD sink, or nil when metrics are disabled or
// the sink cannot be reached. The returned func closes the sink.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (statsd.Sink, func() error) {
	noop := func() error { return nil }
	if !cfg.IsEnabled() {
		return nil, noop
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil, noop
	}
	return client, client.Close
}
