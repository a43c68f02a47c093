package constellation

import (
	"time"

	"github.com/constellation-go/constellation/metrics"
	"github.com/constellation-go/constellation/transport"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Option configures a Config.
type Option func(*Config)

// WithWorkerCount sets the number of executor goroutines.
func WithWorkerCount(n uint) Option {
	return func(c *Config) { c.WorkerCount = n }
}

// WithNodeCount sets the declared cluster size.
func WithNodeCount(n uint) Option {
	return func(c *Config) { c.NodeCount = n }
}

// WithLocalStealStrategy sets the local candidate-selection bias.
func WithLocalStealStrategy(s StealStrategy) Option {
	return func(c *Config) { c.LocalStealStrategy = s }
}

// WithRemoteStealStrategy sets the cross-node candidate-selection bias.
func WithRemoteStealStrategy(s StealStrategy) Option {
	return func(c *Config) { c.RemoteStealStrategy = s }
}

// WithContexts restricts accepted run contexts to the given set.
func WithContexts(contexts ...string) Option {
	return func(c *Config) {
		set := make(map[string]struct{}, len(contexts))
		for _, rc := range contexts {
			set[rc] = struct{}{}
		}
		c.Contexts = set
	}
}

// WithPollInterval sets the coordinator/executor idle wait.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

// WithDebug enables trace-level activity lifecycle logging.
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

// WithMetrics overrides the default no-op metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Config) { c.Metrics = r }
}

// WithTransport overrides the default single-node transport.
func WithTransport(t transport.Transport) Option {
	return func(c *Config) { c.Transport = t }
}

// WithLogger overrides the default stumpy-backed logger.
func WithLogger(l *logiface.Logger[*stumpy.Event]) Option {
	return func(c *Config) { c.Logger = l }
}

// NewConfig builds a validated Config from defaults plus the given
// options.
func NewConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
