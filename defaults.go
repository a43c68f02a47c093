package constellation

import (
	"fmt"
	"time"

	"github.com/constellation-go/constellation/metrics"
	"github.com/constellation-go/constellation/transport/localtransport"
)

func defaultConfig() Config {
	return Config{
		WorkerCount:         1,
		LocalStealStrategy:  StealSmallest,
		RemoteStealStrategy: StealSmallest,
		NodeCount:           1,
		Contexts:            nil,
		PollInterval:        time.Millisecond,
		Debug:               false,
		Metrics:             metrics.NewNoopRecorder(),
		Transport:           nil, // filled in by NewConfig from NodeCount if left nil
		Logger:              nil, // lazily built by newSchedulerLogger if left nil
	}
}

func validateConfig(cfg *Config) error {
	if cfg.WorkerCount == 0 {
		return fmt.Errorf("constellation: WorkerCount must be >= 1")
	}
	if cfg.NodeCount == 0 {
		return fmt.Errorf("constellation: NodeCount must be >= 1")
	}
	if cfg.Transport == nil {
		cfg.Transport = localtransport.New(int(cfg.NodeCount))
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("constellation: PollInterval must be positive")
	}
	if cfg.Metrics == nil {
		return fmt.Errorf("constellation: Metrics must not be nil")
	}
	return nil
}
