package constellation

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func defaultLogger(debug bool) *logiface.Logger[*stumpy.Event] {
	level := logiface.LevelInformational
	if debug {
		level = logiface.LevelTrace
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(level),
	)
}

// schedulerLogger adapts a raw logiface logger to the scheduler's
// handful of trace call sites: activity lifecycle transitions, worker
// assignment, event routing/parking, and shutdown.
type schedulerLogger struct {
	log   *logiface.Logger[*stumpy.Event]
	debug bool
}

func newSchedulerLogger(l *logiface.Logger[*stumpy.Event], debug bool) *schedulerLogger {
	if l == nil {
		l = defaultLogger(debug)
	}
	return &schedulerLogger{log: l, debug: debug}
}

// activityTransition traces Initialize/Process/suspend/cleanup; it is the
// noisiest call site, so it is gated on Debug.
func (s *schedulerLogger) activityTransition(id Identifier, transition string) {
	if !s.debug {
		return
	}
	s.log.Trace().Str(`activity`, id.String()).Str(`transition`, transition).Log(`activity lifecycle transition`)
}

func (s *schedulerLogger) activityAssigned(id Identifier, worker int) {
	s.log.Debug().Str(`activity`, id.String()).Int64(`worker`, int64(worker)).Log(`activity assigned to worker`)
}

func (s *schedulerLogger) eventRouted(dst Identifier, worker int) {
	s.log.Debug().Str(`destination`, dst.String()).Int64(`worker`, int64(worker)).Log(`event routed`)
}

func (s *schedulerLogger) eventParked(dst Identifier) {
	s.log.Debug().Str(`destination`, dst.String()).Log(`event parked, destination not yet runnable`)
}

func (s *schedulerLogger) shutdownRequested() {
	s.log.Info().Log(`shutdown requested`)
}

func (s *schedulerLogger) terminated() {
	s.log.Info().Log(`constellation terminated`)
}

func (s *schedulerLogger) internalFault(err error) {
	s.log.Err().Err(err).Log(`internal fault`)
}
