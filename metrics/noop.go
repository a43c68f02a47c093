package metrics

// NoopRecorder discards every measurement. Useful as the default
// recorder. All methods are safe for concurrent use and perform no work.
type NoopRecorder struct{}

// NewNoopRecorder constructs a Recorder that discards all measurements.
func NewNoopRecorder() NoopRecorder { return NoopRecorder{} }

func (NoopRecorder) ActivitySubmitted()           {}
func (NoopRecorder) ActivitySuspended()           {}
func (NoopRecorder) ActivityFinished()            {}
func (NoopRecorder) EventRouted()                 {}
func (NoopRecorder) EventParked()                 {}
func (NoopRecorder) RunnableDepth(_ int, _ int64) {}
func (NoopRecorder) PollDuration(_ float64)       {}
