package constellation

// State is the outcome an Activity reports after Initialize or Process
// runs: whether it should be suspended, awaiting a future event, or has
// finished.
type State int

const (
	// Suspend parks the activity until an event addressed to it arrives.
	Suspend State = iota
	// Finish ends the activity's lifecycle; Cleanup runs next. The one
	// exception is Finish from Initialize of an activity submitted with
	// expectsEvents, which still waits for its first event and Process.
	Finish
)

func (s State) String() string {
	switch s {
	case Suspend:
		return "suspend"
	case Finish:
		return "finish"
	default:
		return "unknown"
	}
}

// Activity is implemented by user-defined units of work. Initialize runs
// exactly once, when the activity is first scheduled. Process runs once
// per subsequent reactivation, each time driven by the next event
// addressed to the activity. Cleanup runs exactly once, after the final
// Initialize or Process call reports Finish.
//
// Implementations must not block on anything other than the supplied
// Handle; a blocked Activity call blocks its executor goroutine and,
// transitively, every activity resident on that worker.
type Activity interface {
	Initialize(h Handle, id Identifier) State
	Process(h Handle, event *Event, id Identifier) State
	Cleanup(h Handle)
}

// ActivityRecord binds a submitted Activity to its identifier and
// scheduling metadata. It is the unit the scheduler moves between a
// worker's runnable map, its suspended map, and an in-flight executor
// call.
type ActivityRecord struct {
	ID            Identifier
	RunContext    string
	MayBeStolen   bool
	ExpectsEvents bool

	activity Activity
}

func newActivityRecord(id Identifier, runContext string, activity Activity, mayBeStolen, expectsEvents bool) *ActivityRecord {
	return &ActivityRecord{
		ID:            id,
		RunContext:    runContext,
		MayBeStolen:   mayBeStolen,
		ExpectsEvents: expectsEvents,
		activity:      activity,
	}
}
