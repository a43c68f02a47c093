// Package constellation implements a lightweight, single-process
// activity-based concurrency scheduler. User work is expressed as
// Activity implementations, submitted to a Constellation, and driven to
// completion across a fixed pool of executor goroutines that exchange
// point-to-point Events. Activities cooperate rather than preempt one
// another: Initialize and Process run to completion, or suspend, never
// interleave.
package constellation
