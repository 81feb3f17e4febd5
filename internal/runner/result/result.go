// Package result defines the finalized record describing one execution.
package result

// RunResult captures the outcome of running one candidate program
// against one test input. It is populated exactly once per execution
// and never mutated after the engine returns it.
//
// Termination cause: exactly one of {ExitCode non-nil, Signal non-empty,
// TimedOut} is the primary cause, except that a timeout which kills the
// process also records the kill signal.
type RunResult struct {
	// Stdout holds captured standard output, or the contents of the
	// designated output file when file-capture mode is active.
	Stdout string `json:"stdout"`
	// Stderr holds captured standard error, always stream-captured.
	Stderr string `json:"stderr"`
	// ExitCode is nil when the process did not exit normally.
	ExitCode *int `json:"exit_code"`
	// Signal names the terminating signal ("SIGKILL", ...) or, for a
	// spawn failure, the failure category ("ENOENT", ...).
	Signal string `json:"signal,omitempty"`
	// TimeMs is the wall-clock delta from launch to exit.
	TimeMs int64 `json:"time_ms"`
	// TimedOut reports that the deadline guard expired and killed the
	// process.
	TimedOut bool `json:"timed_out"`
}

// Exited reports whether the process exited on its own with a code.
func (r RunResult) Exited() bool {
	return r.ExitCode != nil
}

// Killed reports whether the process was terminated by a signal.
func (r RunResult) Killed() bool {
	return r.ExitCode == nil && r.Signal != ""
}
