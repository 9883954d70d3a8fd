// Package tryit simulates running the learner's "try it" snippet. Nothing
// is executed: a run waits a fixed delay and then reveals the lesson's
// pre-authored output.
package tryit

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultDelay is how long a simulated run takes.
const DefaultDelay = time.Second

// RunningText is shown while a run is pending.
const RunningText = "Running code..."

// Phase is the state of a Runner.
type Phase int

const (
	Idle Phase = iota
	Running
)

func (p Phase) String() string {
	if p == Running {
		return "running"
	}
	return "idle"
}

// FinishedMsg is delivered when a run's delay elapses.
type FinishedMsg struct {
	RunID    int
	LessonID string
}

// Runner tracks one try-it panel. The zero value is not usable; use New.
type Runner struct {
	delay     time.Duration
	lessonID  string
	simulated string
	output    string
	phase     Phase
	runID     int
	cancel    context.CancelFunc
}

// New returns an idle Runner. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Runner {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Runner{delay: delay}
}

// Load points the runner at a lesson. Any pending run is cancelled and the
// output cleared.
func (r *Runner) Load(lessonID, simulatedOutput string) {
	r.Cancel()
	r.lessonID = lessonID
	r.simulated = simulatedOutput
	r.output = ""
}

// LessonID returns the lesson the runner is loaded with.
func (r *Runner) LessonID() string { return r.lessonID }

// Phase returns the current phase.
func (r *Runner) Phase() Phase { return r.phase }

// Output returns the text for the output window. Empty means no window.
func (r *Runner) Output() string { return r.output }

// IsError reports whether the output should be styled as an error.
func (r *Runner) IsError() bool { return IsErrorOutput(r.output) }

// IsErrorOutput reports whether output reads as a failed run.
func IsErrorOutput(output string) bool {
	return strings.Contains(output, "Error")
}

// Start begins a run. Starting while a run is pending does nothing.
func (r *Runner) Start() tea.Cmd {
	if r.phase == Running {
		return nil
	}
	r.phase = Running
	r.output = RunningText
	r.runID++

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	return wait(ctx, r.delay, r.runID, r.lessonID)
}

// Reset clears the output and abandons any pending run.
func (r *Runner) Reset() {
	r.Cancel()
	r.output = ""
}

// Cancel abandons a pending run. The run's timer is released and it will
// produce no message.
func (r *Runner) Cancel() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.phase == Running {
		r.output = ""
	}
	r.phase = Idle
}

// Finish handles a FinishedMsg. It reports true when the message belongs to
// the pending run, in which case the simulated output is now shown and the
// lesson should be marked completed. Stale messages are ignored.
func (r *Runner) Finish(msg FinishedMsg) bool {
	if r.phase != Running || msg.RunID != r.runID || msg.LessonID != r.lessonID {
		return false
	}
	r.phase = Idle
	r.output = r.simulated
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return true
}

func wait(ctx context.Context, d time.Duration, runID int, lessonID string) tea.Cmd {
	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return FinishedMsg{RunID: runID, LessonID: lessonID}
		case <-ctx.Done():
			return nil
		}
	}
}
