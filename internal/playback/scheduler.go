package playback

import (
	"fmt"
	"time"

	"github.com/algocanvas/algocanvas/internal/models"
)

// Speed bounds for the delay between two steps.
const (
	MinSpeed     = 100 * time.Millisecond
	MaxSpeed     = 2000 * time.Millisecond
	DefaultSpeed = 500 * time.Millisecond
)

// ClampSpeed limits d to [MinSpeed, MaxSpeed].
func ClampSpeed(d time.Duration) time.Duration {
	switch {
	case d < MinSpeed:
		return MinSpeed
	case d > MaxSpeed:
		return MaxSpeed
	default:
		return d
	}
}

// State is the playback phase, derived from the cursor and the running flag.
type State int

// Playback states.
const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateFinished
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateRunning:  "running",
	StatePaused:   "paused",
	StateFinished: "finished",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}

	return fmt.Errorf("unknown playback state %q", string(b))
}

// Status is a read-only view of the scheduler.
type Status struct {
	State       State  `json:"state"`
	Cursor      int    `json:"cursor"`
	Total       int    `json:"total"`
	SpeedMS     int64  `json:"speed_ms"`
	Running     bool   `json:"running"`
	Description string `json:"description"`
}

// StepEvent reports one command application. Applied is false when the
// command referenced something missing from the graph.
type StepEvent struct {
	Index   int            `json:"index"`
	Command models.Command `json:"command"`
	Applied bool           `json:"applied"`
}

// Observer is notified after every command application.
type Observer func(StepEvent)

// Options configures a Scheduler. Zero values select the defaults.
type Options struct {
	Speed    time.Duration
	Policy   VisitedPolicy
	Clock    Clock
	Dispatch Dispatcher
	Observer Observer
	// OnStop is called when a running playback stops on its own after the
	// last command.
	OnStop func()
}

// Scheduler steps through a command list on a timer. At most one timer is
// outstanding; every cancellation bumps a generation token so a callback that
// was already in flight is discarded.
//
// Scheduler is not safe for concurrent use. Its owner must serialise calls and
// route timer callbacks through Options.Dispatch.
type Scheduler struct {
	graph *models.Graph
	opts  Options

	cmds        []models.Command
	cursor      int
	running     bool
	speed       time.Duration
	description string

	timer  Timer
	gen    uint64
	closed bool
}

// NewScheduler creates an idle scheduler over g.
func NewScheduler(g *models.Graph, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}

	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { f() }
	}

	speed := DefaultSpeed
	if opts.Speed != 0 {
		speed = ClampSpeed(opts.Speed)
	}

	return &Scheduler{graph: g, opts: opts, speed: speed, cmds: []models.Command{}}
}

// Load replaces the command list and resets playback.
func (s *Scheduler) Load(cmds []models.Command) {
	s.Reset()
	s.cmds = append([]models.Command(nil), cmds...)
}

// Commands returns a copy of the loaded commands.
func (s *Scheduler) Commands() []models.Command {
	return append([]models.Command{}, s.cmds...)
}

// Play starts or resumes stepping. A finished playback restarts from the
// beginning. It reports whether playback is running afterwards.
func (s *Scheduler) Play() bool {
	if s.closed || len(s.cmds) == 0 {
		return false
	}

	if s.cursor >= len(s.cmds) {
		s.Reset()
	}

	if s.running {
		return true
	}

	s.cancel()
	s.running = true
	s.advance()

	return s.running
}

// Pause stops stepping and keeps the cursor.
func (s *Scheduler) Pause() {
	s.cancel()
	s.running = false
}

// StepForward pauses and applies exactly one command. It reports false when
// there is nothing left to apply.
func (s *Scheduler) StepForward() bool {
	s.Pause()

	if s.closed || s.cursor >= len(s.cmds) {
		return false
	}

	s.applyNext()

	return true
}

// Reset stops stepping, clears every color and animating flag and rewinds
// the cursor.
func (s *Scheduler) Reset() {
	s.Pause()
	s.graph.ResetVisual()
	s.cursor = 0
	s.description = ""
}

// SetSpeed changes the delay between steps. A step that is already scheduled
// keeps its delay.
func (s *Scheduler) SetSpeed(d time.Duration) time.Duration {
	s.speed = ClampSpeed(d)
	return s.speed
}

// Speed returns the delay between steps.
func (s *Scheduler) Speed() time.Duration { return s.speed }

// Close cancels any outstanding timer. A closed scheduler never steps again.
func (s *Scheduler) Close() {
	s.Pause()
	s.closed = true
}

// Snapshot returns the current status.
func (s *Scheduler) Snapshot() Status {
	return Status{
		State:       s.state(),
		Cursor:      s.cursor,
		Total:       len(s.cmds),
		SpeedMS:     s.speed.Milliseconds(),
		Running:     s.running,
		Description: s.description,
	}
}

func (s *Scheduler) state() State {
	switch {
	case s.running:
		return StateRunning
	case len(s.cmds) > 0 && s.cursor >= len(s.cmds):
		return StateFinished
	case s.cursor == 0:
		return StateIdle
	default:
		return StatePaused
	}
}

// advance applies the command at the cursor and schedules the next one.
func (s *Scheduler) advance() {
	s.applyNext()

	if s.cursor >= len(s.cmds) {
		s.running = false

		if s.opts.OnStop != nil {
			s.opts.OnStop()
		}

		return
	}

	gen := s.gen
	s.timer = s.opts.Clock.AfterFunc(s.speed, func() {
		s.opts.Dispatch(func() { s.tick(gen) })
	})
}

func (s *Scheduler) tick(gen uint64) {
	if gen != s.gen || !s.running || s.closed {
		return
	}

	s.timer = nil
	s.advance()
}

func (s *Scheduler) applyNext() {
	idx := s.cursor
	cmd := s.cmds[idx]

	applied := Apply(s.graph, cmd, s.opts.Policy)
	s.cursor++
	s.description = cmd.Description

	if s.opts.Observer != nil {
		s.opts.Observer(StepEvent{Index: idx, Command: cmd, Applied: applied})
	}
}

func (s *Scheduler) cancel() {
	s.gen++

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
