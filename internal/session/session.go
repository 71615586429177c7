// Package session runs one canvas as a single event loop. Pointer events,
// playback controls, timer ticks and run completions are all turns on that
// loop, so the graph is never touched by two goroutines at once.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/metrics"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/playback"
	"github.com/algocanvas/algocanvas/internal/runner"
	"github.com/algocanvas/algocanvas/internal/templates"
)

// Errors returned by session operations.
var (
	ErrClosed        = errors.New("session closed")
	ErrRunInProgress = errors.New("a run is already in progress")
	ErrNotFound      = errors.New("session not found")
	ErrTooMany       = errors.New("too many sessions")
)

// Event types published for a session.
const (
	EventSnapshot = "snapshot"
	EventCanvas   = "canvas"
	EventStep     = "step"
	EventPlayback = "playback"
	EventRun      = "run"
	EventGraph    = "graph"
)

// DefaultAutoStartDelay is the pause between a successful run and the start
// of its playback.
const DefaultAutoStartDelay = 100 * time.Millisecond

const turnBuffer = 64

// Publisher receives every state change of a session.
type Publisher interface {
	Publish(sessionID, eventType string, payload any)
}

// Config is shared by every session a Manager creates.
type Config struct {
	Canvas         canvas.Options
	Speed          time.Duration
	Policy         playback.VisitedPolicy
	AutoStartDelay time.Duration
	Clock          playback.Clock
	Executor       runner.Executor
	Publisher      Publisher
	Log            *logrus.Logger
}

// Session owns the graph, the interaction controller, the scheduler and the
// run state of one canvas. Fields below the loop marker are only touched from
// the loop goroutine.
type Session struct {
	id        string
	cfg       Config
	createdAt time.Time
	log       *logrus.Entry

	turns    chan func()
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	lastActive atomic.Int64

	// loop-owned
	graph     *models.Graph
	ctrl      *canvas.Controller
	sched     *playback.Scheduler
	output    string
	hasError  bool
	pending   bool
	runSeq    uint64
	template  string
	source    string
	autoTimer playback.Timer
	autoGen   uint64
	updatedAt time.Time
}

// New creates a session. The caller must start Run.
func New(id string, cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = playback.RealClock()
	}

	if cfg.AutoStartDelay == 0 {
		cfg.AutoStartDelay = DefaultAutoStartDelay
	}

	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	now := time.Now()

	s := &Session{
		id:        id,
		cfg:       cfg,
		createdAt: now,
		log:       cfg.Log.WithField("session_id", id),
		turns:     make(chan func(), turnBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		graph:     models.NewGraph(),
		template:  templates.DefaultName,
		source:    templates.Source(templates.DefaultName),
		updatedAt: now,
	}

	s.ctrl = canvas.New(s.graph, cfg.Canvas)
	s.sched = playback.NewScheduler(s.graph, playback.Options{
		Speed:    cfg.Speed,
		Policy:   cfg.Policy,
		Clock:    cfg.Clock,
		Dispatch: s.dispatch,
		Observer: s.onStep,
		OnStop:   s.onPlaybackStop,
	})
	s.lastActive.Store(now.UnixNano())

	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastActive returns the time of the most recent operation.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Done is closed when the loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run processes turns until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case <-s.stop:
			s.shutdown()
			return
		case turn := <-s.turns:
			turn()
		}
	}
}

// Close stops the loop. Pending timers are cancelled.
func (s *Session) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Session) shutdown() {
	s.cancelAutoStart()
	s.sched.Close()
	s.log.Debug("session loop stopped")
}

// do runs fn as a turn and waits for it to finish.
func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	turn := func() {
		defer close(finished)
		fn()
	}

	select {
	case s.turns <- turn:
	case <-s.done:
		return ErrClosed
	case <-s.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	s.lastActive.Store(time.Now().UnixNano())

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// dispatch routes a timer callback onto the loop.
func (s *Session) dispatch(f func()) {
	select {
	case s.turns <- f:
	case <-s.stop:
	case <-s.done:
	}
}

func (s *Session) publish(eventType string, payload any) {
	if s.cfg.Publisher == nil {
		return
	}

	s.cfg.Publisher.Publish(s.id, eventType, payload)
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

// StepPayload is published after every command application.
type StepPayload struct {
	Step     playback.StepEvent `json:"step"`
	Playback playback.Status    `json:"playback"`
	Graph    *models.GraphFile  `json:"graph"`
}

func (s *Session) onStep(ev playback.StepEvent) {
	metrics.PlaybackSteps.WithLabelValues(ev.Command.Kind.String(), boolLabel(ev.Applied)).Inc()

	if !ev.Applied {
		s.log.WithFields(logrus.Fields{
			"index":   ev.Index,
			"command": ev.Command.String(),
		}).Debug("command references a missing element, skipped")
	}

	s.touch()
	s.publish(EventStep, StepPayload{
		Step:     ev,
		Playback: s.sched.Snapshot(),
		Graph:    models.NewGraphFile(s.graph),
	})
}

func (s *Session) onPlaybackStop() {
	s.publish(EventPlayback, s.sched.Snapshot())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
