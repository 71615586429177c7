package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/algocanvas/algocanvas/internal/playback/playbacktest"
	"github.com/algocanvas/algocanvas/internal/runner"
	"github.com/algocanvas/algocanvas/internal/session"
)

const testSpeed = 200 * time.Millisecond

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

type mockExecutor struct {
	executeFn func(ctx context.Context, program string) (runner.Result, error)
}

func (m *mockExecutor) Execute(ctx context.Context, program string) (runner.Result, error) {
	return m.executeFn(ctx, program)
}

// stdoutExecutor returns a fixed stdout and records the last program.
func stdoutExecutor(stdout string, program *string) *mockExecutor {
	var mu sync.Mutex

	return &mockExecutor{executeFn: func(_ context.Context, p string) (runner.Result, error) {
		mu.Lock()
		defer mu.Unlock()

		if program != nil {
			*program = p
		}

		return runner.Result{Stdout: stdout}, nil
	}}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_, eventType string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}

	return n
}

type fixture struct {
	s     *session.Session
	clock *playbacktest.ManualClock
	pub   *recordingPublisher
}

func newFixture(t *testing.T, exec runner.Executor) *fixture {
	t.Helper()

	clock := playbacktest.NewManualClock()
	pub := &recordingPublisher{}
	s := session.New("test-session", session.Config{
		Speed:     testSpeed,
		Clock:     clock,
		Executor:  exec,
		Publisher: pub,
		Log:       testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})

	return &fixture{s: s, clock: clock, pub: pub}
}

// advance moves the clock and waits for the loop to process the resulting turns.
func (f *fixture) advance(t *testing.T, d time.Duration) session.View {
	t.Helper()

	f.clock.Advance(d)

	return f.snapshot(t)
}

func (f *fixture) snapshot(t *testing.T) session.View {
	t.Helper()

	v, err := f.s.Snapshot(context.Background())
	require.NoError(t, err)

	return v
}
