package session

import (
	"context"
	"time"

	"github.com/algocanvas/algocanvas/internal/playback"
)

// Play starts or resumes playback.
func (s *Session) Play(ctx context.Context) (playback.Status, error) {
	return s.playbackTurn(ctx, func() { s.sched.Play() })
}

// Pause stops playback at the current step.
func (s *Session) Pause(ctx context.Context) (playback.Status, error) {
	return s.playbackTurn(ctx, s.sched.Pause)
}

// StepForward applies exactly one command.
func (s *Session) StepForward(ctx context.Context) (playback.Status, error) {
	return s.playbackTurn(ctx, func() { s.sched.StepForward() })
}

// ResetPlayback clears all playback colors and rewinds.
func (s *Session) ResetPlayback(ctx context.Context) (playback.Status, error) {
	return s.playbackTurn(ctx, s.sched.Reset)
}

// SetSpeed changes the delay between steps. It is clamped to the allowed
// range and takes effect at the next step.
func (s *Session) SetSpeed(ctx context.Context, d time.Duration) (playback.Status, error) {
	var st playback.Status

	err := s.do(ctx, func() {
		s.sched.SetSpeed(d)
		st = s.sched.Snapshot()
		s.publish(EventPlayback, st)
	})

	return st, err
}

func (s *Session) playbackTurn(ctx context.Context, fn func()) (playback.Status, error) {
	var st playback.Status

	err := s.do(ctx, func() {
		s.cancelAutoStart()
		fn()
		s.touch()

		st = s.sched.Snapshot()
		s.publish(EventPlayback, st)
	})

	return st, err
}

// scheduleAutoStart starts playback after the configured delay unless a
// newer turn cancels it first.
func (s *Session) scheduleAutoStart() {
	s.cancelAutoStart()

	gen := s.autoGen
	s.autoTimer = s.cfg.Clock.AfterFunc(s.cfg.AutoStartDelay, func() {
		s.dispatch(func() {
			if gen != s.autoGen {
				return
			}

			s.autoTimer = nil
			s.sched.Play()
			s.publish(EventPlayback, s.sched.Snapshot())
		})
	})
}

func (s *Session) cancelAutoStart() {
	s.autoGen++

	if s.autoTimer != nil {
		s.autoTimer.Stop()
		s.autoTimer = nil
	}
}
