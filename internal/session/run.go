package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/adjacency"
	"github.com/algocanvas/algocanvas/internal/metrics"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/protocol"
	"github.com/algocanvas/algocanvas/internal/runner"
	"github.com/algocanvas/algocanvas/internal/templates"
)

// ExecutionErrorPrefix starts the output of a run that could not execute.
const ExecutionErrorPrefix = "Error executing Python code:\n"

// RunView is the output side of a session.
type RunView struct {
	Output   string           `json:"output"`
	HasError bool             `json:"has_error"`
	Pending  bool             `json:"pending"`
	Template string           `json:"template"`
	Source   string           `json:"source"`
	Commands []models.Command `json:"commands"`
}

// RunAlgorithm executes source against a snapshot of the current graph. The
// adjacency is captured before the executor is called, so edits made while
// the run is pending do not change what the algorithm sees. Only one run may
// be pending at a time.
func (s *Session) RunAlgorithm(ctx context.Context, source string) (RunView, error) {
	return s.run(ctx, func() string { return source })
}

// RunTemplate switches to the named template and runs it, or runs source
// under that template name when source is not blank. A rejected run leaves
// the template untouched.
func (s *Session) RunTemplate(ctx context.Context, name, source string) (RunView, error) {
	return s.run(ctx, func() string {
		s.template = name
		if strings.TrimSpace(source) == "" {
			return templates.Source(name)
		}

		return source
	})
}

// run starts a run in one turn: the pending check and resolve happen
// together, so a rejected run mutates nothing.
func (s *Session) run(ctx context.Context, resolve func() string) (RunView, error) {
	if s.cfg.Executor == nil {
		return RunView{}, fmt.Errorf("no executor configured")
	}

	var (
		program string
		seq     uint64
		busy    bool
	)

	err := s.do(ctx, func() {
		if s.pending {
			busy = true
			return
		}

		source := resolve()

		s.cancelAutoStart()
		s.sched.Load(nil)
		s.output = ""
		s.hasError = false
		s.pending = true
		s.source = source
		s.runSeq++
		seq = s.runSeq

		adj := adjacency.FromGraph(s.graph.Nodes, s.graph.Edges)
		program = runner.BuildProgram(protocol.Preamble, source, adjacency.Encode(adj))

		s.log.WithFields(logrus.Fields{
			"run":      seq,
			"template": s.template,
			"nodes":    len(s.graph.Nodes),
			"edges":    len(s.graph.Edges),
		}).Info("algorithm run started")

		s.publish(EventRun, s.runView())
	})
	if err != nil {
		return RunView{}, err
	}

	if busy {
		return RunView{}, ErrRunInProgress
	}

	res, execErr := s.cfg.Executor.Execute(ctx, program)

	var view RunView

	// The completion must land even if the caller went away, or the session
	// would stay pending forever.
	err = s.do(context.Background(), func() {
		s.completeRun(seq, res, execErr)
		view = s.runView()
	})

	return view, err
}

func (s *Session) completeRun(seq uint64, res runner.Result, execErr error) {
	if seq != s.runSeq {
		return
	}

	s.pending = false
	s.touch()

	fields := logrus.Fields{"run": seq, "duration_ms": res.Duration.Milliseconds()}

	switch {
	case execErr != nil:
		s.hasError = true
		s.output = ExecutionErrorPrefix + execErr.Error()
		s.log.WithFields(fields).WithError(execErr).Warn("algorithm run could not execute")
	case res.Failed:
		s.hasError = true
		s.output = res.Output()
		s.log.WithFields(fields).WithField("exit_code", res.ExitCode).Info("algorithm run failed")
	default:
		cmds := protocol.Extract(res.Stdout)
		s.output = res.Output()
		s.sched.Load(cmds)
		metrics.CommandsExtracted.Observe(float64(len(cmds)))

		fields["commands"] = len(cmds)
		s.log.WithFields(fields).Info("algorithm run finished")

		if len(cmds) > 0 {
			s.scheduleAutoStart()
		}
	}

	s.publish(EventRun, s.runView())
}

// SelectTemplate switches to the named template, clearing playback and
// output. Unknown names yield the placeholder source. It fails with
// ErrRunInProgress while a run is pending.
func (s *Session) SelectTemplate(ctx context.Context, name string) (RunView, error) {
	var (
		view RunView
		busy bool
	)

	err := s.do(ctx, func() {
		if s.pending {
			busy = true
			return
		}

		s.cancelAutoStart()
		s.sched.Load(nil)
		s.template = name
		s.source = templates.Source(name)
		s.output = ""
		s.hasError = false
		s.touch()

		view = s.runView()
		s.publish(EventRun, view)
	})
	if err == nil && busy {
		err = ErrRunInProgress
	}

	return view, err
}

func (s *Session) runView() RunView {
	return RunView{
		Output:   s.output,
		HasError: s.hasError,
		Pending:  s.pending,
		Template: s.template,
		Source:   s.source,
		Commands: s.sched.Commands(),
	}
}
