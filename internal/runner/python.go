package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/algocanvas/algocanvas/internal/metrics"
)

// Defaults for PythonExecutor.
const (
	DefaultBinary     = "python3"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRuns    = 4
	DefaultOutputSize = 4 << 20 // 4 MB per stream
)

const tracerName = "github.com/algocanvas/algocanvas/internal/runner"

// PythonExecutor runs programs by piping them into "<binary> -". Concurrent
// runs across all sessions are bounded by a weighted semaphore.
type PythonExecutor struct {
	binary     string
	args       []string
	timeout    time.Duration
	outputSize int
	sem        *semaphore.Weighted
	tracer     trace.Tracer
	log        *logrus.Logger
}

// Option configures a PythonExecutor.
type Option func(*PythonExecutor)

// WithBinary sets the interpreter. Programs are passed on stdin as "-".
func WithBinary(bin string) Option {
	return func(e *PythonExecutor) { e.binary = bin }
}

// WithTimeout bounds the wall time of a single run.
func WithTimeout(d time.Duration) Option {
	return func(e *PythonExecutor) { e.timeout = d }
}

// WithMaxRuns bounds the number of concurrent runs.
func WithMaxRuns(n int) Option {
	return func(e *PythonExecutor) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithOutputLimit caps the bytes captured from each output stream.
func WithOutputLimit(n int) Option {
	return func(e *PythonExecutor) { e.outputSize = n }
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *PythonExecutor) { e.tracer = t }
}

// NewPythonExecutor creates an executor with the given options.
func NewPythonExecutor(log *logrus.Logger, opts ...Option) *PythonExecutor {
	e := &PythonExecutor{
		binary:     DefaultBinary,
		args:       []string{"-"},
		timeout:    DefaultTimeout,
		outputSize: DefaultOutputSize,
		sem:        semaphore.NewWeighted(DefaultMaxRuns),
		log:        log,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}

	return e
}

// Execute implements Executor.
func (e *PythonExecutor) Execute(ctx context.Context, program string) (Result, error) {
	if strings.TrimSpace(program) == "" {
		return Result{}, ErrEmptyProgram
	}

	ctx, span := e.tracer.Start(ctx, "runner.execute", trace.WithAttributes(
		attribute.String("runner.binary", e.binary),
		attribute.Int("runner.program_bytes", len(program)),
	))
	defer span.End()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		span.SetStatus(codes.Error, "waiting for run slot")
		metrics.RunsTotal.WithLabelValues("cancelled").Inc()

		return Result{}, fmt.Errorf("waiting for run slot: %w", err)
	}
	defer e.sem.Release(1)

	res, err := e.run(ctx, program)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RunsTotal.WithLabelValues("error").Inc()

		return res, err
	}

	outcome := "ok"

	switch {
	case res.TimedOut:
		outcome = "timeout"
	case res.Failed:
		outcome = "failed"
	}

	span.SetAttributes(
		attribute.Int("runner.exit_code", res.ExitCode),
		attribute.Int("runner.stdout_bytes", len(res.Stdout)),
		attribute.Bool("runner.timed_out", res.TimedOut),
	)

	if res.Failed {
		span.SetStatus(codes.Error, outcome)
	}

	metrics.RunsTotal.WithLabelValues(outcome).Inc()
	metrics.RunDuration.Observe(res.Duration.Seconds())

	e.log.WithFields(logrus.Fields{
		"outcome":     outcome,
		"exit_code":   res.ExitCode,
		"duration_ms": res.Duration.Milliseconds(),
	}).Debug("program executed")

	return res, nil
}

func (e *PythonExecutor) run(ctx context.Context, program string) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	stdout := &limitedBuffer{max: e.outputSize}
	stderr := &limitedBuffer{max: e.outputSize}

	cmd := exec.CommandContext(runCtx, e.binary, e.args...) //nolint:gosec // binary comes from server config.
	cmd.Stdin = strings.NewReader(program)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.Failed = true
		res.TimedOut = true
		res.ExitCode = -1

		if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
			res.Stderr += "\n"
		}

		res.Stderr += fmt.Sprintf("execution timed out after %s", e.timeout)

		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("running program: %w", ctx.Err())
	case errors.As(err, &exitErr):
		res.Failed = true
		res.ExitCode = exitErr.ExitCode()

		return res, nil
	default:
		return res, fmt.Errorf("starting %s: %w", e.binary, err)
	}
}

// limitedBuffer keeps the first max bytes written and silently drops the rest.
type limitedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if room <= 0 {
		b.truncated = true
		return len(p), nil
	}

	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true

		return len(p), nil
	}

	return b.buf.Write(p)
}

// String returns the captured output. When truncated, the partial last line
// is dropped so a cut protocol line cannot parse as a different command.
func (b *limitedBuffer) String() string {
	out := b.buf.String()
	if !b.truncated {
		return out
	}

	return out[:strings.LastIndexByte(out, '\n')+1] + "[output truncated]"
}
