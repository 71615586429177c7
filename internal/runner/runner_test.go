package runner_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/algocanvas/algocanvas/internal/runner"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// shellExecutor runs programs through sh so the tests do not depend on a
// python installation.
func shellExecutor(t *testing.T, opts ...runner.Option) *runner.PythonExecutor {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	return runner.NewPythonExecutor(testLogger(), append([]runner.Option{runner.WithBinary("sh")}, opts...)...)
}

func TestBuildProgram(t *testing.T) {
	got := runner.BuildProgram("PRE\n", "def main(g):\n    pass", "{1: {}}")

	assert.Equal(t, "PRE\ndef main(g):\n    pass\ngraph = {1: {}}\nmain(graph)\n", got)
}

func TestResultOutput(t *testing.T) {
	assert.Equal(t, "out", runner.Result{Stdout: "out"}.Output())
	assert.Equal(t, "err", runner.Result{Stderr: "err"}.Output())
	assert.Equal(t, "out\nerr", runner.Result{Stdout: "out", Stderr: "err"}.Output())
	assert.Equal(t, "out\nerr", runner.Result{Stdout: "out\n", Stderr: "err"}.Output())
}

func TestExecuteSuccess(t *testing.T) {
	e := shellExecutor(t)

	res, err := e.Execute(context.Background(), "echo hello\necho __GRAPH__ colour 1\n")
	require.NoError(t, err)

	assert.False(t, res.Failed)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n__GRAPH__ colour 1\n", res.Stdout)
}

func TestExecuteFailure(t *testing.T) {
	e := shellExecutor(t)

	res, err := e.Execute(context.Background(), "echo partial\necho boom >&2\nexit 3\n")
	require.NoError(t, err)

	assert.True(t, res.Failed)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\nboom\n", res.Output())
}

func TestExecuteTimeout(t *testing.T) {
	e := shellExecutor(t, runner.WithTimeout(100*time.Millisecond))

	res, err := e.Execute(context.Background(), "exec sleep 5\n")
	require.NoError(t, err)

	assert.True(t, res.Failed)
	assert.True(t, res.TimedOut)
	assert.Contains(t, res.Stderr, "timed out")
	assert.Less(t, res.Duration, 5*time.Second)
}

func TestExecuteCancelledContext(t *testing.T) {
	e := shellExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, "echo never\n")
	assert.Error(t, err)
}

func TestExecuteEmptyProgram(t *testing.T) {
	e := shellExecutor(t)

	_, err := e.Execute(context.Background(), "  \n")
	assert.ErrorIs(t, err, runner.ErrEmptyProgram)
}

func TestExecuteMissingBinary(t *testing.T) {
	e := runner.NewPythonExecutor(testLogger(), runner.WithBinary("definitely-not-a-real-interpreter"))

	_, err := e.Execute(context.Background(), "print(1)")
	assert.Error(t, err)
}

func TestExecuteOutputLimit(t *testing.T) {
	e := shellExecutor(t, runner.WithOutputLimit(8))

	res, err := e.Execute(context.Background(), "echo 0123\necho 456789abcdef\n")
	require.NoError(t, err)

	assert.Equal(t, "0123\n[output truncated]", res.Stdout)
}

func TestExecuteOutputLimitKeepsWholeLines(t *testing.T) {
	e := shellExecutor(t, runner.WithOutputLimit(25))

	res, err := e.Execute(context.Background(), "echo '__GRAPH__ colour 1'\necho '__GRAPH__ colour 12'\n")
	require.NoError(t, err)

	assert.Equal(t, "__GRAPH__ colour 1\n[output truncated]", res.Stdout)
	assert.NotContains(t, res.Stdout, "__GRAPH__ colour 1\n__GRAP")
}

func TestExecuteRecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := shellExecutor(t, runner.WithTracer(tp.Tracer("test")))

	_, err := e.Execute(context.Background(), "exit 1\n")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "runner.execute", spans[0].Name)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}

	assert.Equal(t, "sh", attrs["runner.binary"])
	assert.Equal(t, int64(1), attrs["runner.exit_code"])
}
