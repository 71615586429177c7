// Package runner executes algorithm programs in an external interpreter and
// captures their output.
package runner

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyProgram is returned when there is nothing to execute.
var ErrEmptyProgram = errors.New("empty program")

// Result is the captured outcome of one run. Failed is set when the program
// exited non-zero or was killed by the timeout.
type Result struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Failed   bool          `json:"failed"`
	ExitCode int           `json:"exit_code"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Output returns stdout followed by stderr.
func (r Result) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	case strings.HasSuffix(r.Stdout, "\n"):
		return r.Stdout + r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Executor runs a complete program. A returned error means the program could
// not be run at all; a program that ran and failed is reported through
// Result.Failed.
type Executor interface {
	Execute(ctx context.Context, program string) (Result, error)
}

// BuildProgram joins the hook preamble, the user's algorithm and the graph
// literal into one program that calls main(graph).
func BuildProgram(preamble, source, adjacency string) string {
	var b strings.Builder

	b.Grow(len(preamble) + len(source) + len(adjacency) + 32)
	b.WriteString(preamble)
	b.WriteString(source)
	b.WriteString("\ngraph = ")
	b.WriteString(adjacency)
	b.WriteString("\nmain(graph)\n")

	return b.String()
}
