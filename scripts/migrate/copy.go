package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/store"
)

// failedGraph records a graph that could not be copied.
type failedGraph struct {
	Name   string
	Reason string
}

// report holds the final migration summary.
type report struct {
	Source     string
	Target     string
	Read       int
	Copied     int
	Skipped    int
	Failed     int
	Verified   int
	Failures   []failedGraph
	SpotChecks []string
	Duration   time.Duration
	DryRun     bool
	Err        error
}

// runMigration copies every graph from src into dst. Existing target graphs
// are kept unless cfg.Overwrite is set. A graph that fails to load or save is
// recorded and the copy continues.
func runMigration(ctx context.Context, src, dst store.GraphStore, cfg config, log *logrus.Logger) (report, error) {
	r := report{DryRun: cfg.DryRun}

	infos, err := src.List(ctx)
	if err != nil {
		return r, fmt.Errorf("list source: %w", err)
	}
	r.Read = len(infos)
	log.WithField("count", r.Read).Info("read graphs from source")

	existing := map[string]bool{}
	if !cfg.Overwrite {
		current, err := dst.List(ctx)
		if err != nil {
			return r, fmt.Errorf("list target: %w", err)
		}
		for _, info := range current {
			existing[info.Name] = true
		}
	}

	for _, info := range infos {
		if existing[info.Name] {
			r.Skipped++
			continue
		}

		doc, err := src.Load(ctx, info.Name)
		if err != nil {
			r.fail(info.Name, err)
			continue
		}

		if cfg.DryRun {
			if err := doc.Validate(); err != nil {
				r.fail(info.Name, err)
				continue
			}
			r.Copied++
			continue
		}

		if err := dst.Save(ctx, info.Name, doc); err != nil {
			r.fail(info.Name, err)
			continue
		}
		r.Copied++
	}
	log.WithFields(logrus.Fields{"copied": r.Copied, "skipped": r.Skipped, "failed": r.Failed}).Info("copy finished")

	if cfg.DryRun {
		log.Info("dry run, target left untouched")
		return r, nil
	}

	after, err := dst.List(ctx)
	if err != nil {
		return r, fmt.Errorf("verify target: %w", err)
	}
	r.Verified = len(after)

	r.SpotChecks = spotCheck(ctx, src, dst, infos, 5)
	return r, nil
}

func (r *report) fail(name string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, failedGraph{Name: name, Reason: err.Error()})
}

// spotCheck compares up to n random graphs between source and target.
func spotCheck(ctx context.Context, src, dst store.GraphStore, infos []store.GraphInfo, n int) []string {
	if len(infos) == 0 {
		return nil
	}
	count := min(n, len(infos))
	var checks []string

	for _, idx := range rand.Perm(len(infos))[:count] { //nolint:gosec // sampling doesn't need crypto rand.
		name := infos[idx].Name
		want, err := src.Load(ctx, name)
		if err != nil {
			checks = append(checks, fmt.Sprintf("✗ %s: source unreadable: %v", name, err))
			continue
		}
		got, err := dst.Load(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			checks = append(checks, fmt.Sprintf("✗ %s: missing from target", name))
			continue
		}
		if err != nil {
			checks = append(checks, fmt.Sprintf("✗ %s: target unreadable: %v", name, err))
			continue
		}
		if len(got.Nodes) == len(want.Nodes) && len(got.Edges) == len(want.Edges) {
			checks = append(checks, fmt.Sprintf("✓ %s: %d nodes, %d edges", name, len(got.Nodes), len(got.Edges)))
		} else {
			checks = append(checks, fmt.Sprintf("✗ %s: mismatch target(%d/%d) vs source(%d/%d)",
				name, len(got.Nodes), len(got.Edges), len(want.Nodes), len(want.Edges)))
		}
	}
	return checks
}
