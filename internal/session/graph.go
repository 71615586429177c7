package session

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/adjacency"
	"github.com/algocanvas/algocanvas/internal/models"
)

// LoadErrorPrefix starts the output of a rejected graph load.
const LoadErrorPrefix = "Error loading graph: "

// LoadGraph replaces the whole model with f. The file is validated before
// anything changes; on failure the previous graph is kept and the error is
// also surfaced as session output.
func (s *Session) LoadGraph(ctx context.Context, f *models.GraphFile) error {
	var (
		g        *models.Graph
		buildErr error
	)

	if f == nil {
		buildErr = models.ErrMissingKey("nodes")
	} else {
		g, buildErr = f.Graph()
	}

	var err error

	doErr := s.do(ctx, func() {
		if buildErr != nil {
			s.rejectLoad(buildErr)
			err = buildErr

			return
		}

		s.cancelAutoStart()
		s.graph.Replace(g)
		s.ctrl.ResetInteraction()
		s.sched.Load(nil)
		s.output = ""
		s.hasError = false
		s.touch()

		s.log.WithFields(logrus.Fields{
			"nodes": len(s.graph.Nodes),
			"edges": len(s.graph.Edges),
		}).Info("graph loaded")

		s.publish(EventGraph, models.NewGraphFile(s.graph))
		s.publish(EventRun, s.runView())
	})
	if doErr != nil {
		return doErr
	}

	return err
}

// LoadGraphJSON decodes and loads a graph document.
func (s *Session) LoadGraphJSON(ctx context.Context, data []byte) error {
	f, err := models.DecodeGraphFile(data)
	if err != nil {
		if doErr := s.do(ctx, func() { s.rejectLoad(err) }); doErr != nil {
			return doErr
		}

		return err
	}

	return s.LoadGraph(ctx, f)
}

func (s *Session) rejectLoad(err error) {
	s.hasError = true
	s.output = LoadErrorPrefix + err.Error()
	s.log.WithError(err).Info("graph load rejected")
	s.publish(EventRun, s.runView())
}

// ExportGraph returns the current graph in its persisted form.
func (s *Session) ExportGraph(ctx context.Context) (*models.GraphFile, error) {
	var f *models.GraphFile

	err := s.do(ctx, func() { f = models.NewGraphFile(s.graph) })

	return f, err
}

// AdjacencyView is the derived adjacency of the current graph, structured and
// as the literal handed to a run.
type AdjacencyView struct {
	Adjacency adjacency.Adjacency `json:"adjacency"`
	Text      string              `json:"text"`
}

// Adjacency derives the adjacency of the current graph.
func (s *Session) Adjacency(ctx context.Context) (AdjacencyView, error) {
	var v AdjacencyView

	err := s.do(ctx, func() {
		v.Adjacency = adjacency.FromGraph(s.graph.Nodes, s.graph.Edges)
		v.Text = adjacency.Encode(v.Adjacency)
	})
	if err != nil {
		return AdjacencyView{}, fmt.Errorf("deriving adjacency: %w", err)
	}

	return v, nil
}
