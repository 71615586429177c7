package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithUserAgent("algocanvas-test"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	var gotUA string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0", Store: "sqlite", Sessions: 2})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "0.3.0" {
		t.Errorf("got %+v", resp)
	}
	if resp.Store != "sqlite" || resp.Sessions != 2 {
		t.Errorf("got store=%q sessions=%d", resp.Store, resp.Sessions)
	}
	if gotUA != "algocanvas-test" {
		t.Errorf("user agent: got %q", gotUA)
	}
}

func TestReadyUnavailable(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/ready": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 503, ReadyResponse{Status: "unavailable", Checks: map[string]string{"python": "not found"}})
		},
	})
	_, err := c.Ready(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 503 || apiErr.Code != "unknown" {
		t.Errorf("got status=%d code=%q", apiErr.StatusCode, apiErr.Code)
	}
}

func TestSessionsLifecycle(t *testing.T) {
	deleted := false
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/sessions": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 201, Session{ID: "s1", Graph: &Graph{Nodes: []Node{}, Edges: []Edge{}}, Interaction: Interaction{Mode: "select"}})
		},
		"GET /api/v1/sessions": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"sessions": []SessionInfo{{ID: "s1"}, {ID: "s2"}}})
		},
		"GET /api/v1/sessions/s1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Session{ID: "s1", Playback: PlaybackStatus{State: "idle", SpeedMS: 500}})
		},
		"DELETE /api/v1/sessions/s1": func(w http.ResponseWriter, _ *http.Request) {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		},
	})
	ctx := context.Background()

	s, err := c.Sessions.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID != "s1" || s.Interaction.Mode != "select" {
		t.Errorf("Create: got %+v", s)
	}

	list, err := c.Sessions.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: err=%v, len=%d", err, len(list))
	}

	got, err := c.Sessions.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Playback.SpeedMS != 500 {
		t.Errorf("Get: speed %d", got.Playback.SpeedMS)
	}

	if err := c.Sessions.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("delete handler not called")
	}
}

func TestCanvasPointer(t *testing.T) {
	var downBody, modeBody map[string]any
	upCalled := false
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/sessions/s1/pointer/down": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&downBody) //nolint:errcheck
			jsonResponse(w, 200, map[string]any{"action": Action{Kind: "nodeAdded", Node: 1, Mode: "addNode"}})
		},
		"POST /api/v1/sessions/s1/pointer/up": func(w http.ResponseWriter, _ *http.Request) {
			upCalled = true
			jsonResponse(w, 200, map[string]any{"action": Action{Kind: "none", Mode: "addNode"}})
		},
		"PUT /api/v1/sessions/s1/mode": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&modeBody) //nolint:errcheck
			jsonResponse(w, 200, map[string]any{"action": Action{Kind: "modeChanged", Mode: "addNode"}})
		},
	})
	ctx := context.Background()

	a, err := c.Canvas.SetMode(ctx, "s1", "addNode")
	if err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if a.Mode != "addNode" || modeBody["mode"] != "addNode" {
		t.Errorf("SetMode: action=%+v body=%v", a, modeBody)
	}

	a, err = c.Canvas.Click(ctx, "s1", 100, 50)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if a.Kind != "nodeAdded" || a.Node != 1 {
		t.Errorf("Click: got %+v", a)
	}
	if downBody["x"] != 100.0 || downBody["y"] != 50.0 {
		t.Errorf("down body: %v", downBody)
	}
	if !upCalled {
		t.Error("Click did not send pointer up")
	}
}

func TestPlayback(t *testing.T) {
	var speedBody map[string]int
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/sessions/s1/playback/step": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, PlaybackStatus{State: "paused", Cursor: 1, Total: 3})
		},
		"PUT /api/v1/sessions/s1/playback/speed": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&speedBody) //nolint:errcheck
			jsonResponse(w, 200, PlaybackStatus{State: "paused", SpeedMS: 2000})
		},
	})
	ctx := context.Background()

	st, err := c.Playback.Step(ctx, "s1")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if st.Cursor != 1 || st.Total != 3 {
		t.Errorf("Step: got %+v", st)
	}

	st, err = c.Playback.SetSpeed(ctx, "s1", 9000)
	if err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	if speedBody["speed_ms"] != 9000 || st.SpeedMS != 2000 {
		t.Errorf("SetSpeed: body=%v status=%+v", speedBody, st)
	}
}

func TestRunAndTemplates(t *testing.T) {
	var runBody RunRequest
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/sessions/s1/run": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&runBody) //nolint:errcheck
			jsonResponse(w, 200, RunResult{
				Output:   "visit 0\n",
				Template: "bfs",
				Commands: []Command{{Kind: "colour", Node: 0, Color: "red"}},
			})
		},
		"GET /api/v1/templates": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, TemplateList{Templates: []Template{{Name: "bfs", Title: "BFS"}}, Default: "bfs"})
		},
		"GET /api/v1/templates/bfs": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Template{Name: "bfs", Source: "def bfs(): pass"})
		},
	})
	ctx := context.Background()

	res, err := c.Runs.Run(ctx, "s1", &RunRequest{Template: "bfs"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runBody.Template != "bfs" || runBody.Source != "" {
		t.Errorf("Run body: %+v", runBody)
	}
	if len(res.Commands) != 1 || res.Commands[0].Color != "red" {
		t.Errorf("Run: got %+v", res)
	}

	list, err := c.Templates.List(ctx)
	if err != nil || list.Default != "bfs" || len(list.Templates) != 1 {
		t.Fatalf("Templates.List: err=%v list=%+v", err, list)
	}

	tpl, err := c.Templates.Get(ctx, "bfs")
	if err != nil || tpl.Source == "" {
		t.Fatalf("Templates.Get: err=%v tpl=%+v", err, tpl)
	}
}

func TestGraphImportExport(t *testing.T) {
	var imported []byte
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/sessions/s1/graph": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Graph{
				Nodes: []Node{{ID: 0, X: 10, Y: 10}, {ID: 1, X: 50, Y: 10}},
				Edges: []Edge{{From: 0, To: 1, Weight: 40}},
			})
		},
		"PUT /api/v1/sessions/s1/graph": func(w http.ResponseWriter, r *http.Request) {
			imported, _ = io.ReadAll(r.Body)
			jsonResponse(w, 200, Session{ID: "s1"})
		},
		"GET /api/v1/sessions/s1/adjacency": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{
				"adjacency": map[string]map[string]float64{"0": {"1": 40}, "1": {"0": 40}},
				"text":      "0: 1(40)\n1: 0(40)\n",
			})
		},
	})
	ctx := context.Background()

	g, err := c.Graphs.Export(ctx, "s1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(g.Nodes) != 2 || g.Edges[0].Weight != 40 {
		t.Errorf("Export: got %+v", g)
	}

	raw, err := c.Graphs.ExportRaw(ctx, "s1")
	if err != nil || !json.Valid(raw) {
		t.Fatalf("ExportRaw: err=%v raw=%s", err, raw)
	}

	if _, err := c.Graphs.ImportRaw(ctx, "s1", raw); err != nil {
		t.Fatalf("ImportRaw: %v", err)
	}
	if string(imported) != string(raw) {
		t.Errorf("ImportRaw sent %s, want %s", imported, raw)
	}

	adj, err := c.Graphs.Adjacency(ctx, "s1")
	if err != nil {
		t.Fatalf("Adjacency: %v", err)
	}
	if adj.Adjacency["0"]["1"] != 40 {
		t.Errorf("Adjacency: got %+v", adj.Adjacency)
	}
}

func TestLibrary(t *testing.T) {
	var saveBody map[string]json.RawMessage
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/library": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, LibraryList{Graphs: []GraphInfo{{Name: "triangle", Nodes: 3, Edges: 3}}, Backend: "file"})
		},
		"PUT /api/v1/library/triangle": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&saveBody) //nolint:errcheck
			jsonResponse(w, 200, SaveResult{Name: "triangle", Nodes: 3, Edges: 3})
		},
		"POST /api/v1/sessions/s1/library/triangle/load": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Session{ID: "s1", Graph: &Graph{Nodes: make([]Node, 3)}})
		},
		"DELETE /api/v1/library/triangle": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	ctx := context.Background()

	list, err := c.Library.List(ctx)
	if err != nil || list.Backend != "file" || len(list.Graphs) != 1 {
		t.Fatalf("List: err=%v list=%+v", err, list)
	}

	res, err := c.Library.SaveSession(ctx, "triangle", "s1")
	if err != nil || res.Nodes != 3 {
		t.Fatalf("SaveSession: err=%v res=%+v", err, res)
	}
	if string(saveBody["session_id"]) != `"s1"` {
		t.Errorf("SaveSession body: %v", saveBody)
	}
	if _, ok := saveBody["graph"]; ok {
		t.Error("SaveSession must not send a graph")
	}

	s, err := c.Library.LoadInto(ctx, "s1", "triangle")
	if err != nil || len(s.Graph.Nodes) != 3 {
		t.Fatalf("LoadInto: err=%v", err)
	}

	if err := c.Library.Delete(ctx, "triangle"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestAPIError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/sessions/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "session not found", "request_id": "r-1"})
		},
		"POST /api/v1/sessions/s1/run": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 409, map[string]string{"code": "conflict", "message": "run in progress"})
		},
		"POST /api/v1/sessions": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 429, map[string]string{"code": "rate_limited", "message": "too many sessions"})
		},
		"PUT /api/v1/sessions/s1/mode": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 400, map[string]string{"code": "validation_error", "message": "invalid mode"})
		},
	})
	ctx := context.Background()

	_, err := c.Sessions.Get(ctx, "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got: %v", err)
	}
	if want := "algocanvas: 404 not_found: session not found (request_id=r-1)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	_, err = c.Runs.Run(ctx, "s1", &RunRequest{Source: "print(1)"})
	if !IsConflict(err) {
		t.Errorf("expected conflict, got: %v", err)
	}

	_, err = c.Sessions.Create(ctx)
	if !IsRateLimited(err) {
		t.Errorf("expected rate limited, got: %v", err)
	}

	_, err = c.Canvas.SetMode(ctx, "s1", "bogus")
	if !IsValidation(err) {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestWatch(t *testing.T) {
	var subscribed atomic.Uint64
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/sessions/s1/ws": func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, nil)
			if err != nil {
				return
			}
			defer conn.CloseNow() //nolint:errcheck

			ctx := r.Context()
			var sub struct {
				Type        string `json:"type"`
				LastEventID uint64 `json:"last_event_id"`
			}
			if err := wsjson.Read(ctx, conn, &sub); err != nil {
				return
			}
			subscribed.Store(sub.LastEventID)

			wsjson.Write(ctx, conn, Event{Type: "step", ID: 8, SessionID: "s1", Data: json.RawMessage(`{"index":0}`)}) //nolint:errcheck
			wsjson.Write(ctx, conn, Event{Type: "playback", ID: 9, SessionID: "s1", Data: json.RawMessage(`{"state":"done"}`)}) //nolint:errcheck
			wsjson.Write(ctx, conn, map[string]string{"type": "closed", "message": "session closed"}) //nolint:errcheck
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []Event
	err := c.Watch(ctx, "s1", 7, func(ev Event) error {
		got = append(got, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if id := subscribed.Load(); id != 7 {
		t.Errorf("subscribe last_event_id = %d, want 7", id)
	}
	if len(got) != 2 || got[0].ID != 8 || got[1].Type != "playback" {
		t.Fatalf("events: %+v", got)
	}

	var st PlaybackStatus
	if err := got[1].DecodeData(&st); err != nil || st.State != "done" {
		t.Errorf("DecodeData: err=%v state=%q", err, st.State)
	}
}

func TestWatchReset(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/sessions/s1/ws": func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, nil)
			if err != nil {
				return
			}
			defer conn.CloseNow() //nolint:errcheck
			wsjson.Write(r.Context(), conn, map[string]string{"type": "reset", "reason": "too old"}) //nolint:errcheck
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.Watch(ctx, "s1", 0, func(Event) error { return nil })
	if !errors.Is(err, ErrStreamReset) {
		t.Fatalf("expected ErrStreamReset, got %v", err)
	}
}

func TestWSURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://localhost:3040", "ws://localhost:3040"},
		{"https://canvas.example.com", "wss://canvas.example.com"},
		{"ws://already", "ws://already"},
	}
	for _, tt := range tests {
		if got := wsURL(tt.in); got != tt.want {
			t.Errorf("wsURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
