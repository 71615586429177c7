package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/api"
	"github.com/algocanvas/algocanvas/internal/playback/playbacktest"
	"github.com/algocanvas/algocanvas/internal/runner"
	"github.com/algocanvas/algocanvas/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// mockExecutor implements runner.Executor for testing.
type mockExecutor struct {
	executeFn func(ctx context.Context, program string) (runner.Result, error)
}

func (m *mockExecutor) Execute(ctx context.Context, program string) (runner.Result, error) {
	return m.executeFn(ctx, program)
}

func stdoutExecutor(stdout string) *mockExecutor {
	return &mockExecutor{executeFn: func(context.Context, string) (runner.Result, error) {
		return runner.Result{Stdout: stdout}, nil
	}}
}

// testEnv is a router over a real session manager driven by a manual clock.
type testEnv struct {
	router   http.Handler
	sessions *session.Manager
	clock    *playbacktest.ManualClock
}

func newTestEnv(t *testing.T, exec runner.Executor, lib api.GraphLibrary) *testEnv {
	t.Helper()

	clock := playbacktest.NewManualClock()
	mgr := session.NewManager(session.Config{
		Speed:    200 * time.Millisecond,
		Clock:    clock,
		Executor: exec,
		Log:      testLogger(),
	}, time.Minute, 10)
	t.Cleanup(mgr.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Sessions:    mgr,
		Library:     lib,
		PythonBin:   "sh",
		CORSOrigins: []string{"http://localhost:5173"},
		Version:     "test-v1",
	})

	return &testEnv{router: router, sessions: mgr, clock: clock}
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

func expectErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()

	var body map[string]string
	decode(t, w, &body)

	if body["code"] != code {
		t.Errorf("expected error code %q, got %q", code, body["code"])
	}

	if body["request_id"] == "" {
		t.Error("expected request_id in error body")
	}
}

// createSession starts a session through the API and returns its id.
func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()

	w := doRequest(e.router, http.MethodPost, "/api/v1/sessions", "")
	expectStatus(t, w, http.StatusCreated)

	var view session.View
	decode(t, w, &view)

	if view.ID == "" {
		t.Fatal("expected session id")
	}

	return view.ID
}

func (e *testEnv) path(id, suffix string) string {
	return "/api/v1/sessions/" + id + suffix
}
