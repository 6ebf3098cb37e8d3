package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/robobug/pkg/metrics"
	"github.com/gwillem/robobug/pkg/robot"
	"github.com/gwillem/robobug/pkg/sim"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStack wires bridge -> client -> simulated robot.
func newStack(t *testing.T) (http.Handler, *sim.Robot) {
	t.Helper()
	bug := sim.New(quietLogger())
	robotSrv := httptest.NewServer(bug.Handler())
	t.Cleanup(robotSrv.Close)

	reg := prometheus.NewRegistry()
	client := robot.NewClient(&robot.Config{BaseURL: robotSrv.URL},
		robot.WithLogger(quietLogger()),
		robot.WithRecorder(metrics.NewRecorder(reg)),
	)
	return NewHandler(client, Options{Logger: quietLogger(), Gatherer: reg}), bug
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCatalog(t *testing.T) {
	h, _ := newStack(t)

	w := do(h, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var m robot.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "robobug", m.ID)
	assert.Len(t, m.Actions, 13)
}

func TestInvoke_QueryArgsAreClamped(t *testing.T) {
	h, bug := newStack(t)

	w := do(h, http.MethodGet, "/actions/walk?FORWARD=150", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, robot.Walk, resp.Action)
	assert.Equal(t, robot.Command, resp.Kind)
	assert.Nil(t, resp.Value)
	assert.Empty(t, resp.Error)

	assert.Equal(t, []string{"/walk?forward=100&side=0&turn=0"}, bug.History())
}

func TestInvoke_PostJSON(t *testing.T) {
	h, bug := newStack(t)

	w := do(h, http.MethodPost, "/actions/sound", `{"DURATION": 400, "FREQUENCY": "880"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodPost, "/actions/reset", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"/sound?duration=255&frequency=880", "/reset"}, bug.History())

	w = do(h, http.MethodPost, "/actions/sound", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoke_Reporter(t *testing.T) {
	h, bug := newStack(t)
	bug.SetCharge(73)

	w := do(h, http.MethodGet, "/actions/akkuCharge", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Value)
	assert.Equal(t, "73", *resp.Value)
	assert.Equal(t, robot.Reporter, resp.Kind)
}

func TestInvoke_UnknownAction(t *testing.T) {
	h, _ := newStack(t)

	w := do(h, http.MethodGet, "/actions/fly", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoke_TransportErrorStillResolves(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	client := robot.NewClient(&robot.Config{BaseURL: base}, robot.WithLogger(quietLogger()))
	h := NewHandler(client, Options{Logger: quietLogger()})

	w := do(h, http.MethodGet, "/actions/akkuCharge", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Value)
	assert.NotEmpty(t, resp.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newStack(t)

	do(h, http.MethodGet, "/actions/walkStop", "")
	w := do(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `robobug_requests_total{endpoint="walk_stop",kind="command",status="ok"} 1`)
}

func TestCORS(t *testing.T) {
	h, _ := newStack(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:8601")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
