package sim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/robobug/pkg/robot"
)

func newTestRobot(t *testing.T) (*Robot, *httptest.Server) {
	t.Helper()
	r := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return r, srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRobot_RejectsOutOfRange(t *testing.T) {
	r, srv := newTestRobot(t)

	code, _ := get(t, srv.URL+"/body_height?height=101")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, srv.URL+"/body_height?height=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, srv.URL+"/sound?duration=10")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := get(t, srv.URL+"/body_height?height=100")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
	assert.Equal(t, 100, r.State().Height)
}

func TestRobot_UnknownCommand(t *testing.T) {
	_, srv := newTestRobot(t)

	code, _ := get(t, srv.URL+"/fly")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRobot_WalkDrainsBattery(t *testing.T) {
	r, srv := newTestRobot(t)

	get(t, srv.URL+"/walk?forward=50&side=0&turn=0")
	assert.Equal(t, 0, r.State().Forward, "unpowered robot should not move")

	get(t, srv.URL+"/power_on")
	for i := 0; i < 4; i++ {
		get(t, srv.URL+"/walk?forward=50&side=-20&turn=10")
	}
	s := r.State()
	assert.Equal(t, 50, s.Forward)
	assert.Equal(t, -20, s.Side)
	assert.Equal(t, 10, s.Turn)

	_, body := get(t, srv.URL+"/akku_charge")
	assert.Equal(t, "98", body)

	get(t, srv.URL+"/walk_stop")
	assert.Equal(t, 0, r.State().Forward)
}

func TestRobot_ResetKeepsCharge(t *testing.T) {
	r, srv := newTestRobot(t)
	r.SetCharge(42)

	get(t, srv.URL+"/power_on")
	get(t, srv.URL+"/speed?speed=80")
	get(t, srv.URL+"/walk_forward")
	assert.Equal(t, 80, r.State().Forward)

	get(t, srv.URL+"/reset")
	s := r.State()
	assert.False(t, s.Powered)
	assert.Equal(t, DefaultSpeed, s.Speed)
	assert.Equal(t, 0, s.Forward)
	assert.InDelta(t, 41.5, s.Charge, 0.001)
}

func TestRobot_WithClient(t *testing.T) {
	r, srv := newTestRobot(t)
	c := robot.NewClient(&robot.Config{BaseURL: srv.URL},
		robot.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	// The client clamps, so the simulator never rejects
	c.PowerOn(ctx)
	c.BodyHeight(ctx, 9000)
	c.Sound(ctx, -1, "x")
	c.Walk(ctx, 150, -200, 30)

	s := r.State()
	assert.Equal(t, 100, s.Height)
	assert.Equal(t, 1, s.Sounds)
	assert.Equal(t, 100, s.Forward)
	assert.Equal(t, -100, s.Side)
	assert.Equal(t, 30, s.Turn)

	res := c.AkkuCharge(ctx)
	require.NoError(t, res.Err)
	assert.True(t, res.HasValue)
	assert.Equal(t, "99", res.Value)

	assert.Equal(t, []string{
		"/power_on",
		"/body_height?height=100",
		"/sound?duration=0&frequency=1200",
		"/walk?forward=100&side=-100&turn=30",
		"/akku_charge",
	}, r.History())
}
