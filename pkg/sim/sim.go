// Package sim provides an in-memory robobug that serves the robot HTTP
// surface, for development without hardware and for tests.
package sim

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/gwillem/robobug/pkg/robot"
)

// Default robot state after power up or reset.
const (
	DefaultHeight = 60
	DefaultSpeed  = 50
	FullCharge    = 100.0
)

// Battery cost per accepted command, in percent.
const (
	walkCost  = 0.5
	soundCost = 0.1
)

// State is a snapshot of the simulated robot.
type State struct {
	Powered bool    `json:"powered"`
	Height  int     `json:"height"`
	Speed   int     `json:"speed"`
	Forward int     `json:"forward"`
	Side    int     `json:"side"`
	Turn    int     `json:"turn"`
	Charge  float64 `json:"charge"`
	Sounds  int     `json:"sounds"`
}

// Robot is a simulated robobug.
type Robot struct {
	mu      sync.RWMutex
	state   State
	history []string
	logger  *slog.Logger
}

// New creates a powered-off robot with a full battery.
func New(logger *slog.Logger) *Robot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Robot{
		state: State{
			Height: DefaultHeight,
			Speed:  DefaultSpeed,
			Charge: FullCharge,
		},
		logger: logger,
	}
}

// State returns the current robot state.
func (r *Robot) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// History returns the accepted request URIs in arrival order.
func (r *Robot) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.history...)
}

// SetCharge overrides the battery level.
func (r *Robot) SetCharge(charge float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Charge = charge
}

// Handler returns the robot HTTP surface, one GET route per catalog action.
func (r *Robot) Handler() http.Handler {
	mux := chi.NewRouter()
	for _, a := range robot.Actions() {
		mux.Get("/"+a.Endpoint, r.handle(a))
	}
	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		r.logger.Warn("unknown robot command", "path", req.URL.Path)
		http.Error(w, "unknown command", http.StatusNotFound)
	})
	return mux
}

func (r *Robot) handle(a robot.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Add("Access-Control-Allow-Origin", "*")

		values, err := parseParams(a, req)
		if err != nil {
			r.logger.Warn("rejected robot command", "action", a.Name, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		answer := r.apply(a.Name, values, req.URL.RequestURI())
		r.logger.Info("robot command", "action", a.Name, "query", req.URL.RawQuery, "answer", answer)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, answer)
	}
}

// parseParams requires every declared parameter as an in-range integer.
func parseParams(a robot.Action, req *http.Request) (map[string]int, error) {
	query := req.URL.Query()
	values := make(map[string]int, len(a.Params))
	for _, p := range a.Params {
		raw := query.Get(p.Name)
		if raw == "" {
			return nil, fmt.Errorf("missing parameter %s", p.Name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		if v < p.Min || v > p.Max {
			return nil, fmt.Errorf("INVALID_RANGE: %s %d is outside valid range [%d, %d]", p.Name, v, p.Min, p.Max)
		}
		values[p.Name] = v
	}
	return values, nil
}

func (r *Robot) apply(name robot.ActionName, v map[string]int, uri string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, uri)

	s := &r.state
	switch name {
	case robot.Reset:
		charge := s.Charge
		*s = State{Height: DefaultHeight, Speed: DefaultSpeed, Charge: charge}
	case robot.PowerOn:
		s.Powered = true
	case robot.PowerOff:
		s.Powered = false
		s.Forward, s.Side, s.Turn = 0, 0, 0
	case robot.Sound:
		s.Sounds++
		r.drain(soundCost)
	case robot.BodyHeight:
		s.Height = v["height"]
	case robot.Speed:
		s.Speed = v["speed"]
	case robot.Walk:
		r.move(v["forward"], v["side"], v["turn"])
	case robot.WalkForward:
		r.move(s.Speed, 0, 0)
	case robot.WalkBack:
		r.move(-s.Speed, 0, 0)
	case robot.WalkLeft:
		r.move(0, -s.Speed, 0)
	case robot.WalkRight:
		r.move(0, s.Speed, 0)
	case robot.WalkStop:
		s.Forward, s.Side, s.Turn = 0, 0, 0
	case robot.AkkuCharge:
		return strconv.Itoa(int(s.Charge))
	}
	return "ok"
}

// move sets the velocity. An unpowered robot stays put. Caller holds mu.
func (r *Robot) move(forward, side, turn int) {
	s := &r.state
	if !s.Powered {
		return
	}
	s.Forward, s.Side, s.Turn = forward, side, turn
	if forward != 0 || side != 0 || turn != 0 {
		r.drain(walkCost)
	}
}

func (r *Robot) drain(cost float64) {
	r.state.Charge -= cost
	if r.state.Charge < 0 {
		r.state.Charge = 0
	}
}
