// Package teleop provides keyboard-style teleoperation for the robobug.
package teleop

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gwillem/robobug/pkg/robot"
)

// Robot is the part of robot.Client the controller drives.
type Robot interface {
	PowerOn(ctx context.Context) robot.Result
	PowerOff(ctx context.Context) robot.Result
	Walk(ctx context.Context, forward, side, turn any) robot.Result
	WalkStop(ctx context.Context) robot.Result
	AkkuCharge(ctx context.Context) robot.Result
}

// Motion is a walking velocity, each axis in [-100, 100].
type Motion struct {
	Forward int
	Side    int
	Turn    int
}

// IsZero reports whether the motion stands still.
func (m Motion) IsZero() bool {
	return m == Motion{}
}

func (m Motion) clamped() Motion {
	return Motion{
		Forward: robot.ClampArgument(m.Forward, -100, 100, 0),
		Side:    robot.ClampArgument(m.Side, -100, 100, 0),
		Turn:    robot.ClampArgument(m.Turn, -100, 100, 0),
	}
}

// State represents the current state of teleoperation.
type State struct {
	Motion    Motion
	Charge    float64
	HasCharge bool
	Timestamp time.Time
	Error     error
}

// Controller manages the teleoperation control loop.
type Controller struct {
	robot     Robot
	hz        int
	pollEvery time.Duration
	step      int

	mu      sync.RWMutex
	target  Motion
	sent    Motion
	charge  float64
	charged bool
	running bool
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the controller.
type Config struct {
	Hz        int           // control loop frequency
	PollEvery time.Duration // battery poll interval
	Step      int           // velocity change per Nudge unit
}

// NewController creates a new teleoperation controller.
func NewController(r Robot, cfg Config) *Controller {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 5 * time.Second
	}
	if cfg.Step <= 0 {
		cfg.Step = 25
	}

	return &Controller{
		robot:     r,
		hz:        cfg.Hz,
		pollEvery: cfg.PollEvery,
		step:      cfg.Step,
		stateCh:   make(chan State, 1),
		logCh:     make(chan string, 10),
	}
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Target returns the motion the controller is steering towards.
func (c *Controller) Target() Motion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// SetMotion replaces the target motion.
func (c *Controller) SetMotion(m Motion) {
	c.mu.Lock()
	c.target = m.clamped()
	c.mu.Unlock()
}

// Nudge changes the target motion by the given number of steps per axis.
func (c *Controller) Nudge(forward, side, turn int) {
	c.mu.Lock()
	c.target = Motion{
		Forward: c.target.Forward + forward*c.step,
		Side:    c.target.Side + side*c.step,
		Turn:    c.target.Turn + turn*c.step,
	}.clamped()
	c.mu.Unlock()
}

// Halt sets the target motion to standstill.
func (c *Controller) Halt() {
	c.SetMotion(Motion{})
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start powers the robot on and runs the control loop until ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	if res := c.robot.PowerOn(ctx); res.Err != nil {
		c.log("Warning: power on failed: %v", res.Err)
	} else {
		c.log("Robobug powered on")
	}
	c.pollCharge(ctx)

	c.log("Teleoperation started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()
	poll := time.NewTicker(c.pollEvery)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.tick(ctx)
		case <-poll.C:
			c.pollCharge(ctx)
		}
	}
}

// tick sends the target motion if it changed since the last send.
func (c *Controller) tick(ctx context.Context) {
	c.mu.RLock()
	target, sent := c.target, c.sent
	c.mu.RUnlock()

	if target == sent {
		return
	}

	var res robot.Result
	if target.IsZero() {
		res = c.robot.WalkStop(ctx)
	} else {
		res = c.robot.Walk(ctx, target.Forward, target.Side, target.Turn)
	}
	if res.Err != nil {
		c.log("Walk error: %v", res.Err)
		c.sendState(State{Motion: sent, Error: res.Err, Timestamp: time.Now()})
		return
	}

	c.mu.Lock()
	c.sent = target
	c.mu.Unlock()
	c.publish(nil)
}

func (c *Controller) pollCharge(ctx context.Context) {
	res := c.robot.AkkuCharge(ctx)
	if res.Err != nil {
		c.log("Charge read error: %v", res.Err)
		c.publish(res.Err)
		return
	}
	if !res.HasValue {
		return
	}

	charge, err := strconv.ParseFloat(strings.TrimSpace(res.Value), 64)
	if err != nil {
		c.log("Unexpected charge value %q", res.Value)
		return
	}

	c.mu.Lock()
	c.charge, c.charged = charge, true
	c.mu.Unlock()
	c.publish(nil)
}

func (c *Controller) publish(err error) {
	c.mu.RLock()
	s := State{
		Motion:    c.sent,
		Charge:    c.charge,
		HasCharge: c.charged,
		Timestamp: time.Now(),
		Error:     err,
	}
	c.mu.RUnlock()
	c.sendState(s)
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.target, c.sent = Motion{}, Motion{}
	c.mu.Unlock()

	ctx := context.Background()
	if res := c.robot.WalkStop(ctx); res.Err != nil {
		c.log("Warning: stop failed: %v", res.Err)
	}
	if res := c.robot.PowerOff(ctx); res.Err != nil {
		c.log("Warning: power off failed: %v", res.Err)
	} else {
		c.log("Robobug powered off")
	}
	c.log("Teleoperation stopped")
}
