package robot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrUnknownAction is returned by Invoke for names missing from the catalog.
var ErrUnknownAction = errors.New("unknown action")

// Result is the resolved outcome of one robot request.
//
// Value is only set for reporter actions that received a non-empty body.
// Err reports a transport failure; the request still counts as resolved.
type Result struct {
	URL      string
	Value    string
	HasValue bool
	Err      error
}

// Recorder observes completed requests.
type Recorder interface {
	Record(endpoint string, kind Kind, elapsed time.Duration, err error)
}

// Client sends catalog actions to the robot-control server.
type Client struct {
	base     string
	http     *http.Client
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRecorder registers a request observer.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a client for the server at cfg.BaseURL.
func NewClient(cfg *Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Client{
		base:   cfg.Base(),
		http:   &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address requests are sent to.
func (c *Client) BaseURL() string {
	return c.base
}

// URL builds the request URL for an endpoint and its parameters.
func (c *Client) URL(endpoint string, params []QueryParam) string {
	return c.base + endpoint + encodeQuery(params)
}

// Dispatch issues one GET for endpoint and waits for it to complete.
// It never fails: transport errors are logged and returned in Result.Err.
func (c *Client) Dispatch(ctx context.Context, endpoint string, params []QueryParam, kind Kind) Result {
	url := c.URL(endpoint, params)
	start := time.Now()
	res := c.get(ctx, url, kind)
	if c.recorder != nil {
		c.recorder.Record(endpoint, kind, time.Since(start), res.Err)
	}
	return res
}

func (c *Client) get(ctx context.Context, url string, kind Kind) Result {
	res := Result{URL: url}
	c.logger.Debug("robot request", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = fmt.Errorf("build request: %w", err)
		c.logger.Error("robot request failed", "url", url, "error", res.Err)
		return res
	}

	resp, err := c.http.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("send request: %w", err)
		c.logger.Error("robot request failed", "url", url, "error", res.Err)
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read response: %w", err)
		c.logger.Error("robot request failed", "url", url, "error", res.Err)
		return res
	}
	c.logger.Debug("robot response", "url", url, "status", resp.StatusCode, "bytes", len(body))

	if kind == Reporter && len(body) > 0 {
		res.Value = string(body)
		res.HasValue = true
	}
	return res
}

// Pending is a request in flight. It resolves exactly once.
type Pending struct {
	done chan struct{}
	res  Result
}

// Done is closed once the request has resolved.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result blocks until the request resolves.
func (p *Pending) Result() Result {
	<-p.done
	return p.res
}

// Start is the asynchronous form of Dispatch.
func (c *Client) Start(ctx context.Context, endpoint string, params []QueryParam, kind Kind) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		p.res = c.Dispatch(ctx, endpoint, params, kind)
		close(p.done)
	}()
	return p
}

// Invoke runs a catalog action by name with raw host arguments.
func (c *Client) Invoke(ctx context.Context, name ActionName, args map[string]any) (Result, error) {
	a, ok := Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return c.Dispatch(ctx, a.Endpoint, a.Arguments(args), a.Kind), nil
}

func (c *Client) call(ctx context.Context, name ActionName, args map[string]any) Result {
	res, _ := c.Invoke(ctx, name, args) // name is a catalog constant
	return res
}

// Reset resets the robobug.
func (c *Client) Reset(ctx context.Context) Result {
	return c.call(ctx, Reset, nil)
}

// PowerOn powers the servos on.
func (c *Client) PowerOn(ctx context.Context) Result {
	return c.call(ctx, PowerOn, nil)
}

// PowerOff powers the servos off.
func (c *Client) PowerOff(ctx context.Context) Result {
	return c.call(ctx, PowerOff, nil)
}

// Sound plays a tone. Duration is clamped to [0, 255], frequency to [0, 2550].
func (c *Client) Sound(ctx context.Context, duration, frequency any) Result {
	return c.call(ctx, Sound, map[string]any{"duration": duration, "frequency": frequency})
}

// BodyHeight sets the body height, clamped to [0, 100].
func (c *Client) BodyHeight(ctx context.Context, height any) Result {
	return c.call(ctx, BodyHeight, map[string]any{"height": height})
}

// Speed sets the walking speed, clamped to [0, 100].
func (c *Client) Speed(ctx context.Context, speed any) Result {
	return c.call(ctx, Speed, map[string]any{"speed": speed})
}

// Walk sets forward, sideward and turn velocity, each clamped to [-100, 100].
func (c *Client) Walk(ctx context.Context, forward, side, turn any) Result {
	return c.call(ctx, Walk, map[string]any{"forward": forward, "side": side, "turn": turn})
}

func (c *Client) WalkForward(ctx context.Context) Result {
	return c.call(ctx, WalkForward, nil)
}

func (c *Client) WalkBack(ctx context.Context) Result {
	return c.call(ctx, WalkBack, nil)
}

func (c *Client) WalkLeft(ctx context.Context) Result {
	return c.call(ctx, WalkLeft, nil)
}

func (c *Client) WalkRight(ctx context.Context) Result {
	return c.call(ctx, WalkRight, nil)
}

func (c *Client) WalkStop(ctx context.Context) Result {
	return c.call(ctx, WalkStop, nil)
}

// AkkuCharge reads the battery charge as reported by the robot.
func (c *Client) AkkuCharge(ctx context.Context) Result {
	return c.call(ctx, AkkuCharge, nil)
}
