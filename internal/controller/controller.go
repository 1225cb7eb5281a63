package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/model"
)

// Sampler draws a record id for a filter snapshot
type Sampler interface {
	Draw(sel filter.Selection, policy filter.Policy) (int, bool, error)
}

// Fetcher resolves an id to a display record and never fails
type Fetcher interface {
	Fetch(ctx context.Context, id int) model.Incident
}

// Navigator is the navigable location. Publish applies a location change,
// after which the navigator is expected to call Controller.Navigate.
type Navigator interface {
	Current() (id int, ok bool)
	Publish(ctx context.Context, id int)
}

// Options tunes a Controller
type Options struct {
	Policy       filter.Policy
	DiscardStale bool
	Logger       *slog.Logger
	// Dispatch runs a fetch off the caller's path; defaults to a goroutine
	Dispatch func(func())
	// OnChange is called with every new snapshot, in the order snapshots were
	// installed. A snapshot superseded before delivery is skipped. OnChange must
	// not call the Controller's Toggle, Reload, Navigate or Activate methods.
	OnChange func(State)
}

// Controller decides between drawing and resolving a known id, and publishes
// drawn ids to the navigator.
type Controller struct {
	sampler Sampler
	fetcher Fetcher
	nav     Navigator
	opts    Options
	logger  *slog.Logger
	mu      sync.Mutex // serialises snapshot replacement with late fetch responses
	state   State
	version uint64 // guarded by mu; bumped on every installed snapshot

	notifyMu  sync.Mutex
	delivered uint64 // guarded by notifyMu; version last passed to OnChange
}

// New creates a controller in its initial state
func New(sampler Sampler, fetcher Fetcher, nav Navigator, opts Options) *Controller {
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { go fn() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sampler: sampler,
		fetcher: fetcher,
		nav:     nav,
		opts:    opts,
		logger:  logger,
		state:   Initial(opts.Policy),
	}
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate resolves the id at the current location, or draws one when the
// location names none.
func (c *Controller) Activate(ctx context.Context) error {
	if id, ok := c.nav.Current(); ok {
		c.logger.Debug("activating with location id", "id", id)
		c.resolve(ctx, id)
		return nil
	}
	return c.Reload(ctx)
}

// Navigate handles an external location change
func (c *Controller) Navigate(ctx context.Context, id int) {
	c.resolve(ctx, id)
}

// Reload draws with the current filter and policy and publishes the result.
// A ConsistencyFault from the sampler is returned unchanged.
func (c *Controller) Reload(ctx context.Context) error {
	snap := c.State()

	id, ok, err := c.sampler.Draw(snap.Filter, snap.Policy)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	if !ok {
		c.logger.Debug("draw found no result", "filter", snap.Filter.String(), "policy", snap.Policy.String())
		c.replace(func(s State) State { return s.ApplyDrawResult(0, false) })
		return nil
	}

	c.logger.Debug("drew id", "id", id)
	c.nav.Publish(ctx, id)
	return nil
}

// ToggleRace flips a race category and returns the new snapshot
func (c *Controller) ToggleRace(r model.Race) State {
	return c.replace(func(s State) State { return s.ToggleRace(r) })
}

// ToggleArmed flips an armed category and returns the new snapshot
func (c *Controller) ToggleArmed(a model.Armed) State {
	return c.replace(func(s State) State { return s.ToggleArmed(a) })
}

// ToggleFull flips eligibility of full-content records
func (c *Controller) ToggleFull() State {
	return c.replace(State.ToggleFull)
}

// ToggleDeficient flips eligibility of deficient-content records
func (c *Controller) ToggleDeficient() State {
	return c.replace(State.ToggleDeficient)
}

func (c *Controller) resolve(ctx context.Context, id int) {
	var seq uint64
	c.replace(func(s State) State {
		next, n := s.BeginResolve(id)
		seq = n
		return next
	})

	c.opts.Dispatch(func() {
		inc := c.fetcher.Fetch(ctx, id)
		c.apply(seq, inc)
	})
}

func (c *Controller) apply(seq uint64, inc model.Incident) {
	c.mu.Lock()
	next, applied := c.state.ApplyResponse(seq, inc, c.opts.DiscardStale)
	latest := c.state.Seq
	var v uint64
	if applied {
		c.state = next
		c.version++
		v = c.version
	}
	c.mu.Unlock()

	if !applied {
		c.logger.Info("discarded stale response", "id", inc.ID, "seq", seq, "latest", latest)
		return
	}
	c.notify(next, v)
}

func (c *Controller) replace(fn func(State) State) State {
	c.mu.Lock()
	next := fn(c.state)
	c.state = next
	c.version++
	v := c.version
	c.mu.Unlock()

	c.notify(next, v)
	return next
}

// notify delivers snapshot version v unless a newer one has already been delivered
func (c *Controller) notify(s State, v uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if v <= c.delivered {
		c.logger.Debug("skipping superseded snapshot", "version", v, "delivered", c.delivered)
		return
	}
	c.delivered = v

	c.logger.Debug("state", "phase", s.Phase.String(), "seq", s.Seq, "pending", s.PendingID)
	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}
