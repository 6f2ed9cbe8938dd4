// Package runtime holds the paged form state machine: the page registry, the
// navigation algorithm of one request cycle and the form view it produces.
package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/pkg/domain"
)

// DefaultName is the request namespace of a controller built without WithName.
const DefaultName = "pages"

// Labels are the captions of the navigation controls.
type Labels struct {
	Continue string
	Final    string
	Back     string
}

// DefaultLabels returns the built-in control captions.
func DefaultLabels() Labels {
	return Labels{
		Continue: "Continue »",
		Final:    "Save",
		Back:     "« Back",
	}
}

// Controller drives a sequence of pages through one request cycle.
// It is not safe for concurrent use; build one per request.
type Controller struct {
	name   string
	labels Labels
	gate   bool
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time

	pages []domain.Page
	keys  []string
	index map[string]int

	selected int
	complete bool
	outcome  Outcome
}

// Option configures a Controller.
type Option func(*Controller)

// WithName sets the controller name, the first segment of every request key.
func WithName(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLabels overrides control captions. Empty labels keep their default.
func WithLabels(l Labels) Option {
	return func(c *Controller) {
		if l.Continue != "" {
			c.labels.Continue = l.Continue
		}
		if l.Final != "" {
			c.labels.Final = l.Final
		}
		if l.Back != "" {
			c.labels.Back = l.Back
		}
	}
}

// WithValidationGate keeps the user on the first invalid page instead of
// letting navigation move past it.
func WithValidationGate() Option {
	return func(c *Controller) {
		c.gate = true
	}
}

// WithLogger sets the logger used for cycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithClock overrides the time source of emitted events.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		name:     DefaultName,
		labels:   DefaultLabels(),
		logger:   logging.NewNop(),
		now:      time.Now,
		index:    make(map[string]int),
		selected: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// Labels returns the effective control captions.
func (c *Controller) Labels() Labels {
	return c.labels
}

// Namespace returns the request-key prefix of the whole form.
func (c *Controller) Namespace() domain.Namespace {
	return domain.Join(c.name)
}

// RequestKey returns the namespace of a page or, with more segments, of a
// field inside it.
func (c *Controller) RequestKey(segments ...string) domain.Namespace {
	return domain.Join(append([]string{c.name}, segments...)...)
}
