package pagedform

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/internal/runtime"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/render"
)

// Labels are the captions of the navigation controls.
type Labels = runtime.Labels

// Outcome summarises one processed request cycle.
type Outcome = runtime.Outcome

// DefaultName is the request namespace used when no name is configured.
const DefaultName = runtime.DefaultName

// DefaultLabels returns the built-in control captions.
func DefaultLabels() Labels { return runtime.DefaultLabels() }

// Controller is the high-level entry point of the library.
// It wraps the internal runtime and serves a single request cycle.
type Controller struct {
	runtime *runtime.Controller
	logger  *slog.Logger
}

type config struct {
	name   string
	labels Labels
	gate   bool
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	clock  func() time.Time
}

// Option defines a functional option for configuring a Controller.
type Option func(*config)

// WithName sets the form name, the first segment of every request key.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLabels overrides the captions of the navigation controls.
func WithLabels(labels Labels) Option {
	return func(c *config) {
		c.labels = labels
	}
}

// WithValidationGate keeps users on the first invalid page instead of letting
// them navigate past it. By default only completion is gated.
func WithValidationGate() Option {
	return func(c *config) {
		c.gate = true
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock overrides the time source of lifecycle events.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}

func newConfig(opts []Option) config {
	cfg := config{name: DefaultName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	return cfg
}

func (cfg config) runtimeOptions() []runtime.Option {
	opts := []runtime.Option{
		runtime.WithName(cfg.name),
		runtime.WithLabels(cfg.labels),
		runtime.WithLifecycleHooks(cfg.hooks),
		runtime.WithLogger(cfg.logger),
	}
	if cfg.gate {
		opts = append(opts, runtime.WithValidationGate())
	}
	if cfg.clock != nil {
		opts = append(opts, runtime.WithClock(cfg.clock))
	}
	return opts
}

// New creates an empty Controller. Register pages with AddPage.
func New(opts ...Option) *Controller {
	cfg := newConfig(opts)
	return &Controller{
		runtime: runtime.New(cfg.runtimeOptions()...),
		logger:  cfg.logger,
	}
}

// Name returns the form name.
func (c *Controller) Name() string { return c.runtime.Name() }

// Labels returns the navigation button captions.
func (c *Controller) Labels() Labels { return c.runtime.Labels() }

// RequestKey returns the namespace of a page, or of a field with two segments.
func (c *Controller) RequestKey(segments ...string) domain.Namespace {
	return c.runtime.RequestKey(segments...)
}

// AddPage appends a page under key.
func (c *Controller) AddPage(key string, p domain.Page) error { return c.runtime.AddPage(key, p) }

// Page returns the page registered under key.
func (c *Controller) Page(key string) (domain.Page, error) { return c.runtime.Page(key) }

// PageExists reports whether key is registered.
func (c *Controller) PageExists(key string) bool { return c.runtime.PageExists(key) }

// PageIndex returns the position of key.
func (c *Controller) PageIndex(key string) (int, error) { return c.runtime.PageIndex(key) }

// PageByIndex returns the page at position i.
func (c *Controller) PageByIndex(i int) (domain.Page, error) { return c.runtime.PageByIndex(i) }

// IsFirstPage reports whether p is the first page.
func (c *Controller) IsFirstPage(p domain.Page) bool { return c.runtime.IsFirstPage(p) }

// IsLastPage reports whether p is the last page.
func (c *Controller) IsLastPage(p domain.Page) bool { return c.runtime.IsLastPage(p) }

// Pages returns the registered pages in order.
func (c *Controller) Pages() []domain.Page { return c.runtime.Pages() }

// Keys returns the registered page keys in order.
func (c *Controller) Keys() []string { return c.runtime.Keys() }

// Len returns the number of pages.
func (c *Controller) Len() int { return c.runtime.Len() }

// LastIndex returns the position of the last page.
func (c *Controller) LastIndex() int { return c.runtime.LastIndex() }

// Value reads a field of a page.
func (c *Controller) Value(pageKey, field string, def any) (any, error) {
	return c.runtime.Value(pageKey, field, def)
}

// SetValue writes a field of a page.
func (c *Controller) SetValue(pageKey, field string, value any) error {
	return c.runtime.SetValue(pageKey, field, value)
}

// Values returns the stored values of every page that exposes them, keyed by page.
func (c *Controller) Values() map[string]map[string]any { return c.runtime.Values() }

// ReadFromRequest reads a request and processes the navigation it carries.
func (c *Controller) ReadFromRequest(ctx context.Context, r domain.RequestReader) (Outcome, error) {
	return c.runtime.ReadFromRequest(ctx, r)
}

// ReadFromObject binds every page from a business object and selects the first page.
func (c *Controller) ReadFromObject(ctx context.Context, obj any) (Outcome, error) {
	return c.runtime.ReadFromObject(ctx, obj)
}

// WriteToResponse writes every page into resp and returns the final response.
func (c *Controller) WriteToResponse(resp any) (any, error) {
	return c.runtime.WriteToResponse(resp)
}

// Process applies a navigation intent without reading a request.
func (c *Controller) Process(ctx context.Context, intent domain.Intent) (Outcome, error) {
	return c.runtime.Process(ctx, intent)
}

// SelectedPage returns the page to show, or nil once complete.
func (c *Controller) SelectedPage() domain.Page { return c.runtime.SelectedPage() }

// IsComplete reports whether the last cycle completed the form.
func (c *Controller) IsComplete() bool { return c.runtime.IsComplete() }

// Outcome returns the result of the last cycle.
func (c *Controller) Outcome() Outcome { return c.runtime.Outcome() }

// Form returns the view of the selected page.
func (c *Controller) Form() (*render.Form, error) { return c.runtime.Form() }
