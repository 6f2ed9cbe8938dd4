package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/ports"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

// NavigationMessage is the prompt that asks where to go once a page is filled.
const NavigationMessage = "Next step"

// ContentRenderer transforms page descriptions before they are printed
// (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// Runner drives a paged form through terminal prompts. Every answer round
// trips through the same request keys an HTTP client would post, so the
// controller sees no difference between transports.
//
// Controllers are built with the validation gate on: a terminal cannot show
// two pages at once, so an invalid earlier page is brought back instead of
// being skipped over.
type Runner struct {
	driver   PromptDriver
	out      *termenv.Output
	renderer ContentRenderer
	logger   *slog.Logger
	store    ports.SubmissionStore
	opts     []pagedform.Option
	now      func() time.Time
	maxInput int
}

// Result is the outcome of a completed run.
type Result struct {
	Submission *domain.Submission
	// Stored is false when no store was configured.
	Stored bool
	// Rounds counts the request cycles it took.
	Rounds int
}

// Option configures the Runner.
type Option func(*Runner)

// WithOutput sets where titles and messages are written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = termenv.NewOutput(w) }
}

// WithRenderer configures the description renderer.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) { r.renderer = renderer }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithStore saves the completed form.
func WithStore(store ports.SubmissionStore) Option {
	return func(r *Runner) { r.store = store }
}

// WithControllerOptions adds options to every controller the runner builds.
func WithControllerOptions(opts ...pagedform.Option) Option {
	return func(r *Runner) { r.opts = append(r.opts, opts...) }
}

// WithClock sets the clock used to timestamp submissions.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithMaxInputSize caps every answer at n bytes instead of MaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) { r.maxInput = n }
}

// New creates a Runner that asks questions through driver.
func New(driver PromptDriver, opts ...Option) *Runner {
	r := &Runner{
		driver: driver,
		out:    termenv.NewOutput(os.Stdout),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run asks for every page of bp until the form completes.
func (r *Runner) Run(ctx context.Context, bp *pagedform.Blueprint) (*Result, error) {
	req := MapReader{}
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ctrl, err := r.controller(bp)
		if err != nil {
			return nil, err
		}
		if _, err := ctrl.ReadFromRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("read answers: %w", err)
		}
		if ctrl.IsComplete() {
			return r.complete(ctx, bp.Name(), ctrl.Values(), round)
		}

		form, err := ctrl.Form()
		if err != nil {
			return nil, err
		}
		if req, err = r.ask(ctx, form); err != nil {
			return nil, err
		}
		r.logger.Debug("page answered", "form", form.Name, "page", form.Page, "round", round)
	}
}

func (r *Runner) controller(bp *pagedform.Blueprint) (*pagedform.Controller, error) {
	opts := append([]pagedform.Option{pagedform.WithLogger(r.logger)}, r.opts...)
	opts = append(opts, pagedform.WithValidationGate())
	return bp.Controller(opts...)
}

func (r *Runner) complete(ctx context.Context, name string, values map[string]map[string]any, rounds int) (*Result, error) {
	sub := &domain.Submission{
		ID:        uuid.NewString(),
		Form:      name,
		Values:    values,
		CreatedAt: r.now().UTC(),
	}
	res := &Result{Submission: sub, Rounds: rounds}
	if r.store != nil {
		if err := r.store.Save(ctx, sub); err != nil {
			return nil, fmt.Errorf("save submission: %w", err)
		}
		res.Stored = true
	}
	return res, nil
}

// ask prints one page, prompts for its fields and the navigation control,
// and returns the next request.
func (r *Runner) ask(ctx context.Context, form *render.Form) (MapReader, error) {
	if err := r.header(ctx, form); err != nil {
		return nil, err
	}

	next := MapReader{}
	for _, h := range form.Hidden {
		next.Set(h.Name, h.Value)
	}
	for _, f := range form.Body.Fields {
		for _, msg := range f.Errors {
			if err := r.driver.Info(ctx, r.out.String(fmt.Sprintf("  %s: %s", f.Label, msg)).Foreground(r.out.Color("1")).String()); err != nil {
				return nil, err
			}
		}
		values, err := r.field(ctx, f)
		if err != nil {
			return nil, err
		}
		next.Set(f.Name, values...)
	}

	control := form.Controls.SubmitName
	if form.Controls.Back {
		choice, err := r.driver.Select(ctx, SelectConfig{
			Message: NavigationMessage,
			Options: []string{form.Controls.SubmitLabel, form.Controls.BackLabel},
		})
		if err != nil {
			return nil, err
		}
		if choice == 1 {
			control = form.Controls.BackName
		}
	}
	next.Set(control, "1")
	return next, nil
}

func (r *Runner) header(ctx context.Context, form *render.Form) error {
	title := form.Body.Title
	if title == "" {
		title = form.Page
	}
	line := fmt.Sprintf("%s (%d/%d)", title, form.Index+1, form.Count)
	if err := r.driver.Info(ctx, r.out.String(line).Bold().String()); err != nil {
		return err
	}
	if desc := strings.TrimSpace(form.Body.Description); desc != "" {
		if r.renderer != nil {
			if rendered, err := r.renderer(desc); err == nil {
				desc = strings.TrimSpace(rendered)
			} else {
				r.logger.Warn("render description failed", "page", form.Page, "error", err)
			}
		}
		if err := r.driver.Info(ctx, desc); err != nil {
			return err
		}
	}
	for _, msg := range form.Body.Errors {
		if err := r.driver.Info(ctx, r.out.String(msg).Foreground(r.out.Color("1")).String()); err != nil {
			return err
		}
	}
	return nil
}

// field prompts for one control and returns the values to submit under its name.
func (r *Runner) field(ctx context.Context, f render.FieldView) ([]string, error) {
	message := f.Label
	if f.Required {
		message += " *"
	}
	validate := func(s string) error {
		_, err := SanitizeInputLimit(s, r.maxInput)
		return err
	}

	switch f.Widget {
	case render.WidgetHidden:
		return []string{f.Value}, nil

	case render.WidgetPassword:
		ans, err := r.driver.Password(ctx, InputConfig{Message: message, Help: f.Help, Validator: validate})
		return r.sanitized(ans, err)

	case render.WidgetTextArea:
		ans, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: f.Help, Default: f.Value})
		return r.sanitized(ans, err)

	case render.WidgetCheckbox:
		checked, _ := schema.ToBool(f.Value)
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: f.Help, Default: checked})
		if err != nil || !ok {
			return nil, err
		}
		return []string{"on"}, nil

	case render.WidgetSelect, render.WidgetRadio:
		labels, selected := optionLabels(f.Options)
		def := 0
		if len(selected) > 0 {
			def = selected[0]
		}
		i, err := r.driver.Select(ctx, SelectConfig{Message: message, Help: f.Help, Options: labels, DefaultIndex: def})
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(f.Options) {
			return nil, nil
		}
		return []string{f.Options[i].Value}, nil

	case render.WidgetCheckboxes:
		labels, selected := optionLabels(f.Options)
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Help: f.Help, Options: labels, Defaults: selected})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(picked))
		for _, i := range picked {
			if i >= 0 && i < len(f.Options) {
				out = append(out, f.Options[i].Value)
			}
		}
		return out, nil

	default:
		ans, err := r.driver.Input(ctx, InputConfig{Message: message, Help: f.Help, Default: f.Value, Validator: validate})
		return r.sanitized(ans, err)
	}
}

func (r *Runner) sanitized(ans string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	clean, err := SanitizeInputLimit(ans, r.maxInput)
	if err != nil {
		return nil, err
	}
	return []string{clean}, nil
}

func optionLabels(options []render.Option) ([]string, []int) {
	labels := make([]string, len(options))
	var selected []int
	for i, o := range options {
		labels[i] = o.Label
		if o.Selected {
			selected = append(selected, i)
		}
	}
	return labels, selected
}
