// Package html renders paged forms as HTML fragments using pongo2 templates.
package html

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

//go:embed templates/*.tpl
var builtin embed.FS

const (
	formTemplate     = "form.tpl"
	completeTemplate = "complete.tpl"
	layoutTemplate   = "layout.tpl"
)

var registerFilters sync.Once

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	policy    *bluemonday.Policy
}

// WithTemplates overrides the built-in templates. files must provide
// form.tpl, field.tpl, complete.tpl and layout.tpl.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithPolicy replaces the sanitizer applied to page descriptions.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// Renderer turns render.Form values into HTML. It is safe for concurrent use.
type Renderer struct {
	set    *pongo2.TemplateSet
	policy *bluemonday.Policy

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// Page is the per-request data that is not part of the form itself.
type Page struct {
	// Action is the URL the form posts to.
	Action string
}

// New constructs a Renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(builtin, "templates")
		if err != nil {
			return nil, fmt.Errorf("html: open built-in templates: %w", err)
		}
		cfg.templates = sub
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	registerFilters.Do(func() {
		if !pongo2.FilterExists("checked") {
			_ = pongo2.RegisterFilter("checked", filterChecked)
		}
	})

	r := &Renderer{
		set:       pongo2.NewSet("pagedform", pongo2.NewFSLoader(cfg.templates)),
		policy:    cfg.policy,
		templates: make(map[string]*pongo2.Template),
	}
	for _, name := range []string{formTemplate, completeTemplate, layoutTemplate} {
		if _, err := r.template(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Sanitize cleans untrusted markup with the renderer policy.
func (r *Renderer) Sanitize(s string) string {
	return strings.TrimSpace(r.policy.Sanitize(s))
}

// Form renders the form fragment.
func (r *Renderer) Form(w io.Writer, form *render.Form, page Page) error {
	if form == nil {
		return errors.New("html: nil form")
	}
	return r.execute(w, formTemplate, pongo2.Context{
		"form":        form,
		"action":      page.Action,
		"description": r.Sanitize(form.Body.Description),
	})
}

// Complete renders the confirmation shown once a form is complete.
// id is the stored submission reference and may be empty.
func (r *Renderer) Complete(w io.Writer, name, message, id string) error {
	return r.execute(w, completeTemplate, pongo2.Context{
		"name":    name,
		"message": message,
		"id":      id,
	})
}

// Document wraps a rendered fragment in a minimal HTML page.
func (r *Renderer) Document(w io.Writer, title string, content string) error {
	return r.execute(w, layoutTemplate, pongo2.Context{
		"title":   title,
		"content": content,
	})
}

func (r *Renderer) execute(w io.Writer, name string, ctx pongo2.Context) error {
	tmpl, err := r.template(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return fmt.Errorf("html: execute template %q: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

func filterChecked(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := in.String()
	if s == "" {
		return pongo2.AsValue(false), nil
	}
	b, err := schema.ToBool(s)
	return pongo2.AsValue(err == nil && b), nil
}
