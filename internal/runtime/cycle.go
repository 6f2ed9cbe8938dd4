package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/pagedform/pkg/domain"
)

// Outcome summarises one processed cycle.
type Outcome struct {
	// Start is the page the cycle started from.
	Start string
	// Target is the page navigation moved to.
	Target string
	// Selected is the page to show next. Empty when Complete.
	Selected string
	// AttemptedCompletion is set when Next was requested on the last page.
	AttemptedCompletion bool
	// InvalidPage is the first page in [0..Target] that failed validation.
	InvalidPage string
	Complete    bool
}

// ReadFromRequest ingests a request and processes it.
// The page that was on screen reads its live fields; every other page
// restores its serialized values. A request without the page marker is a
// fresh form: nothing was serialized, so pages keep their defaults.
func (c *Controller) ReadFromRequest(ctx context.Context, r domain.RequestReader) (Outcome, error) {
	intent := domain.ReadIntent(r, c.Namespace())
	for i, p := range c.pages {
		switch {
		case c.keys[i] == intent.Page:
			p.ReadFromRequest(r)
		case intent.Page != "":
			p.ReadSerializedValues(r)
		}
	}
	return c.Process(ctx, intent)
}

// ReadFromObject binds every page from obj and selects the first page to show.
func (c *Controller) ReadFromObject(ctx context.Context, obj any) (Outcome, error) {
	for _, p := range c.pages {
		if err := p.ReadFromObject(obj); err != nil {
			return Outcome{}, err
		}
	}
	return c.Process(ctx, domain.Intent{})
}

// WriteToResponse lets every page write into resp, in order, threading the
// value each page returns into the next.
func (c *Controller) WriteToResponse(resp any) (any, error) {
	var err error
	for _, p := range c.pages {
		if resp, err = p.WriteToResponse(resp); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Process applies intent to the registered pages.
//
// Navigation resolves a target page from the start page. Every page up to the
// target is validated in order and the scan stops at the first failure. The
// form completes only when Next was requested on the last page and nothing
// failed. Otherwise the target page is selected, or the first invalid page
// when the controller was built WithValidationGate.
//
// OnValidationFailed fires only for a submission: Next was requested, or the
// named page was posted without Back. A fresh form or a step back is not one.
func (c *Controller) Process(ctx context.Context, intent domain.Intent) (Outcome, error) {
	if len(c.pages) == 0 {
		return Outcome{}, fmt.Errorf("process %q: %w", c.name, &domain.IndexError{Index: 0, Count: 0})
	}

	start := 0
	if i, ok := c.index[intent.Page]; ok {
		start = i
	}

	target := start
	attempted := false
	switch {
	case intent.Back:
		target = max(0, start-1)
	case intent.Next:
		target = start + 1
		if target > c.LastIndex() {
			attempted = true
			target = c.LastIndex()
		}
	}

	invalid := -1
	for i := 0; i <= target; i++ {
		if !c.pages[i].Valid() {
			invalid = i
			break
		}
	}

	out := Outcome{
		Start:               c.keys[start],
		Target:              c.keys[target],
		AttemptedCompletion: attempted,
	}
	if invalid >= 0 {
		out.InvalidPage = c.keys[invalid]
		if _, live := c.index[intent.Page]; !intent.Back && (intent.Next || live) {
			c.emitPage(ctx, domain.EventValidationFailed, invalid)
		}
	}

	switch {
	case attempted && invalid < 0:
		c.selected = -1
		c.complete = true
		out.Complete = true
	case invalid >= 0 && c.gate:
		c.selected = invalid
		c.complete = false
	default:
		c.selected = target
		c.complete = false
	}
	if c.selected >= 0 {
		out.Selected = c.keys[c.selected]
		c.emitPage(ctx, domain.EventPageShown, c.selected)
	} else {
		c.emitComplete(ctx)
	}

	c.outcome = out
	c.logger.DebugContext(ctx, "form processed",
		"form", c.name,
		"start", out.Start,
		"target", out.Target,
		"selected", out.Selected,
		"invalid_page", out.InvalidPage,
		"complete", out.Complete,
	)
	return out, nil
}

// SelectedPage returns the page to show, or nil before processing and once complete.
func (c *Controller) SelectedPage() domain.Page {
	if c.selected < 0 {
		return nil
	}
	return c.pages[c.selected]
}

// IsComplete reports whether the last cycle completed the form.
func (c *Controller) IsComplete() bool {
	return c.complete
}

// Outcome returns the result of the last processed cycle.
func (c *Controller) Outcome() Outcome {
	return c.outcome
}

func (c *Controller) emitPage(ctx context.Context, typ domain.EventType, i int) {
	hook := c.hooks.OnPageShown
	if typ == domain.EventValidationFailed {
		hook = c.hooks.OnValidationFailed
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.PageEvent{
		EventBase: domain.EventBase{Timestamp: c.now(), Type: typ, Form: c.name},
		PageKey:   c.keys[i],
		PageIndex: i,
	})
}

func (c *Controller) emitComplete(ctx context.Context) {
	if c.hooks.OnComplete == nil {
		return
	}
	c.hooks.OnComplete(ctx, &domain.FormEvent{
		EventBase: domain.EventBase{Timestamp: c.now(), Type: domain.EventCompleted, Form: c.name},
		Pages:     len(c.pages),
		Values:    c.Values(),
	})
}
