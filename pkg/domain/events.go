package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPageShown        EventType = "page_shown"
	EventValidationFailed EventType = "validation_failed"
	EventCompleted        EventType = "completed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Form      string    `json:"form"`
}

// PageEvent reports something that happened to a page during one cycle.
type PageEvent struct {
	EventBase
	PageKey   string `json:"page_key"`
	PageIndex int    `json:"page_index"`
}

// FormEvent reports a form reaching completion. Values holds the final
// values of every page, keyed by page.
type FormEvent struct {
	EventBase
	Pages  int                       `json:"pages"`
	Values map[string]map[string]any `json:"values,omitempty"`
}

// LifecycleHooks defines callbacks for controller observability.
// Every hook is optional.
type LifecycleHooks struct {
	OnPageShown        func(context.Context, *PageEvent)
	OnValidationFailed func(context.Context, *PageEvent)
	OnComplete         func(context.Context, *FormEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPageShown:        chain(h.OnPageShown, other.OnPageShown),
		OnValidationFailed: chain(h.OnValidationFailed, other.OnValidationFailed),
		OnComplete:         chain(h.OnComplete, other.OnComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
