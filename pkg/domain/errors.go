package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicatePage is returned when a page key is registered twice.
var ErrDuplicatePage = errors.New("duplicate page")

// ErrPageNotFound is returned when a page key is not registered.
var ErrPageNotFound = errors.New("page not found")

// ErrPageOutOfBounds is returned when a page index is outside [0, count-1].
var ErrPageOutOfBounds = errors.New("page index out of bounds")

// ErrNoSelectedPage is returned when a form is rendered before a page was selected,
// either because nothing was processed yet or because the form is complete.
var ErrNoSelectedPage = errors.New("no selected page")

// ErrTypeMismatch is returned when a page is bound to an object or response of the wrong shape.
var ErrTypeMismatch = errors.New("type mismatch")

// PageError reports a registry failure for a specific page key.
type PageError struct {
	Key string
	Err error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %q: %v", e.Key, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// IndexError reports an out-of-bounds page index.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, %d pages", ErrPageOutOfBounds, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrPageOutOfBounds
}

// TypeMismatchError reports an object binding against the wrong type.
type TypeMismatchError struct {
	Page     string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("page %q: %v: expected %s, got %s", e.Page, ErrTypeMismatch, e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}
