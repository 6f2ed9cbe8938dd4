package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrors_Unwrap(t *testing.T) {
	var err error = &domain.PageError{Key: "info", Err: domain.ErrDuplicatePage}
	assert.ErrorIs(t, err, domain.ErrDuplicatePage)
	assert.Contains(t, err.Error(), `"info"`)

	err = &domain.IndexError{Index: 3, Count: 2}
	assert.ErrorIs(t, err, domain.ErrPageOutOfBounds)
	assert.Equal(t, "page index out of bounds: index 3, 2 pages", err.Error())

	err = &domain.TypeMismatchError{Page: "info", Expected: "*app.Signup", Got: "string"}
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)

	var mismatch *domain.TypeMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "string", mismatch.Got)
}
