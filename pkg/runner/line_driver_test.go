package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDriver_Prompts(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"",      // input keeps default
		"maybe", // confirm retry
		"y",
		"7", // select out of range
		"2",
		"1, 3",
		"",
	}, "\n") + "\n")
	var out bytes.Buffer
	d := NewLineDriver(in, &out)
	ctx := context.Background()

	s, err := d.Input(ctx, InputConfig{Message: "City", Default: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", s)

	ok, err := d.Confirm(ctx, ConfirmConfig{Message: "News"})
	require.NoError(t, err)
	assert.True(t, ok)

	i, err := d.Select(ctx, SelectConfig{Message: "Plan", Options: []string{"free", "pro"}})
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	picked, err := d.MultiSelect(ctx, SelectConfig{Message: "Topics", Options: []string{"go", "sql", "ops"}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, picked)

	picked, err = d.MultiSelect(ctx, SelectConfig{Message: "Topics", Options: []string{"go"}, Defaults: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, picked)

	_, err = d.Input(ctx, InputConfig{Message: "More"})
	assert.True(t, errors.Is(err, io.EOF))

	assert.Contains(t, out.String(), "City [Lisbon]: ")
	assert.Contains(t, out.String(), "Please answer y or n.")
	assert.Contains(t, out.String(), "Please pick a number between 1 and 2.")
	assert.Contains(t, out.String(), "  2) pro")
}

func TestLineDriver_Validator(t *testing.T) {
	d := NewLineDriver(strings.NewReader("bad\ngood\n"), io.Discard)
	s, err := d.Input(context.Background(), InputConfig{
		Message: "Word",
		Validator: func(s string) error {
			if s == "bad" {
				return errors.New("nope")
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "good", s)
}

func TestLineDriver_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	d := NewLineDriver(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Input(ctx, InputConfig{Message: "Anything"})
	assert.ErrorIs(t, err, context.Canceled)
}
