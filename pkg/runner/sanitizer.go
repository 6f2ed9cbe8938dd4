package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize caps a single submitted value at 4KB.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "PAGEDFORM_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput enforces the size limit, rejects invalid UTF-8 and strips
// control characters other than newline, tab and carriage return.
// Oversized values are rejected rather than truncated.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, 0)
}

// SanitizeInputLimit is SanitizeInput with an explicit size limit. A limit of
// zero or less falls back to MaxInputSize.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxInputSize()
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

// SanitizeAll sanitizes every value, failing on the first rejected one.
func SanitizeAll(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		clean, err := SanitizeInput(v)
		if err != nil {
			return nil, err
		}
		out = append(out, clean)
	}
	return out, nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// MaxInputSize returns the per-value limit, honouring EnvMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
