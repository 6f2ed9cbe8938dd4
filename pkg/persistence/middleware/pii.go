package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/ports"
)

// Mask replaces the values of masked fields.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SubmissionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks fields whose name, or "<page>.<field>" path, matches
// one of the patterns before they reach the store. It panics on an invalid
// pattern.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SubmissionStore) ports.SubmissionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sub *domain.Submission) error {
	masked := sub.Clone()
	for page, values := range masked.Values {
		for field := range values {
			if m.matches(field) || m.matches(page+"."+field) {
				values[field] = Mask
			}
		}
	}
	return m.next.Save(ctx, masked)
}

func (m *piiMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Submission, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context, form string) ([]string, error) {
	return m.next.List(ctx, form)
}
