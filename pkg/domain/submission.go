package domain

import (
	"errors"
	"time"
)

// ErrSubmissionNotFound is returned when a submission ID is unknown to a store.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionExists is returned when a submission ID is saved twice.
var ErrSubmissionExists = errors.New("submission already exists")

// Submission is the record of a completed form.
type Submission struct {
	ID        string                    `json:"id"`
	Form      string                    `json:"form"`
	Values    map[string]map[string]any `json:"values"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Clone returns a copy whose value maps can be modified independently.
func (s *Submission) Clone() *Submission {
	out := *s
	out.Values = make(map[string]map[string]any, len(s.Values))
	for page, values := range s.Values {
		cp := make(map[string]any, len(values))
		for k, v := range values {
			cp[k] = v
		}
		out.Values[page] = cp
	}
	return &out
}
