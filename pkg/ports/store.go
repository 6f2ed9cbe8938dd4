package ports

import (
	"context"

	"github.com/aretw0/pagedform/pkg/domain"
)

// SubmissionStore persists completed forms.
type SubmissionStore interface {
	// Save persists a submission. Saving an ID twice fails with
	// domain.ErrSubmissionExists, so retried requests cannot overwrite answers.
	Save(ctx context.Context, sub *domain.Submission) error

	// Load retrieves a submission.
	// Returns domain.ErrSubmissionNotFound if the ID does not exist.
	Load(ctx context.Context, id string) (*domain.Submission, error)

	// Delete removes a submission. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs stored for form, oldest first. An empty form lists everything.
	List(ctx context.Context, form string) ([]string, error)
}
