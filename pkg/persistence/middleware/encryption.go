package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/ports"
	"github.com/aretw0/pagedform/pkg/seal"
)

const (
	envelopePage  = "__encrypted__"
	envelopeField = "data"
)

// ErrNotEncrypted is returned when a stored submission carries no envelope.
var ErrNotEncrypted = errors.New("submission is not encrypted")

type encryptionMiddleware struct {
	next   ports.SubmissionStore
	sealer *seal.Sealer
}

// NewEncryptionMiddleware seals submission values before they reach the
// store. ID, form and timestamp stay readable so listing keeps working.
func NewEncryptionMiddleware(sealer *seal.Sealer) Middleware {
	if sealer == nil {
		panic("middleware: nil sealer")
	}
	return func(next ports.SubmissionStore) ports.SubmissionStore {
		return &encryptionMiddleware{next: next, sealer: sealer}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, sub *domain.Submission) error {
	plain, err := json.Marshal(sub.Values)
	if err != nil {
		return fmt.Errorf("failed to marshal values: %w", err)
	}
	sealed, err := m.sealer.SealString(plain)
	if err != nil {
		return fmt.Errorf("failed to encrypt values: %w", err)
	}

	envelope := &domain.Submission{
		ID:        sub.ID,
		Form:      sub.Form,
		CreatedAt: sub.CreatedAt,
		Values: map[string]map[string]any{
			envelopePage: {envelopeField: sealed},
		},
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, id string) (*domain.Submission, error) {
	envelope, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	sealed, ok := envelope.Values[envelopePage][envelopeField].(string)
	if !ok {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotEncrypted)
	}
	plain, err := m.sealer.OpenString(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt values: %w", err)
	}

	out := *envelope
	out.Values = nil
	if err := json.Unmarshal(plain, &out.Values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal values: %w", err)
	}
	return &out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *encryptionMiddleware) List(ctx context.Context, form string) ([]string, error) {
	return m.next.List(ctx, form)
}
