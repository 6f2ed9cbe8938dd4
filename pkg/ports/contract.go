package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/pkg/domain"
)

// RunSubmissionStoreContract runs a suite of tests to verify that a
// SubmissionStore implementation adheres to the defined interface contract.
func RunSubmissionStoreContract(t *testing.T, store SubmissionStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000000")

	newSub := func(id, form string, at time.Time) *domain.Submission {
		return &domain.Submission{
			ID:        id,
			Form:      form,
			CreatedAt: at,
			Values: map[string]map[string]any{
				"info":    {"email": "ada@example.com", "topics": []any{"go", "sql"}},
				"confirm": {"agree": "on"},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-load"
		sub := newSub(id, "signup", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

		require.NoError(t, store.Save(ctx, sub), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, "signup", loaded.Form)
		assert.True(t, sub.CreatedAt.Equal(loaded.CreatedAt))
		assert.Equal(t, "ada@example.com", loaded.Values["info"]["email"])
		// JSON-backed stores turn slices into []any.
		assert.Len(t, loaded.Values["info"]["topics"], 2)
	})

	t.Run("Save Twice", func(t *testing.T) {
		id := prefix + "-dup"
		require.NoError(t, store.Save(ctx, newSub(id, "signup", time.Now())))

		second := newSub(id, "signup", time.Now())
		second.Values["info"]["email"] = "eve@example.com"
		assert.ErrorIs(t, store.Save(ctx, second), domain.ErrSubmissionExists)

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", loaded.Values["info"]["email"], "the first write wins")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-del"
		require.NoError(t, store.Save(ctx, newSub(id, "signup", time.Now())))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSubmissionNotFound, "Load after Delete should return ErrSubmissionNotFound")

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		form := prefix + "-list"
		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		var ids []string
		for i := 0; i < 3; i++ {
			id := fmt.Sprintf("%s-%d", form, i)
			ids = append(ids, id)
			require.NoError(t, store.Save(ctx, newSub(id, form, base.Add(time.Duration(i)*time.Minute))))
		}
		other := prefix + "-other"
		require.NoError(t, store.Save(ctx, newSub(other, "other-form", base)))

		defer func() {
			for _, id := range append(ids, other) {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, ids, listed)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, all, other)
		assert.Contains(t, all, ids[0])
	})
}
