// Package file stores submissions as JSON documents on the local filesystem.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/pagedform/pkg/domain"
)

// Store implements ports.SubmissionStore using the local filesystem.
// Each submission is a JSON file named after its ID.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".pagedform/submissions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".pagedform", "submissions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("submission id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid submission id %q", id)
	}
	return filepath.Join(s.BasePath, id+".json"), nil
}

// Save writes the submission to a temporary file, syncs it and links it into
// place. Linking fails when the destination exists, which makes the write
// both atomic and first-writer-wins.
func (s *Store) Save(ctx context.Context, sub *domain.Submission) error {
	destPath, err := s.path(sub.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure submission directory: %w", err)
	}
	if _, err := os.Stat(destPath); err == nil {
		return domain.ErrSubmissionExists
	}

	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	// Same directory so the link stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+sub.ID+"-*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Link(tmpPath, destPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.ErrSubmissionExists
		}
		return fmt.Errorf("failed to link submission file: %w", err)
	}
	return nil
}

// Load reads a submission file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Submission, error) {
	filePath, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to read submission file: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// Delete removes the submission file.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete submission file: %w", err)
	}
	return nil
}

// List returns the IDs of form, oldest first. Every file is read to learn its
// form and creation time.
func (s *Store) List(ctx context.Context, form string) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	var subs []*domain.Submission
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sub, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if form == "" || sub.Form == form {
			subs = append(subs, sub)
		}
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids, nil
}
