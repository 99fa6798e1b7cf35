// Package jsonfile keeps the property collection in a single JSON file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"immobot/internal/domain"
)

type Repo struct{ path string }

func New(path string) *Repo { return &Repo{path: path} }

func (r *Repo) Path() string { return r.path }

// Load returns domain.ErrNoRecords when the file does not exist and wraps
// domain.ErrStoreUnavailable when it cannot be read or decoded.
func (r *Repo) Load(ctx context.Context) ([]domain.Property, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	var ps []domain.Property
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	if ps == nil {
		ps = []domain.Property{}
	}
	return ps, nil
}

// Save overwrites the file atomically: write a sibling temp file, then rename.
// Output is 2-space indented UTF-8 with non-ASCII text left as is.
func (r *Repo) Save(ctx context.Context, ps []domain.Property) error {
	if ps == nil {
		ps = []domain.Property{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ps); err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename to %s: %w", r.path, err)
	}
	return nil
}
