// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"menupress/internal/storage"
)

// ErrNotFound is returned (wrapped) by a Source when a reference does not
// resolve to an image. The pipeline substitutes placeholders for it.
var ErrNotFound = errors.New("asset not found")

// Source loads original image bytes for a content reference.
type Source interface {
	Open(ctx context.Context, ref string) ([]byte, error)
}

// DirSource reads references as paths relative to a media directory.
// References escaping the directory are reported as not found.
type DirSource struct {
	Root string
}

// Open implements Source.
func (d DirSource) Open(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.Contains(ref, "://") {
		return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}

	root, err := os.OpenRoot(d.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open media dir: %w", err)
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(strings.TrimPrefix(ref, "/")))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || !filepath.IsLocal(strings.TrimPrefix(ref, "/")) {
			return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("open %q: %w", ref, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", ref, err)
	}
	return data, nil
}

// objectStore is the subset of storage.Client used by S3Source.
type objectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	ExtractS3Key(rawURL string) (string, bool)
}

// S3Source reads references from object storage. A reference is either a
// public URL of the bucket or a bare object key.
type S3Source struct {
	store objectStore
}

// NewS3Source creates a Source backed by object storage.
func NewS3Source(c *storage.Client) *S3Source {
	return &S3Source{store: c}
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, ref string) ([]byte, error) {
	key := ref
	if strings.Contains(ref, "://") {
		k, ok := s.store.ExtractS3Key(ref)
		if !ok {
			return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
		}
		key = k
	}

	data, err := s.store.Download(ctx, strings.TrimPrefix(key, "/"))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return data, err
}

// Chain tries each source in order and returns the first hit. Only
// ErrNotFound moves on to the next source; other errors stop the search.
type Chain []Source

// Open implements Source.
func (c Chain) Open(ctx context.Context, ref string) ([]byte, error) {
	for _, src := range c {
		data, err := src.Open(ctx, ref)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
}
