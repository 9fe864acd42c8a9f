// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"menupress/internal/storage"
)

// Mirror is the object storage a compiled tree is copied to.
// storage.Client satisfies it. Download must wrap storage.ErrNotFound for
// missing keys.
type Mirror interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Download(ctx context.Context, key string) ([]byte, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Each compile uploads into its own release prefix:
//
//	sites/{subdomain}/releases/{release}/index.html
//	sites/{subdomain}/current                        -> "{release}"
//
// Readers resolve current first, so a release becomes visible in one PUT
// and a partial upload is never served.

func mirrorPrefix(subdomain string) string {
	return "sites/" + subdomain + "/"
}

func releasePrefix(subdomain, release string) string {
	return mirrorPrefix(subdomain) + "releases/" + release + "/"
}

func pointerKey(subdomain string) string {
	return mirrorPrefix(subdomain) + "current"
}

// mirrorRelease tracks one upload until it is committed or discarded.
type mirrorRelease struct {
	m         Mirror
	subdomain string
	id        string
	prev      string // release current pointed at before, "" if none
	flipped   bool
}

// stageMirror uploads files of dir as a new release and points current at
// it. On error nothing of the new release is left behind.
func stageMirror(ctx context.Context, m Mirror, subdomain, release, dir string, files []string) (*mirrorRelease, error) {
	prev, err := currentRelease(ctx, m, subdomain)
	if err != nil {
		return nil, err
	}
	r := &mirrorRelease{m: m, subdomain: subdomain, id: release, prev: prev}
	if err := uploadTree(ctx, m, dir, releasePrefix(subdomain, release), files); err != nil {
		r.discard(ctx)
		return nil, err
	}
	if err := r.point(ctx, release); err != nil {
		r.discard(ctx)
		return nil, fmt.Errorf("flip current release: %w", err)
	}
	r.flipped = true
	return r, nil
}

func currentRelease(ctx context.Context, m Mirror, subdomain string) (string, error) {
	data, err := m.Download(ctx, pointerKey(subdomain))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read current release: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *mirrorRelease) point(ctx context.Context, release string) error {
	body := []byte(release)
	return r.m.Upload(ctx, pointerKey(r.subdomain), "text/plain; charset=utf-8", bytes.NewReader(body), int64(len(body)))
}

// discard removes the new release and, if current was already flipped,
// points it back. Cleanup errors are logged; the caller already fails.
func (r *mirrorRelease) discard(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if r.flipped {
		var err error
		if r.prev != "" {
			err = r.point(ctx, r.prev)
		} else {
			_, err = r.m.DeletePrefix(ctx, pointerKey(r.subdomain))
		}
		if err != nil {
			slog.Error("failed to restore mirror release", "subdomain", r.subdomain, "release", r.prev, "error", err)
		}
	}
	if _, err := r.m.DeletePrefix(ctx, releasePrefix(r.subdomain, r.id)); err != nil {
		slog.Warn("failed to remove discarded mirror release", "subdomain", r.subdomain, "release", r.id, "error", err)
	}
}

// commit drops the release that was live before this one.
func (r *mirrorRelease) commit(ctx context.Context) {
	if r.prev == "" || r.prev == r.id {
		return
	}
	if _, err := r.m.DeletePrefix(context.WithoutCancel(ctx), releasePrefix(r.subdomain, r.prev)); err != nil {
		slog.Warn("failed to remove previous mirror release", "subdomain", r.subdomain, "release", r.prev, "error", err)
	}
}

// contentType returns the MIME type served for a generated file.
func contentType(rel string) string {
	switch path.Ext(rel) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".json":
		return "application/manifest+json"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(rel)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// uploadTree copies the listed files of dir to prefix, a few at a time.
func uploadTree(ctx context.Context, m Mirror, dir, prefix string, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, rel := range files {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			if err := m.Upload(gctx, prefix+rel, contentType(rel), bytes.NewReader(data), int64(len(data))); err != nil {
				return fmt.Errorf("upload %s: %w", rel, err)
			}
			return nil
		})
	}
	return g.Wait()
}
