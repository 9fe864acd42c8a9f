// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets turns image references from website content into
// optimized files for the generated site. Every reference yields one file
// per target width of its category; missing references yield SVG
// placeholders at the same widths so a site never waits on media.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"menupress/internal/imaging"
	"menupress/internal/slug"
)

// Category groups images that share target widths.
type Category string

const (
	Hero    Category = "hero"
	Menu    Category = "menu"
	Gallery Category = "gallery"
	Logo    Category = "logo"
)

// Widths lists the target widths of each category, largest first.
var Widths = map[Category][]int{
	Hero:    {1920, 1280, 768},
	Menu:    {800, 400},
	Gallery: {1200, 600},
	Logo:    {512, 192},
}

// quality is the WebP quality per category. Logos keep more detail.
var quality = map[Category]int{
	Hero:    80,
	Menu:    78,
	Gallery: 80,
	Logo:    90,
}

// File is one generated asset, addressed relative to the site root.
type File struct {
	Path        string
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ImageSet is the processed form of one reference.
type ImageSet struct {
	Ref         string
	Category    Category
	Placeholder bool
	Files       []File // ordered like Widths[Category]
}

// Src returns the path of the widest file, or "" for an empty set.
func (s ImageSet) Src() string {
	if len(s.Files) == 0 {
		return ""
	}
	return s.Files[0].Path
}

// SrcSet returns an HTML srcset value, e.g. "images/hero/a-1920.webp 1920w, ...".
func (s ImageSet) SrcSet() string {
	parts := make([]string, len(s.Files))
	for i, f := range s.Files {
		parts[i] = f.Path + " " + strconv.Itoa(Widths[s.Category][i]) + "w"
	}
	return strings.Join(parts, ", ")
}

// PathForWidth returns the file generated for target width w, or "".
func (s ImageSet) PathForWidth(w int) string {
	for i, tw := range Widths[s.Category] {
		if tw == w && i < len(s.Files) {
			return s.Files[i].Path
		}
	}
	return ""
}

// Resizer encodes an original image into the requested variants.
type Resizer interface {
	Resize(original []byte, variants []imaging.Variant) ([]imaging.ProcessedImage, error)
}

// Request identifies one reference to process.
type Request struct {
	Ref      string
	Category Category
}

// Pipeline processes image references through a Source and a Resizer.
type Pipeline struct {
	source      Source
	resizer     Resizer
	concurrency int
}

// NewPipeline creates a Pipeline. A nil source makes every reference a
// placeholder.
func NewPipeline(source Source, resizer Resizer) *Pipeline {
	return &Pipeline{source: source, resizer: resizer, concurrency: 4}
}

// Process returns the files for one reference. Empty and unknown
// references produce placeholders. Any other failure is returned.
func (p *Pipeline) Process(ctx context.Context, ref string, cat Category) (ImageSet, error) {
	widths, ok := Widths[cat]
	if !ok {
		return ImageSet{}, fmt.Errorf("unknown asset category %q", cat)
	}
	if err := ctx.Err(); err != nil {
		return ImageSet{}, err
	}

	placeholder := ImageSet{Ref: ref, Category: cat, Placeholder: true, Files: placeholderFiles(cat)}
	if strings.TrimSpace(ref) == "" || p.source == nil {
		return placeholder, nil
	}

	original, err := p.source.Open(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		slog.Warn("asset missing, using placeholder", "ref", ref, "category", cat)
		return placeholder, nil
	}
	if err != nil {
		return ImageSet{}, fmt.Errorf("load %s image %q: %w", cat, ref, err)
	}

	variants := make([]imaging.Variant, len(widths))
	for i, w := range widths {
		variants[i] = imaging.Variant{Name: strconv.Itoa(w), Width: w, Quality: quality[cat]}
	}
	images, err := p.resizer.Resize(original, variants)
	if err != nil {
		return ImageSet{}, fmt.Errorf("resize %s image %q: %w", cat, ref, err)
	}
	if len(images) != len(widths) {
		return ImageSet{}, fmt.Errorf("resize %s image %q: got %d variants, want %d", cat, ref, len(images), len(widths))
	}

	stem := fileStem(ref)
	files := make([]File, len(images))
	for i, img := range images {
		files[i] = File{
			Path:        fmt.Sprintf("images/%s/%s-%d.webp", cat, stem, widths[i]),
			Data:        img.Data,
			ContentType: img.ContentType,
			Width:       img.Width,
			Height:      img.Height,
		}
	}
	return ImageSet{Ref: ref, Category: cat, Files: files}, nil
}

// ProcessAll processes every distinct request concurrently. The first
// failure cancels the rest.
func (p *Pipeline) ProcessAll(ctx context.Context, reqs []Request) (map[Request]ImageSet, error) {
	out := make(map[Request]ImageSet, len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	seen := make(map[Request]bool, len(reqs))
	for _, req := range reqs {
		if seen[req] {
			continue
		}
		seen[req] = true

		g.Go(func() error {
			set, err := p.Process(gctx, req.Ref, req.Category)
			if err != nil {
				return err
			}
			mu.Lock()
			out[req] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fileStem derives a stable file name from a reference: a readable slug of
// the base name plus a short hash of the full reference.
func fileStem(ref string) string {
	base := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	name := slug.Truncate(slug.Generate(base), 40)
	if name == "" {
		name = "image"
	}
	sum := sha256.Sum256([]byte(ref))
	return name + "-" + hex.EncodeToString(sum[:4])
}
