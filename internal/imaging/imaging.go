// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging resizes source images into WebP variants using libvips.
// Every requested width yields exactly one variant; widths larger than the
// source are capped to the source width so images are never upscaled.
package imaging

import (
	"fmt"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
)

// Variant describes a single output size.
type Variant struct {
	Name    string // file name suffix, e.g. "1920"
	Width   int    // target width in pixels
	Quality int    // WebP quality 1-100
}

// DefaultQuality is used when a Variant leaves Quality at zero.
const DefaultQuality = 80

// ProcessedImage holds one generated variant.
type ProcessedImage struct {
	Name        string
	Width       int // actual output width
	Height      int // actual output height
	Data        []byte
	ContentType string // always "image/webp"
}

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// Vips is a resizer backed by libvips. Startup must have been called.
type Vips struct{}

// Resize implements the asset pipeline's resizer contract.
func (Vips) Resize(original []byte, variants []Variant) ([]ProcessedImage, error) {
	return GenerateVariants(original, variants)
}

// GenerateVariants creates one WebP image per variant, in order.
func GenerateVariants(original []byte, variants []Variant) ([]ProcessedImage, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("imaging: no variants requested")
	}

	// Probe original dimensions without fully decoding.
	probe, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	origWidth := probe.Width()
	probe.Close()

	results := make([]ProcessedImage, 0, len(variants))
	for _, v := range variants {
		targetWidth := min(v.Width, origWidth)

		img, err := vips.NewThumbnailFromBuffer(original, targetWidth, 0, vips.InterestingNone)
		if err != nil {
			return nil, fmt.Errorf("imaging: thumbnail %s (%dpx): %w", v.Name, targetWidth, err)
		}

		// Auto-rotate based on EXIF orientation, then strip metadata.
		if err := img.AutoRotate(); err != nil {
			img.Close()
			return nil, fmt.Errorf("imaging: autorotate %s: %w", v.Name, err)
		}

		params := vips.NewWebpExportParams()
		params.Quality = v.Quality
		if params.Quality == 0 {
			params.Quality = DefaultQuality
		}
		params.Lossless = false
		params.StripMetadata = true

		buf, meta, err := img.ExportWebp(params)
		img.Close()
		if err != nil {
			return nil, fmt.Errorf("imaging: export %s: %w", v.Name, err)
		}

		results = append(results, ProcessedImage{
			Name:        v.Name,
			Width:       meta.Width,
			Height:      meta.Height,
			Data:        buf,
			ContentType: "image/webp",
		})
	}

	return results, nil
}
