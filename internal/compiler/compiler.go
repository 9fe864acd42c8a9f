// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compiler turns a website content snapshot into a complete static
// site on disk. Every compile writes a fresh staging directory and only
// replaces the live tree once all files exist, so a failed compile never
// leaves a half-written site behind.
package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"menupress/internal/assets"
	"menupress/internal/engine"
	"menupress/internal/metrics"
	"menupress/internal/models"
)

// Renderer renders one named theme file.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// AssetProcessor turns image references into generated files.
type AssetProcessor interface {
	ProcessAll(ctx context.Context, reqs []assets.Request) (map[assets.Request]assets.ImageSet, error)
}

// Target identifies where a snapshot is compiled to.
type Target struct {
	WebsiteID uuid.UUID
	Subdomain string
	LiveURL   string // e.g. https://joes-pizza.menupress.site
}

var subdomainRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Compiler builds static sites under a root directory, one subdirectory
// per subdomain.
type Compiler struct {
	sitesDir  string
	renderer  Renderer
	processor AssetProcessor
	mirror    Mirror
	recorder  metrics.Recorder
	now       func() time.Time
}

// New creates a Compiler writing below sitesDir.
func New(sitesDir string, renderer Renderer, processor AssetProcessor) *Compiler {
	return &Compiler{
		sitesDir:  sitesDir,
		renderer:  renderer,
		processor: processor,
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
	}
}

// SetMirror uploads every compiled tree to object storage before it goes
// live. Call after New() when storage is configured.
func (c *Compiler) SetMirror(m Mirror) {
	c.mirror = m
}

// SetRecorder configures the metrics recorder.
func (c *Compiler) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	c.recorder = r
}

// SiteDir returns the live directory of a subdomain.
func (c *Compiler) SiteDir(subdomain string) string {
	return filepath.Join(c.sitesDir, subdomain)
}

// Compile builds the complete site of snapshot for target. It never returns
// an error: failures, including cancellation of ctx, are reported through
// the Success and Err fields of the result.
func (c *Compiler) Compile(ctx context.Context, snapshot models.Content, target Target) *ArtifactSet {
	start := c.now()
	set := newArtifactSet()

	err := c.compile(ctx, &snapshot, target, set)

	set.Duration = c.now().Sub(start)
	set.Success = err == nil
	c.recorder.ObserveCompileDuration(set.Duration, set.Success)
	if err != nil {
		set.Err = err
		set.Files = make(map[Category][]string)
		slog.Error("site compile failed", "website_id", target.WebsiteID, "subdomain", target.Subdomain, "error", err)
		return set
	}
	for cat, paths := range set.Files {
		c.recorder.AddCompiledFiles(string(cat), len(paths))
	}
	slog.Info("site compiled", "website_id", target.WebsiteID, "subdomain", target.Subdomain,
		"files", set.Total(), "duration", set.Duration)
	return set
}

func (c *Compiler) compile(ctx context.Context, doc *models.Content, target Target, set *ArtifactSet) error {
	if !subdomainRe.MatchString(target.Subdomain) {
		return fmt.Errorf("invalid subdomain %q", target.Subdomain)
	}
	if target.LiveURL == "" {
		return errors.New("live URL is required")
	}
	if doc.Homepage() == nil {
		return errors.New("website has no homepage")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.sitesDir, 0o755); err != nil {
		return fmt.Errorf("create sites dir: %w", err)
	}
	release := uuid.NewString()
	stage := filepath.Join(c.sitesDir, target.Subdomain+".staging-"+release)
	if err := os.Mkdir(stage, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	promoted := false
	defer func() {
		if promoted {
			return
		}
		if err := os.RemoveAll(stage); err != nil {
			slog.Warn("failed to remove staging directory", "staging", stage, "error", err)
		}
	}()

	b := &build{
		c:      c,
		doc:    doc,
		target: target,
		set:    set,
		stage:  stage,
		date:   c.now().UTC(),
		files:  make(map[string]bool),
	}
	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"assets", b.processAssets},
		{"html", b.pages},
		{"css", b.styles},
		{"js", b.scripts},
		{"seo", b.seo},
		{"pwa", b.pwa},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := time.Now()
		if err := st.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
		c.recorder.ObserveStageDuration(st.name, time.Since(t))
	}

	var mr *mirrorRelease
	if c.mirror != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		if mr, err = stageMirror(ctx, c.mirror, target.Subdomain, release, stage, set.Paths()); err != nil {
			return fmt.Errorf("mirror: %w", err)
		}
	}

	live := c.SiteDir(target.Subdomain)
	err := ctx.Err()
	if err == nil {
		err = promote(stage, live)
	}
	if err != nil {
		if mr != nil {
			mr.discard(ctx)
		}
		return err
	}
	promoted = true
	if mr != nil {
		mr.commit(ctx)
		set.Release = release
	}
	set.Root = live
	return nil
}

// promote swaps stage into place as live. An existing live tree is moved
// to live.prev first and removed once the swap succeeded.
func promote(stage, live string) error {
	prev := live + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}
	hadLive := false
	if _, err := os.Stat(live); err == nil {
		if err := os.Rename(live, prev); err != nil {
			return fmt.Errorf("backup live tree: %w", err)
		}
		hadLive = true
	}
	if err := os.Rename(stage, live); err != nil {
		if hadLive {
			if rerr := os.Rename(prev, live); rerr != nil {
				slog.Error("failed to restore live tree", "live", live, "error", rerr)
			}
		}
		return fmt.Errorf("promote staging: %w", err)
	}
	if hadLive {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("failed to remove previous tree", "path", prev, "error", err)
		}
	}
	return nil
}

// Cleanup describes what Remove deleted.
type Cleanup struct {
	Directory      string `json:"directory"`
	FilesRemoved   int    `json:"files_removed"`
	MirrorRemoved  int    `json:"mirror_objects_removed"`
	DirectoryFound bool   `json:"directory_found"`
}

// Remove deletes the live tree of a subdomain and its mirror.
func (c *Compiler) Remove(ctx context.Context, subdomain string) (*Cleanup, error) {
	if !subdomainRe.MatchString(subdomain) {
		return nil, fmt.Errorf("remove site: invalid subdomain %q", subdomain)
	}
	dir := c.SiteDir(subdomain)
	cl := &Cleanup{Directory: dir}

	if _, err := os.Stat(dir); err == nil {
		cl.DirectoryFound = true
		err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				cl.FilesRemoved++
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("remove site %s: %w", subdomain, err)
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("remove site %s: %w", subdomain, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove site %s: %w", subdomain, err)
	}

	if c.mirror != nil {
		n, err := c.mirror.DeletePrefix(ctx, mirrorPrefix(subdomain))
		if err != nil {
			return nil, fmt.Errorf("remove site mirror %s: %w", subdomain, err)
		}
		cl.MirrorRemoved = n
	}
	slog.Info("site removed", "subdomain", subdomain, "files", cl.FilesRemoved, "mirror_objects", cl.MirrorRemoved)
	return cl, nil
}

// build holds the state of one compile.
type build struct {
	c      *Compiler
	doc    *models.Content
	target Target
	set    *ArtifactSet
	stage  string
	date   time.Time

	files  map[string]bool
	images map[assets.Request]assets.ImageSet
	theme  engine.ThemeData
}

func (b *build) write(cat Category, rel string, data []byte) error {
	if b.files[rel] {
		return nil
	}
	full := filepath.Join(b.stage, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	b.files[rel] = true
	b.set.add(cat, rel)
	return nil
}

func (b *build) render(cat Category, rel, name string, data any) error {
	out, err := b.c.renderer.Render(name, data)
	if err != nil {
		return err
	}
	return b.write(cat, rel, []byte(out))
}

// imageRequests lists every image the site references.
func imageRequests(doc *models.Content) []assets.Request {
	reqs := []assets.Request{
		{Ref: doc.HeroImage, Category: assets.Hero},
		{Ref: doc.DesignSystem.LogoImage, Category: assets.Logo},
	}
	for _, item := range doc.MenuItems {
		if item.Image != "" && item.Available {
			reqs = append(reqs, assets.Request{Ref: item.Image, Category: assets.Menu})
		}
	}
	for _, p := range doc.Pages {
		for _, s := range p.Sections {
			switch pl := s.Payload.(type) {
			case *models.HeroSection:
				if pl.Image != "" {
					reqs = append(reqs, assets.Request{Ref: pl.Image, Category: assets.Hero})
				}
			case *models.AboutSection:
				if pl.Image != "" {
					reqs = append(reqs, assets.Request{Ref: pl.Image, Category: assets.Gallery})
				}
			case *models.GallerySection:
				for _, img := range pl.Images {
					reqs = append(reqs, assets.Request{Ref: img.Src, Category: assets.Gallery})
				}
			case *models.CustomSection:
				for _, ref := range engine.ImageRefs(pl.HTML) {
					reqs = append(reqs, assets.Request{Ref: ref, Category: assets.Gallery})
				}
			}
		}
	}
	return reqs
}

func (b *build) processAssets(ctx context.Context) error {
	reqs := imageRequests(b.doc)
	images, err := b.c.processor.ProcessAll(ctx, reqs)
	if err != nil {
		return err
	}
	b.images = images
	for _, req := range reqs {
		for _, f := range images[req].Files {
			if err := b.write(CategoryAssets, f.Path, f.Data); err != nil {
				return err
			}
		}
	}
	return nil
}

// image resolves a reference processed by processAssets.
func (b *build) image(ref, category string) engine.Image {
	set, ok := b.images[assets.Request{Ref: ref, Category: assets.Category(category)}]
	if !ok {
		slog.Warn("image was not processed", "ref", ref, "category", category)
		return engine.Image{}
	}
	return imageOf(set)
}

func imageOf(set assets.ImageSet) engine.Image {
	img := engine.Image{Src: set.Src(), SrcSet: set.SrcSet()}
	if len(set.Files) > 0 {
		img.Width, img.Height = set.Files[0].Width, set.Files[0].Height
	}
	return img
}

// ownerImage resolves an <img> in owner HTML to its processed form. Unknown
// and missing images keep their original src.
func (b *build) ownerImage(src string) (engine.Image, bool) {
	set, ok := b.images[assets.Request{Ref: src, Category: assets.Gallery}]
	if !ok || set.Placeholder {
		return engine.Image{}, false
	}
	return imageOf(set), true
}

func (b *build) liveURL() string {
	return strings.TrimRight(b.target.LiveURL, "/")
}

func pageFile(p models.Page) string {
	if p.IsHomepage {
		return "index.html"
	}
	return p.Slug + ".html"
}

func (b *build) pages(ctx context.Context) error {
	doc := b.doc
	live := b.liveURL()
	home := doc.Homepage()

	hero := b.images[assets.Request{Ref: doc.HeroImage, Category: assets.Hero}]
	logo := b.images[assets.Request{Ref: doc.DesignSystem.LogoImage, Category: assets.Logo}]
	itemImages := make(map[string]string)
	for _, item := range doc.MenuItems {
		if set, ok := b.images[assets.Request{Ref: item.Image, Category: assets.Menu}]; ok && item.Image != "" {
			itemImages[item.Image] = set.Src()
		}
	}
	menuPage := ""
	for _, p := range doc.Pages {
		if !p.IsHomepage && p.Published && containsKind(p.Sections, models.SectionMenu) {
			menuPage = pageFile(p)
			break
		}
	}
	ld, err := structuredData(doc, live, menuPage, hero.Src(), logo.Src(), itemImages)
	if err != nil {
		return fmt.Errorf("structured data: %w", err)
	}

	rewrite := func(fragment string) string { return engine.RewriteImages(fragment, b.ownerImage) }
	site := engine.SiteData{
		Name:              doc.WebsiteName,
		Title:             firstNonEmpty(doc.SEO.SiteTitle, doc.WebsiteName),
		Description:       doc.SEO.SiteDescription,
		Keywords:          strings.Join(doc.SEO.Keywords, ", "),
		LiveURL:           live,
		Logo:              imageOf(logo),
		GoogleAnalyticsID: doc.Integrations.GoogleAnalyticsID,
		FacebookPixelID:   doc.Integrations.FacebookPixelID,
		ReservationURL:    doc.Integrations.ReservationURL,
		OrderingURL:       doc.Integrations.OrderingURL,
		Phone:             doc.Business.Phone,
		Email:             doc.Business.Email,
		Address:           engine.FormatAddress(doc.Business.Address),
		HeadHTML:          template.HTML(doc.CustomCode.HeadHTML),
		BodyHTML:          template.HTML(rewrite(doc.CustomCode.BodyHTML)),
		Year:              b.date.Year(),
	}
	site.Logo.Alt = doc.WebsiteName

	ogImage := doc.SEO.OGImage
	if ogImage == "" && hero.Src() != "" {
		ogImage = live + "/" + hero.Src()
	}

	sc := engine.SectionContext{
		HeroImage:      doc.HeroImage,
		MenuItems:      doc.MenuItems,
		Business:       doc.Business,
		ReservationURL: doc.Integrations.ReservationURL,
		Images:         b.image,
		Rewrite:        rewrite,
	}

	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		file := pageFile(p)
		data := engine.PageData{
			Site:            site,
			Title:           firstNonEmpty(p.Title, doc.WebsiteName),
			MetaDescription: firstNonEmpty(p.MetaDescription, doc.SEO.SiteDescription),
			OGImage:         ogImage,
			NoIndex:         !p.IsHomepage && !p.Published,
			Nav:             navigation(doc, home, p),
			StructuredData:  template.JS(ld),
		}
		if p.IsHomepage {
			data.Canonical = live + "/"
		} else {
			data.Slug = p.Slug
			data.Canonical = live + "/" + file
		}
		for _, s := range p.Sections {
			view, err := engine.BuildSection(s, sc)
			if err != nil {
				return fmt.Errorf("page %q: %w", file, err)
			}
			data.Sections = append(data.Sections, view)
		}
		if err := b.render(CategoryHTML, file, "page.html", data); err != nil {
			return fmt.Errorf("page %q: %w", file, err)
		}
	}
	return nil
}

// navigation lists the homepage followed by every published page.
func navigation(doc *models.Content, home *models.Page, current models.Page) []engine.NavItem {
	nav := []engine.NavItem{{
		Title:   firstNonEmpty(home.Title, "Home"),
		URL:     "index.html",
		Current: current.IsHomepage,
	}}
	for _, p := range doc.Pages {
		if p.IsHomepage || !p.Published {
			continue
		}
		nav = append(nav, engine.NavItem{
			Title:   firstNonEmpty(p.Title, p.Slug),
			URL:     pageFile(p),
			Current: !current.IsHomepage && p.Slug == current.Slug,
		})
	}
	return nav
}

func (b *build) styles(context.Context) error {
	b.theme = engine.ThemeFrom(b.doc.DesignSystem)
	theme := b.theme
	for _, p := range b.doc.Pages {
		if strings.TrimSpace(p.CustomCSS) == "" {
			continue
		}
		slug := p.Slug
		if p.IsHomepage {
			slug = "home"
		}
		theme.PageCSS = append(theme.PageCSS, engine.PageCSS{Slug: slug, CSS: p.CustomCSS})
	}
	theme.CustomCSS = b.doc.CustomCode.CSS
	if err := b.render(CategoryCSS, "css/main.css", "main.css", theme); err != nil {
		return err
	}
	return b.render(CategoryCSS, "css/responsive.css", "responsive.css", nil)
}

func (b *build) scripts(context.Context) error {
	if err := b.render(CategoryJS, "js/main.js", "main.js", engine.ScriptData{Email: b.doc.Business.Email}); err != nil {
		return err
	}
	return b.render(CategoryJS, "js/performance.js", "performance.js", nil)
}

func (b *build) seo(context.Context) error {
	if custom := strings.TrimSpace(b.doc.SEO.RobotsTxt); custom != "" {
		if err := b.write(CategorySEO, "robots.txt", []byte(b.doc.SEO.RobotsTxt)); err != nil {
			return err
		}
	} else if err := b.render(CategorySEO, "robots.txt", "robots.txt", engine.RobotsData{SitemapURL: b.liveURL() + "/sitemap.xml"}); err != nil {
		return err
	}

	sitemap, err := buildSitemap(b.doc, b.liveURL(), b.date.Format(time.DateOnly))
	if err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	return b.write(CategorySEO, "sitemap.xml", sitemap)
}

func (b *build) pwa(context.Context) error {
	logo := b.images[assets.Request{Ref: b.doc.DesignSystem.LogoImage, Category: assets.Logo}]
	var icons []ManifestIcon
	for _, f := range logo.Files {
		icons = append(icons, ManifestIcon{Src: f.Path, Sizes: fmt.Sprintf("%dx%d", f.Width, f.Height), Type: f.ContentType})
	}
	manifest, err := buildManifest(b.doc, b.theme, icons)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if err := b.write(CategoryPWA, "manifest.json", manifest); err != nil {
		return err
	}

	core := []string{"./"}
	for _, cat := range []Category{CategoryHTML, CategoryCSS, CategoryJS} {
		core = append(core, b.set.Files[cat]...)
	}
	core = append(core, "manifest.json")
	return b.render(CategoryPWA, "sw.js", "sw.js", engine.ServiceWorkerData{
		CacheName: b.target.Subdomain + "-" + b.contentHash(),
		Paths:     core,
	})
}

// contentHash identifies the snapshot so each publish gets its own
// service worker cache.
func (b *build) contentHash() string {
	raw, err := json.Marshal(b.doc)
	if err != nil {
		return "v1"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:6])
}

func containsKind(ss models.Sections, kind models.SectionKind) bool {
	for _, s := range ss {
		if s.Kind() == kind {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
