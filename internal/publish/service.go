// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish drives the lifecycle of a website: validation, subdomain
// allocation, compilation, persistence and the audit trail of deployments.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"menupress/internal/compiler"
	"menupress/internal/content"
	"menupress/internal/events"
	"menupress/internal/metrics"
	"menupress/internal/models"
)

var (
	ErrNotFound            = errors.New("website not found")
	ErrForbidden           = errors.New("website belongs to another restaurant")
	ErrNotPublished        = errors.New("website is not published")
	ErrDeploymentNotFound  = errors.New("deployment not found")
	ErrRollbackUnavailable = errors.New("deployment cannot be rolled back to")
)

// ValidationError lists every rule a website violates. Nothing is applied
// when it is returned.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// WebsiteRepository persists websites.
type WebsiteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Website, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, draft models.Content) error
	UpdatePublishing(ctx context.Context, w *models.Website) error
	MarkChanged(ctx context.Context, id uuid.UUID) (bool, error)
}

// DeploymentRepository appends and reads deployment records.
type DeploymentRepository interface {
	Create(ctx context.Context, d *models.Deployment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deployment, error)
	ListByWebsite(ctx context.Context, websiteID uuid.UUID, limit int) ([]models.Deployment, error)
}

// SubdomainAllocator assigns the public address of a website.
type SubdomainAllocator interface {
	Allocate(ctx context.Context, websiteID uuid.UUID, websiteName string, restaurantID uuid.UUID) (string, error)
}

// SiteCompiler turns a content snapshot into a live artifact tree.
type SiteCompiler interface {
	Compile(ctx context.Context, snapshot models.Content, target compiler.Target) *compiler.ArtifactSet
	Remove(ctx context.Context, subdomain string) (*compiler.Cleanup, error)
}

// Locker serializes work on one website across instances.
type Locker interface {
	Acquire(ctx context.Context, name string) (func(), error)
}

// StatusCache holds serialized status views. Get also returns the
// generation of the entry; Set drops the view when the website was
// invalidated after that generation was read.
type StatusCache interface {
	Get(ctx context.Context, websiteID uuid.UUID) ([]byte, int64, bool)
	Set(ctx context.Context, websiteID uuid.UUID, generation int64, data []byte)
	Invalidate(ctx context.Context, websiteID uuid.UUID)
}

// Options configures how live addresses are formed and how long a compile
// may run.
type Options struct {
	BaseDomain string
	Scheme     string
	Timeout    time.Duration
}

// DefaultTimeout bounds a compile when Options.Timeout is zero.
const DefaultTimeout = 2 * time.Minute

// Service is the publishing orchestrator.
type Service struct {
	websites    WebsiteRepository
	deployments DeploymentRepository
	allocator   SubdomainAllocator
	compiler    SiteCompiler
	opts        Options

	locks    *keyedMutex
	locker   Locker
	status   StatusCache
	events   events.Publisher
	recorder metrics.Recorder
	now      func() time.Time
}

// New creates a Service. Locking across instances, status caching, events
// and metrics are optional and configured with the Set methods.
func New(websites WebsiteRepository, deployments DeploymentRepository, allocator SubdomainAllocator, c SiteCompiler, opts Options) *Service {
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Service{
		websites:    websites,
		deployments: deployments,
		allocator:   allocator,
		compiler:    c,
		opts:        opts,
		locks:       newKeyedMutex(),
		events:      events.NoopPublisher{},
		recorder:    metrics.NoopRecorder{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetLocker enables cross-instance locking.
func (s *Service) SetLocker(l Locker) {
	s.locker = l
}

// SetStatusCache enables caching of status views.
func (s *Service) SetStatusCache(c StatusCache) {
	s.status = c
}

// SetEvents configures the lifecycle event publisher.
func (s *Service) SetEvents(p events.Publisher) {
	if p == nil {
		p = events.NoopPublisher{}
	}
	s.events = p
}

// SetRecorder configures the metrics recorder.
func (s *Service) SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
}

// LiveURL returns the public address of a subdomain.
func (s *Service) LiveURL(subdomain string) string {
	return fmt.Sprintf("%s://%s.%s", s.opts.Scheme, subdomain, s.opts.BaseDomain)
}

// load fetches a website and checks that restaurantID owns it.
func (s *Service) load(ctx context.Context, websiteID, restaurantID uuid.UUID) (*models.Website, error) {
	w, err := s.websites.FindByID(ctx, websiteID)
	if err != nil {
		return nil, fmt.Errorf("load website: %w", err)
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if w.RestaurantID != restaurantID {
		return nil, ErrForbidden
	}
	return w, nil
}

// lock takes the per-website lock, and the distributed one when configured.
func (s *Service) lock(ctx context.Context, websiteID uuid.UUID) (func(), error) {
	unlock, err := s.locks.lock(ctx, websiteID)
	if err != nil {
		return nil, fmt.Errorf("lock website: %w", err)
	}
	if s.locker == nil {
		return unlock, nil
	}
	release, err := s.locker.Acquire(ctx, "website:"+websiteID.String())
	if err != nil {
		unlock()
		return nil, fmt.Errorf("lock website: %w", err)
	}
	return func() {
		release()
		unlock()
	}, nil
}

func (s *Service) invalidate(ctx context.Context, websiteID uuid.UUID) {
	if s.status != nil {
		s.status.Invalidate(ctx, websiteID)
	}
}

func (s *Service) emit(ctx context.Context, e events.Event) {
	e.Timestamp = s.now()
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("lifecycle event not delivered", "kind", e.Kind, "website_id", e.WebsiteID, "error", err)
	}
}

// StatusView is the publishing state of a website as shown to its owner.
type StatusView struct {
	Status                models.WebsiteStatus `json:"status"`
	LiveURL               *string              `json:"live_url,omitempty"`
	LastPublishedAt       *time.Time           `json:"last_published_at,omitempty"`
	HasUnpublishedChanges bool                 `json:"has_unpublished_changes"`
	DeploymentStatus      string               `json:"deployment_status"`
	Subdomain             *string              `json:"subdomain,omitempty"`
}

// cachedStatus keeps the owner next to the view so cache hits are still
// authorized.
type cachedStatus struct {
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	View         StatusView `json:"view"`
}

func statusOf(w *models.Website) StatusView {
	v := StatusView{
		Status:                w.Status,
		LiveURL:               w.LiveURL,
		LastPublishedAt:       w.LastPublishedAt,
		HasUnpublishedChanges: w.HasUnpublishedChanges,
		DeploymentStatus:      "inactive",
		Subdomain:             w.Subdomain,
	}
	if w.IsPublished() {
		v.DeploymentStatus = "active"
	}
	return v
}

// Status reports the publishing state of a website.
func (s *Service) Status(ctx context.Context, websiteID, restaurantID uuid.UUID) (*StatusView, error) {
	var gen int64 = -1
	if s.status != nil {
		var data []byte
		var ok bool
		if data, gen, ok = s.status.Get(ctx, websiteID); ok {
			var cached cachedStatus
			if err := json.Unmarshal(data, &cached); err == nil {
				if cached.RestaurantID != restaurantID {
					return nil, ErrForbidden
				}
				return &cached.View, nil
			}
		}
	}

	w, err := s.load(ctx, websiteID, restaurantID)
	if err != nil {
		return nil, err
	}
	view := statusOf(w)
	if s.status != nil {
		if data, err := json.Marshal(cachedStatus{RestaurantID: w.RestaurantID, View: view}); err == nil {
			s.status.Set(ctx, websiteID, gen, data)
		}
	}
	return &view, nil
}

// MarkChanged flags a published website as having unpublished edits. It
// returns false when the website is not published. It waits for a publish
// in progress so the flag is not overwritten when that publish persists.
func (s *Service) MarkChanged(ctx context.Context, websiteID, restaurantID uuid.UUID) (bool, error) {
	unlock, err := s.lock(ctx, websiteID)
	if err != nil {
		return false, err
	}
	defer unlock()

	if _, err := s.load(ctx, websiteID, restaurantID); err != nil {
		return false, err
	}
	changed, err := s.websites.MarkChanged(ctx, websiteID)
	if err != nil {
		return false, fmt.Errorf("mark changed: %w", err)
	}
	if changed {
		s.invalidate(ctx, websiteID)
	}
	return changed, nil
}

// UpdateResult is the outcome of a draft edit.
type UpdateResult struct {
	Draft   models.Content `json:"draft"`
	Changed bool           `json:"changed"`
}

// UpdateContent applies mutations to the draft of a website, stores it and
// flags the website as changed. A failing mutation is reported as a
// ValidationError and leaves the draft untouched.
func (s *Service) UpdateContent(ctx context.Context, websiteID, restaurantID uuid.UUID, muts ...content.Mutation) (*UpdateResult, error) {
	unlock, err := s.lock(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, err := s.load(ctx, websiteID, restaurantID)
	if err != nil {
		return nil, err
	}
	draft, err := content.Apply(w.Draft, muts...)
	if err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if err := s.websites.UpdateDraft(ctx, websiteID, draft); err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}
	changed, err := s.websites.MarkChanged(ctx, websiteID)
	if err != nil {
		return nil, fmt.Errorf("mark changed: %w", err)
	}
	s.invalidate(ctx, websiteID)
	return &UpdateResult{Draft: draft, Changed: changed}, nil
}

// MaxDeployments caps a deployment listing.
const MaxDeployments = 100

// Deployments lists the deployment records of a website, newest first.
func (s *Service) Deployments(ctx context.Context, websiteID, restaurantID uuid.UUID, limit int) ([]models.Deployment, error) {
	if _, err := s.load(ctx, websiteID, restaurantID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxDeployments {
		limit = MaxDeployments
	}
	list, err := s.deployments.ListByWebsite(ctx, websiteID, limit)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	return list, nil
}
