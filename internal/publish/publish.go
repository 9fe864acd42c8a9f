// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"menupress/internal/compiler"
	"menupress/internal/events"
	"menupress/internal/metrics"
	"menupress/internal/models"
)

// PublishResult is the outcome of a publish or rollback. A compile failure
// is reported here with Success false, not as an error.
type PublishResult struct {
	Success      bool       `json:"success"`
	LiveURL      string     `json:"live_url,omitempty"`
	DeploymentID *uuid.UUID `json:"deployment_id,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
}

// UnpublishResult is the outcome of taking a website offline.
type UnpublishResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Cleanup *compiler.Cleanup `json:"cleanup_details,omitempty"`
}

// Publish validates the draft of a website, compiles a snapshot of it and
// makes it live.
func (s *Service) Publish(ctx context.Context, websiteID, restaurantID uuid.UUID) (*PublishResult, error) {
	unlock, err := s.lock(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, err := s.load(ctx, websiteID, restaurantID)
	if err != nil {
		return nil, err
	}
	if problems := Validate(w); len(problems) > 0 {
		s.recorder.IncPublishOutcome("publish", metrics.OutcomeInvalid)
		return nil, &ValidationError{Problems: problems}
	}

	logs := []string{"validated website content"}
	sub := w.SubdomainValue()
	if sub == "" {
		sub, err = s.allocator.Allocate(ctx, w.ID, w.Draft.WebsiteName, w.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("allocate subdomain: %w", err)
		}
		logs = append(logs, "allocated subdomain "+sub)
	} else {
		logs = append(logs, "reusing subdomain "+sub)
	}

	return s.deploy(ctx, w, w.Draft.Clone(), sub, nil, logs)
}

// Rollback makes the snapshot of an earlier successful deployment live
// again. The draft is left as it is.
func (s *Service) Rollback(ctx context.Context, websiteID, restaurantID, deploymentID uuid.UUID) (*PublishResult, error) {
	unlock, err := s.lock(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, err := s.load(ctx, websiteID, restaurantID)
	if err != nil {
		return nil, err
	}
	if problems := checkState(w.Status); len(problems) > 0 {
		s.recorder.IncPublishOutcome("rollback", metrics.OutcomeInvalid)
		return nil, &ValidationError{Problems: problems}
	}

	from, err := s.deployments.FindByID(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("load deployment: %w", err)
	}
	if from == nil || from.WebsiteID != w.ID {
		return nil, ErrDeploymentNotFound
	}
	if !from.Succeeded() || from.Snapshot == nil {
		return nil, ErrRollbackUnavailable
	}

	sub := w.SubdomainValue()
	if sub == "" {
		sub = from.Subdomain
	}
	logs := []string{
		fmt.Sprintf("rolling back to deployment %s of %s", from.ID, from.DeployedAt.Format(time.RFC3339)),
		"reusing subdomain " + sub,
	}
	return s.deploy(ctx, w, from.Snapshot.Clone(), sub, from, logs)
}

// deploy compiles snapshot and, on success, records it as the published
// content of w. Every attempt appends a deployment record.
func (s *Service) deploy(ctx context.Context, w *models.Website, snapshot models.Content, sub string, from *models.Deployment, logs []string) (*PublishResult, error) {
	op, kind := "publish", events.KindPublished
	if from != nil {
		op, kind = "rollback", events.KindRolledBack
	}
	liveURL := s.LiveURL(sub)

	cctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	set := s.compiler.Compile(cctx, snapshot, compiler.Target{WebsiteID: w.ID, Subdomain: sub, LiveURL: liveURL})
	cancel()

	// The tree may already be live, so the outcome is recorded even when
	// the caller has gone away.
	pctx := context.WithoutCancel(ctx)

	dep := &models.Deployment{
		ID:         uuid.New(),
		WebsiteID:  w.ID,
		Subdomain:  sub,
		TargetURL:  liveURL,
		BuildLogs:  append(logs, compileLogs(set)...),
		Result:     set.Result(),
		DeployedAt: s.now(),
		Duration:   set.Duration,
	}
	if from != nil {
		id := from.ID
		dep.RolledBackFrom = &id
	}

	if !set.Success {
		dep.Status = models.DeploymentStatusFailed
		if err := s.deployments.Create(pctx, dep); err != nil {
			return nil, fmt.Errorf("record deployment: %w", err)
		}
		errs := []string{compileError(set)}
		slog.Error("compile failed", "website_id", w.ID, "subdomain", sub, "deployment_id", dep.ID, "error", errs[0])
		s.recorder.IncPublishOutcome(op, metrics.OutcomeFailed)
		s.emit(pctx, events.Event{
			Kind: events.KindPublishFailed, WebsiteID: w.ID, RestaurantID: w.RestaurantID,
			Subdomain: sub, DeploymentID: &dep.ID, Errors: errs,
		})
		return &PublishResult{Success: false, DeploymentID: &dep.ID, Errors: errs}, nil
	}

	dep.Status = models.DeploymentStatusSuccess
	stored := snapshot.Clone()
	dep.Snapshot = &stored

	dirty := false
	if from != nil {
		dirty = differs(w.Draft, snapshot)
	}
	published := snapshot.Clone()
	now := dep.DeployedAt
	w.Status = models.WebsiteStatusPublished
	w.Subdomain = &sub
	w.LiveURL = &liveURL
	w.PublishedContent = &published
	w.LastPublishedAt = &now
	w.HasUnpublishedChanges = dirty

	// Every attempt is recorded before the website row moves to it.
	if err := s.deployments.Create(pctx, dep); err != nil {
		return nil, fmt.Errorf("record deployment: %w", err)
	}
	if err := s.websites.UpdatePublishing(pctx, w); err != nil {
		return nil, fmt.Errorf("update publishing: %w", err)
	}
	s.invalidate(pctx, w.ID)

	slog.Info("website published", "website_id", w.ID, "subdomain", sub, "deployment_id", dep.ID,
		"files", set.Total(), "duration", set.Duration, "rollback", from != nil)
	s.recorder.IncPublishOutcome(op, metrics.OutcomeSuccess)
	s.emit(pctx, events.Event{
		Kind: kind, WebsiteID: w.ID, RestaurantID: w.RestaurantID,
		Subdomain: sub, LiveURL: liveURL, DeploymentID: &dep.ID,
	})
	return &PublishResult{Success: true, LiveURL: liveURL, DeploymentID: &dep.ID}, nil
}

// Unpublish takes a website offline. Unless keepStaticFiles is set the
// artifact tree is removed and the live address forgotten. The subdomain
// stays reserved either way.
func (s *Service) Unpublish(ctx context.Context, websiteID, restaurantID uuid.UUID, keepStaticFiles bool) (*UnpublishResult, error) {
	unlock, err := s.lock(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, err := s.load(ctx, websiteID, restaurantID)
	if err != nil {
		return nil, err
	}
	if !w.IsPublished() {
		return nil, ErrNotPublished
	}

	res := &UnpublishResult{Success: true, Message: "Website unpublished; static files kept"}
	if !keepStaticFiles {
		cleanup, err := s.compiler.Remove(ctx, w.SubdomainValue())
		if err != nil {
			s.recorder.IncPublishOutcome("unpublish", metrics.OutcomeFailed)
			return nil, fmt.Errorf("remove static files: %w", err)
		}
		res.Cleanup = cleanup
		res.Message = "Website unpublished and static files removed"
		w.LiveURL = nil
		w.PublishedContent = nil
	}
	w.Status = models.WebsiteStatusDraft

	if err := s.websites.UpdatePublishing(ctx, w); err != nil {
		return nil, fmt.Errorf("update publishing: %w", err)
	}
	s.invalidate(ctx, w.ID)

	slog.Info("website unpublished", "website_id", w.ID, "subdomain", w.SubdomainValue(), "keep_static_files", keepStaticFiles)
	s.recorder.IncPublishOutcome("unpublish", metrics.OutcomeSuccess)
	s.emit(ctx, events.Event{
		Kind: events.KindUnpublished, WebsiteID: w.ID, RestaurantID: w.RestaurantID,
		Subdomain: w.SubdomainValue(),
	})
	return res, nil
}

// compileLogs summarizes an artifact set for the deployment record.
func compileLogs(set *compiler.ArtifactSet) []string {
	if !set.Success {
		return []string{"compile failed: " + compileError(set)}
	}
	logs := make([]string, 0, len(compiler.Categories)+1)
	for _, cat := range compiler.Categories {
		logs = append(logs, fmt.Sprintf("%s: %d files", cat, len(set.Files[cat])))
	}
	return append(logs, fmt.Sprintf("compiled %d files in %s", set.Total(), set.Duration.Round(time.Millisecond)))
}

func compileError(set *compiler.ArtifactSet) string {
	if set.Err == nil {
		return "compile failed"
	}
	return set.Err.Error()
}

// differs reports whether two documents have different JSON forms.
func differs(a, b models.Content) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return true
	}
	return !bytes.Equal(ja, jb)
}
