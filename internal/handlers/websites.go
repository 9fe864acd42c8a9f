// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON API handlers of menupress. Handlers
// receive their dependencies through the handler struct and identify the
// caller by the restaurant placed in the request context by middleware.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"menupress/internal/content"
	"menupress/internal/middleware"
	"menupress/internal/models"
	"menupress/internal/publish"
)

// Publisher is the publishing service behind the website endpoints.
type Publisher interface {
	Publish(ctx context.Context, websiteID, restaurantID uuid.UUID) (*publish.PublishResult, error)
	Unpublish(ctx context.Context, websiteID, restaurantID uuid.UUID, keepStaticFiles bool) (*publish.UnpublishResult, error)
	Status(ctx context.Context, websiteID, restaurantID uuid.UUID) (*publish.StatusView, error)
	MarkChanged(ctx context.Context, websiteID, restaurantID uuid.UUID) (bool, error)
	Rollback(ctx context.Context, websiteID, restaurantID, deploymentID uuid.UUID) (*publish.PublishResult, error)
	Deployments(ctx context.Context, websiteID, restaurantID uuid.UUID, limit int) ([]models.Deployment, error)
	UpdateContent(ctx context.Context, websiteID, restaurantID uuid.UUID, muts ...content.Mutation) (*publish.UpdateResult, error)
}

// Websites groups the website publishing endpoints.
type Websites struct {
	svc Publisher
}

// NewWebsites creates the website handler group.
func NewWebsites(svc Publisher) *Websites {
	return &Websites{svc: svc}
}

// ids extracts the website from the URL and the restaurant from the
// context. It writes the error response itself and returns false on
// failure.
func ids(w http.ResponseWriter, r *http.Request) (websiteID, restaurantID uuid.UUID, ok bool) {
	restaurantID, ok = middleware.RestaurantFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing restaurant identity"})
		return uuid.Nil, uuid.Nil, false
	}
	websiteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid website id"})
		return uuid.Nil, uuid.Nil, false
	}
	return websiteID, restaurantID, true
}

// Publish handles POST /api/websites/{id}/publish.
func (h *Websites) Publish(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Publish(r.Context(), websiteID, restaurantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

type unpublishRequest struct {
	KeepStaticFiles bool `json:"keep_static_files"`
}

// Unpublish handles POST /api/websites/{id}/unpublish. An empty body
// removes the static files.
func (h *Websites) Unpublish(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	var req unpublishRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	res, err := h.svc.Unpublish(r.Context(), websiteID, restaurantID, req.KeepStaticFiles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Status handles GET /api/websites/{id}/status.
func (h *Websites) Status(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Status(r.Context(), websiteID, restaurantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MarkChanged handles POST /api/websites/{id}/changes.
func (h *Websites) MarkChanged(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	changed, err := h.svc.MarkChanged(r.Context(), websiteID, restaurantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

type rollbackRequest struct {
	DeploymentID uuid.UUID `json:"deployment_id"`
}

// Rollback handles POST /api/websites/{id}/rollback.
func (h *Websites) Rollback(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	var req rollbackRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if req.DeploymentID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "deployment_id is required"})
		return
	}
	res, err := h.svc.Rollback(r.Context(), websiteID, restaurantID, req.DeploymentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

// Deployments handles GET /api/websites/{id}/deployments?limit=n.
func (h *Websites) Deployments(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	list, err := h.svc.Deployments(r.Context(), websiteID, restaurantID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Deployment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deployments": list})
}

// UpdateContent handles PATCH /api/websites/{id}/content. The body is one
// edit or a list of edits applied together.
func (h *Websites) UpdateContent(w http.ResponseWriter, r *http.Request) {
	websiteID, restaurantID, ok := ids(w, r)
	if !ok {
		return
	}
	var req contentRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	muts, err := req.mutations()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	res, err := h.svc.UpdateContent(r.Context(), websiteID, restaurantID, muts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeError maps service errors onto status codes. Validation failures
// keep the publish response shape so clients can show every problem.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *publish.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, publish.PublishResult{Success: false, Errors: verr.Problems})
	case errors.Is(err, publish.ErrNotFound), errors.Is(err, publish.ErrDeploymentNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, publish.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, publish.ErrNotPublished), errors.Is(err, publish.ErrRollbackUnavailable):
		writeJSON(w, http.StatusConflict, errorBody{Success: new(bool), Error: err.Error()})
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		w.WriteHeader(499)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
