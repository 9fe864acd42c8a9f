// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DeploymentStatus is the outcome of one publish attempt.
type DeploymentStatus string

const (
	DeploymentStatusSuccess DeploymentStatus = "success"
	DeploymentStatusFailed  DeploymentStatus = "failed"
)

// BuildResult is the raw outcome of a site compilation as stored on a
// deployment record.
type BuildResult struct {
	Success    bool                `json:"success"`
	FileCounts map[string]int      `json:"file_counts,omitempty"`
	Files      map[string][]string `json:"files,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// Deployment is an append-only audit entry for a single publish or
// rollback attempt. Records are never modified after creation.
type Deployment struct {
	ID             uuid.UUID        `json:"id"`
	WebsiteID      uuid.UUID        `json:"website_id"`
	Subdomain      string           `json:"subdomain"`
	TargetURL      string           `json:"target_url"`
	Status         DeploymentStatus `json:"deployment_status"`
	BuildLogs      []string         `json:"build_logs"`
	Result         BuildResult      `json:"result"`
	Snapshot       *Content         `json:"-"`
	RolledBackFrom *uuid.UUID       `json:"rolled_back_from,omitempty"`
	DeployedAt     time.Time        `json:"deployed_at"`
	Duration       time.Duration    `json:"deployment_time"`
}

// Succeeded returns true if the deployment produced a live artifact set.
func (d *Deployment) Succeeded() bool {
	return d.Status == DeploymentStatusSuccess
}
