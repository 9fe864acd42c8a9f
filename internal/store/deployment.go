// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// DeploymentStore handles deployment record persistence. Records are
// insert-only; the schema rejects updates with a trigger.
type DeploymentStore struct {
	db *sql.DB
}

// NewDeploymentStore creates a new DeploymentStore with the given database connection.
func NewDeploymentStore(db *sql.DB) *DeploymentStore {
	return &DeploymentStore{db: db}
}

const deploymentColumns = `id, website_id, subdomain, target_url, status, build_logs,
	result, snapshot, rolled_back_from, deployed_at, duration_ms`

func scanDeployment(scanner interface{ Scan(...any) error }) (*models.Deployment, error) {
	var (
		d          models.Deployment
		logs       []byte
		result     []byte
		snapshot   []byte
		durationMS int64
	)
	err := scanner.Scan(
		&d.ID, &d.WebsiteID, &d.Subdomain, &d.TargetURL, &d.Status, &logs,
		&result, &snapshot, &d.RolledBackFrom, &d.DeployedAt, &durationMS,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(logs, &d.BuildLogs); err != nil {
		return nil, fmt.Errorf("decode build logs: %w", err)
	}
	if err := json.Unmarshal(result, &d.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if snapshot != nil {
		var c models.Content
		if err := json.Unmarshal(snapshot, &c); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		d.Snapshot = &c
	}
	d.Duration = time.Duration(durationMS) * time.Millisecond
	return &d, nil
}

// Create appends a deployment record. The caller assigns the ID.
func (s *DeploymentStore) Create(ctx context.Context, d *models.Deployment) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.BuildLogs == nil {
		d.BuildLogs = []string{}
	}
	logs, err := json.Marshal(d.BuildLogs)
	if err != nil {
		return fmt.Errorf("encode build logs: %w", err)
	}
	result, err := json.Marshal(d.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	snapshot, err := nullJSON(d.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO deployments (id, website_id, subdomain, target_url, status, build_logs,
		                         result, snapshot, rolled_back_from, deployed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, d.ID, d.WebsiteID, d.Subdomain, d.TargetURL, d.Status, logs,
		result, snapshot, d.RolledBackFrom, d.DeployedAt, d.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("create deployment: %w", mapError(err))
	}
	return nil
}

// FindByID retrieves a deployment by its UUID. Returns nil if not found.
func (s *DeploymentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Deployment, error) {
	d, err := scanDeployment(s.db.QueryRowContext(ctx,
		`SELECT `+deploymentColumns+` FROM deployments WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find deployment by id: %w", err)
	}
	return d, nil
}

// ListByWebsite returns the most recent deployments of a website, newest
// first. A non-positive limit defaults to 20.
func (s *DeploymentStore) ListByWebsite(ctx context.Context, websiteID uuid.UUID, limit int) ([]models.Deployment, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deploymentColumns+`
		FROM deployments
		WHERE website_id = $1
		ORDER BY deployed_at DESC
		LIMIT $2
	`, websiteID, limit)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var items []models.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}
