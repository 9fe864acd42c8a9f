// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// WebsiteStore handles website database operations. The draft and the
// published snapshot are stored as JSONB documents.
type WebsiteStore struct {
	db *sql.DB
}

// NewWebsiteStore creates a new WebsiteStore with the given database connection.
func NewWebsiteStore(db *sql.DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

const websiteColumns = `id, restaurant_id, draft, status, subdomain, live_url,
	published_content, last_published_at, has_unpublished_changes,
	created_at, updated_at`

func scanWebsite(scanner interface{ Scan(...any) error }) (*models.Website, error) {
	var (
		w         models.Website
		draft     []byte
		published []byte
	)
	err := scanner.Scan(
		&w.ID, &w.RestaurantID, &draft, &w.Status, &w.Subdomain, &w.LiveURL,
		&published, &w.LastPublishedAt, &w.HasUnpublishedChanges,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(draft, &w.Draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if published != nil {
		var c models.Content
		if err := json.Unmarshal(published, &c); err != nil {
			return nil, fmt.Errorf("decode published content: %w", err)
		}
		w.PublishedContent = &c
	}
	return &w, nil
}

// FindByID retrieves a website by its UUID. Returns nil if not found.
func (s *WebsiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Website, error) {
	w, err := scanWebsite(s.db.QueryRowContext(ctx,
		`SELECT `+websiteColumns+` FROM websites WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find website by id: %w", err)
	}
	return w, nil
}

// ListByRestaurant returns every website owned by the restaurant, newest first.
func (s *WebsiteStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Website, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+websiteColumns+`
		FROM websites
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var items []models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

// Create inserts a new draft website and returns it with generated fields.
func (s *WebsiteStore) Create(ctx context.Context, restaurantID uuid.UUID, draft models.Content) (*models.Website, error) {
	doc, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}

	w, err := scanWebsite(s.db.QueryRowContext(ctx, `
		INSERT INTO websites (restaurant_id, draft, status)
		VALUES ($1, $2, $3)
		RETURNING `+websiteColumns,
		restaurantID, doc, models.WebsiteStatusDraft,
	))
	if err != nil {
		return nil, fmt.Errorf("create website: %w", mapError(err))
	}
	return w, nil
}

// UpdateDraft replaces the draft document.
func (s *WebsiteStore) UpdateDraft(ctx context.Context, id uuid.UUID, draft models.Content) error {
	doc, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE websites SET draft = $2, updated_at = NOW() WHERE id = $1
	`, id, doc)
	if err != nil {
		return fmt.Errorf("update draft: %w", mapError(err))
	}
	return expectOneRow(res, "update draft")
}

// UpdatePublishing writes every publishing field of w in one statement:
// status, subdomain, live URL, published snapshot, last publish time, and
// the unpublished-changes flag.
func (s *WebsiteStore) UpdatePublishing(ctx context.Context, w *models.Website) error {
	published, err := nullJSON(w.PublishedContent)
	if err != nil {
		return fmt.Errorf("encode published content: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE websites
		SET status = $2, subdomain = $3, live_url = $4, published_content = $5,
		    last_published_at = $6, has_unpublished_changes = $7, updated_at = NOW()
		WHERE id = $1
	`, w.ID, w.Status, w.Subdomain, w.LiveURL, published,
		w.LastPublishedAt, w.HasUnpublishedChanges,
	)
	if err != nil {
		return fmt.Errorf("update publishing: %w", mapError(err))
	}
	return expectOneRow(res, "update publishing")
}

// MarkChanged sets the unpublished-changes flag when the website is
// published. It reports whether the flag was set.
func (s *WebsiteStore) MarkChanged(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE websites
		SET has_unpublished_changes = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, models.WebsiteStatusPublished)
	if err != nil {
		return false, fmt.Errorf("mark changed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark changed rows: %w", err)
	}
	return n > 0, nil
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}
