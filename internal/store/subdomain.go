// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SubdomainStore reserves subdomains through the unique constraints of the
// subdomain_reservations table. It implements subdomain.Reserver.
type SubdomainStore struct {
	db *sql.DB
}

// NewSubdomainStore creates a new SubdomainStore with the given database connection.
func NewSubdomainStore(db *sql.DB) *SubdomainStore {
	return &SubdomainStore{db: db}
}

// Reserve claims name for websiteID. It returns false when another website
// holds the name, or when websiteID already holds a different name.
func (s *SubdomainStore) Reserve(ctx context.Context, name string, websiteID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO subdomain_reservations (subdomain, website_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, name, websiteID)
	if err != nil {
		return false, fmt.Errorf("reserve subdomain: %w", mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve subdomain rows: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	// Nothing inserted: the name may already be ours from an earlier attempt.
	var owner uuid.UUID
	err = s.db.QueryRowContext(ctx,
		`SELECT website_id FROM subdomain_reservations WHERE subdomain = $1`, name,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check subdomain owner: %w", err)
	}
	return owner == websiteID, nil
}

// ReservationFor returns the subdomain held by websiteID, or "" if none.
func (s *SubdomainStore) ReservationFor(ctx context.Context, websiteID uuid.UUID) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT subdomain FROM subdomain_reservations WHERE website_id = $1`, websiteID,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find reservation: %w", err)
	}
	return name, nil
}
