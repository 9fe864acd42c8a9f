// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists websites, deployment records, and subdomain
// reservations in PostgreSQL. Finders return nil, nil when a row does not
// exist.
package store

import (
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict is returned when an insert violates a unique constraint.
	ErrConflict = errors.New("store: conflict")
	// ErrAppendOnly is returned when an immutable row is modified.
	ErrAppendOnly = errors.New("store: record is append-only")
	// ErrInvalidArgument is returned when PostgreSQL rejects a value.
	ErrInvalidArgument = errors.New("store: invalid argument")
)

// mapError converts well-known PostgreSQL error codes into store errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23001":
			return ErrAppendOnly
		case "22P02":
			return ErrInvalidArgument
		}
	}
	return err
}

// nullJSON marshals v, or returns nil for a nil pointer so the column is
// stored as SQL NULL.
func nullJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
