// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package subdomain derives and reserves the public address of a website.
package subdomain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"menupress/internal/slug"
)

// MaxLength is the maximum length of a candidate before any collision
// suffix is appended.
const MaxLength = 20

// maxAttempts bounds the suffix search. Reaching it means the reservation
// table is misbehaving, not that names ran out.
const maxAttempts = 10000

// ErrExhausted is returned when no free suffix was found within maxAttempts.
var ErrExhausted = errors.New("subdomain: no free suffix found")

// Reserver claims subdomains. Implementations must make Reserve atomic with
// respect to other callers (a unique constraint, not read-then-write).
type Reserver interface {
	// Reserve claims name for websiteID. It returns false, nil when the
	// name is already held by another website.
	Reserve(ctx context.Context, name string, websiteID uuid.UUID) (bool, error)

	// ReservationFor returns the name held by websiteID, or "" if none.
	ReservationFor(ctx context.Context, websiteID uuid.UUID) (string, error)
}

// Allocator assigns globally unique subdomains.
type Allocator struct {
	reserver Reserver
}

// New creates an Allocator backed by the given reservation store.
func New(r Reserver) *Allocator {
	return &Allocator{reserver: r}
}

// Candidate returns the base subdomain for a website name: a slug of at
// most MaxLength characters, or "site-" plus the first eight hex digits of
// the website ID when the name has no usable characters.
func Candidate(websiteName string, websiteID uuid.UUID) string {
	base := slug.Truncate(slug.Generate(websiteName), MaxLength)
	if base == "" {
		return "site-" + websiteID.String()[:8]
	}
	return base
}

// Allocate returns the subdomain reserved for the website, reserving one if
// needed. Collisions are resolved by appending -1, -2, ... to the candidate.
func (a *Allocator) Allocate(ctx context.Context, websiteID uuid.UUID, websiteName string, restaurantID uuid.UUID) (string, error) {
	existing, err := a.reserver.ReservationFor(ctx, websiteID)
	if err != nil {
		return "", fmt.Errorf("lookup reservation: %w", err)
	}
	if existing != "" {
		return existing, nil
	}

	base := Candidate(websiteName, websiteID)
	for n := 0; n < maxAttempts; n++ {
		name := base
		if n > 0 {
			name = base + "-" + strconv.Itoa(n)
		}

		ok, err := a.reserver.Reserve(ctx, name, websiteID)
		if err != nil {
			return "", fmt.Errorf("reserve subdomain %q: %w", name, err)
		}
		if ok {
			slog.Info("subdomain allocated",
				"subdomain", name, "website_id", websiteID, "restaurant_id", restaurantID)
			return name, nil
		}
	}
	return "", fmt.Errorf("%w for %q", ErrExhausted, base)
}

// MemoryReserver is an in-process Reserver. It is safe for concurrent use
// and serves development setups without a database as well as tests.
type MemoryReserver struct {
	mu        sync.Mutex
	byName    map[string]uuid.UUID
	byWebsite map[uuid.UUID]string
}

// NewMemoryReserver creates an empty MemoryReserver.
func NewMemoryReserver() *MemoryReserver {
	return &MemoryReserver{
		byName:    make(map[string]uuid.UUID),
		byWebsite: make(map[uuid.UUID]string),
	}
}

// Reserve implements Reserver.
func (m *MemoryReserver) Reserve(_ context.Context, name string, websiteID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, taken := m.byName[name]; taken {
		return owner == websiteID, nil
	}
	if _, has := m.byWebsite[websiteID]; has {
		return false, nil
	}
	m.byName[name] = websiteID
	m.byWebsite[websiteID] = name
	return true, nil
}

// ReservationFor implements Reserver.
func (m *MemoryReserver) ReservationFor(_ context.Context, websiteID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byWebsite[websiteID], nil
}
