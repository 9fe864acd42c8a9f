// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RestaurantHeader carries the authenticated restaurant, set by the
// upstream gateway.
const RestaurantHeader = "X-Restaurant-ID"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const restaurantKey contextKey = "restaurant"

// RequireRestaurant rejects requests without a valid restaurant identity
// and stores the identity in the request context.
func RequireRestaurant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(RestaurantHeader))
		id, err := uuid.Parse(raw)
		if raw == "" || err != nil || id == uuid.Nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "missing or invalid " + RestaurantHeader})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithRestaurant(r.Context(), id)))
	})
}

// WithRestaurant returns a context carrying the restaurant identity.
func WithRestaurant(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, restaurantKey, id)
}

// RestaurantFromCtx returns the restaurant identity, or false if the
// request was not authenticated.
func RestaurantFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(restaurantKey).(uuid.UUID)
	return id, ok
}
