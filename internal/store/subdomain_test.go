package store

import (
	"testing"

	"github.com/google/uuid"

	"menupress/internal/subdomain"
)

func TestSubdomainStoreReserve(t *testing.T) {
	db := testDB(t)
	s := NewSubdomainStore(db)
	ctx := t.Context()
	a := createTestWebsite(t, db)
	b := createTestWebsite(t, db)

	name := "resv-" + uuid.NewString()[:8]

	ok, err := s.Reserve(ctx, name, a.ID)
	if err != nil || !ok {
		t.Fatalf("Reserve(a) = %v, %v; want true", ok, err)
	}
	ok, err = s.Reserve(ctx, name, a.ID)
	if err != nil || !ok {
		t.Errorf("repeat Reserve(a) = %v, %v; want true", ok, err)
	}
	ok, err = s.Reserve(ctx, name, b.ID)
	if err != nil || ok {
		t.Errorf("Reserve(b) = %v, %v; want false", ok, err)
	}
	ok, err = s.Reserve(ctx, name+"-x", a.ID)
	if err != nil || ok {
		t.Errorf("second name for a = %v, %v; want false", ok, err)
	}

	got, err := s.ReservationFor(ctx, a.ID)
	if err != nil || got != name {
		t.Errorf("ReservationFor(a) = %q, %v; want %q", got, err, name)
	}
	got, err = s.ReservationFor(ctx, b.ID)
	if err != nil || got != "" {
		t.Errorf("ReservationFor(b) = %q, %v; want empty", got, err)
	}
}

// TestSubdomainStoreWithAllocator runs the allocator against PostgreSQL.
func TestSubdomainStoreWithAllocator(t *testing.T) {
	db := testDB(t)
	alloc := subdomain.New(NewSubdomainStore(db))
	ctx := t.Context()

	name := "Alloc " + uuid.NewString()[:8]
	a := createTestWebsite(t, db)
	b := createTestWebsite(t, db)

	first, err := alloc.Allocate(ctx, a.ID, name, a.RestaurantID)
	if err != nil {
		t.Fatalf("Allocate(a): %v", err)
	}
	second, err := alloc.Allocate(ctx, b.ID, name, b.RestaurantID)
	if err != nil {
		t.Fatalf("Allocate(b): %v", err)
	}
	if second != first+"-1" {
		t.Errorf("second = %q, want %q", second, first+"-1")
	}
}
