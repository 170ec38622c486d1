package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

func TestStoreQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	mall := &domain.ShoppingCenter{Name: "Zubiarte", CenterType: domain.CenterTypeMall, TotalGLA: 40000}
	strip := &domain.ShoppingCenter{Name: "Erandio Strip", CenterType: domain.CenterTypeStrip, TotalGLA: 8000}
	if err := store.Centers().Create(ctx, mall); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Centers().Create(ctx, strip); err != nil {
		t.Fatalf("Create: %v", err)
	}

	spec, err := filters.Compile(filters.EntityCenter, map[string][]string{
		"center_type": {"MALL"},
	}, filters.MaxPageSize)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, total, err := store.Centers().Query(ctx, spec)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Name != "Zubiarte" {
		t.Fatalf("unexpected result: total=%d got=%+v", total, got)
	}
}

func TestStoreTenantRequiresCenter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Tenants().Create(ctx, &domain.Tenant{CenterID: 99, Name: "Orphan"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c := &domain.ShoppingCenter{Name: "Zubiarte", CenterType: domain.CenterTypeMall}
	if err := store.Centers().Create(ctx, c); err != nil {
		t.Fatalf("Create center: %v", err)
	}
	tn := &domain.Tenant{CenterID: c.ID, Name: "Fnac", Occupancy: domain.OccupancyOccupied}
	if err := store.Tenants().Create(ctx, tn); err != nil {
		t.Fatalf("Create tenant: %v", err)
	}
	if tn.CenterName != "Zubiarte" {
		t.Fatalf("center name not denormalized: %q", tn.CenterName)
	}

	got, err := store.Tenants().ListByCenter(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListByCenter: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fnac" {
		t.Fatalf("unexpected tenants: %+v", got)
	}
}
