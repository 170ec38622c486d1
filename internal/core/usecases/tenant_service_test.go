package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

func TestTenantListScopesToCenter(t *testing.T) {
	var gotSpec *filters.Spec
	tenants := &mockTenantRepo{
		queryFn: func(_ context.Context, spec *filters.Spec) ([]domain.Tenant, int, error) {
			gotSpec = spec
			return nil, 0, nil
		},
	}
	centers := &mockCenterRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: id}, nil
		},
	}
	svc := NewTenantService(tenants, centers)

	spec, err := filters.Compile(filters.EntityTenant, nil, filters.MaxPageSize)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, _, err := svc.List(context.Background(), spec, 42); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotSpec.CenterID != 42 {
		t.Fatalf("expected spec scoped to center 42, got %d", gotSpec.CenterID)
	}
	// The caller's spec must stay untouched.
	if spec.CenterID != 0 {
		t.Fatalf("input spec mutated: CenterID = %d", spec.CenterID)
	}
}

func TestTenantListUnknownCenter(t *testing.T) {
	tenants := &mockTenantRepo{
		queryFn: func(_ context.Context, _ *filters.Spec) ([]domain.Tenant, int, error) {
			t.Fatal("query must not run for an unknown center")
			return nil, 0, nil
		},
	}
	centers := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewTenantService(tenants, centers)

	spec, _ := filters.Compile(filters.EntityTenant, nil, filters.MaxPageSize)
	_, _, err := svc.List(context.Background(), spec, 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantListUnscoped(t *testing.T) {
	called := false
	tenants := &mockTenantRepo{
		queryFn: func(_ context.Context, spec *filters.Spec) ([]domain.Tenant, int, error) {
			called = true
			if spec.CenterID != 0 {
				t.Fatalf("unexpected center scope: %d", spec.CenterID)
			}
			return []domain.Tenant{{ID: 1}}, 1, nil
		},
	}
	svc := NewTenantService(tenants, &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			t.Fatal("center lookup must not run without a scope")
			return nil, nil
		},
	})

	spec, _ := filters.Compile(filters.EntityTenant, nil, filters.MaxPageSize)
	got, total, err := svc.List(context.Background(), spec, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !called || total != 1 || len(got) != 1 {
		t.Fatalf("unexpected result: %v total=%d", got, total)
	}
}
