package filters_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

func mustCompile(t *testing.T, entity filters.Entity, params map[string][]string) *filters.Spec {
	t.Helper()
	spec, err := filters.Compile(entity, params, filters.MaxPageSize)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return spec
}

func TestCompile_Defaults(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, nil)
	if spec.Page.Page != 1 || spec.Page.Size != filters.DefaultPageSize {
		t.Errorf("expected page 1 size %d, got %+v", filters.DefaultPageSize, spec.Page)
	}
	if len(spec.Conds) != 0 {
		t.Errorf("expected no conditions, got %d", len(spec.Conds))
	}
}

func TestCompile_UnknownKeysIgnored(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"utm_source": {"mail"},
		"frobnicate": {"yes"},
	})
	if len(spec.Conds) != 0 || spec.Search != "" {
		t.Error("unknown keys must not produce conditions")
	}
}

func TestCompile_MalformedNumericFails(t *testing.T) {
	_, err := filters.Compile(filters.EntityCenter, map[string][]string{
		"total_gla__gte": {"lots"},
	}, filters.MaxPageSize)
	if !errors.Is(err, domain.ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
	// the offending parameter must be named
	if got := err.Error(); !strings.Contains(got, "total_gla__gte") {
		t.Errorf("error should name the parameter: %q", got)
	}
}

func TestCompile_InvalidEnumFails(t *testing.T) {
	cases := []struct {
		entity filters.Entity
		key    string
		val    string
	}{
		{filters.EntityCenter, "center_type", "CASTLE"},
		{filters.EntityTenant, "occupancy_status", "SQUATTING"},
		{filters.EntityTenant, "ownership_type", "TIMESHARE"},
	}
	for _, tc := range cases {
		_, err := filters.Compile(tc.entity, map[string][]string{tc.key: {tc.val}}, filters.MaxPageSize)
		if !errors.Is(err, domain.ErrInvalidFilterValue) {
			t.Errorf("%s=%s: expected ErrInvalidFilterValue, got %v", tc.key, tc.val, err)
		}
	}
}

func TestCompile_EnumCaseInsensitive(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"center_type": {"mall"},
	})
	if len(spec.Conds) != 1 || spec.Conds[0].Str != "MALL" {
		t.Errorf("expected normalized MALL condition, got %+v", spec.Conds)
	}
}

func TestCompile_PageSizeCapped(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"page_size": {"9999"},
	})
	if spec.Page.Size != filters.MaxPageSize {
		t.Errorf("expected cap %d, got %d", filters.MaxPageSize, spec.Page.Size)
	}

	mapSpec, err := filters.Compile(filters.EntityCenter, map[string][]string{
		"page_size": {"9999"},
	}, filters.MaxMapPageSize)
	if err != nil {
		t.Fatal(err)
	}
	if mapSpec.Page.Size != filters.MaxMapPageSize {
		t.Errorf("expected map cap %d, got %d", filters.MaxMapPageSize, mapSpec.Page.Size)
	}
}

func TestCompile_PageBelowOneFails(t *testing.T) {
	for _, v := range []string{"0", "-3", "one"} {
		_, err := filters.Compile(filters.EntityCenter, map[string][]string{"page": {v}}, filters.MaxPageSize)
		if !errors.Is(err, domain.ErrInvalidFilterValue) {
			t.Errorf("page=%s: expected ErrInvalidFilterValue, got %v", v, err)
		}
	}
}

func TestCompile_OrderingWhitelist(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"ordering": {"-total_gla"},
	})
	if spec.Sort.Field != "total_gla" || !spec.Sort.Desc {
		t.Errorf("expected desc total_gla, got %+v", spec.Sort)
	}

	_, err := filters.Compile(filters.EntityCenter, map[string][]string{
		"ordering": {"owner_phone"},
	}, filters.MaxPageSize)
	if !errors.Is(err, domain.ErrInvalidFilterValue) {
		t.Errorf("expected ErrInvalidFilterValue for unknown ordering field, got %v", err)
	}
}

func TestCompile_ExpiringSoonDefaultsToTwelveMonths(t *testing.T) {
	spec := mustCompile(t, filters.EntityTenant, map[string][]string{
		"expiring_soon": {"true"},
	})
	if spec.ExpiringMonths != 12 {
		t.Errorf("expected 12 months, got %d", spec.ExpiringMonths)
	}

	spec = mustCompile(t, filters.EntityTenant, map[string][]string{
		"lease_expiring": {"6"},
	})
	if spec.ExpiringMonths != 6 {
		t.Errorf("expected 6 months, got %d", spec.ExpiringMonths)
	}
}

func TestMatchTenant_LeaseExpiryWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	soon := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	far := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	spec := mustCompile(t, filters.EntityTenant, map[string][]string{
		"expiring_soon": {"true"},
	})

	expiring := &domain.Tenant{Occupancy: domain.OccupancyOccupied, LeaseEnd: &soon}
	if !spec.MatchTenant(expiring, now) {
		t.Error("lease ending in 5 months must match expiring_soon")
	}

	notYet := &domain.Tenant{Occupancy: domain.OccupancyOccupied, LeaseEnd: &far}
	if spec.MatchTenant(notYet, now) {
		t.Error("lease ending in 17 months must not match expiring_soon")
	}

	vacant := &domain.Tenant{Occupancy: domain.OccupancyVacant, LeaseEnd: &soon}
	if spec.MatchTenant(vacant, now) {
		t.Error("vacant suite must not match expiring_soon")
	}

	noLease := &domain.Tenant{Occupancy: domain.OccupancyOccupied}
	if spec.MatchTenant(noLease, now) {
		t.Error("tenant without lease end must not match expiring_soon")
	}
}

func TestMatchCenter_Conjunction(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"center_type":    {"MALL"},
		"address_state":  {"pa"},
		"total_gla__gte": {"50000"},
	})

	c := &domain.ShoppingCenter{
		CenterType: domain.CenterTypeMall,
		Address:    domain.Address{State: "PA", City: "Philadelphia"},
		TotalGLA:   120000,
	}
	if !spec.MatchCenter(c, 0) {
		t.Error("center satisfying all conditions must match")
	}

	c.TotalGLA = 10000
	if spec.MatchCenter(c, 0) {
		t.Error("failing one condition must fail the conjunction")
	}
}

func TestMatchCenter_MinTenants(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"min_tenants": {"5"},
	})
	c := &domain.ShoppingCenter{Name: "Oak Plaza"}
	if spec.MatchCenter(c, 4) {
		t.Error("4 tenants must not satisfy min_tenants=5")
	}
	if !spec.MatchCenter(c, 5) {
		t.Error("5 tenants must satisfy min_tenants=5")
	}
}

func TestMatchCenter_Search(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"search": {"simon"},
	})
	c := &domain.ShoppingCenter{Name: "Oak Plaza", Owner: "Simon Property Group"}
	if !spec.MatchCenter(c, 0) {
		t.Error("search must match owner case-insensitively")
	}
	c.Owner = "Brookfield"
	if spec.MatchCenter(c, 0) {
		t.Error("search must fail when no searchable field matches")
	}
}

func TestMatchCenter_HasCoordinates(t *testing.T) {
	spec := mustCompile(t, filters.EntityCenter, map[string][]string{
		"has_coordinates": {"false"},
	})
	geocoded := &domain.ShoppingCenter{Location: &domain.GeoPoint{Lat: 40, Lon: -75}}
	if spec.MatchCenter(geocoded, 0) {
		t.Error("geocoded center must not match has_coordinates=false")
	}
	if !spec.MatchCenter(&domain.ShoppingCenter{}, 0) {
		t.Error("ungeocoded center must match has_coordinates=false")
	}
}
