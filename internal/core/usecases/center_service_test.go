package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

func geocodedCenter(id int64, lat, lon float64) domain.ShoppingCenter {
	return domain.ShoppingCenter{
		ID:       id,
		Location: &domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func TestNearbySortedAndBounded(t *testing.T) {
	// Origin at Bilbao; candidates at increasing distances plus one far
	// outside any reasonable radius.
	origin := geocodedCenter(1, 43.263, -2.935)
	candidates := []domain.ShoppingCenter{
		origin,
		geocodedCenter(4, 43.35, -3.01), // ~11 km
		geocodedCenter(2, 43.27, -2.94), // ~0.9 km
		geocodedCenter(3, 43.30, -2.99), // ~6 km
		geocodedCenter(5, 40.416, -3.703), // Madrid, ~323 km
	}
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.ShoppingCenter, error) {
			return &origin, nil
		},
		listGeocodedFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return candidates, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	got, err := svc.Nearby(context.Background(), 1, 20, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, wantID := range []int64{2, 3, 4} {
		if got[i].ID != wantID {
			t.Errorf("result %d: expected center %d, got %d", i, wantID, got[i].ID)
		}
		if got[i].DistanceKm == nil {
			t.Fatalf("result %d: missing distance", i)
		}
		if *got[i].DistanceKm > 20 {
			t.Errorf("result %d: distance %.2f exceeds radius", i, *got[i].DistanceKm)
		}
		if i > 0 && *got[i].DistanceKm < *got[i-1].DistanceKm {
			t.Errorf("results not sorted by distance at index %d", i)
		}
	}
}

func TestNearbyLimitTruncates(t *testing.T) {
	origin := geocodedCenter(1, 43.263, -2.935)
	candidates := []domain.ShoppingCenter{origin}
	for i := int64(2); i <= 10; i++ {
		candidates = append(candidates, geocodedCenter(i, 43.263+float64(i)*0.001, -2.935))
	}
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return &origin, nil
		},
		listGeocodedFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return candidates, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	got, err := svc.Nearby(context.Background(), 1, 50, 3)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(got))
	}
}

func TestNearbyOriginWithoutCoordinates(t *testing.T) {
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: 7}, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	_, err := svc.Nearby(context.Background(), 7, 10, 10)
	if !errors.Is(err, domain.ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
}

func TestNearbyUnknownCenter(t *testing.T) {
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewCenterService(repo, nil, nil)

	_, err := svc.Nearby(context.Background(), 99, 10, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapBoundsInvalidViewport(t *testing.T) {
	svc := NewCenterService(&mockCenterRepo{}, nil, nil)

	// South above north.
	_, err := svc.MapBounds(context.Background(), domain.Bounds{North: 10, South: 20, East: 5, West: 0}, nil, 10)
	if !errors.Is(err, domain.ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestMapBoundsFiltersToViewport(t *testing.T) {
	repo := &mockCenterRepo{
		listGeocodedFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return []domain.ShoppingCenter{
				geocodedCenter(1, 43.26, -2.93),  // inside
				geocodedCenter(2, 43.30, -2.95),  // inside
				geocodedCenter(3, 40.41, -3.70),  // outside
			}, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	bounds := domain.Bounds{North: 43.5, South: 43.0, East: -2.8, West: -3.1}
	got, err := svc.MapBounds(context.Background(), bounds, nil, 12)
	if err != nil {
		t.Fatalf("MapBounds: %v", err)
	}
	if got.Clustered {
		t.Fatal("small result should not cluster")
	}
	if len(got.Centers) != 2 {
		t.Fatalf("expected 2 centers in viewport, got %d", len(got.Centers))
	}
}

func TestMapBoundsAppliesSpec(t *testing.T) {
	repo := &mockCenterRepo{
		listGeocodedFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			a := geocodedCenter(1, 43.26, -2.93)
			a.CenterType = domain.CenterTypeMall
			b := geocodedCenter(2, 43.30, -2.95)
			b.CenterType = domain.CenterTypeStrip
			return []domain.ShoppingCenter{a, b}, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	spec, err := filters.Compile(filters.EntityCenter, map[string][]string{
		"center_type": {"MALL"},
	}, filters.MaxMapPageSize)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	bounds := domain.Bounds{North: 43.5, South: 43.0, East: -2.8, West: -3.1}
	got, err := svc.MapBounds(context.Background(), bounds, spec, 12)
	if err != nil {
		t.Fatalf("MapBounds: %v", err)
	}
	if len(got.Centers) != 1 || got.Centers[0].ID != 1 {
		t.Fatalf("expected only the mall, got %+v", got.Centers)
	}
}

func TestMapBoundsClustersDenseResults(t *testing.T) {
	// Two tight groups of points, well over the density threshold.
	var centers []domain.ShoppingCenter
	id := int64(1)
	for i := 0; i < 400; i++ {
		centers = append(centers, geocodedCenter(id, 43.26+float64(i)*1e-6, -2.93))
		id++
	}
	for i := 0; i < 400; i++ {
		centers = append(centers, geocodedCenter(id, 40.41+float64(i)*1e-6, -3.70))
		id++
	}
	repo := &mockCenterRepo{
		listGeocodedFn: func(_ context.Context) ([]domain.ShoppingCenter, error) {
			return centers, nil
		},
	}
	svc := NewCenterService(repo, nil, nil)

	bounds := domain.Bounds{North: 45, South: 39, East: -2, West: -4}
	got, err := svc.MapBounds(context.Background(), bounds, nil, 8)
	if err != nil {
		t.Fatalf("MapBounds: %v", err)
	}
	if !got.Clustered {
		t.Fatal("expected clustered result")
	}
	total := 0
	for _, cl := range got.Clusters {
		total += cl.Count
	}
	if total != 800 {
		t.Fatalf("cluster counts should sum to 800, got %d", total)
	}

	// Same input must produce the same clusters.
	again, err := svc.MapBounds(context.Background(), bounds, nil, 8)
	if err != nil {
		t.Fatalf("MapBounds: %v", err)
	}
	if len(again.Clusters) != len(got.Clusters) {
		t.Fatalf("clustering not deterministic: %d vs %d", len(got.Clusters), len(again.Clusters))
	}
	for i := range got.Clusters {
		if got.Clusters[i] != again.Clusters[i] {
			t.Fatalf("cluster %d differs between runs", i)
		}
	}
}

func TestGeocodeSuccess(t *testing.T) {
	var storedLat, storedLon float64
	var storedScore int
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: 3, Address: domain.Address{City: "Bilbao"}}, nil
		},
		updateCoordsFn: func(_ context.Context, id int64, lat, lon float64) error {
			storedLat, storedLon = lat, lon
			return nil
		},
		updateFn: func(_ context.Context, c *domain.ShoppingCenter) error {
			storedScore = c.DataQualityScore
			return nil
		},
	}
	geo := &mockGeocoder{
		geocodeFn: func(_ context.Context, _ domain.Address) (domain.GeoPoint, error) {
			return domain.GeoPoint{Lat: 43.263, Lon: -2.935}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewCenterService(repo, geo, pub)

	got, err := svc.Geocode(context.Background(), 3)
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if got.Location == nil || got.Location.Lat != 43.263 {
		t.Fatalf("coordinate not applied: %+v", got.Location)
	}
	if storedLat != 43.263 || storedLon != -2.935 {
		t.Fatalf("coordinate not persisted: %v, %v", storedLat, storedLon)
	}
	if len(pub.geocoded) != 1 || pub.geocoded[0] != 3 {
		t.Fatalf("expected one geocoded event for center 3, got %v", pub.geocoded)
	}
	// Name empty, city and coordinate present: 7 + 18.
	if storedScore != 25 {
		t.Fatalf("expected recomputed quality score 25, got %d", storedScore)
	}
}

func TestGeocodeFailureWritesNothing(t *testing.T) {
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: 3}, nil
		},
		updateCoordsFn: func(_ context.Context, _ int64, _, _ float64) error {
			t.Fatal("must not persist on geocoder failure")
			return nil
		},
	}
	geo := &mockGeocoder{
		geocodeFn: func(_ context.Context, _ domain.Address) (domain.GeoPoint, error) {
			return domain.GeoPoint{}, errors.New("upstream timeout")
		},
	}
	svc := NewCenterService(repo, geo, nil)

	_, err := svc.Geocode(context.Background(), 3)
	if !errors.Is(err, domain.ErrGeocodingFailed) {
		t.Fatalf("expected ErrGeocodingFailed, got %v", err)
	}
}

func TestGeocodeRejectsOutOfRangeResult(t *testing.T) {
	repo := &mockCenterRepo{
		getByIDFn: func(_ context.Context, _ int64) (*domain.ShoppingCenter, error) {
			return &domain.ShoppingCenter{ID: 3}, nil
		},
		updateCoordsFn: func(_ context.Context, _ int64, _, _ float64) error {
			t.Fatal("must not persist an invalid coordinate")
			return nil
		},
	}
	geo := &mockGeocoder{
		geocodeFn: func(_ context.Context, _ domain.Address) (domain.GeoPoint, error) {
			return domain.GeoPoint{Lat: 95, Lon: 10}, nil
		},
	}
	svc := NewCenterService(repo, geo, nil)

	_, err := svc.Geocode(context.Background(), 3)
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestGeocodeWithoutGeocoder(t *testing.T) {
	svc := NewCenterService(&mockCenterRepo{}, nil, nil)
	_, err := svc.Geocode(context.Background(), 1)
	if !errors.Is(err, domain.ErrGeocodingFailed) {
		t.Fatalf("expected ErrGeocodingFailed, got %v", err)
	}
}
