package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
	"github.com/shopwindow/shopwindow/internal/core/ports"
	"github.com/shopwindow/shopwindow/internal/pkg/geospatial"
)

// Clamps applied to geospatial queries.
const (
	maxRadiusKm     = 100.0
	defaultRadiusKm = 10.0
	maxNearbyLimit  = 50
	defaultNearby   = 25

	// Viewport queries return at most this many individual markers;
	// denser results collapse into grid clusters.
	maxMapResults = 500
)

// CenterService is the query engine for shopping centers.
type CenterService struct {
	centers  ports.CenterRepository
	geocoder ports.Geocoder
	events   ports.EventPublisher
}

// NewCenterService creates a new CenterService. geocoder and events may
// be nil; the geocode action then reports itself unavailable.
func NewCenterService(centers ports.CenterRepository, geocoder ports.Geocoder, events ports.EventPublisher) *CenterService {
	return &CenterService{centers: centers, geocoder: geocoder, events: events}
}

// List applies the compiled filter spec and returns one page plus the
// total matching count.
func (s *CenterService) List(ctx context.Context, spec *filters.Spec) ([]domain.ShoppingCenter, int, error) {
	return s.centers.Query(ctx, spec)
}

// GetByID returns a single center.
func (s *CenterService) GetByID(ctx context.Context, id int64) (*domain.ShoppingCenter, error) {
	return s.centers.GetByID(ctx, id)
}

// MapBounds returns the geocoded centers inside the viewport that also
// satisfy spec. Above maxMapResults the result collapses into grid
// clusters whose cell size is a function of zoom (coarser at low zoom).
func (s *CenterService) MapBounds(ctx context.Context, bounds domain.Bounds, spec *filters.Spec, zoom int) (*domain.MapResult, error) {
	if !geospatial.ValidBounds(bounds) {
		return nil, fmt.Errorf("%w: north=%v south=%v east=%v west=%v",
			domain.ErrInvalidBounds, bounds.North, bounds.South, bounds.East, bounds.West)
	}

	candidates, err := s.centers.ListGeocoded(ctx)
	if err != nil {
		return nil, err
	}

	// min_tenants needs the per-center counts; fetch them once only if asked.
	var counts map[int64]int
	if spec != nil && spec.MinTenants > 0 {
		counts, err = s.centers.TenantCounts(ctx)
		if err != nil {
			return nil, err
		}
	}

	var inside []domain.ShoppingCenter
	for i := range candidates {
		c := &candidates[i]
		if !geospatial.WithinBounds(*c.Location, bounds) {
			continue
		}
		if spec != nil && !spec.MatchCenter(c, counts[c.ID]) {
			continue
		}
		inside = append(inside, *c)
	}

	if len(inside) <= maxMapResults {
		filters.SortCenters(inside, filters.SortSpec{})
		if spec != nil && spec.Page.Size > 0 && len(inside) > spec.Page.Size {
			inside = inside[:spec.Page.Size]
		}
		return &domain.MapResult{Centers: inside}, nil
	}

	slog.Debug("map viewport over density threshold, clustering",
		"matched", len(inside), "zoom", zoom)
	return &domain.MapResult{Clusters: clusterGrid(inside, zoom), Clustered: true}, nil
}

// clusterGrid buckets centers into a lat/lon grid. Cell size halves per
// zoom step, so higher zoom always produces finer (or equal) clusters.
func clusterGrid(centers []domain.ShoppingCenter, zoom int) []domain.MapCluster {
	if zoom < 1 {
		zoom = 1
	}
	if zoom > 20 {
		zoom = 20
	}
	cell := 180.0 / math.Exp2(float64(zoom))

	type bucket struct {
		sumLat, sumLon float64
		count          int
		repID          int64
	}
	type cellKey struct{ row, col int }

	buckets := make(map[cellKey]*bucket)
	for i := range centers {
		c := &centers[i]
		key := cellKey{
			row: int(math.Floor(c.Location.Lat / cell)),
			col: int(math.Floor(c.Location.Lon / cell)),
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{repID: c.ID}
			buckets[key] = b
		}
		b.sumLat += c.Location.Lat
		b.sumLon += c.Location.Lon
		b.count++
		if c.ID < b.repID {
			b.repID = c.ID
		}
	}

	keys := make([]cellKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})

	clusters := make([]domain.MapCluster, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		clusters = append(clusters, domain.MapCluster{
			Centroid: domain.GeoPoint{
				Lat: b.sumLat / float64(b.count),
				Lon: b.sumLon / float64(b.count),
			},
			Count:            b.count,
			RepresentativeID: b.repID,
		})
	}
	return clusters
}

// Nearby returns geocoded centers within radiusKm of the origin center,
// ascending by distance, truncated to limit. The origin itself is
// excluded. Fails with ErrMissingCoordinates if the origin has no
// coordinate.
func (s *CenterService) Nearby(ctx context.Context, centerID int64, radiusKm float64, limit int) ([]domain.ShoppingCenter, error) {
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	if radiusKm > maxRadiusKm {
		radiusKm = maxRadiusKm
	}
	if limit <= 0 {
		limit = defaultNearby
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	origin, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if !origin.Geocoded() {
		return nil, fmt.Errorf("%w: center %d has no coordinates", domain.ErrMissingCoordinates, centerID)
	}

	candidates, err := s.centers.ListGeocoded(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.ShoppingCenter
	for i := range candidates {
		c := candidates[i]
		if c.ID == origin.ID {
			continue
		}
		d, err := geospatial.HaversineKm(*origin.Location, *c.Location)
		if err != nil {
			return nil, err
		}
		if d > radiusKm {
			continue
		}
		dist := d
		c.DistanceKm = &dist
		results = append(results, c)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if *results[i].DistanceKm != *results[j].DistanceKm {
			return *results[i].DistanceKm < *results[j].DistanceKm
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Geocode resolves the center's postal address via the external
// geocoder and, on success, atomically stores the coordinate and
// publishes a geocoded event. Nothing is written on failure.
func (s *CenterService) Geocode(ctx context.Context, centerID int64) (*domain.ShoppingCenter, error) {
	if s.geocoder == nil {
		return nil, fmt.Errorf("%w: no geocoder configured", domain.ErrGeocodingFailed)
	}

	center, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, err
	}

	point, err := s.geocoder.Geocode(ctx, center.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: center %d: %v", domain.ErrGeocodingFailed, centerID, err)
	}
	if !geospatial.ValidPoint(point) {
		return nil, fmt.Errorf("%w: geocoder returned lat=%v lon=%v",
			domain.ErrInvalidCoordinate, point.Lat, point.Lon)
	}

	if err := s.centers.UpdateCoordinates(ctx, centerID, point.Lat, point.Lon); err != nil {
		return nil, err
	}
	center.Location = &point

	// A filled coordinate changes the field-presence score.
	if qs := center.ComputeQualityScore(); qs != center.DataQualityScore {
		center.DataQualityScore = qs
		if err := s.centers.Update(ctx, center); err != nil {
			slog.Warn("quality score update failed", "center_id", centerID, "error", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishCenterGeocoded(ctx, center); err != nil {
			slog.Warn("publish geocoded event failed", "center_id", centerID, "error", err)
		}
	}
	return center, nil
}
