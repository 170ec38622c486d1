package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box by its edges.
// West > East means the box wraps across the antimeridian.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// MapCluster is a grid cell of centers returned when a viewport query
// is too dense to return individual markers.
type MapCluster struct {
	Centroid         GeoPoint `json:"centroid"`
	Count            int      `json:"count"`
	RepresentativeID int64    `json:"representative_id,omitempty"`
}

// MapResult is the outcome of a viewport query: either plain centers,
// or clusters when the viewport exceeded the density threshold.
type MapResult struct {
	Centers   []ShoppingCenter `json:"centers,omitempty"`
	Clusters  []MapCluster     `json:"clusters,omitempty"`
	Clustered bool             `json:"clustered"`
}
