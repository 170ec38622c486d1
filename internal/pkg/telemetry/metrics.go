package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricGeocodeCompletion = "directory.geocoding_completion"
	MetricImportAge         = "directory.import_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricCentersListed   = "business.centers_listed"
	MetricGeocodesIssued  = "business.geocodes_issued"
	MetricImportsFinished = "business.imports_finished"
)
