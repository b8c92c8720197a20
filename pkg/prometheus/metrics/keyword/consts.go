// Package keyword centralizes the metric name strings the service emits,
// so a renamed series only needs to change in one place.
package keyword

const (
	TotalHttpRequestsMetricName     = "lifelockd_http_requests_total"
	HttpResponseStatusesMetricName  = "lifelockd_http_responses_total"
	HttpResponseTimeMsMetricName    = "lifelockd_http_response_time_ms"

	CacheHits      = "lifelockd_cache_hits_total"
	CacheMisses    = "lifelockd_cache_misses_total"
	CacheLength    = "lifelockd_cache_length"
	CacheCost      = "lifelockd_cache_cost_bytes"
	CacheEvictions = "lifelockd_cache_evictions_total"
)
