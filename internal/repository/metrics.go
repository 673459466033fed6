package repository

import "time"

// QueryObserver records database query timings. *service.MetricsService
// satisfies it; repositories accept the interface so tests can run without
// a Prometheus registry.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// observeQuery feeds a labeled query duration to the observer. Meant to be
// deferred at the top of a repository method:
//
//	defer observeQuery(r.metrics, "tracking_find_by_id", time.Now())
func observeQuery(m QueryObserver, label string, start time.Time) {
	if m != nil {
		m.ObserveDBQuery(label, time.Since(start))
	}
}
