package tracer

import "sync/atomic"

// Stats counts the work done while tracing. All counters are safe for
// concurrent use.
type Stats struct {
	PrimaryRays   atomic.Int64
	BoxTests      atomic.Int64
	TriangleTests atomic.Int64
	TriangleHits  atomic.Int64
	ShadowRays    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	PrimaryRays   int64
	BoxTests      int64
	TriangleTests int64
	TriangleHits  int64
	ShadowRays    int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		PrimaryRays:   s.PrimaryRays.Load(),
		BoxTests:      s.BoxTests.Load(),
		TriangleTests: s.TriangleTests.Load(),
		TriangleHits:  s.TriangleHits.Load(),
		ShadowRays:    s.ShadowRays.Load(),
	}
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	s.PrimaryRays.Store(0)
	s.BoxTests.Store(0)
	s.TriangleTests.Store(0)
	s.TriangleHits.Store(0)
	s.ShadowRays.Store(0)
}

// KeyVals returns the snapshot as alternating keys and values for
// structured logging.
func (s StatsSnapshot) KeyVals() []any {
	return []any{
		"primary_rays", s.PrimaryRays,
		"box_tests", s.BoxTests,
		"triangle_tests", s.TriangleTests,
		"triangle_hits", s.TriangleHits,
		"shadow_rays", s.ShadowRays,
	}
}
