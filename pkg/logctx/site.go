package logctx

import "github.com/sswlabs/fluentlog/pkg/ratelimit"

// siteState is the mutable value the per-site map (pkg/sitemap) installs
// once per specialized call-site key: one instance of every limiter kind,
// since a single statement may combine every(), atMostEvery(), and
// onAverageEvery() at once. Each limiter is internally lock-free, so
// siteState itself needs no synchronization beyond the map's get-or-create.
type siteState struct {
	duration *ratelimit.DurationLimiter
	count    *ratelimit.CountLimiter
	sample   *ratelimit.SampleLimiter
}

func newSiteState() *siteState {
	return &siteState{
		duration: ratelimit.NewDurationLimiter(),
		count:    ratelimit.NewCountLimiter(),
		sample:   ratelimit.NewSampleLimiter(),
	}
}
