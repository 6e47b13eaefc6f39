package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PointsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herspace",
		Name:      "points_applied_total",
		Help:      "Ledger mutations by reason.",
	}, []string{"reason"})

	FeedPosts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "herspace",
		Name:      "feed_posts_total",
		Help:      "Posts published to tree hole feeds.",
	})

	GatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herspace",
		Name:      "gateway_calls_total",
		Help:      "Generative gateway calls by operation and result (ok, fallback).",
	}, []string{"op", "result"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "herspace",
		Name:      "sessions_active",
		Help:      "Sessions held in memory.",
	})
)
