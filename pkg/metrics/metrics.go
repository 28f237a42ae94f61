package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

const ApplicationName = "sacklite"

var BinaryName = ApplicationName

func init() {
	BinaryName = os.Args[0]
}

var LoginCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "sacklite_login_total",
		Help:        "login attempts by platform and result (ok/malformed/unsupported/expired/bad_signature/error)",
		ConstLabels: prometheus.Labels{"service": ApplicationName, "component": BinaryName},
	},
	[]string{"platform", "result"},
)

var DigestChecks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "sacklite_digest_checks_total",
		Help:        "request digest checks by result (ok/missing/mismatch)",
		ConstLabels: prometheus.Labels{"service": ApplicationName, "component": BinaryName},
	},
	[]string{"result"},
)

var TicketVerifyDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:        "sacklite_ticket_verify_duration_ms",
		Help:        "ticket signature verification duration (in ms) by platform",
		ConstLabels: prometheus.Labels{"service": ApplicationName, "component": BinaryName},
		Buckets:     []float64{0.5, 1, 2, 5, 10, 20, 50, 100},
	},
	[]string{"platform"},
)

var SessionCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "sacklite_sessions_total",
		Help:        "session operations by op (issued/revoked/rejected)",
		ConstLabels: prometheus.Labels{"service": ApplicationName, "component": BinaryName},
	},
	[]string{"op"},
)

var MemoryCacheHitCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name:        "sacklite_memory_cache_hit_count",
		Help:        "memory cache hit count by operation",
		ConstLabels: prometheus.Labels{"service": ApplicationName, "component": BinaryName},
	},
	[]string{"op"},
)
