package metrics

import "github.com/prometheus/client_golang/prometheus"

func RegisterAPIMetrics() {
	prometheus.MustRegister(
		LoginCount,
		DigestChecks,
		TicketVerifyDuration,
		SessionCount,
		MemoryCacheHitCount,
	)
}
