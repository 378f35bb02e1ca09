package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclab", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclab", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// DocumentOps counts catalog and detail operations by name and outcome
	// (ok, validation, not_found, permission, error).
	DocumentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclab", Name: "document_operations_total", Help: "Document operations by operation and result."},
		[]string{"op", "result"},
	)
	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "doclab", Name: "catalog_documents", Help: "Number of documents currently in the catalog."},
	)
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "doclab", Name: "comments_created_total", Help: "Number of comments appended to documents."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentOps)
	reg.MustRegister(CatalogSize)
	reg.MustRegister(CommentsCreated)
}
