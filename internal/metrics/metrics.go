// Package metrics khai báo các Prometheus collector của server báo cáo.
package metrics

import (
	"net/http"
	"time"

	"apre_report/internal/common"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Kết quả của một truy vấn báo cáo
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Kết quả tra cache danh sách filter
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apre_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apre_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReportQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apre_report_queries_total",
			Help: "Total number of report queries by outcome",
		},
		[]string{"report", "outcome"},
	)

	ReportQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apre_report_query_duration_seconds",
			Help:    "Duration of report queries against the document store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report"},
	)

	OptionsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apre_options_cache_total",
			Help: "Options cache lookups by result",
		},
		[]string{"result"},
	)

	WarmupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apre_options_warmup_runs_total",
			Help: "Options warm-up runs by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveReport ghi nhận một truy vấn báo cáo bắt đầu lúc start và kết thúc với err
func ObserveReport(report string, start time.Time, err error) {
	ReportQueryDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	ReportQueries.WithLabelValues(report, Outcome(err)).Inc()
}

// Outcome phân loại err thành ok / invalid (4xx) / error
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case common.IsValidationError(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Handler trả về http.Handler cho endpoint /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
