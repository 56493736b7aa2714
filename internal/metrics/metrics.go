package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CycleResult labels the outcome of a poll cycle.
type CycleResult string

const (
	CycleResultOK       CycleResult = "ok"
	CycleResultError    CycleResult = "error"
	CycleResultCanceled CycleResult = "canceled"
)

type timeSinceFunc func(t time.Time) time.Duration

// Used to override time sensitive properties in tests.
var timeSinceFn = timeSinceFunc(func(t time.Time) time.Duration {
	return time.Since(t)
})

var (
	pollCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_dashboard_poll_cycles_total",
		Help: "Counter tracking poll cycles by result",
	}, []string{"result"})

	pollCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "share_dashboard_poll_cycle_duration_seconds",
		Help:    "Histogram tracking poll cycle durations in seconds",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	fetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_dashboard_fetch_errors_total",
		Help: "Counter tracking failed backend reads by resource and error kind",
	}, []string{"resource", "kind"})

	renderedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "share_dashboard_rendered_rows",
		Help: "Rows in the currently displayed table",
	})

	renderedAlerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "share_dashboard_rendered_alerts",
		Help: "Rows in the alert state in the currently displayed table",
	})

	lastSuccessTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "share_dashboard_last_success_timestamp_seconds",
		Help: "Unix time of the last successful poll cycle",
	})

	liveViewers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "share_dashboard_live_viewers",
		Help: "Open WebSocket connections receiving table updates",
	})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_dashboard_http_requests_total",
		Help: "Counter tracking dashboard HTTP requests by route and status code",
	}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(
		pollCyclesTotal,
		pollCycleDuration,
		fetchErrorsTotal,
		renderedRows,
		renderedAlerts,
		lastSuccessTimestamp,
		liveViewers,
		httpRequestsTotal,
	)
}

func cycleResult(err error) CycleResult {
	switch {
	case err == nil:
		return CycleResultOK
	case errors.Is(err, context.Canceled):
		return CycleResultCanceled
	default:
		return CycleResultError
	}
}

// ObserveCycle records the outcome and duration of one poll cycle.
func ObserveCycle(start time.Time, err error) {
	pollCyclesTotal.WithLabelValues(string(cycleResult(err))).Inc()
	pollCycleDuration.Observe(timeSinceFn(start).Seconds())
}

// IncFetchErrors counts a failed read of resource with the given error kind.
func IncFetchErrors(resource, kind string) {
	fetchErrorsTotal.WithLabelValues(resource, kind).Inc()
}

// SetRendered records the shape of the table just displayed.
func SetRendered(rows, alerts int, at time.Time) {
	renderedRows.Set(float64(rows))
	renderedAlerts.Set(float64(alerts))
	lastSuccessTimestamp.Set(float64(at.Unix()))
}

// IncLiveViewers and DecLiveViewers track WebSocket viewers.
func IncLiveViewers() {
	liveViewers.Inc()
}

func DecLiveViewers() {
	liveViewers.Dec()
}

// IncHTTPRequests counts one served request.
func IncHTTPRequests(route string, code int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
