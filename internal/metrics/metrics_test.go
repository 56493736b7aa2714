package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	timeSinceFn = func(t time.Time) time.Duration {
		return 1
	}
}

func TestPollCyclesTotalMetric(t *testing.T) {
	ObserveCycle(time.Now(), nil)
	ObserveCycle(time.Now(), nil)
	ObserveCycle(time.Now(), errors.New("failed shares: 500"))
	ObserveCycle(time.Now(), context.Canceled)

	problems, err := testutil.CollectAndLint(pollCyclesTotal)
	if err != nil {
		t.Fatalf("CollectAndLint() error: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("lint problems: %v", problems)
	}

	expected := `# HELP share_dashboard_poll_cycles_total Counter tracking poll cycles by result
# TYPE share_dashboard_poll_cycles_total counter
share_dashboard_poll_cycles_total{result="canceled"} 1
share_dashboard_poll_cycles_total{result="error"} 1
share_dashboard_poll_cycles_total{result="ok"} 2
`
	if err := testutil.CollectAndCompare(pollCyclesTotal, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestCycleResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want CycleResult
	}{
		{"success", nil, CycleResultOK},
		{"fetch failure", errors.New("failed anomalies: 503"), CycleResultError},
		{"deadline", context.DeadlineExceeded, CycleResultError},
		{"shutdown", fmt.Errorf("get shares: %w", context.Canceled), CycleResultCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cycleResult(tt.err); got != tt.want {
				t.Errorf("cycleResult(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchErrorsMetric(t *testing.T) {
	IncFetchErrors("anomalies", "status")
	IncFetchErrors("anomalies", "status")
	IncFetchErrors("shares", "network")

	if got := testutil.ToFloat64(fetchErrorsTotal.WithLabelValues("anomalies", "status")); got != 2 {
		t.Errorf("anomalies/status = %v, want 2", got)
	}
	if got := testutil.ToFloat64(fetchErrorsTotal.WithLabelValues("shares", "network")); got != 1 {
		t.Errorf("shares/network = %v, want 1", got)
	}
}

func TestSetRendered(t *testing.T) {
	at := time.Unix(1760000000, 0)
	SetRendered(12, 3, at)

	if got := testutil.ToFloat64(renderedRows); got != 12 {
		t.Errorf("renderedRows = %v, want 12", got)
	}
	if got := testutil.ToFloat64(renderedAlerts); got != 3 {
		t.Errorf("renderedAlerts = %v, want 3", got)
	}
	if got := testutil.ToFloat64(lastSuccessTimestamp); got != 1760000000 {
		t.Errorf("lastSuccessTimestamp = %v, want 1760000000", got)
	}
}

func TestLiveViewers(t *testing.T) {
	base := testutil.ToFloat64(liveViewers)
	IncLiveViewers()
	IncLiveViewers()
	DecLiveViewers()

	if got := testutil.ToFloat64(liveViewers); got != base+1 {
		t.Errorf("liveViewers = %v, want %v", got, base+1)
	}
}

func TestHTTPRequestsTotalMetric(t *testing.T) {
	IncHTTPRequests("/", 200)
	IncHTTPRequests("/", 200)
	IncHTTPRequests("/api/table", 503)

	expected := `# HELP share_dashboard_http_requests_total Counter tracking dashboard HTTP requests by route and status code
# TYPE share_dashboard_http_requests_total counter
share_dashboard_http_requests_total{code="200",route="/"} 2
share_dashboard_http_requests_total{code="503",route="/api/table"} 1
`
	if err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}
