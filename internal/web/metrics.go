package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's collectors. Each Server owns its registry so
// several servers can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	loads         *prometheus.CounterVec
	renders       *prometheus.CounterVec
	exports       *prometheus.CounterVec
	operations    *prometheus.CounterVec
	sessionsSwept prometheus.Counter
}

func newMetrics(service *core.Service) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reshape_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reshape_loads_total",
			Help: "Input loads by result",
		}, []string{"result"}),
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reshape_renders_total",
			Help: "Rendered outputs by format",
		}, []string{"format"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reshape_exports_total",
			Help: "Exported files by format",
		}, []string{"format"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reshape_operations_total",
			Help: "Workspace edits by operation and result",
		}, []string{"op", "result"}),
		sessionsSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "reshape_sessions_swept_total",
			Help: "Idle sessions closed by the sweeper",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "reshape_sessions_open",
		Help: "Currently open sessions",
	}, func() float64 {
		return float64(service.Count())
	})

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts requests by matched route pattern, so session IDs do
// not become label values.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// observe records the outcome of a workspace edit.
func (m *metrics) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}
