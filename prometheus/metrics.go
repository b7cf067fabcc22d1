package prometheus

import (
	"strconv"
	"sync"
	"time"

	"github.com/LuckylisaBemeye/Bomahub/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Upstream API metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsOpenedCounter *prometheus.CounterVec
	SessionRecheckCounter *prometheus.CounterVec

	// Console mutations
	OperationsCounter *prometheus.CounterVec

	once        sync.Once
	initialized bool
)

// InitMetrics registers the console metrics with the default registry.
// Only the first call has an effect.
func InitMetrics(config *config.Config) {
	once.Do(func() {
		register(prometheus.DefaultRegisterer, config.Metrics.Prefix)
	})
}

func register(reg prometheus.Registerer, prefix string) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthSuccessCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful logins",
		},
	)

	AuthErrorsCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of failed logins",
		},
	)

	UpstreamRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_upstream_requests_total",
			Help: "Total number of requests sent to the property API",
		},
		[]string{"method", "endpoint", "status"},
	)

	UpstreamRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_upstream_request_duration_seconds",
			Help:    "Duration of property API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	SessionsOpenedCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sessions_opened_total",
			Help: "Total number of console sessions opened, by origin",
		},
		[]string{"origin"},
	)

	SessionRecheckCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_session_rechecks_total",
			Help: "Total number of upstream session checks, by result",
		},
		[]string{"result"},
	)

	OperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of console mutations",
		},
		[]string{"entity", "action", "outcome"},
	)

	initialized = true
}

// ObserveHTTP records one served console request.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	if !initialized {
		return
	}
	s := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, s).Inc()
	HttpRequestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
}

// ObserveUpstream records one property API call. status 0 means the request never completed.
func ObserveUpstream(method, endpoint string, status int, d time.Duration) {
	if !initialized {
		return
	}
	UpstreamRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// RecordLogin counts a login attempt and its outcome.
func RecordLogin(success bool) {
	if !initialized {
		return
	}
	AuthAttemptsCounter.Inc()
	if success {
		AuthSuccessCounter.Inc()
	} else {
		AuthErrorsCounter.Inc()
	}
}

// RecordSessionOpened counts a session by origin: "new" or "restored".
func RecordSessionOpened(origin string) {
	if !initialized {
		return
	}
	SessionsOpenedCounter.WithLabelValues(origin).Inc()
}

// RecordSessionRecheck counts an upstream "who am I" check.
func RecordSessionRecheck(authenticated bool) {
	if !initialized {
		return
	}
	result := "unauthenticated"
	if authenticated {
		result = "authenticated"
	}
	SessionRecheckCounter.WithLabelValues(result).Inc()
}

// RecordOperation counts a create/update/delete style action.
func RecordOperation(entity, action string, err error) {
	if !initialized {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	OperationsCounter.WithLabelValues(entity, action, outcome).Inc()
}
