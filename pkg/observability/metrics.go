package observability

import (
	stdErrors "errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Auth exchange outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ClientMetrics holds the Prometheus collectors of the API client. A nil
// *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	transportRequests   *prometheus.CounterVec
	transportDuration   *prometheus.HistogramVec
	authExchanges       *prometheus.CounterVec
	unauthorizedRetries prometheus.Counter
}

// NewClientMetrics creates the collectors and registers them with reg. Collectors
// already registered by an earlier client are reused.
func NewClientMetrics(reg prometheus.Registerer) (*ClientMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	transportRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprovider_transport_requests_total",
			Help: "Total number of transport calls to the Dataprovider API",
		},
		[]string{"method", "status"},
	)
	transportDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataprovider_transport_request_duration_seconds",
			Help:    "Histogram of transport call durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	authExchanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataprovider_auth_exchanges_total",
			Help: "Token exchanges by grant type and outcome",
		},
		[]string{"grant", "outcome"},
	)
	unauthorizedRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dataprovider_unauthorized_retries_total",
		Help: "Requests retried after a 401 on a bearer request",
	})

	m := &ClientMetrics{}
	var err error
	if m.transportRequests, err = register(reg, transportRequests); err != nil {
		return nil, err
	}
	if m.transportDuration, err = register(reg, transportDuration); err != nil {
		return nil, err
	}
	if m.authExchanges, err = register(reg, authExchanges); err != nil {
		return nil, err
	}
	if m.unauthorizedRetries, err = register(reg, unauthorizedRetries); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNewClientMetrics is NewClientMetrics that panics on error.
func MustNewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m, err := NewClientMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stdErrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveTransport records one transport call. status is ignored when failed.
func (m *ClientMetrics) ObserveTransport(method string, status int, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(status)
	if failed {
		label = "error"
	}
	m.transportRequests.WithLabelValues(method, label).Inc()
	m.transportDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncAuthExchange records one token exchange.
func (m *ClientMetrics) IncAuthExchange(grant, outcome string) {
	if m == nil {
		return
	}
	m.authExchanges.WithLabelValues(grant, outcome).Inc()
}

// IncUnauthorizedRetry records one 401 retry.
func (m *ClientMetrics) IncUnauthorizedRetry() {
	if m == nil {
		return
	}
	m.unauthorizedRetries.Inc()
}
