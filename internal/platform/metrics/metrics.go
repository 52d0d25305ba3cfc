package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the sync hub.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	errorsTotal            prometheus.Counter
	commandsTotal          prometheus.Counter
	broadcastsTotal        prometheus.Counter
	connectedClients       prometheus.Gauge
	droppedClientsTotal    prometheus.Counter
	hydrationFailuresTotal prometheus.Counter
}

// New creates and registers Prometheus metrics for the hub.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	commandsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_commands_total",
		Help: "Total number of operator commands applied by the hub",
	})
	broadcastsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_broadcasts_total",
		Help: "Total number of delta events fanned out to clients",
	})
	connectedClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stagecast_connected_clients",
		Help: "Number of currently connected display and console clients",
	})
	droppedClientsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_dropped_clients_total",
		Help: "Total number of clients dropped because their send buffer filled",
	})
	hydrationFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stagecast_hydration_failures_total",
		Help: "Total number of hydrations that produced an empty sequence with a warning",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		commandsTotal,
		broadcastsTotal,
		connectedClients,
		droppedClientsTotal,
		hydrationFailuresTotal,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		errorsTotal:            errorsTotal,
		commandsTotal:          commandsTotal,
		broadcastsTotal:        broadcastsTotal,
		connectedClients:       connectedClients,
		droppedClientsTotal:    droppedClientsTotal,
		hydrationFailuresTotal: hydrationFailuresTotal,
	}
}

// IncRequests increments the total HTTP request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the HTTP errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncCommands increments the applied-commands counter.
func (m *Metrics) IncCommands() {
	m.commandsTotal.Inc()
}

// IncBroadcasts increments the fan-out counter.
func (m *Metrics) IncBroadcasts() {
	m.broadcastsTotal.Inc()
}

// SetConnectedClients sets the connected-clients gauge.
func (m *Metrics) SetConnectedClients(n int) {
	m.connectedClients.Set(float64(n))
}

// IncDroppedClients increments the dropped-clients counter.
func (m *Metrics) IncDroppedClients() {
	m.droppedClientsTotal.Inc()
}

// IncHydrationFailures increments the hydration-failure counter.
func (m *Metrics) IncHydrationFailures() {
	m.hydrationFailuresTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. connected clients).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
