package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roomrelay"

// Collector records hub activity as Prometheus metrics on its own registry.
type Collector struct {
	registry    *prometheus.Registry
	connections prometheus.Gauge
	rooms       prometheus.Gauge
	received    *prometheus.CounterVec
	delivered   prometheus.Counter
	skipped     prometheus.Counter
}

// New builds a collector with Go runtime metrics included.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Currently open client connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms with at least one member.",
		}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Inbound messages by type.",
		}, []string{"type"}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Outbound envelopes handed to a connection.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_skipped_total",
			Help:      "Outbound envelopes dropped for closed or saturated connections.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.connections,
		c.rooms,
		c.received,
		c.delivered,
		c.skipped,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ConnectionOpened()           { c.connections.Inc() }
func (c *Collector) ConnectionClosed()           { c.connections.Dec() }
func (c *Collector) RoomCreated()                { c.rooms.Inc() }
func (c *Collector) RoomDeleted()                { c.rooms.Dec() }
func (c *Collector) MessageReceived(kind string) { c.received.WithLabelValues(kind).Inc() }
func (c *Collector) MessageDelivered()           { c.delivered.Inc() }
func (c *Collector) DeliverySkipped()            { c.skipped.Inc() }
