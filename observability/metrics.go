// Package observability exposes the server's Prometheus metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drawlab_events_total",
		Help: "Inbound protocol events by kind.",
	}, []string{"kind"})

	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawlab_deliveries_dropped_total",
		Help: "Outbound events dropped because a subscriber could not keep up.",
	})

	committedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drawlab_strokes_committed_total",
		Help: "Strokes committed to a room log.",
	})

	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drawlab_rooms",
		Help: "Rooms created since start.",
	})

	connectedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drawlab_connected_users",
		Help: "Sessions currently bound to a room.",
	})
)

func IncEvent(kind string) { eventsTotal.WithLabelValues(kind).Inc() }

func IncDropped() { droppedTotal.Inc() }

func IncCommitted() { committedTotal.Inc() }

func SetRooms(n int) { roomsActive.Set(float64(n)) }

func AddConnectedUsers(delta int) { connectedUsers.Add(float64(delta)) }

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
