package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joint_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "joint_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joint_events_consumed_total",
		Help: "Fan-out events consumed by kind.",
	}, []string{"kind"})
)

// Handler serves the scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request count and latency per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// EventConsumed counts one fan-out event.
func EventConsumed(kind string) { eventsConsumed.WithLabelValues(kind).Inc() }
