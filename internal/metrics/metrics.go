// Package metrics holds the Prometheus collectors for the board.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_logins_total",
		Help: "Login attempts by outcome (success, rejected, error).",
	}, []string{"outcome"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_registrations_total",
		Help: "Registration attempts by outcome (success, rejected, error).",
	}, []string{"outcome"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_posts_created_total",
		Help: "Posts persisted.",
	})

	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_feed_queries_total",
		Help: "Feed queries by outcome (ok, degraded).",
	}, []string{"outcome"})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "board_store_breaker_state",
		Help: "Store circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})
)

// Handler exposes the default registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
