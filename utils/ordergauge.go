package utils

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus"

	"quisine/models"
)

var OpenOrders = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "quisine_open_orders",
		Help: "Orders per status across all shops, refreshed by the scheduler",
	},
	[]string{"status"},
)

var OrdersPlaced = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "quisine_orders_placed_total",
		Help: "Orders accepted from the storefront",
	},
)

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
}

// RefreshOpenOrders recomputes the per-status gauge. It only reads.
func RefreshOpenOrders(counter StatusCounter) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		LogError(err, "order gauge refresh failed")
		return
	}
	for _, st := range models.AllOrderStatuses {
		OpenOrders.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// StartOrderGauge schedules RefreshOpenOrders on its own scheduler and returns it so
// the caller can stop it on shutdown.
func StartOrderGauge(counter StatusCounter, every time.Duration, loc *time.Location) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(every).Do(RefreshOpenOrders, counter); err != nil {
		return nil, err
	}
	s.StartAsync()
	return s, nil
}
