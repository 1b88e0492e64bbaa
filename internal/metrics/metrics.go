// Package metrics содержит Prometheus-метрики маршрутизации обновлений.
package metrics

import (
	"botrouter/pkg/composer"
	"botrouter/pkg/router"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "botrouter"

// Статусы обработки маршрута
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics хранит счетчики и гистограммы бота
type Metrics struct {
	registry *prometheus.Registry

	updatesTotal  *prometheus.CounterVec
	dispatchTotal *prometheus.CounterVec
	routeDuration *prometheus.HistogramVec
}

// New создает метрики в собственном реестре
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Total number of updates entering the pipeline by kind",
		}, []string{"kind"}),
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_dispatch_total",
			Help:      "Total number of updates dispatched to a route",
		}, []string{"route", "status"}),
		routeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Route chain execution time in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry возвращает реестр для экспорта через HTTP
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CountUpdates считает все обновления по типу
func (m *Metrics) CountUpdates() composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		kind := router.UpdateKind(c)
		if kind == router.KindUnknown {
			kind = "unknown"
		}
		m.updatesTotal.WithLabelValues(string(kind)).Inc()
		return next()
	}
}

// Track ставится первым в цепочку маршрута и измеряет ее выполнение
func (m *Metrics) Track(route string) composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		start := time.Now()
		err := next()

		status := StatusOK
		if err != nil {
			status = StatusError
		}
		m.dispatchTotal.WithLabelValues(route, status).Inc()
		m.routeDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Dispatched возвращает число обработок маршрута с указанным статусом
func (m *Metrics) Dispatched(route, status string) float64 {
	var metric dto.Metric
	if err := m.dispatchTotal.WithLabelValues(route, status).Write(&metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}
