// Package metrics expone contadores Prometheus del controlador de sincronización
// y del orquestador de movimientos.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
)

const namespace = "inventario_eventos"

var (
	_ stocksync.Metrics = (*Collector)(nil)
	_ inventory.Metrics = (*Collector)(nil)
)

// Collector agrupa los collectors en un registro propio (no el global).
type Collector struct {
	registry      *prometheus.Registry
	pulls         *prometheus.CounterVec
	pullsApplied  *prometheus.CounterVec
	pullsDiscard  *prometheus.CounterVec
	pullsFailed   *prometheus.CounterVec
	notifications prometheus.Counter
	movements     *prometheus.CounterVec
}

// New registra los collectors. withRuntime añade métricas de proceso y runtime de Go.
func New(withRuntime bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "pulls_total",
			Help: "Consultas pull emitidas por tipo.",
		}, []string{"kind"}),
		pullsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "pulls_applied_total",
			Help: "Respuestas escritas en el store por tipo.",
		}, []string{"kind"}),
		pullsDiscard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "pulls_discarded_total",
			Help: "Respuestas descartadas por tipo y motivo (stale, cancelled, session_changed).",
		}, []string{"kind", "reason"}),
		pullsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "pulls_failed_total",
			Help: "Consultas fallidas por tipo.",
		}, []string{"kind"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sync", Name: "movement_notifications_total",
			Help: "Notificaciones de movimiento recibidas por las vistas montadas.",
		}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "inventory", Name: "movements_total",
			Help: "Movimientos por tipo y resultado (ok, rejected, failed, skipped, forbidden).",
		}, []string{"type", "status"}),
	}
	c.registry.MustRegister(c.pulls, c.pullsApplied, c.pullsDiscard, c.pullsFailed, c.notifications, c.movements)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Registry registro propio, para tests o para componer con otros exportadores.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler handler HTTP del endpoint /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ── stocksync.Metrics ─────────────────────────────────────────────────────────

func (c *Collector) PullIssued(kind stocksync.QueryKind)  { c.pulls.WithLabelValues(string(kind)).Inc() }
func (c *Collector) PullApplied(kind stocksync.QueryKind) { c.pullsApplied.WithLabelValues(string(kind)).Inc() }
func (c *Collector) PullFailed(kind stocksync.QueryKind)  { c.pullsFailed.WithLabelValues(string(kind)).Inc() }
func (c *Collector) MovementNotified()                    { c.notifications.Inc() }

func (c *Collector) PullDiscarded(kind stocksync.QueryKind, reason string) {
	c.pullsDiscard.WithLabelValues(string(kind), reason).Inc()
}

// ── inventory.Metrics ─────────────────────────────────────────────────────────

func (c *Collector) MovementSubmitted(movementType, status string) {
	c.movements.WithLabelValues(movementType, status).Inc()
}
