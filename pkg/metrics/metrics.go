// Package metrics expone los contadores Prometheus del gateway analítico.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// Manager agrupa las métricas del subsistema de caché y refresh.
type Manager struct {
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	CacheSkips      prometheus.Counter
	CacheInvalidate *prometheus.CounterVec

	RefreshAccepted prometheus.Counter
	RefreshRejected prometheus.Counter
	RefreshFailed   prometheus.Counter
}

// New registra las métricas en el registerer indicado (nil = registro por defecto).
func New(reg prometheus.Registerer) *Manager {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Manager{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Lecturas servidas desde la caché, por tag.",
		}, []string{"tag"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Lecturas que dispararon recomputación, por tag.",
		}, []string{"tag"}),
		CacheSkips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "write_skips_total",
			Help:      "Writes omitidos por superar el tope de tamaño (best-effort).",
		}),
		CacheInvalidate: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Invalidaciones de tag (cascada de refresh o manual).",
		}, []string{"tag"}),
		RefreshAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "triggers_accepted_total",
			Help:      "Triggers de refresh aceptados (run creado).",
		}),
		RefreshRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "triggers_rejected_total",
			Help:      "Triggers rechazados por cooldown activo.",
		}),
		RefreshFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_failed_total",
			Help:      "Runs del pipeline externo que terminaron en failed.",
		}),
	}
}
