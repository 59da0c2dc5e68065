package tokensession

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a generic metrics interface for the session manager.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
}

// NoopMetrics is the default metrics implementation; it does nothing.
type NoopMetrics struct{}

func (NoopMetrics) IncCounter(string, map[string]string) {}

// PrometheusMetrics implements Metrics with Prometheus counters. Counters
// are registered lazily the first time a name is seen.
type PrometheusMetrics struct {
	reg      prometheus.Registerer
	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
}

// NewPrometheusMetrics returns a Metrics implementation that registers its
// collectors with reg (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		reg:      reg,
		counters: make(map[string]*prometheus.CounterVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name + " counter"}, keys(tags))
		m.reg.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Inc()
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
