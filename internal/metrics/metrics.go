package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics são os contadores de degradação do console. Um valor nil é válido e não registra nada.
type Metrics struct {
	FetchFailures    *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	MutationFailures *prometheus.CounterVec
	StaleResults     *prometheus.CounterVec
}

// New cria e registra os contadores em reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "fetch_failures_total",
			Help:      "Falhas de leitura absorvidas, por fonte.",
		}, []string{"source"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "fallbacks_total",
			Help:      "Vezes em que dados de exemplo substituíram dados reais.",
		}, []string{"screen"}),
		MutationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "mutation_failures_total",
			Help:      "Mutações otimistas sem confirmação do servidor.",
		}, []string{"resource", "op"}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Name:      "stale_results_total",
			Help:      "Respostas descartadas por chegarem depois de uma nova carga ou troca de tenant.",
		}, []string{"resource"}),
	}
	reg.MustRegister(m.FetchFailures, m.Fallbacks, m.MutationFailures, m.StaleResults)
	return m
}

func (m *Metrics) FetchFailed(source string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) FellBack(screen string) {
	if m != nil {
		m.Fallbacks.WithLabelValues(screen).Inc()
	}
}

func (m *Metrics) MutationFailed(resource, op string) {
	if m != nil {
		m.MutationFailures.WithLabelValues(resource, op).Inc()
	}
}

func (m *Metrics) Stale(resource string) {
	if m != nil {
		m.StaleResults.WithLabelValues(resource).Inc()
	}
}
