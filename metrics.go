package asciimath

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricsNamespace          = "asciimath"
	MetricsSubsystemConvert   = "convert"
	MetricsSubsystemDocuments = "documents"

	MetricsKindLabel   = "kind"
	MetricsResultLabel = "result"

	DocumentChanged   = "changed"
	DocumentUnchanged = "unchanged"
	DocumentFailed    = "failed"
	DocumentSkipped   = "skipped"
)

type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveFormulaConverted(kind FormulaKind)
	ObserveFormulaSkipped(kind FormulaKind)
	IncrementTranslationFailures()
	ObserveDocument(result string)
}

// metrics used to instrumentate conversions in prometheus.
type metrics struct {
	registry *prometheus.Registry

	formulasConverted   *prometheus.CounterVec
	formulasSkipped     *prometheus.CounterVec
	translationFailures prometheus.Counter
	documentsTotal      *prometheus.CounterVec
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics() Metrics {
	m := &metrics{}
	m.registry = prometheus.NewRegistry()

	m.formulasConverted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemConvert,
		Name:      "formulas_converted_total",
		Help:      "The number of formulas rewritten to LaTeX.",
	}, []string{MetricsKindLabel})
	m.registry.MustRegister(m.formulasConverted)

	m.formulasSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemConvert,
		Name:      "formulas_skipped_total",
		Help:      "The number of candidates left alone because they are already LaTeX.",
	}, []string{MetricsKindLabel})
	m.registry.MustRegister(m.formulasSkipped)

	m.translationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemConvert,
		Name:      "formula_failures_total",
		Help:      "The number of formulas the translator rejected.",
	})
	m.registry.MustRegister(m.translationFailures)

	m.documentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemDocuments,
		Name:      "total",
		Help:      "The number of documents processed, by result.",
	}, []string{MetricsResultLabel})
	m.registry.MustRegister(m.documentsTotal)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveFormulaConverted(kind FormulaKind) {
	m.formulasConverted.With(prometheus.Labels{MetricsKindLabel: kind.String()}).Inc()
}

func (m *metrics) ObserveFormulaSkipped(kind FormulaKind) {
	m.formulasSkipped.With(prometheus.Labels{MetricsKindLabel: kind.String()}).Inc()
}

func (m *metrics) IncrementTranslationFailures() {
	m.translationFailures.Inc()
}

func (m *metrics) ObserveDocument(result string) {
	m.documentsTotal.With(prometheus.Labels{MetricsResultLabel: result}).Inc()
}

// NoopMetrics is a no-operation implementation of the Metrics interface.
type NoopMetrics struct{}

// NewNoopMetrics creates a new instance of NoopMetrics.
func NewNoopMetrics() Metrics {
	return &NoopMetrics{}
}

// GetRegistry returns a new empty registry.
func (m *NoopMetrics) GetRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func (m *NoopMetrics) ObserveFormulaConverted(FormulaKind) {}
func (m *NoopMetrics) ObserveFormulaSkipped(FormulaKind)   {}
func (m *NoopMetrics) IncrementTranslationFailures()       {}
func (m *NoopMetrics) ObserveDocument(string)              {}
