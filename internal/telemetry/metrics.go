// Package telemetry provides the Prometheus metrics exported on /metrics.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	AnalysesTotal        *prometheus.CounterVec // label: source
	AnalysisFailures     prometheus.Counter
	AugmentationFailures prometheus.Counter
	MessagesAnalyzed     prometheus.Counter
	DigestFailures       prometheus.Counter

	// Histograms (seconds)
	AnalysisDuration prometheus.Observer

	// Gauges
	ProcessedTranscripts prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "engagement_analyses_total", Help: "Number of completed engagement analyses"}, []string{"source"})
		AnalysisFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "engagement_analysis_failures_total", Help: "Number of transcripts that could not be analyzed"})
		AugmentationFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "engagement_augmentation_fallbacks_total", Help: "Number of analyses that fell back to local topic clusters"})
		MessagesAnalyzed = promauto.NewCounter(prometheus.CounterOpts{Name: "engagement_messages_analyzed_total", Help: "Number of chat messages fed into analyses"})
		DigestFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "engagement_digest_failures_total", Help: "Number of digest notifications that failed to send"})
		AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "engagement_analysis_duration_seconds", Help: "Analysis duration seconds", Buckets: prometheus.DefBuckets})
		ProcessedTranscripts = promauto.NewGauge(prometheus.GaugeOpts{Name: "engagement_processed_transcripts", Help: "Transcripts analyzed by the periodic scan since start"})
	})
}

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(source string, messages int, d time.Duration) {
	if AnalysesTotal == nil {
		return
	}
	AnalysesTotal.WithLabelValues(source).Inc()
	MessagesAnalyzed.Add(float64(messages))
	AnalysisDuration.Observe(d.Seconds())
}

// IncAugmentationFallback counts an analysis whose topics came from local clusters only.
func IncAugmentationFallback() {
	if AugmentationFailures != nil {
		AugmentationFailures.Inc()
	}
}

// IncAnalysisFailure counts a transcript that failed to load or decode.
func IncAnalysisFailure() {
	if AnalysisFailures != nil {
		AnalysisFailures.Inc()
	}
}

// IncDigestFailure counts a failed digest delivery.
func IncDigestFailure() {
	if DigestFailures != nil {
		DigestFailures.Inc()
	}
}

// SetProcessedTranscripts records how many transcripts the scan has handled.
func SetProcessedTranscripts(n int) {
	if ProcessedTranscripts != nil {
		ProcessedTranscripts.Set(float64(n))
	}
}
