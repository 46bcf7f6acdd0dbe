package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "valid"

// Metrics exposes Prometheus collectors for assessment activity.
type Metrics struct {
	SessionsStarted     prometheus.Counter
	SessionStartFailed  prometheus.Counter
	ActiveSessions      prometheus.Gauge
	AnswersRecorded     prometheus.Counter
	AnswersRejected     *prometheus.CounterVec
	AssessmentsFinished *prometheus.CounterVec
	QualityVerdicts     *prometheus.CounterVec
	OfflineQueued       prometheus.Counter
	OfflineSynced       prometheus.Counter
	WebhookFailures     prometheus.Counter
	CompletionSeconds   prometheus.Histogram
}

// MustNewMetrics registers every collector with reg and panics on a
// registration error. Pass a fresh registry in tests.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sessions", Name: "started_total",
			Help: "Assessment sessions started.",
		}),
		SessionStartFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sessions", Name: "start_failures_total",
			Help: "Session starts rejected because the question bank could not build a set.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sessions", Name: "active",
			Help: "Sessions currently held in memory.",
		}),
		AnswersRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "answers", Name: "recorded_total",
			Help: "Answers accepted.",
		}),
		AnswersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "answers", Name: "rejected_total",
			Help: "Answers rejected by validation.",
		}, []string{"reason"}),
		AssessmentsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "assessments", Name: "finalized_total",
			Help: "Completed assessments by primary persona.",
		}, []string{"persona"}),
		QualityVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "assessments", Name: "quality_verdicts_total",
			Help: "Completed assessments by data-quality verdict.",
		}, []string{"verdict"}),
		OfflineQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "offline", Name: "queued_total",
			Help: "Snapshots written to the local fallback queue.",
		}),
		OfflineSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "offline", Name: "synced_total",
			Help: "Queued snapshots delivered to the hosted database.",
		}),
		WebhookFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "webhook", Name: "failures_total",
			Help: "Lead-capture webhook deliveries that failed.",
		}),
		CompletionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "assessments", Name: "completion_seconds",
			Help:    "Time from session start to finalize.",
			Buckets: []float64{120, 300, 480, 900, 1200, 1800, 2700, 3600, 7200},
		}),
	}
	reg.MustRegister(
		m.SessionsStarted, m.SessionStartFailed, m.ActiveSessions,
		m.AnswersRecorded, m.AnswersRejected,
		m.AssessmentsFinished, m.QualityVerdicts,
		m.OfflineQueued, m.OfflineSynced,
		m.WebhookFailures, m.CompletionSeconds,
	)
	return m
}
