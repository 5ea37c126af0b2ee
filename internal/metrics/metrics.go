package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EmailsClassified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_emails_classified_total",
		Help: "Total number of classified emails by category and priority",
	}, []string{"category", "priority"})
	BatchesClassified = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_batches_classified_total",
		Help: "Total number of classification batches by sort mode",
	}, []string{"sorted"})
	ClassificationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_classifications_rejected_total",
		Help: "Total number of classification requests rejected because the sorter is disabled, by kind",
	}, []string{"kind"})
	UrgencyScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "priority_sorter_urgency_score",
		Help:    "Distribution of clamped urgency scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
	SettingsUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_settings_updates_total",
		Help: "Total number of settings updates by operation",
	}, []string{"operation"})
	SettingsStoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_settings_store_errors_total",
		Help: "Total number of settings store failures by operation",
	}, []string{"operation"})
	MessagesTagged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "priority_sorter_messages_tagged_total",
		Help: "Total number of SMTP messages relayed, by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(EmailsClassified)
	prometheus.MustRegister(BatchesClassified)
	prometheus.MustRegister(ClassificationsRejected)
	prometheus.MustRegister(UrgencyScores)
	prometheus.MustRegister(SettingsUpdates)
	prometheus.MustRegister(SettingsStoreErrors)
	prometheus.MustRegister(MessagesTagged)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
