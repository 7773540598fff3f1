package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet_reports",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Reports served, partitioned by format and result.",
	}, []string{"format", "result"})
	remindersDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timesheet_reports",
		Subsystem: "reminders",
		Name:      "dispatched_total",
		Help:      "Reminder emails attempted, partitioned by status.",
	}, []string{"status"})
	tempCleanupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "timesheet_reports",
		Subsystem: "export",
		Name:      "temp_cleanup_failures_total",
		Help:      "Staged export files that could not be removed.",
	})
)

func init() {
	prometheus.MustRegister(reportsGenerated, remindersDispatched, tempCleanupFailures)
}

// RecordReport counts one served report.
func RecordReport(format string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	reportsGenerated.WithLabelValues(format, result).Inc()
}

// RecordReminder counts one reminder attempt.
func RecordReminder(status string) {
	remindersDispatched.WithLabelValues(status).Inc()
}

// RecordTempCleanupFailure counts a staged file left behind.
func RecordTempCleanupFailure() {
	tempCleanupFailures.Inc()
}
