package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_commands_total",
		Help: "Total number of slash commands handled",
	}, []string{"command", "status"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moderation_command_duration_seconds",
		Help:    "Duration of slash command handling",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	CommandDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_command_denials_total",
		Help: "Total number of commands refused because the caller is not whitelisted",
	}, []string{"command"})

	CommandRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_command_rejections_total",
		Help: "Total number of commands answered with a warning or error card",
	}, []string{"command", "reason"})

	ConfigOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_config_operations_total",
		Help: "Total number of configuration document loads and saves",
	}, []string{"operation", "status"})

	WhitelistSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_whitelist_size",
		Help: "Number of whitelisted callers seen on the last document load",
	})

	AuditEntriesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_audit_entries_pruned_total",
		Help: "Total number of audit entries deleted by retention",
	})

	DiscordRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_discord_requests_total",
		Help: "Total number of Discord moderation API requests",
	}, []string{"operation", "status"})
)

// Status turns an error into the status label used across counters.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
