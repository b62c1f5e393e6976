package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	commandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Inbound commands and triggers by name.",
		},
		[]string{"command"},
	)

	rateLimitTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_rate_limit_triggered_total",
			Help: "Updates rejected by the per-user rate limiter.",
		},
	)

	adminCommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_command_total",
			Help: "Tracks attempts to use admin commands.",
		},
		[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
	)

	subscriptionChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_checks_total",
			Help: "Channel membership lookups by outcome (subscribed/not_subscribed/error).",
		},
		[]string{"outcome"},
	)
)

func init() {
	register(commandsReceivedTotal, rateLimitTriggeredTotal, adminCommandTotal, subscriptionChecksTotal)
}

func IncCommand(command string) {
	commandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncRateLimited() { rateLimitTriggeredTotal.Inc() }

func IncAdminCommand(command, status string) {
	adminCommandTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func IncSubscriptionCheck(outcome string) {
	subscriptionChecksTotal.WithLabelValues(norm(outcome)).Inc()
}
