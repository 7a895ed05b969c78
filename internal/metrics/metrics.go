// Package metrics defines the Prometheus collectors the server exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitledger"

// Metrics holds every collector. Create it once per registry.
type Metrics struct {
	ExpensesAdded   *prometheus.CounterVec
	GroupRejected   *prometheus.CounterVec
	SessionsStarted prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// sessions reports the number of live sessions for the active sessions gauge.
func New(reg prometheus.Registerer, sessions func() int) *Metrics {
	m := &Metrics{
		ExpensesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Expenses recorded, by ledger (personal or group).",
		}, []string{"ledger"}),
		GroupRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_expenses_rejected_total",
			Help:      "Group expenses rejected at validation, by reason.",
		}, []string{"reason"}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions started.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	reg.MustRegister(
		m.ExpensesAdded,
		m.GroupRejected,
		m.SessionsStarted,
		m.RequestDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}, func() float64 { return float64(sessions()) }),
	)
	return m
}
