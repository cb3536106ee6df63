package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the security module.
type Metrics struct {
	// Profiles issued by security level and resulting risk level
	ProfilesIssued *prometheus.CounterVec

	// Fraud alerts raised by heuristic type
	FraudAlerts *prometheus.CounterVec

	// Verification outcomes: "valid" or "invalid"
	Verifications *prometheus.CounterVec

	// Standalone code validations: "valid" or "invalid"
	CodeValidations *prometheus.CounterVec

	// Full issuance pipeline latency
	IssueLatency prometheus.Histogram

	// Verification pass latency
	VerifyLatency prometheus.Histogram
}

// New creates a Metrics instance with all security module metrics registered.
func New() *Metrics {
	return &Metrics{
		ProfilesIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certseal_profiles_issued_total",
			Help: "Total security profiles issued by level and risk level",
		}, []string{"level", "risk_level"}),

		FraudAlerts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certseal_fraud_alerts_total",
			Help: "Total fraud alerts raised by heuristic type",
		}, []string{"type"}),

		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certseal_verifications_total",
			Help: "Total certificate verifications by outcome",
		}, []string{"outcome"}),

		CodeValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certseal_code_validations_total",
			Help: "Total standalone verification code validations by outcome",
		}, []string{"outcome"}),

		IssueLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certseal_issue_duration_seconds",
			Help:    "Duration of the full issuance pipeline including fraud and compliance passes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certseal_verify_duration_seconds",
			Help:    "Duration of the verification pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementProfilesIssued records an issued profile.
func (m *Metrics) IncrementProfilesIssued(level, riskLevel string) {
	if m != nil {
		m.ProfilesIssued.WithLabelValues(level, riskLevel).Inc()
	}
}

// IncrementFraudAlert records a raised fraud alert.
func (m *Metrics) IncrementFraudAlert(fraudType string) {
	if m != nil {
		m.FraudAlerts.WithLabelValues(fraudType).Inc()
	}
}

// IncrementVerification records a verification outcome.
func (m *Metrics) IncrementVerification(outcome string) {
	if m != nil {
		m.Verifications.WithLabelValues(outcome).Inc()
	}
}

// IncrementCodeValidation records a standalone code validation outcome.
func (m *Metrics) IncrementCodeValidation(outcome string) {
	if m != nil {
		m.CodeValidations.WithLabelValues(outcome).Inc()
	}
}

// ObserveIssueLatency records the duration of an issuance pipeline run.
func (m *Metrics) ObserveIssueLatency(d time.Duration) {
	if m != nil {
		m.IssueLatency.Observe(d.Seconds())
	}
}

// ObserveVerifyLatency records the duration of a verification pass.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}
