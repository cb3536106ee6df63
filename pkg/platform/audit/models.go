// Package audit captures the security-relevant trail of certificate issuance
// and verification. Events are transport-agnostic so stores and sinks can fan
// out: an in-memory store for tests, PostgreSQL for durable retention, and an
// optional Kafka sink for SIEM pipelines.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: profile creation, compliance judgments.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring and
	// forensics. These feed into SIEM systems and alerting pipelines.
	// Examples: fraud alerts, failed verifications.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled or aggregated with shorter retention.
	// Examples: code validations, successful verifications.
	CategoryOperations EventCategory = "operations"
)

// Severity levels for security events, used for SIEM routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory
	Timestamp     time.Time
	CertificateID string
	ProfileID     string
	Subject       string // recipient identity; no PII beyond the certificate's own fields
	Action        string
	Decision      string // outcome summary, e.g. "issued", "valid", "invalid"
	Reason        string
	RiskLevel     string
	TrustScore    int
	RequestID     string // correlation ID from HTTP request context
	ClientInfo    string // browser/OS summary for verification forensics
	Severity      Severity
}

// AuditEvent names the actions this subsystem emits.
type AuditEvent string

const (
	// Issuance events
	EventProfileCreated    AuditEvent = "security_profile_created"
	EventFraudAlertRaised  AuditEvent = "fraud_alert_raised"
	EventCompliancePending AuditEvent = "compliance_pending"

	// Verification events
	EventCertificateVerified AuditEvent = "certificate_verified"
	EventVerificationFailed  AuditEvent = "certificate_verification_failed"
	EventCodeValidated       AuditEvent = "verification_code_validated"
	EventReceiptIssued       AuditEvent = "verification_receipt_issued"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Security: security monitoring, SIEM integration, alerting.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - require tamper-proof storage
	EventProfileCreated:    CategoryCompliance,
	EventCompliancePending: CategoryCompliance,

	// Security events - feed into SIEM and alerting
	EventFraudAlertRaised:   CategorySecurity,
	EventVerificationFailed: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventCertificateVerified: CategoryOperations,
	EventCodeValidated:       CategoryOperations,
	EventReceiptIssued:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
