// Package certificate defines the credential data model shared by the
// security modules. The Certificate record is owned by the issuing workflow;
// this subsystem reads it and writes exactly one field (the verification
// code, once, when absent).
package certificate

import (
	"time"

	id "certseal/pkg/domain"
)

// Certificate is the completion credential being secured.
type Certificate struct {
	ID               string    `json:"id"`
	RecipientName    string    `json:"recipient_name"`
	RecipientEmail   string    `json:"recipient_email"`
	ProgramTitle     string    `json:"program_title"`
	IssuedAt         time.Time `json:"issued_at"`
	TotalHours       float64   `json:"total_hours"`
	OverallScore     float64   `json:"overall_score"`
	CasesCompleted   int       `json:"cases_completed"`
	CasesRequired    int       `json:"cases_required"`
	Competencies     []string  `json:"competencies"`
	VerificationCode string    `json:"verification_code,omitempty"`
}

// SecurityLevel selects the validation battery applied at issuance.
// Each level requires a fixed, non-empty superset of the previous one.
type SecurityLevel string

const (
	LevelBasic    SecurityLevel = "basic"
	LevelEnhanced SecurityLevel = "enhanced"
	LevelMaximum  SecurityLevel = "maximum"
)

// IsValid reports whether the level is one of the known values.
func (l SecurityLevel) IsValid() bool {
	switch l {
	case LevelBasic, LevelEnhanced, LevelMaximum:
		return true
	}
	return false
}

// Severity grades a validation check outcome.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// CheckType names one validation check in the issuance battery.
type CheckType string

const (
	CheckIdentityVerification    CheckType = "identity_verification"
	CheckCompletionVerification  CheckType = "completion_verification"
	CheckQualificationAssessment CheckType = "qualification_assessment"
	CheckWorkloadValidation      CheckType = "workload_validation"
	CheckCompetencyValidation    CheckType = "competency_validation"
	CheckTemporalConsistency     CheckType = "temporal_consistency"
)

// ValidationCheck records one attempted check and its outcome.
type ValidationCheck struct {
	Type      CheckType `json:"type"`
	Result    bool      `json:"result"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}

// ComplianceStatus is the judgment for one regulatory requirement.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
	CompliancePending      ComplianceStatus = "pending"
)

// ComplianceCheck is one regulatory requirement with its judgment.
type ComplianceCheck struct {
	Regulator   string           `json:"regulator"`
	Requirement string           `json:"requirement"`
	Status      ComplianceStatus `json:"status"`
	Evidence    string           `json:"evidence,omitempty"`
	CheckedAt   time.Time        `json:"checked_at"`
}

// FraudType tags the heuristic that produced an alert.
type FraudType string

const (
	FraudDuplicateIssuance  FraudType = "duplicate_issuance"
	FraudFakeQualifications FraudType = "fake_qualifications"
	FraudTamperingAttempt   FraudType = "tampering_attempt"
	FraudSuspiciousTiming   FraudType = "suspicious_timing"
)

// AlertStatus is the triage lifecycle state of a fraud alert.
type AlertStatus string

const (
	AlertInvestigating AlertStatus = "investigating"
	AlertConfirmed     AlertStatus = "confirmed"
	AlertFalsePositive AlertStatus = "false_positive"
	AlertResolved      AlertStatus = "resolved"
)

// FraudAlert is a non-blocking heuristic signal; it flags, it never rejects.
// Confidence is a 0-100 percentage. Alerts require downstream triage.
type FraudAlert struct {
	ID            id.AlertID  `json:"id"`
	CertificateID string      `json:"certificate_id"`
	Type          FraudType   `json:"type"`
	Confidence    int         `json:"confidence"`
	Evidence      []string    `json:"evidence"`
	Status        AlertStatus `json:"status"`
	DetectedAt    time.Time   `json:"detected_at"`
}

// RiskLevel summarizes the issuance outcome for audit logging.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IssuanceMetadata summarizes the issuance pass for the profile consumer.
type IssuanceMetadata struct {
	IssuedAt          time.Time `json:"issued_at"`
	Issuer            string    `json:"issuer"`
	AllChecksPassed   bool      `json:"all_checks_passed"`
	QualificationsMet bool      `json:"qualifications_met"`
	FraudAlertCount   int       `json:"fraud_alert_count"`
	RiskLevel         RiskLevel `json:"risk_level"`
}

// LedgerAnchor is a forward-looking record for external ledger anchoring.
// No ledger integration exists yet; the field stays nil until one does.
type LedgerAnchor struct {
	Ledger     string    `json:"ledger"`
	Reference  string    `json:"reference"`
	AnchoredAt time.Time `json:"anchored_at"`
}

// SecurityProfile is the issuance artifact, created exactly once per
// certificate and never mutated afterwards. Verification produces a separate
// VerificationResult, not a profile mutation.
type SecurityProfile struct {
	ProfileID        id.ProfileID      `json:"profile_id"`
	CertificateID    string            `json:"certificate_id"`
	VerificationCode string            `json:"verification_code"`
	Signature        string            `json:"signature"`
	IntegrityHash    string            `json:"integrity_hash"`
	SecurityLevel    SecurityLevel     `json:"security_level"`
	Metadata         IssuanceMetadata  `json:"metadata"`
	Checks           []ValidationCheck `json:"checks"`
	Compliance       []ComplianceCheck `json:"compliance"`
	LedgerAnchor     *LedgerAnchor     `json:"ledger_anchor,omitempty"`
}

// VerificationResult is the judgment returned by re-verification. The boolean
// and the numeric score are independent signals: a non-zero deduction (e.g. a
// pending compliance entry) does not by itself make the credential invalid.
type VerificationResult struct {
	IsValid    bool      `json:"is_valid"`
	Issues     []string  `json:"issues"`
	TrustScore int       `json:"trust_score"`
	VerifiedAt time.Time `json:"verified_at"`
}
