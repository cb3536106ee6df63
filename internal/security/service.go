// Package security orchestrates certificate protection: verification codes,
// authentication tags, integrity hashes, the validation check battery, fraud
// heuristics, and the compliance checklist. It produces one immutable
// SecurityProfile per certificate and re-judges certificates on demand.
package security

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"certseal/internal/certificate"
	"certseal/internal/compliance"
	"certseal/internal/fraud"
	"certseal/internal/integrity"
	"certseal/internal/security/metrics"
	"certseal/internal/security/store"
	"certseal/internal/signature"
	"certseal/internal/verifycode"
	id "certseal/pkg/domain"
	dErrors "certseal/pkg/domain-errors"
	audit "certseal/pkg/platform/audit"
	"certseal/pkg/requestcontext"

	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Trust score deductions applied by VerifyCertificate, per failure category.
const (
	deductionInvalidCode  = 30
	deductionSignature    = 40
	deductionHashMismatch = 50
	deductionFailedCheck  = 10
	deductionNonCompliant = 15
)

// DefaultLevel applies when the caller does not pick a security level.
const DefaultLevel = certificate.LevelEnhanced

// Service is the issuance and verification orchestrator.
type Service struct {
	codes      *verifycode.Generator
	signer     *signature.Signer
	integrity  *integrity.Checker
	fraud      *fraud.Detector
	compliance *compliance.Validator
	profiles   store.Store

	auditor      *audit.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	defaultLevel certificate.SecurityLevel
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithDefaultLevel overrides the level applied when the caller picks none.
func WithDefaultLevel(level certificate.SecurityLevel) Option {
	return func(s *Service) {
		if level.IsValid() {
			s.defaultLevel = level
		}
	}
}

func NewService(
	codes *verifycode.Generator,
	signer *signature.Signer,
	integrityChecker *integrity.Checker,
	fraudDetector *fraud.Detector,
	complianceValidator *compliance.Validator,
	profiles store.Store,
	opts ...Option,
) (*Service, error) {
	if codes == nil || signer == nil || integrityChecker == nil || fraudDetector == nil || complianceValidator == nil || profiles == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "all core security components are required")
	}
	s := &Service{
		codes:        codes,
		signer:       signer,
		integrity:    integrityChecker,
		fraud:        fraudDetector,
		compliance:   complianceValidator,
		profiles:     profiles,
		logger:       slog.Default(),
		tracer:       otel.Tracer("certseal/security"),
		defaultLevel: DefaultLevel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateSecurityProfile runs the full issuance pipeline for one certificate.
// The verification code is assigned once when absent and never overwritten.
// Fraud alerts and failing checks flag the profile without rejecting it.
func (s *Service) CreateSecurityProfile(
	ctx context.Context,
	cert *certificate.Certificate,
	level certificate.SecurityLevel,
	registryID string,
) (*certificate.SecurityProfile, error) {
	ctx, span := s.tracer.Start(ctx, "security.CreateSecurityProfile")
	defer span.End()

	start := time.Now()

	if cert == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "certificate is required")
	}
	if cert.ID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "certificate ID must not be empty")
	}
	if level == "" {
		level = s.defaultLevel
	}
	if !level.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown security level: "+string(level))
	}
	span.SetAttributes(
		attribute.String("certificate.id", cert.ID),
		attribute.String("security.level", string(level)),
	)

	if cert.VerificationCode == "" {
		cert.VerificationCode = s.codes.Generate()
	}

	// Signing and hashing are independent digests over the same certificate.
	var sig, hash string
	var group errgroup.Group
	group.Go(func() error {
		var err error
		sig, err = s.signer.Sign(cert)
		return err
	})
	group.Go(func() error {
		var err error
		hash, err = s.integrity.Hash(cert)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "compute certificate digests")
	}

	checks := runChecks(ctx, cert, level)
	alerts := s.fraud.Detect(ctx, cert)
	complianceChecks := s.compliance.Describe(ctx, cert, registryID)

	now := requestcontext.Now(ctx)
	profile := &certificate.SecurityProfile{
		ProfileID:        id.NewProfileID(),
		CertificateID:    cert.ID,
		VerificationCode: cert.VerificationCode,
		Signature:        sig,
		IntegrityHash:    hash,
		SecurityLevel:    level,
		Metadata: certificate.IssuanceMetadata{
			IssuedAt:          now,
			Issuer:            s.signer.Issuer(),
			AllChecksPassed:   allPassed(checks),
			QualificationsMet: cert.OverallScore >= qualificationFloor,
			FraudAlertCount:   len(alerts),
			RiskLevel:         riskLevel(checks, alerts, complianceChecks),
		},
		Checks:     checks,
		Compliance: complianceChecks,
	}

	if err := s.profiles.Save(ctx, store.Record{Certificate: *cert, Profile: *profile}); err != nil {
		return nil, err
	}

	s.recordIssuance(ctx, cert, profile, alerts)
	s.metrics.ObserveIssueLatency(time.Since(start))

	return profile, nil
}

// VerifyCertificate re-judges a certificate against its profile. It is total:
// every mismatch becomes an issue or a deduction, never an error. The boolean
// and the numeric score are independent signals; only issues invalidate.
func (s *Service) VerifyCertificate(
	ctx context.Context,
	cert *certificate.Certificate,
	profile *certificate.SecurityProfile,
) certificate.VerificationResult {
	ctx, span := s.tracer.Start(ctx, "security.VerifyCertificate")
	defer span.End()

	start := time.Now()
	now := requestcontext.Now(ctx)

	result := certificate.VerificationResult{
		Issues:     []string{},
		TrustScore: 100,
		VerifiedAt: now,
	}

	if cert == nil || profile == nil {
		result.Issues = append(result.Issues, "certificado ou perfil de segurança ausente")
		result.TrustScore = 0
		s.recordVerification(ctx, cert, profile, result)
		return result
	}
	span.SetAttributes(attribute.String("certificate.id", cert.ID))

	if !verifycode.Validate(profile.VerificationCode) {
		result.Issues = append(result.Issues, "código de verificação inválido")
		result.TrustScore -= deductionInvalidCode
	}
	if !s.signer.Verify(cert, profile.Signature) {
		result.Issues = append(result.Issues, "assinatura digital não confere")
		result.TrustScore -= deductionSignature
	}
	if !s.integrity.Verify(cert, profile.IntegrityHash) {
		result.Issues = append(result.Issues, "hash de integridade não confere")
		result.TrustScore -= deductionHashMismatch
	}

	// Failed checks recorded at issuance deduct trust without invalidating;
	// they were visible to the issuer and accepted then.
	for _, check := range profile.Checks {
		if !check.Result {
			result.TrustScore -= deductionFailedCheck
		}
	}
	for _, cc := range profile.Compliance {
		if cc.Status == certificate.ComplianceNonCompliant {
			result.Issues = append(result.Issues, fmt.Sprintf("requisito não atendido (%s): %s", cc.Regulator, cc.Requirement))
			result.TrustScore -= deductionNonCompliant
		}
	}

	if result.TrustScore < 0 {
		result.TrustScore = 0
	}
	if result.TrustScore > 100 {
		result.TrustScore = 100
	}
	result.IsValid = len(result.Issues) == 0

	s.recordVerification(ctx, cert, profile, result)
	s.metrics.ObserveVerifyLatency(time.Since(start))

	return result
}

// VerifyByCertificateID verifies the stored certificate snapshot for an ID.
func (s *Service) VerifyByCertificateID(ctx context.Context, certificateID string) (certificate.VerificationResult, error) {
	if certificateID == "" {
		return certificate.VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "certificate ID must not be empty")
	}
	record, err := s.profiles.GetByCertificateID(ctx, certificateID)
	if err != nil {
		return certificate.VerificationResult{}, err
	}
	return s.VerifyCertificate(ctx, &record.Certificate, &record.Profile), nil
}

// VerifyByCode verifies the stored certificate snapshot for a verification
// code. The checksum is tested first so obviously forged codes never hit the
// store.
func (s *Service) VerifyByCode(ctx context.Context, code string) (certificate.VerificationResult, error) {
	if !verifycode.Validate(code) {
		return certificate.VerificationResult{}, dErrors.New(dErrors.CodeInvalidInput, "malformed verification code")
	}
	record, err := s.profiles.GetByCode(ctx, code)
	if err != nil {
		return certificate.VerificationResult{}, err
	}
	return s.VerifyCertificate(ctx, &record.Certificate, &record.Profile), nil
}

// GenerateVerificationCode returns a fresh formatted code.
func (s *Service) GenerateVerificationCode() string {
	return s.codes.Generate()
}

// ValidateVerificationCode checks the checksum only; it does not confirm the
// code was ever issued.
func (s *Service) ValidateVerificationCode(ctx context.Context, code string) bool {
	valid := verifycode.Validate(code)
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	s.metrics.IncrementCodeValidation(outcome)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventCodeValidated),
		Decision:  outcome,
		RequestID: requestcontext.RequestID(ctx),
	})
	return valid
}

func allPassed(checks []certificate.ValidationCheck) bool {
	for _, check := range checks {
		if !check.Result {
			return false
		}
	}
	return true
}

// riskLevel grades the issuance outcome for audit logging: high when a
// high-confidence alert or critical check failure is present, medium when
// anything at all was flagged, low otherwise.
func riskLevel(checks []certificate.ValidationCheck, alerts []certificate.FraudAlert, complianceChecks []certificate.ComplianceCheck) certificate.RiskLevel {
	flagged := false
	for _, alert := range alerts {
		if alert.Confidence >= 90 {
			return certificate.RiskHigh
		}
		flagged = true
	}
	for _, check := range checks {
		if !check.Result {
			if check.Severity == certificate.SeverityCritical {
				return certificate.RiskHigh
			}
			flagged = true
		}
	}
	for _, cc := range complianceChecks {
		if cc.Status == certificate.ComplianceNonCompliant {
			flagged = true
		}
	}
	if flagged {
		return certificate.RiskMedium
	}
	return certificate.RiskLow
}

func (s *Service) recordIssuance(ctx context.Context, cert *certificate.Certificate, profile *certificate.SecurityProfile, alerts []certificate.FraudAlert) {
	failedChecks := 0
	for _, check := range profile.Checks {
		if !check.Result {
			failedChecks++
		}
	}

	s.logger.InfoContext(ctx, "security profile created",
		slog.String("certificate_id", cert.ID),
		slog.String("profile_id", profile.ProfileID.String()),
		slog.String("level", string(profile.SecurityLevel)),
		slog.String("risk_level", string(profile.Metadata.RiskLevel)),
		slog.Int("checks_total", len(profile.Checks)),
		slog.Int("checks_failed", failedChecks),
		slog.Int("fraud_alerts", len(alerts)),
	)

	s.metrics.IncrementProfilesIssued(string(profile.SecurityLevel), string(profile.Metadata.RiskLevel))
	requestID := requestcontext.RequestID(ctx)

	s.emit(ctx, audit.Event{
		CertificateID: cert.ID,
		ProfileID:     profile.ProfileID.String(),
		Subject:       cert.RecipientName,
		Action:        string(audit.EventProfileCreated),
		Decision:      "issued",
		RiskLevel:     string(profile.Metadata.RiskLevel),
		RequestID:     requestID,
	})

	for _, alert := range alerts {
		s.metrics.IncrementFraudAlert(string(alert.Type))
		s.emit(ctx, audit.Event{
			CertificateID: cert.ID,
			ProfileID:     profile.ProfileID.String(),
			Subject:       cert.RecipientName,
			Action:        string(audit.EventFraudAlertRaised),
			Reason:        fraudAlertReason(alert),
			RiskLevel:     string(profile.Metadata.RiskLevel),
			RequestID:     requestID,
			Severity:      audit.SeverityWarning,
		})
	}

	for _, cc := range profile.Compliance {
		if cc.Status == certificate.CompliancePending {
			s.emit(ctx, audit.Event{
				CertificateID: cert.ID,
				ProfileID:     profile.ProfileID.String(),
				Subject:       cert.RecipientName,
				Action:        string(audit.EventCompliancePending),
				Reason:        fmt.Sprintf("%s: %s", cc.Regulator, cc.Requirement),
				RequestID:     requestID,
			})
		}
	}
}

// fraudAlertReason flattens an alert into one audit line so triage can act on
// the event without re-fetching the alert record.
func fraudAlertReason(alert certificate.FraudAlert) string {
	reason := fmt.Sprintf("%s [%s, confidence %d%%]", alert.Type, alert.ID, alert.Confidence)
	if len(alert.Evidence) > 0 {
		reason += ": " + strings.Join(alert.Evidence, "; ")
	}
	return reason
}

func (s *Service) recordVerification(ctx context.Context, cert *certificate.Certificate, profile *certificate.SecurityProfile, result certificate.VerificationResult) {
	outcome := "valid"
	action := audit.EventCertificateVerified
	severity := audit.SeverityInfo
	if !result.IsValid {
		outcome = "invalid"
		action = audit.EventVerificationFailed
		severity = audit.SeverityWarning
	}
	s.metrics.IncrementVerification(outcome)

	certificateID := ""
	subject := ""
	if cert != nil {
		certificateID = cert.ID
		subject = cert.RecipientName
	}
	profileID := ""
	if profile != nil {
		profileID = profile.ProfileID.String()
	}

	reason := ""
	if len(result.Issues) > 0 {
		reason = result.Issues[0]
	}

	s.emit(ctx, audit.Event{
		CertificateID: certificateID,
		ProfileID:     profileID,
		Subject:       subject,
		Action:        string(action),
		Decision:      outcome,
		Reason:        reason,
		TrustScore:    result.TrustScore,
		RequestID:     requestcontext.RequestID(ctx),
		ClientInfo:    clientInfo(ctx),
		Severity:      severity,
	})
}

// clientInfo renders a compact browser/OS summary for verification forensics.
func clientInfo(ctx context.Context) string {
	raw := requestcontext.UserAgent(ctx)
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	if browser == "" {
		return raw
	}
	return fmt.Sprintf("%s %s on %s", browser, version, ua.OS())
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			slog.String("action", event.Action),
			slog.String("error", err.Error()))
	}
}
