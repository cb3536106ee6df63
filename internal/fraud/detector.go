package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"certseal/internal/certificate"
	id "certseal/pkg/domain"
	platstrings "certseal/pkg/platform/strings"
	"certseal/pkg/requestcontext"
)

const (
	confidenceDuplicate     = 95
	confidencePerfectScores = 60
	confidenceMismatch      = 75
	confidenceFutureDate    = 90
	confidenceTooFast       = 80

	// perfectScoreThreshold is the occurrence at which repeated perfect
	// scores start raising alerts.
	perfectScoreThreshold = 3

	// competencyTolerance is the allowed gap between declared competencies
	// and the count implied by the overall score (floor(score/10)).
	competencyTolerance = 3

	// futureSkew is how far in the future an issue timestamp may sit before
	// it is treated as a tampering signal.
	futureSkew = 60 * time.Second

	// minElapsedFraction is the fraction of the declared workload below
	// which a completion is considered implausibly fast.
	minElapsedFraction = 0.10
)

// Detector runs the issuance heuristics. All four checks run unconditionally
// and their results are unioned; none short-circuits another.
type Detector struct {
	history HistoryStore
	logger  *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// New constructs a Detector backed by the given history store.
func New(history HistoryStore, opts ...Option) (*Detector, error) {
	if history == nil {
		return nil, fmt.Errorf("fraud history store is required")
	}
	d := &Detector{history: history}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// HistoryKey builds the duplicate-issuance key for a certificate. Matching is
// case-insensitive on recipient name and program title.
func HistoryKey(cert *certificate.Certificate) string {
	return strings.ToLower(strings.TrimSpace(cert.RecipientName)) + "|" +
		strings.ToLower(strings.TrimSpace(cert.ProgramTitle))
}

// Detect evaluates all heuristics for one certificate. History-store failures
// degrade the affected heuristic (logged at WARN) rather than blocking
// issuance; Detect itself never fails.
func (d *Detector) Detect(ctx context.Context, cert *certificate.Certificate) []certificate.FraudAlert {
	now := requestcontext.Now(ctx)
	var alerts []certificate.FraudAlert

	if alert := d.checkDuplicate(ctx, cert, now); alert != nil {
		alerts = append(alerts, *alert)
	}
	if alert := d.checkPerfectScores(ctx, cert, now); alert != nil {
		alerts = append(alerts, *alert)
	}
	if alert := checkCompetencyMismatch(cert, now); alert != nil {
		alerts = append(alerts, *alert)
	}
	alerts = append(alerts, checkTemporal(cert, now)...)

	return alerts
}

func (d *Detector) checkDuplicate(ctx context.Context, cert *certificate.Certificate, now time.Time) *certificate.FraudAlert {
	seen, err := d.history.RecordIssuance(ctx, HistoryKey(cert))
	if err != nil {
		d.warn(ctx, "duplicate-issuance check degraded, history store unavailable", err)
		return nil
	}
	if !seen {
		return nil
	}
	return newAlert(cert, certificate.FraudDuplicateIssuance, confidenceDuplicate, now,
		"Emissão duplicada para o mesmo destinatário e programa",
		fmt.Sprintf("destinatário: %s", cert.RecipientName),
		fmt.Sprintf("programa: %s", cert.ProgramTitle),
	)
}

func (d *Detector) checkPerfectScores(ctx context.Context, cert *certificate.Certificate, now time.Time) *certificate.FraudAlert {
	if cert.OverallScore != 100 {
		return nil
	}
	count, err := d.history.IncrementPerfectScores(ctx)
	if err != nil {
		d.warn(ctx, "perfect-score check degraded, history store unavailable", err)
		return nil
	}
	if count < perfectScoreThreshold {
		return nil
	}
	return newAlert(cert, certificate.FraudFakeQualifications, confidencePerfectScores, now,
		"Múltiplas pontuações perfeitas detectadas",
		fmt.Sprintf("pontuações perfeitas registradas: %d", count),
	)
}

func checkCompetencyMismatch(cert *certificate.Certificate, now time.Time) *certificate.FraudAlert {
	expected := int(cert.OverallScore / 10)
	actual := len(platstrings.DedupeAndTrimLower(cert.Competencies))
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	if diff <= competencyTolerance {
		return nil
	}
	return newAlert(cert, certificate.FraudFakeQualifications, confidenceMismatch, now,
		"Competências declaradas incompatíveis com a pontuação obtida",
		fmt.Sprintf("competências declaradas: %d", actual),
		fmt.Sprintf("competências esperadas para a pontuação: %d", expected),
	)
}

func checkTemporal(cert *certificate.Certificate, now time.Time) []certificate.FraudAlert {
	var alerts []certificate.FraudAlert

	if cert.IssuedAt.After(now.Add(futureSkew)) {
		alert := newAlert(cert, certificate.FraudTamperingAttempt, confidenceFutureDate, now,
			"Data de emissão no futuro",
			fmt.Sprintf("emitido em: %s", cert.IssuedAt.UTC().Format(time.RFC3339)),
			fmt.Sprintf("horário atual: %s", now.UTC().Format(time.RFC3339)),
		)
		alerts = append(alerts, *alert)
	}

	if cert.TotalHours > 0 {
		implied := time.Duration(cert.TotalHours * float64(time.Hour))
		minimum := time.Duration(minElapsedFraction * float64(implied))
		elapsed := now.Sub(cert.IssuedAt)
		if elapsed < minimum {
			alert := newAlert(cert, certificate.FraudSuspiciousTiming, confidenceTooFast, now,
				"Programa concluído em tempo implausivelmente curto",
				fmt.Sprintf("tempo decorrido: %s", elapsed),
				fmt.Sprintf("carga horária declarada: %.0fh", cert.TotalHours),
			)
			alerts = append(alerts, *alert)
		}
	}

	return alerts
}

func newAlert(cert *certificate.Certificate, fraudType certificate.FraudType, confidence int, now time.Time, evidence ...string) *certificate.FraudAlert {
	return &certificate.FraudAlert{
		ID:            id.NewAlertID(),
		CertificateID: cert.ID,
		Type:          fraudType,
		Confidence:    confidence,
		Evidence:      platstrings.DedupeAndTrim(evidence),
		Status:        certificate.AlertInvestigating,
		DetectedAt:    now,
	}
}

func (d *Detector) warn(ctx context.Context, msg string, err error) {
	if d.logger != nil {
		d.logger.WarnContext(ctx, msg, "error", err)
	}
}
