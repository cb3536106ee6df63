package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certseal/internal/certificate"
	"certseal/internal/fraud/store"
	"certseal/pkg/requestcontext"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func testContext() context.Context {
	return requestcontext.WithTime(context.Background(), testNow)
}

func testCertificate(id string) *certificate.Certificate {
	return &certificate.Certificate{
		ID:             id,
		RecipientName:  "Maria Souza",
		RecipientEmail: "maria.souza@example.com",
		ProgramTitle:   "Roteiro de Dispensação PQT-U",
		// Issued comfortably in the past relative to the declared workload.
		IssuedAt:       testNow.Add(-80 * time.Hour),
		TotalHours:     40,
		OverallScore:   90,
		CasesCompleted: 5,
		CasesRequired:  5,
		Competencies: []string{
			"dosagem", "orientação", "farmacovigilância",
			"interações", "adesão", "supervisão", "registro",
		},
	}
}

func newDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := New(store.NewInMemoryHistoryStore())
	require.NoError(t, err)
	return d
}

func alertsOfType(alerts []certificate.FraudAlert, ft certificate.FraudType) []certificate.FraudAlert {
	var out []certificate.FraudAlert
	for _, a := range alerts {
		if a.Type == ft {
			out = append(out, a)
		}
	}
	return out
}

func TestNew_RequiresHistoryStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestDetect_CleanCertificate(t *testing.T) {
	d := newDetector(t)

	alerts := d.Detect(testContext(), testCertificate("cert-1"))

	assert.Empty(t, alerts)
}

func TestDetect_DuplicateIssuance(t *testing.T) {
	d := newDetector(t)
	ctx := testContext()

	first := d.Detect(ctx, testCertificate("cert-1"))
	require.Empty(t, first)

	second := d.Detect(ctx, testCertificate("cert-2"))
	dup := alertsOfType(second, certificate.FraudDuplicateIssuance)
	require.Len(t, dup, 1)
	assert.GreaterOrEqual(t, dup[0].Confidence, 90)
	assert.Equal(t, "cert-2", dup[0].CertificateID)
	assert.Equal(t, certificate.AlertInvestigating, dup[0].Status)
	assert.NotEmpty(t, dup[0].Evidence)
}

func TestDetect_DuplicateMatchingIsCaseInsensitive(t *testing.T) {
	d := newDetector(t)
	ctx := testContext()

	d.Detect(ctx, testCertificate("cert-1"))

	cert := testCertificate("cert-2")
	cert.RecipientName = "MARIA SOUZA"
	alerts := d.Detect(ctx, cert)

	assert.Len(t, alertsOfType(alerts, certificate.FraudDuplicateIssuance), 1)
}

func TestDetect_RepeatedPerfectScores(t *testing.T) {
	d := newDetector(t)
	ctx := testContext()

	perfect := func(id, recipient string) *certificate.Certificate {
		cert := testCertificate(id)
		cert.RecipientName = recipient
		cert.OverallScore = 100
		cert.Competencies = append(cert.Competencies,
			"dispensação", "acolhimento", "notificação")
		return cert
	}

	first := d.Detect(ctx, perfect("cert-1", "Ana Alves"))
	second := d.Detect(ctx, perfect("cert-2", "Bruno Braga"))
	third := d.Detect(ctx, perfect("cert-3", "Carla Costa"))

	assert.Empty(t, alertsOfType(first, certificate.FraudFakeQualifications))
	assert.Empty(t, alertsOfType(second, certificate.FraudFakeQualifications))

	fake := alertsOfType(third, certificate.FraudFakeQualifications)
	require.Len(t, fake, 1)
	assert.Equal(t, confidencePerfectScores, fake[0].Confidence)
	assert.Contains(t, fake[0].Evidence, "Múltiplas pontuações perfeitas detectadas")
}

func TestDetect_CompetencyMismatch(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	cert.OverallScore = 90 // implies ~9 competencies
	cert.Competencies = []string{"dosagem", "orientação"}

	alerts := d.Detect(testContext(), cert)

	fake := alertsOfType(alerts, certificate.FraudFakeQualifications)
	require.Len(t, fake, 1)
	assert.Equal(t, confidenceMismatch, fake[0].Confidence)
	assert.Contains(t, fake[0].Evidence, "competências declaradas: 2")
	assert.Contains(t, fake[0].Evidence, "competências esperadas para a pontuação: 9")
}

func TestDetect_CompetencyMismatchIgnoresDuplicates(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	cert.OverallScore = 70
	// Seven entries, but only two distinct competencies.
	cert.Competencies = []string{
		"dosagem", "Dosagem", " dosagem ", "orientação",
		"ORIENTAÇÃO", "orientação", "dosagem",
	}

	alerts := d.Detect(testContext(), cert)

	assert.Len(t, alertsOfType(alerts, certificate.FraudFakeQualifications), 1)
}

func TestDetect_FutureIssueDate(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	cert.IssuedAt = testNow.Add(5 * time.Minute)

	alerts := d.Detect(testContext(), cert)

	tampering := alertsOfType(alerts, certificate.FraudTamperingAttempt)
	require.Len(t, tampering, 1)
	assert.Equal(t, confidenceFutureDate, tampering[0].Confidence)
}

func TestDetect_FutureDateWithinSkewTolerated(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	cert.IssuedAt = testNow.Add(30 * time.Second)

	alerts := d.Detect(testContext(), cert)

	assert.Empty(t, alertsOfType(alerts, certificate.FraudTamperingAttempt))
}

func TestDetect_ImplausiblyFastCompletion(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	// 40 declared hours, issued 2 hours ago: well under the 10% floor.
	cert.IssuedAt = testNow.Add(-2 * time.Hour)

	alerts := d.Detect(testContext(), cert)

	timing := alertsOfType(alerts, certificate.FraudSuspiciousTiming)
	require.Len(t, timing, 1)
	assert.Equal(t, confidenceTooFast, timing[0].Confidence)
}

func TestDetect_PlausibleElapsedTimeSilent(t *testing.T) {
	d := newDetector(t)

	cert := testCertificate("cert-1")
	cert.IssuedAt = testNow.Add(-5 * time.Hour) // 12.5% of 40h

	alerts := d.Detect(testContext(), cert)

	assert.Empty(t, alertsOfType(alerts, certificate.FraudSuspiciousTiming))
}

// All heuristics run unconditionally; one firing never suppresses another.
func TestDetect_HeuristicsUnion(t *testing.T) {
	d := newDetector(t)
	ctx := testContext()

	d.Detect(ctx, testCertificate("cert-1"))

	cert := testCertificate("cert-2")
	cert.IssuedAt = testNow.Add(10 * time.Minute)
	cert.Competencies = nil

	alerts := d.Detect(ctx, cert)

	assert.Len(t, alertsOfType(alerts, certificate.FraudDuplicateIssuance), 1)
	assert.Len(t, alertsOfType(alerts, certificate.FraudFakeQualifications), 1)
	assert.Len(t, alertsOfType(alerts, certificate.FraudTamperingAttempt), 1)
	assert.Len(t, alertsOfType(alerts, certificate.FraudSuspiciousTiming), 1)
}
