package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCertificate() *Certificate {
	return &Certificate{
		ID:               "cert-2026-0042",
		RecipientName:    "Maria Souza",
		RecipientEmail:   "maria.souza@example.com",
		ProgramTitle:     "Roteiro de Dispensação PQT-U",
		IssuedAt:         time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		TotalHours:       40,
		OverallScore:     95,
		CasesCompleted:   5,
		CasesRequired:    5,
		Competencies:     []string{"dosagem", "orientação", "farmacovigilância"},
		VerificationCode: "AB12-CD34-EF56-G07",
	}
}

func TestSignaturePayload_Deterministic(t *testing.T) {
	cert := testCertificate()

	first, err := SignaturePayload(cert, "Roteiros de Dispensação")
	require.NoError(t, err)
	second, err := SignaturePayload(cert, "Roteiros de Dispensação")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSignaturePayload_ExcludesEmail(t *testing.T) {
	cert := testCertificate()
	base, err := SignaturePayload(cert, "issuer")
	require.NoError(t, err)

	cert.RecipientEmail = "someone.else@example.com"
	changed, err := SignaturePayload(cert, "issuer")
	require.NoError(t, err)

	// Email is outside the signed subset; only the integrity hash covers it.
	assert.Equal(t, base, changed)
}

func TestIntegrityPayload_CompetencyOrderIndependent(t *testing.T) {
	cert := testCertificate()
	base, err := IntegrityPayload(cert)
	require.NoError(t, err)

	cert.Competencies = []string{"orientação", "farmacovigilância", "dosagem"}
	permuted, err := IntegrityPayload(cert)
	require.NoError(t, err)
	assert.Equal(t, base, permuted)

	cert.Competencies = append(cert.Competencies, "interações")
	extended, err := IntegrityPayload(cert)
	require.NoError(t, err)
	assert.NotEqual(t, base, extended)
}

func TestIntegrityPayload_DoesNotMutateCertificate(t *testing.T) {
	cert := testCertificate()
	original := make([]string, len(cert.Competencies))
	copy(original, cert.Competencies)

	_, err := IntegrityPayload(cert)
	require.NoError(t, err)

	assert.Equal(t, original, cert.Competencies)
}
