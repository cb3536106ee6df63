package signature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certseal/internal/certificate"
)

const testIssuer = "Roteiros de Dispensação"

func testCertificate() *certificate.Certificate {
	return &certificate.Certificate{
		ID:               "cert-2026-0042",
		RecipientName:    "Maria Souza",
		RecipientEmail:   "maria.souza@example.com",
		ProgramTitle:     "Roteiro de Dispensação PQT-U",
		IssuedAt:         time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		TotalHours:       40,
		OverallScore:     92,
		CasesCompleted:   5,
		CasesRequired:    5,
		Competencies:     []string{"dosagem", "orientação"},
		VerificationCode: "AB12-CD34-EF56-G07",
	}
}

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := New([]byte("test-master-secret"), testIssuer)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresSecretAndIssuer(t *testing.T) {
	_, err := New(nil, testIssuer)
	require.Error(t, err)

	_, err = New([]byte("secret"), "")
	require.Error(t, err)
}

func TestSign_Deterministic(t *testing.T) {
	s := newTestSigner(t)
	cert := testCertificate()

	first, err := s.Sign(cert)
	require.NoError(t, err)
	second, err := s.Sign(cert)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestVerify_RoundTrip(t *testing.T) {
	s := newTestSigner(t)
	cert := testCertificate()

	tag, err := s.Sign(cert)
	require.NoError(t, err)

	assert.True(t, s.Verify(cert, tag))
}

func TestVerify_FailsAfterCoveredFieldMutation(t *testing.T) {
	s := newTestSigner(t)
	cert := testCertificate()

	tag, err := s.Sign(cert)
	require.NoError(t, err)

	cert.OverallScore = 100
	assert.False(t, s.Verify(cert, tag))
}

func TestVerify_IgnoresUncoveredFields(t *testing.T) {
	s := newTestSigner(t)
	cert := testCertificate()

	tag, err := s.Sign(cert)
	require.NoError(t, err)

	// Email and case counts are covered by the integrity hash, not the tag.
	cert.RecipientEmail = "other@example.com"
	cert.CasesCompleted = 4
	assert.True(t, s.Verify(cert, tag))
}

func TestVerify_RejectsForeignIssuer(t *testing.T) {
	s := newTestSigner(t)
	other, err := New([]byte("test-master-secret"), "Another Academy")
	require.NoError(t, err)

	cert := testCertificate()
	tag, err := other.Sign(cert)
	require.NoError(t, err)

	assert.False(t, s.Verify(cert, tag))
}

func TestVerify_RejectsForeignKey(t *testing.T) {
	s := newTestSigner(t)
	other, err := New([]byte("a-different-secret"), testIssuer)
	require.NoError(t, err)

	cert := testCertificate()
	tag, err := other.Sign(cert)
	require.NoError(t, err)

	assert.False(t, s.Verify(cert, tag))
}
