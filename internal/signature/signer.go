// Package signature produces and checks the authentication tag over the
// canonical signature payload of a certificate.
//
// The scheme is a keyed HMAC-SHA256 message authentication code, not an
// asymmetric signature: it proves the certificate was produced by a holder of
// the issuing secret but offers no non-repudiation. The choice is deliberate
// and documented here because earlier descriptions of this component used
// public/private key-pair terminology it never implemented.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"certseal/internal/certificate"
	dErrors "certseal/pkg/domain-errors"
)

// hkdfInfo domain-separates the signing key from other keys derived from the
// same master secret.
const hkdfInfo = "certseal/signature/v1"

// Signer computes authentication tags for certificates.
type Signer struct {
	key    []byte
	issuer string
}

// New derives the signing key from the master secret via HKDF-SHA256 and
// returns a Signer bound to the given issuer identity.
func New(masterSecret []byte, issuer string) (*Signer, error) {
	if len(masterSecret) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "master secret is required")
	}
	if issuer == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuer identity is required")
	}

	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, masterSecret, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}

	return &Signer{key: key, issuer: issuer}, nil
}

// Issuer returns the issuer identity embedded in every signed payload.
func (s *Signer) Issuer() string { return s.issuer }

// Sign computes the hex-encoded HMAC-SHA256 tag over the canonical signature
// payload. The result is a pure, deterministic function of the covered
// certificate fields; any later mutation of those fields makes Verify fail.
func (s *Signer) Sign(cert *certificate.Certificate) (string, error) {
	payload, err := certificate.SignaturePayload(cert, s.issuer)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify re-signs the certificate and compares tags in constant time.
// Mismatches are ordinary false returns, never errors.
func (s *Signer) Verify(cert *certificate.Certificate, tag string) bool {
	expected, err := s.Sign(cert)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(tag))
}
