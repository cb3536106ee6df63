// Package integrity computes the content hash over the full certificate
// payload. It exists specifically to catch post-issuance tampering with any
// covered field, independent of whether the signature check is also run.
package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"certseal/internal/certificate"
)

// Checker hashes and re-checks certificate payloads. It is stateless and
// safe for concurrent use.
type Checker struct{}

// New constructs a Checker.
func New() *Checker {
	return &Checker{}
}

// Hash returns the hex-encoded SHA-256 digest of the canonical integrity
// payload. The competency list is normalized by sorting, so reordering does
// not change the digest while adding or removing an entry does.
func (c *Checker) Hash(cert *certificate.Certificate) (string, error) {
	payload, err := certificate.IntegrityPayload(cert)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares it in constant time.
// Mismatches are ordinary false returns, never errors.
func (c *Checker) Verify(cert *certificate.Certificate, digest string) bool {
	expected, err := c.Hash(cert)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(digest)) == 1
}
