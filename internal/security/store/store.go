// Package store keeps issued profiles addressable for the verification
// endpoints. The caller remains the system of record for certificates and
// profiles; this store only serves lookups by certificate ID or verification
// code for the public "verify my certificate" flow.
package store

import (
	"context"

	"certseal/internal/certificate"
)

// Record pairs a certificate snapshot with the profile issued for it. The
// snapshot is the certificate as it looked at issuance time; verification
// against a caller-supplied certificate uses the caller's copy instead.
type Record struct {
	Certificate certificate.Certificate
	Profile     certificate.SecurityProfile
}

// Store indexes issuance records by certificate ID and verification code.
type Store interface {
	Save(ctx context.Context, record Record) error
	GetByCertificateID(ctx context.Context, certificateID string) (Record, error)
	GetByCode(ctx context.Context, code string) (Record, error)
}
