// Package receipt issues short-lived signed tokens attesting that a
// verification was performed by this service at a given moment. A receipt is
// proof of the verification event, not of the certificate itself.
package receipt

import (
	"errors"
	"time"

	"certseal/internal/certificate"
	dErrors "certseal/pkg/domain-errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTTL = 15 * time.Minute

// Claims carries the verification outcome inside the token.
type Claims struct {
	CertificateID string `json:"certificate_id"`
	IsValid       bool   `json:"is_valid"`
	TrustScore    int    `json:"trust_score"`
	jwt.RegisteredClaims
}

// Service signs and validates verification receipts.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey []byte, issuer string) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "receipt signing key must not be empty")
	}
	if issuer == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "receipt issuer must not be empty")
	}
	return &Service{signingKey: signingKey, issuer: issuer, ttl: defaultTTL}, nil
}

// Issue signs a receipt for a completed verification. The receipt expires;
// a stale receipt proves nothing about the certificate's current state.
func (s *Service) Issue(certificateID string, result certificate.VerificationResult) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		CertificateID: certificateID,
		IsValid:       result.IsValid,
		TrustScore:    result.TrustScore,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(result.VerifiedAt.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(result.VerifiedAt),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign verification receipt")
	}
	return signed, nil
}

// Validate parses a receipt and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "receipt has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid receipt")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid receipt")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid receipt claims")
	}
	return claims, nil
}
