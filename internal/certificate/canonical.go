package certificate

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Canonicalization produces the byte strings the signature and integrity
// digests are computed over. encoding/json marshals map keys in sorted order,
// which guarantees the same certificate always canonicalizes to the same
// string regardless of field insertion order.

// SignaturePayload serializes the fixed field subset covered by the
// signature: identifier, recipient name, program title, issue date, overall
// score, verification code, and the issuer identity.
func SignaturePayload(cert *Certificate, issuer string) ([]byte, error) {
	payload := map[string]any{
		"id":                cert.ID,
		"recipient_name":    cert.RecipientName,
		"program_title":     cert.ProgramTitle,
		"issued_at":         cert.IssuedAt.UTC().Format(time.RFC3339),
		"overall_score":     cert.OverallScore,
		"verification_code": cert.VerificationCode,
		"issuer":            issuer,
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalize signature payload: %w", err)
	}
	return out, nil
}

// IntegrityPayload serializes the broader field set covered by the integrity
// hash. The competency list is sorted so reordering is normalized away while
// adding or removing an entry still changes the digest.
func IntegrityPayload(cert *Certificate) ([]byte, error) {
	competencies := make([]string, len(cert.Competencies))
	copy(competencies, cert.Competencies)
	sort.Strings(competencies)

	payload := map[string]any{
		"id":                cert.ID,
		"recipient_name":    cert.RecipientName,
		"recipient_email":   cert.RecipientEmail,
		"program_title":     cert.ProgramTitle,
		"issued_at":         cert.IssuedAt.UTC().Format(time.RFC3339),
		"total_hours":       cert.TotalHours,
		"overall_score":     cert.OverallScore,
		"cases_completed":   cert.CasesCompleted,
		"cases_required":    cert.CasesRequired,
		"competencies":      competencies,
		"verification_code": cert.VerificationCode,
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalize integrity payload: %w", err)
	}
	return out, nil
}
