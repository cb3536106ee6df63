package security

import (
	"context"
	"fmt"
	"time"

	"certseal/internal/certificate"
	platstrings "certseal/pkg/platform/strings"
	"certseal/pkg/requestcontext"
)

const (
	// Minimum overall score for the qualification assessment to pass.
	qualificationFloor = 70.0

	// Tolerance applied when the issue date sits slightly ahead of the clock.
	issueDateSkew = 60 * time.Second
)

// checksForLevel returns the ordered check battery for a security level.
// Each level is a strict superset of the previous one; the order is fixed so
// profiles are comparable across issuances.
func checksForLevel(level certificate.SecurityLevel) []certificate.CheckType {
	battery := []certificate.CheckType{
		certificate.CheckIdentityVerification,
		certificate.CheckCompletionVerification,
	}
	if level == certificate.LevelEnhanced || level == certificate.LevelMaximum {
		battery = append(battery,
			certificate.CheckQualificationAssessment,
			certificate.CheckWorkloadValidation,
		)
	}
	if level == certificate.LevelMaximum {
		battery = append(battery,
			certificate.CheckCompetencyValidation,
			certificate.CheckTemporalConsistency,
		)
	}
	return battery
}

// runChecks attempts every check the level requires. Checks never abort the
// pipeline; failures are recorded with a severity and surface in the profile.
func runChecks(ctx context.Context, cert *certificate.Certificate, level certificate.SecurityLevel) []certificate.ValidationCheck {
	now := requestcontext.Now(ctx)

	battery := checksForLevel(level)
	checks := make([]certificate.ValidationCheck, 0, len(battery))
	for _, checkType := range battery {
		checks = append(checks, runCheck(checkType, cert, now))
	}
	return checks
}

func runCheck(checkType certificate.CheckType, cert *certificate.Certificate, now time.Time) certificate.ValidationCheck {
	check := certificate.ValidationCheck{
		Type:      checkType,
		Timestamp: now,
		Severity:  certificate.SeverityInfo,
	}

	switch checkType {
	case certificate.CheckIdentityVerification:
		check.Result = cert.RecipientName != "" && cert.RecipientEmail != ""
		if check.Result {
			check.Details = fmt.Sprintf("Identidade do titular confirmada: %s", cert.RecipientName)
		} else {
			check.Details = "Nome ou e-mail do titular ausente"
			check.Severity = certificate.SeverityCritical
		}

	case certificate.CheckCompletionVerification:
		check.Result = cert.CasesRequired > 0 && cert.CasesCompleted >= cert.CasesRequired
		check.Details = fmt.Sprintf("Casos clínicos concluídos: %d de %d exigidos", cert.CasesCompleted, cert.CasesRequired)
		if !check.Result {
			check.Severity = certificate.SeverityError
		}

	case certificate.CheckQualificationAssessment:
		check.Result = cert.OverallScore >= qualificationFloor
		if check.Result {
			check.Details = fmt.Sprintf("Pontuação geral %.1f atinge o mínimo de %.0f pontos", cert.OverallScore, qualificationFloor)
		} else {
			check.Details = fmt.Sprintf("Pontuação geral %.1f abaixo do mínimo de %.0f pontos", cert.OverallScore, qualificationFloor)
			check.Severity = certificate.SeverityWarning
		}

	case certificate.CheckWorkloadValidation:
		check.Result = cert.TotalHours > 0
		if check.Result {
			check.Details = fmt.Sprintf("Carga horária declarada: %.1f horas", cert.TotalHours)
		} else {
			check.Details = "Carga horária ausente ou inválida"
			check.Severity = certificate.SeverityError
		}

	case certificate.CheckCompetencyValidation:
		distinct := len(platstrings.DedupeAndTrimLower(cert.Competencies))
		check.Result = distinct > 0 && distinct == len(cert.Competencies)
		switch {
		case distinct == 0:
			check.Details = "Nenhuma competência registrada"
			check.Severity = certificate.SeverityWarning
		case distinct != len(cert.Competencies):
			check.Details = fmt.Sprintf("Competências duplicadas: %d declaradas, %d distintas", len(cert.Competencies), distinct)
			check.Severity = certificate.SeverityWarning
		default:
			check.Details = fmt.Sprintf("Competências registradas: %d", distinct)
		}

	case certificate.CheckTemporalConsistency:
		check.Result = !cert.IssuedAt.After(now.Add(issueDateSkew))
		if check.Result {
			check.Details = "Data de emissão consistente com o relógio do sistema"
		} else {
			check.Details = fmt.Sprintf("Data de emissão no futuro: %s", cert.IssuedAt.Format(time.RFC3339))
			check.Severity = certificate.SeverityError
		}

	default:
		check.Details = fmt.Sprintf("Verificação desconhecida: %s", checkType)
		check.Severity = certificate.SeverityWarning
	}

	return check
}
