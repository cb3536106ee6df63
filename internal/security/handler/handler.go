package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certseal/internal/certificate"
	"certseal/internal/security/receipt"
	dErrors "certseal/pkg/domain-errors"
	audit "certseal/pkg/platform/audit"
	"certseal/pkg/platform/httputil"
	"certseal/pkg/requestcontext"
)

// Service defines the security operations exposed over HTTP.
type Service interface {
	CreateSecurityProfile(ctx context.Context, cert *certificate.Certificate, level certificate.SecurityLevel, registryID string) (*certificate.SecurityProfile, error)
	VerifyCertificate(ctx context.Context, cert *certificate.Certificate, profile *certificate.SecurityProfile) certificate.VerificationResult
	VerifyByCertificateID(ctx context.Context, certificateID string) (certificate.VerificationResult, error)
	VerifyByCode(ctx context.Context, code string) (certificate.VerificationResult, error)
	ValidateVerificationCode(ctx context.Context, code string) bool
}

// Receipts signs verification receipts; optional.
type Receipts interface {
	Issue(certificateID string, result certificate.VerificationResult) (string, error)
}

// Handler exposes the certificate security endpoints.
type Handler struct {
	logger   *slog.Logger
	security Service
	receipts Receipts
	auditor  *audit.Publisher
}

// Option configures optional handler dependencies.
type Option func(*Handler)

// WithAuditPublisher records receipt issuance on the audit trail.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(h *Handler) { h.auditor = p }
}

func New(security Service, receipts Receipts, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:   logger,
		security: security,
		receipts: receipts,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the security routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/certificates/secure", h.handleCreateProfile)
	r.Post("/certificates/verify", h.handleVerify)
	r.Post("/certificates/code/validate", h.handleValidateCode)
}

type createProfileRequest struct {
	Certificate            certificate.Certificate `json:"certificate"`
	SecurityLevel          string                  `json:"security_level,omitempty"`
	ProfessionalRegistryID string                  `json:"professional_registry_id,omitempty"`
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.security.CreateSecurityProfile(ctx, &req.Certificate,
		certificate.SecurityLevel(req.SecurityLevel), req.ProfessionalRegistryID)
	if err != nil {
		h.logger.WarnContext(ctx, "create security profile failed",
			"request_id", requestID,
			"certificate_id", req.Certificate.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"certificate": req.Certificate,
		"profile":     profile,
	})
}

type verifyRequest struct {
	// Either supply the full pair, or one of the lookup keys.
	Certificate      *certificate.Certificate     `json:"certificate,omitempty"`
	Profile          *certificate.SecurityProfile `json:"profile,omitempty"`
	CertificateID    string                       `json:"certificate_id,omitempty"`
	VerificationCode string                       `json:"verification_code,omitempty"`
}

type verifyResponse struct {
	Result  certificate.VerificationResult `json:"result"`
	Receipt string                         `json:"receipt,omitempty"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[verifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var (
		result        certificate.VerificationResult
		certificateID string
		err           error
	)
	switch {
	case req.Certificate != nil && req.Profile != nil:
		result = h.security.VerifyCertificate(ctx, req.Certificate, req.Profile)
		certificateID = req.Certificate.ID
	case req.CertificateID != "":
		result, err = h.security.VerifyByCertificateID(ctx, req.CertificateID)
		certificateID = req.CertificateID
	case req.VerificationCode != "":
		result, err = h.security.VerifyByCode(ctx, req.VerificationCode)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			"supply certificate and profile, or certificate_id, or verification_code"))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := verifyResponse{Result: result}
	if h.receipts != nil {
		token, receiptErr := h.receipts.Issue(certificateID, result)
		if receiptErr != nil {
			h.logger.WarnContext(ctx, "verification receipt signing failed",
				"request_id", requestID,
				"error", receiptErr,
			)
		} else {
			resp.Receipt = token
			h.auditReceipt(ctx, certificateID, requestID, result)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) auditReceipt(ctx context.Context, certificateID, requestID string, result certificate.VerificationResult) {
	if h.auditor == nil {
		return
	}
	decision := "valid"
	if !result.IsValid {
		decision = "invalid"
	}
	if err := h.auditor.Emit(ctx, audit.Event{
		CertificateID: certificateID,
		Action:        string(audit.EventReceiptIssued),
		Decision:      decision,
		TrustScore:    result.TrustScore,
		RequestID:     requestID,
	}); err != nil {
		h.logger.WarnContext(ctx, "failed to record receipt issuance",
			"request_id", requestID,
			"error", err,
		)
	}
}

type validateCodeRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[validateCodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.Code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "code must not be empty"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{
		"valid": h.security.ValidateVerificationCode(ctx, req.Code),
	})
}

var _ Receipts = (*receipt.Service)(nil)
