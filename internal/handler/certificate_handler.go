package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aeroprep/aeroprep-backend/internal/certificate"
	"github.com/aeroprep/aeroprep-backend/internal/middleware"
	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/aeroprep/aeroprep-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// CertificateHandler mints certificates for candidates and verifies them
// publicly.
type CertificateHandler struct {
	certService *service.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(certService *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// VerifyRequest is the public verification payload.
type VerifyRequest struct {
	CertificateNumber string `json:"certificate_number" binding:"required,max=32"`
}

// ForAttempt godoc
// GET /api/v1/user/attempts/:id/certificate
// Mints the certificate for one of the caller's attempts.
func (h *CertificateHandler) ForAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cert, err := h.certService.ForAttempt(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCertificateNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrSessionForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, service.ErrScoreTooLow):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrScoreTooLow)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"certificate": cert})
}

// Verify godoc
// POST /api/v1/public/certificates/verify
// Resolves a certificate number. Malformed numbers and unknown attempts are
// distinct outcomes.
func (h *CertificateHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cert, err := h.certService.Verify(c.Request.Context(), req.CertificateNumber)
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrInvalidFormat):
			response.Fail(c, http.StatusBadRequest, response.ErrCertInvalidFormat)
		case errors.Is(err, service.ErrCertificateNotFound):
			response.Success(c, http.StatusOK, gin.H{"valid": false})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": true, "certificate": cert})
}
