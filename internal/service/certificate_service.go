package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aeroprep/aeroprep-backend/internal/certificate"
	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Certificate errors.
var (
	ErrScoreTooLow         = errors.New("score below certificate threshold")
	ErrCertificateNotFound = errors.New("certificate not found")
)

// CertificateService mints and verifies certificates. Certificates are
// derived from completed attempts, never stored.
type CertificateService struct {
	cfg         *config.Config
	attemptRepo *repository.AttemptRepository
	userRepo    *repository.UserRepository
	examRepo    *repository.ExamRepository
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(cfg *config.Config, attemptRepo *repository.AttemptRepository, userRepo *repository.UserRepository, examRepo *repository.ExamRepository) *CertificateService {
	return &CertificateService{cfg: cfg, attemptRepo: attemptRepo, userRepo: userRepo, examRepo: examRepo}
}

// ForAttempt mints the certificate for one of the caller's attempts. The
// attempt must be completed and score at or above the configured threshold.
func (s *CertificateService) ForAttempt(ctx context.Context, userID, attemptID int64) (*certificate.Certificate, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrSessionForbidden
	}
	if attempt.CompletedAt == nil {
		return nil, ErrCertificateNotFound
	}
	if attempt.Score < s.cfg.CertificateMinScore {
		return nil, ErrScoreTooLow
	}
	return s.build(ctx, attempt), nil
}

// Verify resolves a certificate number to its attempt. A malformed number
// is a format error; a well-formed number without a completed attempt is
// not found. The two are never conflated. Any completed attempt verifies;
// the score threshold applies only when minting through ForAttempt.
func (s *CertificateService) Verify(ctx context.Context, number string) (*certificate.Certificate, error) {
	attemptID, err := certificate.Decode(number)
	if err != nil {
		return nil, err
	}

	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("lookup attempt: %w", err)
	}
	if attempt.CompletedAt == nil {
		return nil, ErrCertificateNotFound
	}
	return s.build(ctx, attempt), nil
}

// build assembles the presentable payload. Holder and exam names are best
// effort; a deleted user or exam leaves the field empty rather than failing
// verification.
func (s *CertificateService) build(ctx context.Context, attempt *model.ExamAttempt) *certificate.Certificate {
	cert := &certificate.Certificate{
		Number:    certificate.Encode(attempt.ID),
		Grade:     certificate.GradeFor(attempt.Score),
		Score:     attempt.Score,
		AttemptID: attempt.ID,
		IssuedAt:  *attempt.CompletedAt,
	}
	if user, err := s.userRepo.GetByID(ctx, attempt.UserID); err == nil {
		cert.HolderName = user.Name
	}
	if attempt.ExamID != nil {
		if exam, err := s.examRepo.GetByID(ctx, *attempt.ExamID); err == nil {
			cert.ExamTitle = exam.Title
		}
	}
	return cert
}
