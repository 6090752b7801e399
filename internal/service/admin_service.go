package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// AdminService handles back-office administrator accounts and the dashboard.
type AdminService struct {
	adminRepo     *repository.AdminRepository
	dashboardRepo *repository.DashboardRepository
	authSvc       *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, dashboardRepo *repository.DashboardRepository, authSvc *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, dashboardRepo: dashboardRepo, authSvc: authSvc}
}

// Login verifies admin credentials and issues a token with permissions
// embedded.
func (s *AdminService) Login(ctx context.Context, req model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if err := s.authSvc.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateAdminToken(admin.ID, admin.Permissions)
	if err != nil {
		return nil, err
	}
	return &model.AdminLoginResponse{Token: token, Admin: *admin}, nil
}

// Create stores a new administrator with a hashed password.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin.PasswordHash = hash
	return s.adminRepo.Create(ctx, admin)
}

// Dashboard assembles the back-office overview for the last 30 days.
func (s *AdminService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	return s.dashboardRepo.Summary(ctx, time.Now().AddDate(0, 0, -30))
}
