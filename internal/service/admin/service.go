package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/admin"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminServiceImpl struct {
	txManager    postgresql.TxManager
	adminRepo    admin.AdminRepository
	userRepo     user.UserRepository
	emailService email.EmailService
	loginURL     string
}

func NewAdminService(
	txManager postgresql.TxManager,
	adminRepo admin.AdminRepository,
	userRepo user.UserRepository,
	emailService email.EmailService,
	loginURL string,
) admin.AdminService {
	return &AdminServiceImpl{
		txManager:    txManager,
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		emailService: emailService,
		loginURL:     loginURL,
	}
}

// CurrentAdminID extracts admin_id from the verified access token claims.
func CurrentAdminID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", admin.ErrNotAdmin
	}
	adminID, ok := claims["admin_id"].(string)
	if !ok || adminID == "" {
		return "", admin.ErrNotAdmin
	}
	return adminID, nil
}

// ListAdmins implements admin.AdminService.
func (s *AdminServiceImpl) ListAdmins(ctx context.Context) ([]admin.AdminResponse, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	resp := make([]admin.AdminResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, admin.ToResponse(a))
	}
	return resp, nil
}

// CreateAdmin implements admin.AdminService.
func (s *AdminServiceImpl) CreateAdmin(ctx context.Context, req admin.CreateAdminRequest) (admin.AdminResponse, error) {
	if err := req.Validate(); err != nil {
		return admin.AdminResponse{}, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return admin.AdminResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return admin.AdminResponse{}, admin.ErrAdminEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return admin.AdminResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hashed)

	var created admin.Admin
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		newUser, err := s.userRepo.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &passwordHash,
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return admin.ErrAdminEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		created, err = s.adminRepo.Create(txCtx, admin.Admin{
			UserID: newUser.ID,
			Name:   req.Name,
			Email:  req.Email,
		})
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return admin.AdminResponse{}, err
	}

	if s.emailService != nil {
		go func(to, name string) {
			if err := s.emailService.SendAdminWelcome(to, name, s.loginURL); err != nil {
				slog.Warn("Failed to send admin welcome email", "email", to, "error", err)
			}
		}(created.Email, created.Name)
	}

	return admin.ToResponse(created), nil
}

// DeleteAdmin implements admin.AdminService.
func (s *AdminServiceImpl) DeleteAdmin(ctx context.Context, id string) error {
	currentID, err := CurrentAdminID(ctx)
	if err != nil {
		return err
	}
	if currentID == id {
		return admin.ErrCannotDeleteSelf
	}

	target, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Deleting the login cascades to the admin profile and its refresh tokens.
	if err := s.userRepo.Delete(ctx, target.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return admin.ErrAdminNotFound
		}
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	slog.Info("Admin deleted", "admin_id", id, "deleted_by", currentID)
	return nil
}

// GetCurrentAdmin implements admin.AdminService.
func (s *AdminServiceImpl) GetCurrentAdmin(ctx context.Context) (admin.AdminResponse, error) {
	adminID, err := CurrentAdminID(ctx)
	if err != nil {
		return admin.AdminResponse{}, err
	}

	a, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return admin.AdminResponse{}, err
	}
	return admin.ToResponse(a), nil
}
