package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"inkpress/internal/common"
	"inkpress/internal/common/security"
	"inkpress/internal/domain/model"
	"inkpress/internal/domain/repository"
	"inkpress/internal/platform/mail"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenManager
	mailer   mail.Mailer
	resetTTL time.Duration
	baseURL  string
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *security.TokenManager,
	mailer mail.Mailer,
	resetTTL time.Duration,
	baseURL string,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
		baseURL:  baseURL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("name, email and password are required: %w", common.ErrBadRequest)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(security.Identity{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := s.tokens.Issue(security.Identity{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Me resolves the current account. Token validity and account existence are
// independent: a valid token whose subject was removed yields NotFound.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// ForgotPassword issues a single-use reset token and mails it. An unknown
// email is reported to the caller as NotFound, matching the upstream API.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if req.Email == "" {
		return common.Errorf("email is required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	raw, digest, err := security.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, digest, time.Now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/reset-password/%s", s.baseURL, raw)
	body := "You requested a password reset.\n\nUse the following link to reset your password:\n\n" + resetURL
	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		log.Printf("ERROR: failed to send reset mail to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Token == "" || req.Password == "" {
		return common.Errorf("token and new password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByResetTokenHash(ctx, security.HashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("reset token unknown: %w", common.ErrInvalidToken)
		}
		return err
	}
	if time.Now().After(user.ResetExpires) {
		return common.Errorf("reset token expired: %w", common.ErrInvalidToken)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}
