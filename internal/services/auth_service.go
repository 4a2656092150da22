package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"

	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/email"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest, ipAddress string) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	RequestPasswordReset(db *gorm.DB, emailAddr string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error
	GetCurrentUser(db *gorm.DB, userID string) (*dto.UserDTO, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
	}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.emailProvider.Send(user.Email, "Welcome", email.WelcomeBody(user.FirstName)); err != nil {
		logger.Warn("failed to send welcome email", "user_id", user.ID, "error", err)
	}

	return s.issueTokens(db, user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest, ipAddress string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	if err := s.userRepo.UpdateLastLogin(db, user.ID); err != nil {
		logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	activityEntry := &models.ActivityLog{
		UserID:    user.ID,
		Action:    "login",
		IPAddress: ipAddress,
	}
	if err := s.userRepo.CreateActivityLog(db, activityEntry); err != nil {
		logger.Warn("failed to record login activity", "user_id", user.ID, "error", err)
	}

	return s.issueTokens(db, user)
}

func (s *authService) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(db, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(db, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	// Rotate: the presented token is consumed.
	if err := s.refreshTokenRepo.DeleteByToken(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(db, user)
}

func (s *authService) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(db, refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) RequestPasswordReset(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		// Do not reveal whether the account exists.
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token := generateRandomToken()
	exp := time.Now().Add(1 * time.Hour)
	user.ResetToken = token
	user.ResetTokenExp = &exp

	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.emailProvider.Send(user.Email, "Password Reset", email.PasswordResetBody(token)); err != nil {
		logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ResetPassword(db *gorm.DB, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	// Every session is invalidated after a reset.
	if err := s.refreshTokenRepo.DeleteByUserID(db, user.ID); err != nil {
		logger.Warn("failed to revoke sessions after password reset", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) GetCurrentUser(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return dto.UserToDTO(user), nil
}

func (s *authService) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     generateRandomToken(),
		ExpiresAt: time.Now().AddDate(0, 0, cfg.JWT.RefreshTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		User:         dto.UserToDTO(user),
	}, nil
}

func generateRandomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
