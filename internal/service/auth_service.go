package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
)

type authAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
}

type authGuardianRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Guardian, error)
}

type authSchoolRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.School, error)
}

type authClassRepository interface {
	FindByCode(ctx context.Context, schoolID, code string) (*models.Class, error)
}

// AuthConfig defines configuration for session issuance.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService issues and validates tokens for the three session kinds:
// admin, guardian, and class-code parent sessions.
type AuthService struct {
	admins    authAdminRepository
	guardians authGuardianRepository
	schools   authSchoolRepository
	classes   authClassRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(admins authAdminRepository, guardians authGuardianRepository, schools authSchoolRepository, classes authClassRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}
	return &AuthService{
		admins:    admins,
		guardians: guardians,
		schools:   schools,
		classes:   classes,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// AdminLogin authenticates an admin and returns an access token.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}
	if !user.Active {
		return nil, appErrors.ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.admins.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.String("admin_id", user.ID), zap.Error(err))
	}

	claims := models.SessionClaims{Role: models.RoleAdmin}
	claims.Subject = user.ID
	return s.issue(claims, user.FullName)
}

// GuardianLogin authenticates a guardian and returns an access token.
func (s *AuthService) GuardianLogin(ctx context.Context, req models.GuardianLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	guardian, err := s.guardians.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch guardian")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(guardian.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	claims := models.SessionClaims{
		Role:       models.RoleGuardian,
		GuardianID: guardian.ID,
		SchoolID:   guardian.SchoolID,
	}
	claims.Subject = guardian.ID
	return s.issue(claims, guardian.DisplayName)
}

// ClassLogin authenticates against a shared class code and returns a
// parent session token scoped to the class.
func (s *AuthService) ClassLogin(ctx context.Context, req models.ClassLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	school, err := s.schools.GetBySlug(ctx, req.SchoolSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidClassCode
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch school")
	}

	class, err := s.classes.FindByCode(ctx, school.ID, req.ClassCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidClassCode
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	claims := models.SessionClaims{
		Role:     models.RoleParent,
		SchoolID: school.ID,
		ClassID:  class.ID,
	}
	claims.Subject = class.ID
	return s.issue(claims, class.Name)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

func (s *AuthService) issue(claims models.SessionClaims, displayName string) (*models.LoginResponse, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims.ID = uuid.NewString()
	claims.RegisteredClaims.Issuer = s.config.Issuer
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.Expiration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		Role:        claims.Role,
		DisplayName: displayName,
		IssuedAt:    now,
	}, nil
}

// HashPassword returns the bcrypt hash for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
