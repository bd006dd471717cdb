package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymetra/internal/caching"
	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL     = time.Hour
	minPasswordLength = 6
	minIdentification = 100000
)

// AuthService handles registration, login and JWT session management
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateToken(user *models.User) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	Logout(ctx context.Context, claims *TokenClaims) error

	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, caller Caller, userID int, input ProfileInput) (*models.User, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Caller identifies the authenticated user making a request.
type Caller struct {
	UserID int
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// CanAccessUser reports whether the caller may act on userID's records.
func (c Caller) CanAccessUser(userID int) bool {
	return c.IsAdmin() || c.UserID == userID
}

type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Phone          *string
	Identification *int64
}

// ProfileInput carries optional profile fields; nil leaves a field unchanged.
type ProfileInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Identification *int64
}

type authService struct {
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	mailSvc   MailService
	jwtSecret []byte
	issuer    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, mailSvc MailService,
	jwtSecret, issuer string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		cacheSvc:  cacheSvc,
		mailSvc:   mailSvc,
		jwtSecret: []byte(jwtSecret),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.TokenResponse, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          input.Email,
		PasswordHash:   string(hash),
		Phone:          input.Phone,
		Identification: input.Identification,
		Role:           models.RoleClient,
		Status:         models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Int("user_id", user.ID).Msg("user registered")
	return s.GenerateToken(user)
}

func validateRegistration(input RegisterInput) error {
	switch {
	case strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "":
		return fmt.Errorf("first and last name are required: %w", common.ErrValidation)
	case input.Email == "" || !strings.Contains(input.Email, "@"):
		return fmt.Errorf("a valid email is required: %w", common.ErrValidation)
	case len(input.Password) < minPasswordLength:
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrValidation)
	case input.Identification != nil && *input.Identification < minIdentification:
		return fmt.Errorf("identification must be at least %d: %w", minIdentification, common.ErrValidation)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.GenerateToken(user)
}

// GenerateToken signs an HS256 access token for user.
func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokenTTL.Seconds()),
		TokenID:   tokenID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
	}, nil
}

// ValidateToken validates a JWT access token and rejects revoked ones
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims.ID != "" {
		revoked, err := s.cacheSvc.Exists(ctx, caching.RevokedTokenKey(claims.ID))
		if err != nil {
			s.logger.Warn().Err(err).Str("token_id", claims.ID).Msg("revocation check failed")
		} else if revoked {
			return nil, errors.New("token has been revoked")
		}
	}
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("token has no id: %w", common.ErrValidation)
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.cacheSvc.SetString(ctx, caching.RevokedTokenKey(claims.ID), "revoked", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, caller Caller, userID int, input ProfileInput) (*models.User, error) {
	if !caller.CanAccessUser(userID) {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !strings.EqualFold(email, user.Email) {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if exists {
				return nil, common.ErrEmailTaken
			}
		}
		user.Email = email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Identification != nil {
		if *input.Identification < minIdentification {
			return nil, fmt.Errorf("identification must be at least %d: %w", minIdentification, common.ErrValidation)
		}
		user.Identification = input.Identification
	}
	if user.FirstName == "" || user.LastName == "" || user.Email == "" {
		return nil, fmt.Errorf("name and email cannot be empty: %w", common.ErrValidation)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword stores a one-hour reset token and mails it to the user.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.cacheSvc.SetString(ctx, caching.ResetTokenKey(token), fmt.Sprint(user.ID), resetTokenTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailSvc.SendPasswordResetEmail(user.Email, user.FirstName, token); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	s.logger.Info().Int("user_id", user.ID).Msg("password reset requested")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, common.ErrValidation)
	}

	key := caching.ResetTokenKey(strings.TrimSpace(token))
	value, err := s.cacheSvc.GetString(ctx, key)
	if errors.Is(err, caching.ErrCacheMiss) {
		return common.ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("load reset token: %w", err)
	}

	userID, err := common.ParseID(value, "user_id")
	if err != nil {
		return common.ErrInvalidResetToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := s.cacheSvc.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete used reset token")
	}
	if err := s.mailSvc.SendPasswordChangedEmail(user.Email); err != nil {
		s.logger.Warn().Err(err).Int("user_id", user.ID).Msg("password changed notice not sent")
	}
	return nil
}
