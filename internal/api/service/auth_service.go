package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"netabase/internal/api/dto"
	"netabase/internal/api/models"
	"netabase/internal/api/repository"
	"netabase/internal/auth"
	"netabase/internal/config"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = errors.New("password is too common or weak")
	ErrInvalidUsername    = errors.New("username can only contain letters, numbers, dots, hyphens and underscores")
	ErrUserNotFound       = errors.New("user not found")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// commonPasswords is a small denylist of trivially guessable passwords.
var commonPasswords = map[string]bool{
	"password": true,
	"12345678": true,
	"admin":    true,
	"qwerty":   true,
}

// Claims are the JWT access-token claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GoogleProfile is the subset of a verified Google ID token the service
// needs.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier validates a Google ID token against an expected audience.
type GoogleVerifier interface {
	Verify(ctx context.Context, token, audience string) (*GoogleProfile, error)
}

// IDTokenVerifier verifies against Google's public keys.
type IDTokenVerifier struct{}

func (IDTokenVerifier) Verify(ctx context.Context, token, audience string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return nil, err
	}
	profile := &GoogleProfile{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}
	return profile, nil
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (accessToken, refreshToken string, user *models.User, err error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *models.User, err error)
	LoginWithGoogle(ctx context.Context, rawIDToken string) (accessToken, refreshToken string, user *models.User, err error)
	Refresh(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	google           GoogleVerifier
	jwtSecret        string
	googleClientID   string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	google GoogleVerifier,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		google:           google,
		jwtSecret:        cfg.JWTSecret,
		googleClientID:   cfg.GoogleClientID,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register creates a new local account and logs it in.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (string, string, *models.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || !usernamePattern.MatchString(username) {
		return "", "", nil, ErrInvalidUsername
	}
	if err := checkPasswordStrength(req.Password); err != nil {
		return "", "", nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return "", "", nil, ErrNameInUse
	}
	if req.Email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
			return "", "", nil, ErrEmailInUse
		}
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", "", nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Password: hashedPassword,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", nil, err
	}

	return s.issueTokens(ctx, user)
}

func checkPasswordStrength(password string) error {
	if commonPasswords[strings.ToLower(password)] {
		return ErrWeakPassword
	}
	allDigits := true
	for _, r := range password {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return ErrWeakPassword
	}
	return nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		// Dummy compare so unknown and known usernames take the same time.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if user.Password == "" {
		// Google-only account; there is no password to verify.
		return "", "", nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	s.touchLastLogin(ctx, user)
	return s.issueTokens(ctx, user)
}

// LoginWithGoogle verifies the ID token and finds or creates the matching
// account: first by Google subject, then by verified email, then fresh.
func (s *authService) LoginWithGoogle(ctx context.Context, rawIDToken string) (string, string, *models.User, error) {
	profile, err := s.google.Verify(ctx, rawIDToken, s.googleClientID)
	if err != nil {
		return "", "", nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByGoogleID(ctx, profile.Subject)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil, err
	}

	if user == nil {
		if profile.Email != "" {
			if existing, err := s.userRepo.FindByEmail(ctx, profile.Email); err == nil {
				existing.GoogleID = &profile.Subject
				if err := s.userRepo.Update(ctx, existing); err != nil {
					return "", "", nil, err
				}
				user = existing
			}
		}
	}

	if user == nil {
		username, err := s.googleUsername(ctx, profile)
		if err != nil {
			return "", "", nil, err
		}
		user = &models.User{
			ID:       uuid.New().String(),
			Username: username,
			GoogleID: &profile.Subject,
		}
		if profile.Email != "" {
			user.Email = &profile.Email
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", "", nil, err
		}
	}

	s.touchLastLogin(ctx, user)
	return s.issueTokens(ctx, user)
}

// googleUsername derives a free username from the Google profile. Only a
// not-found result counts as free; any other lookup error aborts the probe.
func (s *authService) googleUsername(ctx context.Context, profile *GoogleProfile) (string, error) {
	base := Slugish(profile.Name)
	if base == "" && profile.Email != "" {
		base = Slugish(strings.SplitN(profile.Email, "@", 2)[0])
	}
	if base == "" {
		base = "user"
	}
	candidate := base
	for i := 2; i <= 50; i++ {
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	// Base name contested past any realistic number of collisions.
	return fmt.Sprintf("%s.%s", base, uuid.NewString()[:8]), nil
}

// Slugish reduces a display name to username-safe characters.
func Slugish(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('.')
		}
	}
	return b.String()
}

func (s *authService) touchLastLogin(ctx context.Context, user *models.User) {
	now := time.Now()
	user.LastLogin = &now
	// Best effort; a failed timestamp write must not block the login.
	_ = s.userRepo.Update(ctx, user)
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (string, string, *models.User, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued. A revoked or expired token is rejected.
func (s *authService) Refresh(ctx context.Context, refreshTokenString string) (string, string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if refreshToken.Revoked {
		return "", "", ErrInvalidToken
	}
	if time.Now().After(refreshToken.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken.ID)
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken.ID); err != nil {
		return "", "", err
	}

	newAccessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", err
	}

	return newAccessToken, newRefreshToken, nil
}

// Logout revokes the presented refresh token. Unknown tokens are ignored so
// the endpoint never leaks whether a token existed.
func (s *authService) Logout(ctx context.Context, refreshTokenString string) error {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		return nil
	}
	return s.refreshTokenRepo.Revoke(ctx, refreshToken.ID)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := &dto.MeResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if user.Email != nil {
		resp.Email = *user.Email
	}
	return resp, nil
}
