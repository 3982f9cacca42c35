package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"netabase/internal/api/dto"
	"netabase/internal/api/models"
	"netabase/internal/config"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockGoogleVerifier mocks the GoogleVerifier interface
type MockGoogleVerifier struct {
	mock.Mock
}

func (m *MockGoogleVerifier) Verify(ctx context.Context, token, audience string) (*GoogleProfile, error) {
	args := m.Called(ctx, token, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GoogleProfile), args.Error(1)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-with-enough-length-32b",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		GoogleClientID:  "client-id",
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, user, err := authService.Register(context.Background(), &dto.RegisterRequest{
		Username:        "testuser",
		Password:        "str0ng-enough",
		ConfirmPassword: "str0ng-enough",
		Email:           "test@example.com",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEqual(t, "str0ng-enough", user.Password)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRegister_WithoutEmailStoresNil(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == nil
	})).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	// Two email-less accounts must both come through; a NULL email never
	// trips the unique index.
	for _, username := range []string{"first.user", "second.user"} {
		_, _, user, err := authService.Register(context.Background(), &dto.RegisterRequest{
			Username:        username,
			Password:        "str0ng-enough",
			ConfirmPassword: "str0ng-enough",
		})
		assert.NoError(t, err)
		assert.Nil(t, user.Email)
	}
	mockUserRepo.AssertNumberOfCalls(t, "Create", 2)
	mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(&models.User{Username: "testuser"}, nil)

	_, _, user, err := authService.Register(context.Background(), &dto.RegisterRequest{
		Username:        "testuser",
		Password:        "str0ng-enough",
		ConfirmPassword: "str0ng-enough",
		Email:           "test@example.com",
	})

	assert.ErrorIs(t, err, ErrNameInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidUsername(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	for _, username := range []string{"ab", "bad name", "bad/name", ""} {
		_, _, user, err := authService.Register(context.Background(), &dto.RegisterRequest{
			Username:        username,
			Password:        "str0ng-enough",
			ConfirmPassword: "str0ng-enough",
		})
		assert.ErrorIs(t, err, ErrInvalidUsername)
		assert.Nil(t, user)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	for _, password := range []string{"password", "12345678", "748310958213"} {
		_, _, user, err := authService.Register(context.Background(), &dto.RegisterRequest{
			Username:        "testuser",
			Password:        password,
			ConfirmPassword: password,
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
		assert.Nil(t, user)
	}
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("str0ng-enough"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Password: string(hashedPassword),
		Role:     "user",
	}

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, returnedUser, err := authService.Login(context.Background(), "testuser", "str0ng-enough")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "testuser", returnedUser.Username)
	assert.NotNil(t, returnedUser.LastLogin)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("str0ng-enough"), bcrypt.DefaultCost)
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").
		Return(&models.User{Username: "testuser", Password: string(hashedPassword)}, nil)

	_, _, user, err := authService.Login(context.Background(), "testuser", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)

	_, _, user, err := authService.Login(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestLogin_GoogleOnlyAccountHasNoPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	googleID := "google-sub"
	mockUserRepo.On("FindByUsername", mock.Anything, "googler").
		Return(&models.User{Username: "googler", GoogleID: &googleID}, nil)

	_, _, user, err := authService.Login(context.Background(), "googler", "anything")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestLoginWithGoogle_ExistingGoogleAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	mockVerifier := new(MockGoogleVerifier)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, mockVerifier, testAuthConfig())

	googleID := "google-sub"
	user := &models.User{ID: "user-id", Username: "googler", GoogleID: &googleID, Role: "user"}

	mockVerifier.On("Verify", mock.Anything, "raw-token", "client-id").
		Return(&GoogleProfile{Subject: "google-sub", Email: "g@example.com", Name: "G Ogler"}, nil)
	mockUserRepo.On("FindByGoogleID", mock.Anything, "google-sub").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, _, returnedUser, err := authService.LoginWithGoogle(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, "googler", returnedUser.Username)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithGoogle_AttachesToExistingEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	mockVerifier := new(MockGoogleVerifier)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, mockVerifier, testAuthConfig())

	email := "g@example.com"
	existing := &models.User{ID: "user-id", Username: "testuser", Email: &email, Role: "user"}

	mockVerifier.On("Verify", mock.Anything, "raw-token", "client-id").
		Return(&GoogleProfile{Subject: "google-sub", Email: "g@example.com"}, nil)
	mockUserRepo.On("FindByGoogleID", mock.Anything, "google-sub").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "g@example.com").Return(existing, nil)
	mockUserRepo.On("Update", mock.Anything, existing).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, returnedUser, err := authService.LoginWithGoogle(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.Equal(t, "testuser", returnedUser.Username)
	assert.NotNil(t, returnedUser.GoogleID)
	assert.Equal(t, "google-sub", *returnedUser.GoogleID)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithGoogle_CreatesFreshAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	mockVerifier := new(MockGoogleVerifier)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, mockVerifier, testAuthConfig())

	mockVerifier.On("Verify", mock.Anything, "raw-token", "client-id").
		Return(&GoogleProfile{Subject: "google-sub", Email: "new@example.com", Name: "New Person"}, nil)
	mockUserRepo.On("FindByGoogleID", mock.Anything, "google-sub").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "new.person").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockUserRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, user, err := authService.LoginWithGoogle(context.Background(), "raw-token")

	assert.NoError(t, err)
	assert.Equal(t, "new.person", user.Username)
	if assert.NotNil(t, user.Email) {
		assert.Equal(t, "new@example.com", *user.Email)
	}
	mockUserRepo.AssertExpectations(t)
}

func TestLoginWithGoogle_UsernameLookupFailureAborts(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockVerifier := new(MockGoogleVerifier)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), mockVerifier, testAuthConfig())

	mockVerifier.On("Verify", mock.Anything, "raw-token", "client-id").
		Return(&GoogleProfile{Subject: "google-sub", Email: "new@example.com", Name: "New Person"}, nil)
	mockUserRepo.On("FindByGoogleID", mock.Anything, "google-sub").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "new.person").Return(nil, errors.New("connection refused"))

	_, _, user, err := authService.LoginWithGoogle(context.Background(), "raw-token")

	assert.EqualError(t, err, "connection refused")
	assert.Nil(t, user)
	mockUserRepo.AssertNumberOfCalls(t, "FindByUsername", 1)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithGoogle_InvalidToken(t *testing.T) {
	mockVerifier := new(MockGoogleVerifier)
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), mockVerifier, testAuthConfig())

	mockVerifier.On("Verify", mock.Anything, "bogus", "client-id").Return(nil, errors.New("bad signature"))

	_, _, user, err := authService.LoginWithGoogle(context.Background(), "bogus")

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, user)
}

func TestRefresh_RotatesToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-id",
		UserID:    "user-id",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := &models.User{ID: "user-id", Username: "testuser", Role: "user"}

	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "old-token").Return(stored, nil)
	mockUserRepo.On("FindByID", mock.Anything, "user-id").Return(user, nil)
	mockRefreshTokenRepo.On("Revoke", mock.Anything, "token-id").Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, newRefreshToken, err := authService.Refresh(context.Background(), "old-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, newRefreshToken)
	assert.NotEqual(t, "old-token", newRefreshToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRefresh_RevokedToken(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-id",
		UserID:    "user-id",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}
	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "old-token").Return(stored, nil)

	_, _, err := authService.Refresh(context.Background(), "old-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	mockRefreshTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestRefresh_ExpiredTokenDeleted(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-id",
		UserID:    "user-id",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "old-token").Return(stored, nil)
	mockRefreshTokenRepo.On("Delete", mock.Anything, "token-id").Return(nil)

	_, _, err := authService.Refresh(context.Background(), "old-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogout_UnknownTokenIgnored(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	mockRefreshTokenRepo.On("FindByToken", mock.Anything, "stale").Return(nil, gorm.ErrRecordNotFound)

	err := authService.Logout(context.Background(), "stale")

	assert.NoError(t, err)
	mockRefreshTokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, new(MockGoogleVerifier), testAuthConfig())

	user := &models.User{ID: "user-id", Username: "testuser", Role: "admin"}
	mockUserRepo.On("Update", mock.Anything, user).Return(nil)
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("str0ng-enough"), bcrypt.DefaultCost)
	user.Password = string(hashedPassword)

	accessToken, _, _, err := authService.Login(context.Background(), "testuser", "str0ng-enough")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(accessToken)

	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), new(MockGoogleVerifier), testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-with-enough-length"
	otherService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), new(MockGoogleVerifier), otherCfg)

	user := &models.User{ID: "user-id", Username: "testuser", Role: "user"}
	token, err := svc.(*authService).generateAccessToken(user)
	assert.NoError(t, err)

	claims, err := otherService.ValidateToken(token)

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestSlugish(t *testing.T) {
	assert.Equal(t, "new.person", Slugish("New Person"))
	assert.Equal(t, "a-b_c.d", Slugish("A-B_C.D"))
	assert.Equal(t, "", Slugish("!!!"))
}
