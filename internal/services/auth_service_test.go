package services_test

import (
	"testing"
	"time"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/query"
	"treva/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	if user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	return m.userResult(m.Called(id))
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return m.userResult(m.Called(email))
}

func (m *MockUserRepository) GetByExternalID(externalID string) (*models.User, error) {
	return m.userResult(m.Called(externalID))
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return m.userResult(m.Called(username))
}

func (m *MockUserRepository) UpdateFields(id string, set *query.UpdateSet) error {
	args := m.Called(id, set)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Search(q string, limit, offset int) ([]models.User, error) {
	args := m.Called(q, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Successful email+password registration returns a token.
	mockRepo.On("GetByEmail", "a@x.com").Return(nil, apperrors.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	token, err := authService.Register("a@x.com", "p1secret", "", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)

	// Duplicate email fails with USER_EXISTS.
	mockRepo.On("GetByEmail", "a@x.com").Return(&models.User{ID: "u1"}, nil).Once()
	_, err = authService.Register("a@x.com", "p1secret", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
	mockRepo.AssertExpectations(t)

	// Neither login method is invalid input.
	_, err = authService.Register("a@x.com", "", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Both login methods at once is also invalid.
	_, err = authService.Register("a@x.com", "p1secret", "ext-1", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// External-identity registration needs no email.
	mockRepo.On("GetByExternalID", "ext-1").Return(nil, apperrors.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	token, err = authService.Register("", "", "ext-1", "Ada")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hash, _ := bcrypt.GenerateFromPassword([]byte("p1secret"), bcrypt.DefaultCost)
	hashed := string(hash)
	email := "a@x.com"
	user := &models.User{ID: "user-123", Email: &email, Password: &hashed}

	// Successful login round-trips through the token codec.
	mockRepo.On("GetByEmail", email).Return(user, nil).Once()
	token, err := authService.Login(email, "p1secret", "", "")
	assert.NoError(t, err)

	uid, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", uid)
	mockRepo.AssertExpectations(t)

	// Wrong password is a generic rejection.
	mockRepo.On("GetByEmail", email).Return(user, nil).Once()
	_, err = authService.Login(email, "wrong", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertExpectations(t)

	// Unknown email.
	mockRepo.On("GetByEmail", "nobody@x.com").Return(nil, apperrors.ErrUserNotFound).Once()
	_, err = authService.Login("nobody@x.com", "p1secret", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUserNotExists)
	mockRepo.AssertExpectations(t)

	// An externally-registered account cannot log in with a password.
	extID := "ext-1"
	extUser := &models.User{ID: "user-9", Email: &email, Password: &hashed, ExternalID: &extID}
	mockRepo.On("GetByEmail", email).Return(extUser, nil).Once()
	_, err = authService.Login(email, "p1secret", "", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginExternalProvisionsOnFirstUse(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	mockRepo.On("GetByExternalID", "ext-7").Return(nil, apperrors.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	token, err := authService.Login("", "", "ext-7", "Grace")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// A freshly issued token is valid and carries the right uid.
	token, err := authService.IssueToken("user-123")
	assert.NoError(t, err)
	uid, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", uid)

	// Garbage is invalid.
	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// An expired token is invalid even though the signature checks out.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// A token signed with another secret is invalid, with the same error as
	// the expired one: the codec gives no oracle on why validation failed.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	forgedString, _ := forged.SignedString([]byte("other_secret"))
	_, err = authService.ValidateToken(forgedString)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
