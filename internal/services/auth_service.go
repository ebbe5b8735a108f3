package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and the session token codec.
// Tokens are stateless HS256 JWTs; validation is a pure function of the
// secret and the payload.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: time.Hour,
	}
}

// Register creates an account from either email+password or an external
// identity id. Exactly one login method must be supplied. Returns a fresh
// session token for the new account.
func (s *AuthService) Register(email, password, externalID, name string) (string, error) {
	hasPassword := password != ""
	hasExternal := externalID != ""
	if hasPassword == hasExternal { // both or neither
		return "", apperrors.ErrInvalidInput
	}

	user := &models.User{Name: name}
	switch {
	case hasPassword:
		if email == "" {
			return "", apperrors.ErrInvalidInput
		}
		if err := s.ensureFree(s.userRepo.GetByEmail, email); err != nil {
			return "", err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", apperrors.ErrRegisterFailed.WithCause(fmt.Errorf("failed to hash password: %w", err))
		}
		hashed := string(hash)
		user.Email = &email
		user.Password = &hashed
	case hasExternal:
		if err := s.ensureFree(s.userRepo.GetByExternalID, externalID); err != nil {
			return "", err
		}
		user.ExternalID = &externalID
	}

	if err := s.userRepo.Create(user); err != nil {
		return "", apperrors.ErrRegisterFailed.WithCause(err)
	}
	return s.IssueToken(user.ID)
}

// ensureFree fails with USER_EXISTS when the lookup finds a live row.
func (s *AuthService) ensureFree(lookup func(string) (*models.User, error), key string) error {
	existing, err := lookup(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing != nil {
		return apperrors.ErrUserExists
	}
	return nil
}

// Login authenticates by email+password or by external identity id. An
// unknown external id provisions a fresh account on first login. Accounts
// registered one way cannot log in the other way.
func (s *AuthService) Login(email, password, externalID, name string) (string, error) {
	if password == "" && externalID == "" {
		return "", apperrors.ErrInvalidInput
	}

	if password != "" {
		if email == "" {
			return "", apperrors.ErrInvalidInput
		}
		user, err := s.userRepo.GetByEmail(email)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return "", apperrors.ErrUserNotExists
			}
			return "", err
		}
		// Generic rejection on every credential mismatch; no oracle on why.
		if user.Password == nil || user.ExternalID != nil {
			return "", apperrors.ErrUnauthorized
		}
		if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)) != nil {
			return "", apperrors.ErrUnauthorized
		}
		return s.IssueToken(user.ID)
	}

	user, err := s.userRepo.GetByExternalID(externalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return "", err
		}
		user = &models.User{Name: name, ExternalID: &externalID}
		if err := s.userRepo.Create(user); err != nil {
			return "", apperrors.ErrRegisterFailed.WithCause(err)
		}
	}
	if user.Email != nil {
		return "", apperrors.ErrUnauthorized
	}
	return s.IssueToken(user.ID)
}

// IssueToken signs a session token for userID, valid for one hour.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenDurat).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.ErrServer.WithCause(fmt.Errorf("failed to sign token: %w", err))
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry and returns the caller's
// user id. Malformed, tampered and expired tokens are deliberately
// indistinguishable: all come back as the same INVALID_TOKEN.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		log.Printf("Token validation failed: %v", err)
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", apperrors.ErrInvalidToken
	}
	return userID, nil
}
