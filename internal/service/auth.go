package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dan9191/cashbook/internal/models"
	"github.com/Dan9191/cashbook/internal/repository"
	"github.com/Dan9191/cashbook/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	in, err := s.validate.Register(in)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, storeError(err, "username or email")
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// RefreshToken exchanges a valid, unexpired token for a new one with a fresh
// expiry. The user it names must still exist.
func (s *Service) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if _, err := s.store.FindUserByID(ctx, userID); errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthorized
	} else if err != nil {
		return "", err
	}
	return s.issueToken(userID)
}

// CurrentUser returns the authenticated user's profile
func (s *Service) CurrentUser(ctx context.Context, ownerID int64) (*models.User, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	user, err := s.store.FindUserByID(ctx, ownerID)
	if err != nil {
		return nil, storeError(err, "user")
	}
	return user, nil
}

func (s *Service) issueToken(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// parseToken verifies signature, algorithm and expiry and returns the subject.
func (s *Service) parseToken(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrUnauthorized
	}
	return userID, nil
}
