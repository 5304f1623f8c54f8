package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pickem-app-go/logging"
	"pickem-app-go/models"
)

// ErrInvalidCredentials covers every login failure so responses never
// distinguish a wrong password from an unknown email.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidResetToken covers every reset failure tied to the token itself.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

const (
	tokenIssuer = "pickem-app-go"
	tokenExpiry = 6 * 30 * 24 * time.Hour

	minPasswordLength = 6
)

// JWTClaims are the claims carried in a session token.
type JWTClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService issues and validates session tokens and runs the password
// reset flow.
type AuthService struct {
	users     UserRepository
	jwtSecret []byte
	logger    *logging.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		logger:    logging.WithPrefix("AuthService"),
	}
}

// Login verifies credentials and returns the user with a fresh token.
func (a *AuthService) Login(email, password string) (*models.AuthResponse, error) {
	user, err := a.users.GetUserByEmail(email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		User:  user.ToSafeUser(),
		Token: token,
	}, nil
}

// GenerateToken signs a session token for the user.
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken parses and verifies a session token.
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetUserFromToken validates a token and loads its user.
func (a *AuthService) GetUserFromToken(tokenString string) (*models.User, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetUserByID(claims.UserID)
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// GetUserByEmail returns a user by email address
func (a *AuthService) GetUserByEmail(email string) (*models.User, error) {
	return a.users.GetUserByEmail(email)
}

// RequestPasswordReset issues a reset token for the account, persisting it
// on the user. An unknown email returns an empty token and no error so
// callers can't probe for accounts.
func (a *AuthService) RequestPasswordReset(email string) (string, error) {
	user, err := a.users.GetUserByEmail(email)
	if err != nil || user == nil {
		return "", nil
	}

	if err := user.GenerateResetToken(); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := a.users.UpdateUser(user); err != nil {
		return "", fmt.Errorf("failed to save reset token: %w", err)
	}

	a.logger.Infof("Issued password reset token for user %d", user.ID)
	return user.ResetToken, nil
}

// ResetPassword sets a new password for the user holding the token. The
// token is single-use; it is cleared on success.
func (a *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	user, err := a.users.GetUserByResetToken(token)
	if err != nil || user == nil {
		return ErrInvalidResetToken
	}
	if !user.IsResetTokenValid(token) {
		return ErrInvalidResetToken
	}

	if err := user.HashPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.ClearResetToken()

	if err := a.users.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Infof("Password reset completed for user %d", user.ID)
	return nil
}
