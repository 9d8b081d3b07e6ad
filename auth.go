package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"refinerapi/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session token claims reproduce the upstream contract: the issued/expiry
// timestamps are fixed values, not derived from the wall clock. Logout matches
// tokens against the stored copy rather than re-checking expiry.
const (
	tokenIssuedAt  = 1633492022
	tokenExpiresAt = 1938816022
)

var errAuthenticationFailed = errors.New("Authentication failed")

// LoginResult carries the signed session token returned to the client.
type LoginResult struct {
	Token string `json:"token"`
}

// LogoutResult reports whether an active session was found and cleared.
type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginUser verifies the email/password pair and issues a signed session token.
// The token and a companion refresh token are written back to the user row so
// LogoutUser can find the session later. Any lookup or password mismatch
// collapses to a single authentication error.
func LoginUser(email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return LoginResult{}, errAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return LoginResult{}, errAuthenticationFailed
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": email,
		"iat":   tokenIssuedAt,
		"exp":   tokenExpiresAt,
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := randomHexToken()
	if err != nil {
		return LoginResult{}, err
	}
	updates := map[string]any{"access_token": tokenString, "refresh_token": refresh}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: tokenString}, nil
}

// LogoutUser clears the session of the user whose stored access token equals
// the presented one. A token that matches no user is a normal negative
// outcome, not an error.
func LogoutUser(jwtToken string) (LogoutResult, error) {
	var user models.User
	err := db.Where("access_token = ?", jwtToken).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LogoutResult{Success: false, Message: "No active session found for the given token."}, nil
		}
		return LogoutResult{}, err
	}
	updates := map[string]any{"access_token": nil, "refresh_token": nil}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return LogoutResult{}, err
	}
	return LogoutResult{Success: true, Message: "Logout successful."}, nil
}

// randomHexToken generates a random 32-byte token (hex)
func randomHexToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
