package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"refinerapi/models"

	"gorm.io/gorm"
)

// Two issuance flows exist on purpose and must stay separate: the management
// flow requires the caller's current access token and issues 30-day keys; the
// integration flow takes only a user id and issues 365-day keys.
const (
	managementKeyValidity  = 30 * 24 * time.Hour
	integrationKeyValidity = 365 * 24 * time.Hour
)

// ManagementKeyResult is returned by the authorized issuance flow. Negative
// outcomes (unknown user, wrong token) carry an empty key and a message.
type ManagementKeyResult struct {
	APIKey     string    `json:"apiKey"`
	ValidUntil time.Time `json:"validUntil"`
	Message    string    `json:"message"`
}

// IntegrationKeyResult is returned by the unauthenticated issuance flow.
type IntegrationKeyResult struct {
	APIKey     string    `json:"api_key"`
	ValidUntil time.Time `json:"valid_until"`
	IssuedAt   time.Time `json:"issued_at"`
}

// InvalidateKeyResult reports the outcome of a revocation attempt.
type InvalidateKeyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GenerateManagementAPIKey issues a key for userID after checking that
// authorizationToken equals the user's stored access token. Nothing is
// persisted on the negative paths.
func GenerateManagementAPIKey(userID, authorizationToken string) (ManagementKeyResult, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ManagementKeyResult{ValidUntil: time.Now(), Message: "User not found."}, nil
		}
		return ManagementKeyResult{}, err
	}
	if user.AccessToken == nil || *user.AccessToken != authorizationToken {
		return ManagementKeyResult{ValidUntil: time.Now(), Message: "Invalid authorization token."}, nil
	}
	key, err := newManagementKey()
	if err != nil {
		return ManagementKeyResult{}, err
	}
	validUntil := time.Now().Add(managementKeyValidity)
	record := models.APIKey{Key: key, UserID: userID, ValidUntil: validUntil}
	if err := db.Create(&record).Error; err != nil {
		return ManagementKeyResult{}, err
	}
	return ManagementKeyResult{
		APIKey:     key,
		ValidUntil: validUntil,
		Message:    "API key generated successfully.",
	}, nil
}

// GenerateIntegrationAPIKey issues a key for userID with no authorization
// check, valid for a year from issuance.
func GenerateIntegrationAPIKey(userID string) (IntegrationKeyResult, error) {
	key, err := newIntegrationKey()
	if err != nil {
		return IntegrationKeyResult{}, err
	}
	now := time.Now().UTC()
	validUntil := now.Add(integrationKeyValidity)
	record := models.APIKey{Key: key, UserID: userID, ValidUntil: validUntil}
	if err := db.Create(&record).Error; err != nil {
		return IntegrationKeyResult{}, err
	}
	return IntegrationKeyResult{APIKey: key, ValidUntil: validUntil, IssuedAt: now}, nil
}

// InvalidateAPIKey revokes apiKey by setting its validity to the current time.
// An unknown or already-expired key is the negative outcome; revoking the same
// key twice therefore succeeds once and reports failure afterwards.
func InvalidateAPIKey(apiKey string) (InvalidateKeyResult, error) {
	var record models.APIKey
	err := db.Where("key = ?", apiKey).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvalidateKeyResult{}, err
	}
	if err != nil || !record.ValidUntil.After(time.Now()) {
		return InvalidateKeyResult{
			Success: false,
			Message: "API key does not exist or has already been invalidated.",
		}, nil
	}
	if err := db.Model(&models.APIKey{}).Where("key = ?", apiKey).Update("valid_until", time.Now()).Error; err != nil {
		return InvalidateKeyResult{}, err
	}
	return InvalidateKeyResult{
		Success: true,
		Message: "API key has been successfully invalidated.",
	}, nil
}

// newManagementKey generates a random 32-byte key (hex)
func newManagementKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// newIntegrationKey generates a random 32-byte key (URL-safe base64, unpadded)
func newIntegrationKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
