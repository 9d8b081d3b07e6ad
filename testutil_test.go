package main

import (
	"fmt"
	"testing"

	"refinerapi/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the package-level db at a fresh in-memory SQLite database
// so service tests run without a Postgres instance.
func setupTestDB(t *testing.T) {
	t.Helper()
	jwtSecret = []byte("test-secret")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	var err error
	db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.APIKey{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
}

// createTestUser inserts a user with a bcrypt-hashed password and returns it.
func createTestUser(t *testing.T, email, password string) models.User {
	t.Helper()
	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{ID: uuid.NewString(), Email: email, HashedPassword: hpw}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}
