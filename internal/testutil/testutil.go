// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// SetupRepository migrates the test database, connects, and truncates the
// application tables. The caller owns the returned repository.
func SetupRepository(t testing.TB, ctx context.Context) *repository.Repository {
	t.Helper()

	dbURL := RequireEnv(t, "TEST_DATABASE_URL")

	if err := repository.Migrate(ctx, dbURL); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(repo.Close)

	if _, err := repo.Pool().Exec(ctx, "TRUNCATE users, tasks"); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return repo
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           ulid.Make().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$12$test-digest-placeholder",
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestTask creates a test task with sensible defaults.
func NewTestTask(t testing.TB, userID, status string) *model.Task {
	t.Helper()
	now := time.Now().UTC()
	return &model.Task{
		ID:          ulid.Make().String(),
		Title:       "Test Task",
		Description: "A task created by tests",
		Conclusion:  now.AddDate(0, 0, 7),
		Status:      status,
		UserID:      userID,
		CreatedAt:   now,
	}
}

// UniqueEmail generates a unique email for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@test.local", prefix, time.Now().UnixNano())
}
