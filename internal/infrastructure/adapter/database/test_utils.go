package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
	timeprovider "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	"gorm.io/gorm"
)

// TestEpoch is the instant every test database clock starts at
var TestEpoch = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

// TestDBManager is a migrated in-memory SQLite database for tests
type TestDBManager struct {
	Manager *Manager
	Config  *Config
	Logger  coreport.Logger
	Clock   *timeprovider.FixedTimeProvider
}

// NewTestDBManager opens a private shared-cache in-memory database, migrates
// it and closes it when the test ends
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	clock := timeprovider.NewFixedTimeProvider(TestEpoch)

	// one connection keeps the in-memory database alive and serializes writers
	config := &Config{
		Driver:         DriverSQLite,
		Database:       fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		ConnectTimeout: 5 * time.Second,
		QueryTimeout:   5 * time.Second,
		LogLevel:       "silent",
		RetryAttempts:  1,
	}

	manager := NewManager(config, logger, clock)
	if _, err := manager.Connect(); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager: manager,
		Config:  config,
		Logger:  logger,
		Clock:   clock,
	}
}

// DB returns the underlying connection
func (m *TestDBManager) DB() *gorm.DB {
	return m.Manager.DB()
}

// CreateTestUser inserts an active user holding credits, last refreshed at lastRefresh
func (m *TestDBManager) CreateTestUser(t *testing.T, email string, credits int, lastRefresh time.Time) *model.User {
	t.Helper()

	now := m.Clock.Now()
	user := &model.User{
		Email:             email,
		PasswordHash:      "$2a$04$test.hash.not.used.for.login",
		FirstName:         "Test",
		LastName:          "User",
		DailyCredits:      credits,
		LastCreditRefresh: lastRefresh.UTC(),
		Timezone:          "UTC",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := m.DB().Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	// gorm replaces a zero value with the column default on insert
	if credits == 0 {
		if err := m.DB().Model(user).Update("daily_credits", 0).Error; err != nil {
			t.Fatalf("Failed to zero test user credits: %v", err)
		}
		user.DailyCredits = 0
	}
	return user
}

// DeactivateTestUser flips a user's active flag off
func (m *TestDBManager) DeactivateTestUser(t *testing.T, id string) {
	t.Helper()

	if err := m.DB().Model(&model.User{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		t.Fatalf("Failed to deactivate test user: %v", err)
	}
}

// GetTestTopic loads a seeded or created topic by name
func (m *TestDBManager) GetTestTopic(t *testing.T, name string) *model.Topic {
	t.Helper()

	var topic model.Topic
	if err := m.DB().Where("name = ?", name).First(&topic).Error; err != nil {
		t.Fatalf("Failed to load test topic %q: %v", name, err)
	}
	return &topic
}

// CountRows counts rows of a model matching an optional condition
func (m *TestDBManager) CountRows(t *testing.T, value any, query string, args ...any) int64 {
	t.Helper()

	db := m.DB().Model(value)
	if query != "" {
		db = db.Where(query, args...)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
