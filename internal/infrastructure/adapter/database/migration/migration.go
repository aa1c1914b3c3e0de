package migration

import (
	"context"
	"errors"
	"fmt"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.2.0"

	// versionCreditColumns is the first version whose users table carries credit columns
	versionCreditColumns = "1.1.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	driver       string
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	indexMgr     *PostgresIndexManager
}

// NewMigrationManager creates a new migration manager for a gorm driver name
func NewMigrationManager(db *gorm.DB, driver string, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		driver:       driver,
		logger:       logger,
		timeProvider: timeProvider,
		indexMgr:     NewPostgresIndexManager(db, logger),
	}
}

// MigrateAll brings the schema to CurrentSchemaVersion and seeds default topics.
// Running it on an up-to-date database only re-checks the seed.
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
		"driver":         m.driver,
	})

	if err := db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{"error": err})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{"error": err})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return SeedDefaultTopics(ctx, m.db, m.logger)
	}

	m.logger.Info("Current database version", map[string]any{"version": currentVersion})

	// versioned steps run first so AutoMigrate never sees a legacy users table
	if err := m.runVersionedMigrations(ctx, currentVersion); err != nil {
		m.logger.Error("Failed to run versioned migrations", map[string]any{
			"error":           err,
			"current_version": currentVersion,
			"target_version":  CurrentSchemaVersion,
		})
		return err
	}

	if err := m.autoMigrateModels(ctx); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{"error": err})
		return err
	}

	if err := m.createIndexes(ctx); err != nil {
		m.logger.Error("Failed to create indexes", map[string]any{"error": err})
		return err
	}

	if m.driver == "postgres" {
		if err := m.indexMgr.CreateIndexes(ctx); err != nil {
			m.logger.Error("Failed to create postgres indexes", map[string]any{"error": err})
			return err
		}
		m.indexMgr.ApplyPerformanceTweaks(ctx)
	}

	if err := SeedDefaultTopics(ctx, m.db, m.logger); err != nil {
		return err
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Full schema migration"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err,
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion returns the newest applied version, or "" on a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}

	return version.Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	return m.db.WithContext(ctx).Create(&model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}).Error
}

func (m *MigrationManager) autoMigrateModels(ctx context.Context) error {
	m.logger.Info("Auto-migrating database models", nil)

	return m.db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Question{},
		&model.UserQuestion{},
		&model.QuestionComment{},
		&model.CreditTransaction{},
		&model.JobLock{},
	)
}

func (m *MigrationManager) runVersionedMigrations(ctx context.Context, currentVersion string) error {
	m.logger.Info("Running versioned migrations", map[string]any{
		"from": currentVersion,
		"to":   CurrentSchemaVersion,
	})

	switch currentVersion {
	case "", "1.0.0":
		// a database created before versioning may still hold the original users table
		if err := NewAddCreditColumnsToUsers(m.db, m.logger, m.timeProvider).Run(ctx); err != nil {
			return fmt.Errorf("migrating to %s: %w", versionCreditColumns, err)
		}
		fallthrough
	case versionCreditColumns:
		// 1.2.0 adds job_locks and credit_transactions, both created by AutoMigrate
	}

	return nil
}

// createIndexes adds composite indexes gorm tags cannot express portably
func (m *MigrationManager) createIndexes(ctx context.Context) error {
	m.logger.Info("Creating database indexes", nil)

	indexes := []struct {
		model any
		name  string
		ddl   string
	}{
		{
			model: &model.Question{},
			name:  "idx_questions_topic_difficulty",
			ddl:   "CREATE INDEX idx_questions_topic_difficulty ON questions (topic_id, difficulty)",
		},
		{
			model: &model.QuestionComment{},
			name:  "idx_question_comments_question_created",
			ddl:   "CREATE INDEX idx_question_comments_question_created ON question_comments (question_id, created_at)",
		},
		{
			model: &model.CreditTransaction{},
			name:  "idx_credit_transactions_user_created",
			ddl:   "CREATE INDEX idx_credit_transactions_user_created ON credit_transactions (user_id, created_at)",
		},
	}

	db := m.db.WithContext(ctx)
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.ddl).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
