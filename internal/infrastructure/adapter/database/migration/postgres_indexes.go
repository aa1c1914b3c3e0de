package migration

import (
	"context"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"gorm.io/gorm"
)

// PostgresIndexManager creates indexes only PostgreSQL can express
type PostgresIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewPostgresIndexManager creates a new postgres index manager
func NewPostgresIndexManager(db *gorm.DB, logger coreport.Logger) *PostgresIndexManager {
	return &PostgresIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateIndexes adds partial and BRIN indexes
func (m *PostgresIndexManager) CreateIndexes(ctx context.Context) error {
	m.logger.Info("Creating PostgreSQL indexes", nil)

	statements := []struct {
		name string
		ddl  string
	}{
		{
			// the sweep only scans active users below the allowance
			name: "idx_users_refresh_candidates",
			ddl: `CREATE INDEX IF NOT EXISTS idx_users_refresh_candidates
				ON users (last_credit_refresh)
				WHERE is_active = true`,
		},
		{
			name: "idx_credit_transactions_created_at_brin",
			ddl: `CREATE INDEX IF NOT EXISTS idx_credit_transactions_created_at_brin
				ON credit_transactions USING BRIN (created_at)
				WITH (pages_per_range = 32)`,
		},
		{
			name: "idx_users_email_lower",
			ddl: `CREATE INDEX IF NOT EXISTS idx_users_email_lower
				ON users (lower(email))`,
		},
	}

	db := m.db.WithContext(ctx)
	for _, stmt := range statements {
		if err := db.Exec(stmt.ddl).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err,
			})
			return err
		}
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}

// ApplyPerformanceTweaks tunes storage of the hot tables. Failures are logged and ignored.
func (m *PostgresIndexManager) ApplyPerformanceTweaks(ctx context.Context) {
	db := m.db.WithContext(ctx)

	// users rows are rewritten on every deduction and refresh
	if err := db.Exec(`ALTER TABLE users SET (fillfactor = 90)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for users table", map[string]any{"error": err})
	}

	if err := db.Exec(`ALTER TABLE credit_transactions ALTER COLUMN user_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for credit_transactions.user_id", map[string]any{"error": err})
	}
}
