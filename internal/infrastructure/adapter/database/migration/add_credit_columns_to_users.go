package migration

import (
	"context"
	"fmt"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AddCreditColumnsToUsers upgrades a users table created before credits existed.
// Existing rows start with a full allowance refreshed at migration time.
type AddCreditColumnsToUsers struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewAddCreditColumnsToUsers creates a new migration instance
func NewAddCreditColumnsToUsers(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *AddCreditColumnsToUsers {
	return &AddCreditColumnsToUsers{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Run executes the migration. It is a no-op without a users table or when the columns exist.
func (m *AddCreditColumnsToUsers) Run(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	migrator := db.Migrator()

	if !migrator.HasTable(&model.User{}) {
		return nil
	}

	m.logger.Info("Checking users table for credit columns", nil)

	// defaults declared on the model make these safe on populated tables
	for _, field := range []string{"DailyCredits", "Timezone", "IsActive"} {
		if migrator.HasColumn(&model.User{}, field) {
			continue
		}
		if err := migrator.AddColumn(&model.User{}, field); err != nil {
			m.logger.Error("Failed to add users column", map[string]any{"column": field, "error": err})
			return err
		}
		m.logger.Info("Added users column", map[string]any{"column": field})
	}

	if migrator.HasColumn(&model.User{}, "LastCreditRefresh") {
		return nil
	}

	// added nullable and backfilled; AutoMigrate tightens it to NOT NULL afterwards
	dataType, err := m.columnType(db, "LastCreditRefresh")
	if err != nil {
		return err
	}
	if err := db.Exec(fmt.Sprintf("ALTER TABLE users ADD COLUMN last_credit_refresh %s", dataType)).Error; err != nil {
		m.logger.Error("Failed to add last_credit_refresh column", map[string]any{"error": err})
		return err
	}

	result := db.Exec("UPDATE users SET last_credit_refresh = ? WHERE last_credit_refresh IS NULL", m.timeProvider.Now())
	if result.Error != nil {
		m.logger.Error("Failed to backfill last_credit_refresh", map[string]any{"error": result.Error})
		return result.Error
	}

	m.logger.Info("Successfully added credit columns to users table", map[string]any{
		"backfilled_rows": result.RowsAffected,
	})
	return nil
}

// columnType resolves the dialect type of a User field without its constraints
func (m *AddCreditColumnsToUsers) columnType(db *gorm.DB, fieldName string) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model.User{}); err != nil {
		return "", fmt.Errorf("parsing user model: %w", err)
	}

	field := stmt.Schema.LookUpField(fieldName)
	if field == nil {
		return "", fmt.Errorf("unknown user field %s", fieldName)
	}
	return db.Dialector.DataTypeOf(field), nil
}
