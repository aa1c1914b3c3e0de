package migration

import (
	"context"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTopics are present on every database
var DefaultTopics = []model.Topic{
	{Name: "Business & AI", Description: "Questions about artificial intelligence in business contexts"},
	{Name: "Technology & Innovation", Description: "Questions about emerging technologies and innovation"},
	{Name: "Education & Learning", Description: "Questions about educational methods and learning processes"},
	{Name: "Health & Wellness", Description: "Questions about health, wellness, and healthcare"},
	{Name: "Science & Research", Description: "Questions about scientific research and methodologies"},
	{Name: "Marketing & Sales", Description: "Questions about marketing strategies and sales techniques"},
	{Name: "Leadership & Management", Description: "Questions about leadership and management practices"},
	{Name: "Creative Writing", Description: "Questions about creative writing techniques and processes"},
	{Name: "Philosophy & Ethics", Description: "Questions about philosophical concepts and ethical considerations"},
	{Name: "Environment & Sustainability", Description: "Questions about environmental issues and sustainability"},
}

// SeedDefaultTopics inserts the default topics that are missing; existing rows are left alone
func SeedDefaultTopics(ctx context.Context, db *gorm.DB, logger coreport.Logger) error {
	inserted := 0
	for _, topic := range DefaultTopics {
		result := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&topic)
		if result.Error != nil {
			logger.Error("Failed to seed topic", map[string]any{
				"topic": topic.Name,
				"error": result.Error,
			})
			return result.Error
		}
		inserted += int(result.RowsAffected)
	}

	if inserted > 0 {
		logger.Info("Default topics inserted", map[string]any{"count": inserted})
	}
	return nil
}
