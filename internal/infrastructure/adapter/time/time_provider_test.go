package time

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

func TestRealTimeProviderIsUTC(t *testing.T) {
	p := NewRealTimeProvider()

	assert.Equal(t, time.UTC, p.Now().Location())
}

func TestFixedTimeProvider(t *testing.T) {
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("advance and sleep move the clock", func(t *testing.T) {
		// Arrange
		p := NewFixedTimeProvider(start)

		// Act
		p.Advance(time.Hour)
		p.Sleep(30 * core.Minute)

		// Assert
		assert.Equal(t, start.Add(90*time.Minute), p.Now())
		assert.Equal(t, core.Duration(90*time.Minute), p.Since(start))
		assert.Equal(t, core.Duration(30*time.Minute), p.Until(start.Add(2*time.Hour)))
	})

	t.Run("set normalizes to UTC", func(t *testing.T) {
		p := NewFixedTimeProvider(start)
		tehran := time.FixedZone("IRST", 3*3600+1800)

		p.Set(time.Date(2023, 6, 1, 8, 0, 0, 0, tehran))

		assert.Equal(t, time.UTC, p.Now().Location())
		assert.Equal(t, 4, p.Now().Hour())
	})
}
