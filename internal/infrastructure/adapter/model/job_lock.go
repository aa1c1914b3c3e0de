package model

import (
	"time"
)

// JobLock marks a named background job as running until ExpiresAt
type JobLock struct {
	Name      string    `gorm:"primaryKey;size:100"`
	Owner     string    `gorm:"size:100"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for JobLock
func (JobLock) TableName() string {
	return "job_locks"
}
