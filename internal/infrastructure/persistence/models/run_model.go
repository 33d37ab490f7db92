package models

import (
	"time"

	"code_runner_service/internal/domain/runs"
)

// RunModel is the GORM database model for runs (infrastructure concern)
type RunModel struct {
	ID                string    `gorm:"primaryKey;type:uuid"`
	DateTimeCreated   time.Time `gorm:"not null;index"`
	UserID            string    `gorm:"not null;index;type:varchar(255)"`
	Status            string    `gorm:"not null;index;type:varchar(20)"`
	SourceName        string    `gorm:"not null;type:varchar(255)"`
	SourceSize        int64     `gorm:"not null"`
	EntryPoint        string    `gorm:"type:varchar(255)"`
	ExitCode          *int
	DurationMs        int64
	OutputTruncated   bool
	OutputArtifactKey string `gorm:"type:varchar(512)"`
	BundleArtifactKey string `gorm:"type:varchar(512)"`
}

// TableName specifies the table name for GORM
func (RunModel) TableName() string {
	return "runs"
}

// ToDomain converts GORM model to domain entity
func (m *RunModel) ToDomain() *runs.RunMeta {
	return &runs.RunMeta{
		ID:                m.ID,
		DateTimeCreated:   m.DateTimeCreated,
		UserID:            m.UserID,
		Status:            m.Status,
		SourceName:        m.SourceName,
		SourceSize:        m.SourceSize,
		EntryPoint:        m.EntryPoint,
		ExitCode:          m.ExitCode,
		DurationMs:        m.DurationMs,
		OutputTruncated:   m.OutputTruncated,
		OutputArtifactKey: m.OutputArtifactKey,
		BundleArtifactKey: m.BundleArtifactKey,
	}
}

// FromDomain converts domain entity to GORM model
func (m *RunModel) FromDomain(r *runs.RunMeta) {
	m.ID = r.ID
	m.DateTimeCreated = r.DateTimeCreated
	m.UserID = r.UserID
	m.Status = r.Status
	m.SourceName = r.SourceName
	m.SourceSize = r.SourceSize
	m.EntryPoint = r.EntryPoint
	m.ExitCode = r.ExitCode
	m.DurationMs = r.DurationMs
	m.OutputTruncated = r.OutputTruncated
	m.OutputArtifactKey = r.OutputArtifactKey
	m.BundleArtifactKey = r.BundleArtifactKey
}
