package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is a citizen-submitted disaster report. Code is the public tracking
// identifier and never changes after creation.
type Report struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Code            string                      `gorm:"not null;size:32;uniqueIndex" json:"code"`
	DisasterType    DisasterType                `gorm:"not null;size:50" json:"disasterType"`
	Location        string                      `gorm:"not null;size:255" json:"location"`
	DetailedAddress string                      `gorm:"type:text" json:"detailedAddress"`
	Description     string                      `gorm:"type:text;not null" json:"description"`
	ReporterName    string                      `gorm:"size:255" json:"reporterName"`
	ReporterPhone   string                      `gorm:"size:50" json:"reporterPhone"`
	ReporterEmail   string                      `gorm:"size:255;index" json:"reporterEmail"`
	Photos          datatypes.JSONSlice[string] `json:"photos"`
	Status          ReportStatus                `gorm:"not null;size:20;default:'pending';index" json:"status"`
	Latitude        *string                     `gorm:"size:32" json:"latitude"`
	Longitude       *string                     `gorm:"size:32" json:"longitude"`
	AssignedTo      *string                     `gorm:"size:255" json:"assignedTo"`
	CreatedAt       time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Photos == nil {
		r.Photos = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ReportStats holds per-status counters. All five fields are always present.
type ReportStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Validated  int64 `json:"validated"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
}
