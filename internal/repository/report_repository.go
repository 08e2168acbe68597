package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultCodeAttempts = 5

// CodeGenerator produces tracking codes for new reports.
type CodeGenerator interface {
	Generate() (string, error)
}

// ReportRepository is the only component that talks to the reports table.
type ReportRepository struct {
	db           *gorm.DB
	codes        CodeGenerator
	codeAttempts int
}

func NewReportRepository(db *gorm.DB, codes CodeGenerator) *ReportRepository {
	return &ReportRepository{db: db, codes: codes, codeAttempts: defaultCodeAttempts}
}

// Create assigns a tracking code and persists the report. A duplicate code is
// retried with a fresh one; any other failure is returned wrapped.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.StatusPending
	}

	var lastErr error
	for attempt := 1; attempt <= r.codeAttempts; attempt++ {
		code, err := r.codes.Generate()
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		report.Code = code

		err = r.db.WithContext(ctx).Create(report).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create report: %w", err)
		}
		slog.Warn("tracking code collision, retrying", "code", code, "attempt", attempt)
		lastErr = err
	}
	return fmt.Errorf("failed to create report after %d attempts: %w", r.codeAttempts, errors.Join(ErrDuplicate, lastErr))
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "failed to get report")
	}
	return &report, nil
}

func (r *ReportRepository) GetByCode(ctx context.Context, code string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&report).Error; err != nil {
		return nil, notFound(err, "failed to get report by code")
	}
	return &report, nil
}

// List returns every report, oldest first.
func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByReporterEmail matches the email exactly, including case. Reports
// submitted without an email are never returned.
func (r *ReportRepository) ListByReporterEmail(ctx context.Context, email string) ([]models.Report, error) {
	if email == "" {
		return []models.Report{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("reporter_email = ?", email))
}

func (r *ReportRepository) ListByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *ReportRepository) find(query *gorm.DB) ([]models.Report, error) {
	reports := []models.Report{}
	if err := query.Order("created_at ASC").Order("id ASC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus sets the status and, when assignedTo is non-nil, overwrites
// the assignee. Concurrent updates to the same report are last-writer-wins.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, assignedTo *string) (*models.Report, error) {
	updates := map[string]interface{}{"status": string(status)}
	if assignedTo != nil {
		updates["assigned_to"] = *assignedTo
	}

	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update report status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type statusCount struct {
	Status models.ReportStatus
	Count  int64
}

// Stats counts reports per status with one grouped query.
func (r *ReportRepository) Stats(ctx context.Context) (models.ReportStats, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return models.ReportStats{}, fmt.Errorf("failed to compute report stats: %w", err)
	}

	var stats models.ReportStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusValidated:
			stats.Validated = row.Count
		case models.StatusInProgress:
			stats.InProgress = row.Count
		case models.StatusResolved:
			stats.Resolved = row.Count
		}
	}
	return stats, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
