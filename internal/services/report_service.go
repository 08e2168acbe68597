package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/dto"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/repository"
	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/workflow"
	"github.com/google/uuid"
)

const MinDescriptionLength = 10

// plainDecimal is an optional sign, digits and an optional fraction. It keeps
// out NaN, Inf, hex and exponent forms that strconv.ParseFloat would accept.
var plainDecimal = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ReportStore is the persistence the report service needs.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetByCode(ctx context.Context, code string) (*models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
	ListByReporterEmail(ctx context.Context, email string) ([]models.Report, error)
	ListByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, assignedTo *string) (*models.Report, error)
	Stats(ctx context.Context) (models.ReportStats, error)
}

type ReportService struct {
	store  ReportStore
	policy *workflow.Policy
}

func NewReportService(store ReportStore, policy *workflow.Policy) *ReportService {
	if policy == nil {
		policy = workflow.Default()
	}
	return &ReportService{store: store, policy: policy}
}

func (s *ReportService) Submit(ctx context.Context, req *dto.SubmitReportRequest) (*models.Report, error) {
	report, err := buildReport(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}

	slog.Info("report submitted", "report_id", report.ID.String(), "code", report.Code, "disaster_type", string(report.DisasterType))
	return report, nil
}

func buildReport(req *dto.SubmitReportRequest) (*models.Report, error) {
	v := &ValidationError{}

	disasterType := strings.TrimSpace(req.DisasterType)
	parsedType, ok := models.ParseDisasterType(disasterType)
	switch {
	case disasterType == "":
		v.Add("disasterType", "is required")
	case !ok:
		v.Add("disasterType", "unknown disaster type")
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		v.Add("location", "is required")
	}

	description := strings.TrimSpace(req.Description)
	switch {
	case description == "":
		v.Add("description", "is required")
	case utf8.RuneCountInString(description) < MinDescriptionLength:
		v.Add("description", "must be at least 10 characters")
	}

	email := strings.TrimSpace(req.ReporterEmail)
	if email != "" && !validEmail(email) {
		v.Add("reporterEmail", "must be a valid email address")
	}

	latitude := coordinate(v, "latitude", string(req.Latitude), 90)
	longitude := coordinate(v, "longitude", string(req.Longitude), 180)

	photos := make([]string, 0, len(req.Photos))
	for _, p := range req.Photos {
		p = strings.TrimSpace(p)
		if p == "" {
			v.Add("photos", "must not contain empty entries")
			break
		}
		photos = append(photos, p)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	return &models.Report{
		DisasterType:    parsedType,
		Location:        location,
		DetailedAddress: strings.TrimSpace(req.DetailedAddress),
		Description:     description,
		ReporterName:    strings.TrimSpace(req.ReporterName),
		ReporterPhone:   strings.TrimSpace(req.ReporterPhone),
		ReporterEmail:   email,
		Photos:          photos,
		Status:          models.StatusPending,
		Latitude:        latitude,
		Longitude:       longitude,
	}, nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func coordinate(v *ValidationError, field, raw string, limit float64) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !plainDecimal.MatchString(raw) {
		v.Add(field, "must be a decimal number")
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		v.Add(field, "must be a decimal number")
		return nil
	}
	if f < -limit || f > limit {
		v.Add(field, "out of range")
		return nil
	}
	return &raw
}

// List applies at most one filter. Supplying both status and email is
// rejected rather than silently picking one.
func (s *ReportService) List(ctx context.Context, filter dto.ReportFilter) ([]models.Report, error) {
	status := strings.TrimSpace(filter.Status)
	email := strings.TrimSpace(filter.Email)

	switch {
	case status != "" && email != "":
		v := &ValidationError{}
		v.Add("status", "cannot be combined with email")
		return nil, v
	case status != "":
		st := models.ReportStatus(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		return s.store.ListByStatus(ctx, st)
	case email != "":
		return s.store.ListByReporterEmail(ctx, email)
	}
	return s.store.List(ctx)
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.store.GetByID(ctx, id)
	return report, mapNotFound(err)
}

func (s *ReportService) GetByCode(ctx context.Context, code string) (*models.Report, error) {
	report, err := s.store.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	return report, mapNotFound(err)
}

func (s *ReportService) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateStatusRequest) (*models.Report, error) {
	status := models.ReportStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var from models.ReportStatus
	if !s.policy.Permissive() {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, mapNotFound(err)
		}
		from = current.Status
		if !s.policy.Allowed(from, status) {
			return nil, ErrTransitionNotAllowed
		}
	}

	var assignedTo *string
	if req.AssignedTo != nil {
		trimmed := strings.TrimSpace(*req.AssignedTo)
		assignedTo = &trimmed
	}

	report, err := s.store.UpdateStatus(ctx, id, status, assignedTo)
	if err != nil {
		return nil, mapNotFound(err)
	}

	slog.Info("report status updated", "report_id", report.ID.String(), "code", report.Code, "from", string(from), "to", string(status))
	return report, nil
}

func (s *ReportService) Stats(ctx context.Context) (models.ReportStats, error) {
	return s.store.Stats(ctx)
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReportNotFound
	}
	return err
}
