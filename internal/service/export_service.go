package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tutofast/tutofast-api/internal/models"
	"github.com/tutofast/tutofast-api/pkg/export"
	appErrors "github.com/tutofast/tutofast-api/pkg/errors"
)

// ExportFormat names a supported catalog export rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportSessionRepository interface {
	ListWithDetails(ctx context.Context) ([]models.TutoringSession, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the tutoring catalog as a downloadable file.
type ExportService struct {
	sessions exportSessionRepository
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sessions exportSessionRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{sessions: sessions, csv: csv, pdf: pdf, logger: logger}
}

// ExportResult carries the rendered payload and its content type.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// Generate renders the current catalog in the requested format.
func (s *ExportService) Generate(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	sessions, err := s.sessions.ListWithDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog for export")
	}

	dataset := catalogDataset(sessions)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Payload: payload, ContentType: "text/csv", Filename: "tutorings.csv"}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Tutoring Catalog")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Payload: payload, ContentType: "application/pdf", Filename: "tutorings.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// catalogDataset flattens sessions into one row each, the week condensed
// into a "day:hours" summary column.
func catalogDataset(sessions []models.TutoringSession) export.Dataset {
	headers := []string{"ID", "Title", "Course", "Cycle", "Tutor ID", "Price", "Schedule"}
	rows := make([]map[string]string, 0, len(sessions))
	for _, s := range sessions {
		courseName := ""
		if s.Course != nil {
			courseName = s.Course.Name
		}
		rows = append(rows, map[string]string{
			"ID":       strconv.FormatInt(s.ID, 10),
			"Title":    s.Title,
			"Course":   courseName,
			"Cycle":    strconv.Itoa(s.Cycle),
			"Tutor ID": strconv.FormatInt(s.TutorID, 10),
			"Price":    strconv.FormatFloat(s.Price, 'f', 2, 64),
			"Schedule": scheduleSummary(s.Times),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func scheduleSummary(times []models.DailySchedule) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		if len(t.AvailableHours) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%s", t.DayOfWeek, strings.Join(t.HourStrings(), "|")))
	}
	return strings.Join(parts, " ")
}
