package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
	"github.com/noah-isme/tutor-directory-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type tutorFilterer interface {
	Filter(ctx context.Context, state models.FilterState) ([]models.Tutor, bool, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered export ready to be sent or written.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
}

// ExportService renders filtered listings as CSV or PDF.
type ExportService struct {
	tutors    tutorFilterer
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the default exporters.
func NewExportService(tutors tutorFilterer, logger *zap.Logger, csv *export.CSVExporter, pdf *export.PDFExporter) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{
		tutors:    tutors,
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// Tutors renders the tutors matching state in format.
func (s *ExportService) Tutors(ctx context.Context, format string, state models.FilterState) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	tutors, _, err := s.tutors.Filter(ctx, state)
	if err != nil {
		return nil, err
	}

	payload, err := r.Render(tutorDataset(tutors))
	if err != nil {
		s.logger.Error("export render failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	file := &ExportFile{
		Filename:    fmt.Sprintf("tutors-%s.%s", s.now().UTC().Format("20060102-150405"), r.Extension()),
		ContentType: r.ContentType(),
		Payload:     payload,
		Rows:        len(tutors),
	}
	s.logger.Info("tutors exported", zap.String("format", format), zap.Int("rows", file.Rows))
	return file, nil
}

func tutorDataset(tutors []models.Tutor) export.Dataset {
	data := export.Dataset{
		Title: "Tutor Directory",
		Columns: []export.Column{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name"},
			{Key: "subjects", Label: "Subjects"},
			{Key: "levels", Label: "Levels"},
			{Key: "locations", Label: "Locations"},
			{Key: "rating", Label: "Rating"},
			{Key: "reviews", Label: "Reviews"},
			{Key: "online", Label: "Online"},
			{Key: "joined", Label: "Joined"},
		},
		Rows: make([]map[string]string, 0, len(tutors)),
	}
	for _, tutor := range tutors {
		data.Rows = append(data.Rows, map[string]string{
			"id":        tutor.ID,
			"name":      tutor.Name,
			"subjects":  strings.Join(tutor.Subjects, "، "),
			"levels":    strings.Join(tutor.EducationLevels, "، "),
			"locations": strings.Join(tutor.Locations, "، "),
			"rating":    strconv.FormatFloat(tutor.Rating, 'f', 1, 64),
			"reviews":   strconv.Itoa(tutor.ReviewsCount),
			"online":    strconv.FormatBool(tutor.IsOnline),
			"joined":    tutor.JoinDate,
		})
	}
	return data
}
