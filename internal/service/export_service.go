package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/export"
)

// ExportFormat selects the rendered report file format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered report file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders composed reports into downloadable files.
type ExportService struct {
	reports *ReportService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(reports *ReportService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Export composes the requested report and renders it in the given format.
func (s *ExportService) Export(ctx context.Context, req dto.ReportRequest, format ExportFormat) (*ExportResult, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	report, err := s.reports.Compose(ctx, req)
	if err != nil {
		return nil, err
	}

	dataset := flattenReport(report)
	filename := fmt.Sprintf("report-%s-%s.%s", report.Type, report.GeneratedAt.Format("20060102-150405"), format)

	switch format {
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, fmt.Sprintf("%s report", report.Type))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf report")
		}
		return &ExportResult{Filename: filename, ContentType: "application/pdf", Data: data}, nil
	default:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv report")
		}
		return &ExportResult{Filename: filename, ContentType: "text/csv", Data: data}, nil
	}
}

// flattenReport lowers the typed report sections into a uniform three column
// table suitable for both exporters.
func flattenReport(report *dto.Report) export.Dataset {
	dataset := export.Dataset{Headers: []string{"section", "metric", "value"}}
	add := func(sectionName, metric, value string) {
		dataset.Append(sectionName, metric, value)
	}
	formatFloat := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	switch {
	case report.Users != nil:
		u := report.Users
		add("summary", "total_users", strconv.Itoa(u.Summary.TotalUsers))
		add("summary", "new_users", strconv.Itoa(u.Summary.NewUsers))
		add("summary", "professors", strconv.Itoa(u.Summary.Professors))
		add("summary", "parents", strconv.Itoa(u.Summary.Parents))
		for _, row := range u.ByRole {
			add("by_role", row.Dimension, strconv.Itoa(row.Count))
		}
		for _, row := range u.ByCity {
			add("by_city", row.Dimension, strconv.Itoa(row.Count))
		}
		for _, point := range u.Trend {
			add("trend", point.Date, strconv.Itoa(point.Count))
		}
	case report.Bookings != nil:
		b := report.Bookings
		add("summary", "total_bookings", strconv.Itoa(b.Summary.TotalBookings))
		add("summary", "completed", strconv.Itoa(b.Summary.Completed))
		add("summary", "cancelled", strconv.Itoa(b.Summary.Cancelled))
		add("summary", "completion_rate", formatFloat(b.Summary.CompletionRate))
		add("summary", "cancellation_rate", formatFloat(b.Summary.CancellationRate))
		for _, row := range b.BySubject {
			add("by_subject", row.Dimension, strconv.Itoa(row.Count))
		}
		for _, row := range b.ByStatus {
			add("by_status", row.Dimension, strconv.Itoa(row.Count))
		}
		for _, row := range b.ByHour {
			add("by_hour", row.Dimension, strconv.Itoa(row.Count))
		}
		for _, point := range b.Trend {
			add("trend", point.Date, strconv.Itoa(point.Count))
		}
	case report.Revenue != nil:
		r := report.Revenue
		add("summary", "total_revenue", formatFloat(r.Summary.TotalRevenue))
		add("summary", "completed_bookings", strconv.Itoa(r.Summary.CompletedBookings))
		add("summary", "average_booking_value", formatFloat(r.Summary.AverageBookingValue))
		for _, row := range r.ByProfessor {
			add("by_professor", row.Dimension, formatFloat(row.TotalRevenue))
		}
		for _, row := range r.BySubject {
			add("by_subject", row.Dimension, formatFloat(row.TotalRevenue))
		}
		for _, row := range r.ByMethod {
			add("by_method", row.Dimension, formatFloat(row.TotalRevenue))
		}
		for _, point := range r.Trend {
			add("trend", point.Date, formatFloat(point.Revenue))
		}
	case report.Performance != nil:
		p := report.Performance
		add("summary", "average_rating", formatFloat(p.Summary.AverageRating))
		add("summary", "total_reviews", strconv.Itoa(p.Summary.TotalReviews))
		for _, bucket := range p.RatingDistribution {
			add("rating_distribution", strconv.Itoa(bucket.Rating), strconv.Itoa(bucket.Count))
		}
		for _, prof := range p.TopProfessors {
			add("top_professors", prof.ProfessorName, formatFloat(prof.AverageRating))
		}
	}
	return dataset
}
