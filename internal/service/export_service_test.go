package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
)

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(newTestReportService(&fakeAggregators{}), zap.NewNop())

	_, err := svc.Export(context.Background(), dto.ReportRequest{Type: dto.ReportTypeBookings, Period: "month"}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestExportCSVRendersSummaryRows(t *testing.T) {
	repo := &fakeAggregators{totals: &models.RevenueTotals{CompletedBookings: 2, TotalRevenue: 150}}
	svc := NewExportService(newTestReportService(repo), zap.NewNop())

	result, err := svc.Export(context.Background(), dto.ReportRequest{Type: dto.ReportTypeRevenue, Period: "month"}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "report-revenue-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	content := string(result.Data)
	assert.Contains(t, content, "section,metric,value")
	assert.Contains(t, content, "total_revenue,150.00")
	assert.Contains(t, content, "average_booking_value,75.00")
}

func TestExportPDFProducesDocument(t *testing.T) {
	svc := NewExportService(newTestReportService(&fakeAggregators{}), zap.NewNop())

	result, err := svc.Export(context.Background(), dto.ReportRequest{Type: dto.ReportTypePerformance, Period: "month"}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
}
