package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// ReportHandler exposes composed admin reports and their file exports.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

func parseReportRequest(c *gin.Context) (dto.ReportRequest, error) {
	req := dto.ReportRequest{
		Type:   dto.ReportType(c.DefaultQuery("type", string(dto.ReportTypeBookings))),
		Period: c.DefaultQuery("period", "month"),
	}
	dateFrom, err := parseDateQuery(c, "date_from")
	if err != nil {
		return req, err
	}
	dateTo, err := parseDateQuery(c, "date_to")
	if err != nil {
		return req, err
	}
	req.DateFrom = dateFrom
	req.DateTo = dateTo
	return req, nil
}

// Generate composes and returns the requested report.
func (h *ReportHandler) Generate(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	req, err := parseReportRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, err := h.reports.Compose(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, report, nil, meta)
}

// Export renders the requested report as a downloadable CSV or PDF file.
func (h *ReportHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	req, err := parseReportRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))

	result, err := h.exports.Export(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
