package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles registry exports.
type ReportHandler struct {
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// ExportRegistry handles downloading the ledger registry of a fiscal year.
// @Summary     Export the ledger registry
// @Description Download appropriations, allotments and obligations of a fiscal year as an XLSX workbook
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       fiscal_year query int true "Fiscal year"
// @Success     200 {file}   file "Registry workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/registry [get]
func (h *ReportHandler) ExportRegistry(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fiscalYear, err := parseFiscalYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if fiscalYear == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "fiscal_year is required"))
		return
	}

	// Render fully before writing headers so a failure still returns JSON.
	var buf bytes.Buffer
	if err := h.reportService.ExportRegistry(c.Request.Context(), tenant, *fiscalYear, &buf); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "EXPORT_REGISTRY", "registry", fmt.Sprintf("%d", *fiscalYear), c.ClientIP(),
		map[string]any{"fiscal_year": *fiscalYear, "bytes": buf.Len()})

	filename := fmt.Sprintf("registry-%s-%d.xlsx", tenant, *fiscalYear)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
