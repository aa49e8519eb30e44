package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/services"
)

// FiscalYearHandler handles the fiscal year calendar.
type FiscalYearHandler struct {
	fiscalYearService services.FiscalYearServicer
	auditService      services.AuditServicer
}

// NewFiscalYearHandler creates a new FiscalYearHandler.
func NewFiscalYearHandler(fiscalYearService services.FiscalYearServicer, auditService services.AuditServicer) *FiscalYearHandler {
	return &FiscalYearHandler{fiscalYearService: fiscalYearService, auditService: auditService}
}

// CreateFiscalYearRequest represents the request payload for registering a fiscal year.
type CreateFiscalYearRequest struct {
	Year      int        `json:"year" binding:"required,gte=1900,lte=9999"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// CreateFiscalYear handles registering a fiscal year.
// @Summary     Create a fiscal year
// @Description Register a fiscal year in the preparing state. Dates default to the calendar year.
// @Tags        fiscal-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFiscalYearRequest true "Fiscal year"
// @Success     201 {object} models.FiscalYear "Fiscal year created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Fiscal year already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fiscal-years [post]
func (h *FiscalYearHandler) CreateFiscalYear(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var start, end time.Time
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}

	fy, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), tenant, req.Year, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "CREATE_FISCAL_YEAR", "fiscal_year", fy.ID, c.ClientIP(),
		map[string]any{"year": fy.Year})

	c.JSON(http.StatusCreated, gin.H{"fiscal_year": fy})
}

// ListFiscalYears handles listing the tenant's fiscal years.
// @Summary     List fiscal years
// @Tags        fiscal-years
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.FiscalYear "Fiscal years, latest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fiscal-years [get]
func (h *FiscalYearHandler) ListFiscalYears(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context(), tenant)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fiscal_years": years})
}

// GetFiscalYear handles fetching one fiscal year.
// @Summary     Get a fiscal year
// @Tags        fiscal-years
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Fiscal year"
// @Success     200 {object} models.FiscalYear "Fiscal year"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fiscal year not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fiscal-years/{year} [get]
func (h *FiscalYearHandler) GetFiscalYear(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fy, err := h.fiscalYearService.GetFiscalYear(c.Request.Context(), tenant, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fiscal_year": fy})
}

// ActivateFiscalYear handles opening a preparing fiscal year.
// @Summary     Activate a fiscal year
// @Tags        fiscal-years
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Fiscal year"
// @Success     200 {object} models.FiscalYear "Fiscal year activated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fiscal year not found"
// @Failure     409 {object} ErrorResponse "Invalid fiscal year transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fiscal-years/{year}/activate [post]
func (h *FiscalYearHandler) ActivateFiscalYear(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fy, err := h.fiscalYearService.ActivateFiscalYear(c.Request.Context(), tenant, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "ACTIVATE_FISCAL_YEAR", "fiscal_year", fy.ID, c.ClientIP(),
		map[string]any{"year": year})

	c.JSON(http.StatusOK, gin.H{"fiscal_year": fy})
}

// CloseFiscalYear handles closing an active fiscal year.
// @Summary     Close a fiscal year
// @Description Close the year. Its ledger accepts no further approvals or obligation changes.
// @Tags        fiscal-years
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Fiscal year"
// @Success     200 {object} models.FiscalYear "Fiscal year closed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fiscal year not found"
// @Failure     409 {object} ErrorResponse "Invalid fiscal year transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fiscal-years/{year}/close [post]
func (h *FiscalYearHandler) CloseFiscalYear(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fy, err := h.fiscalYearService.CloseFiscalYear(c.Request.Context(), tenant, year, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "CLOSE_FISCAL_YEAR", "fiscal_year", fy.ID, c.ClientIP(),
		map[string]any{"year": year})

	c.JSON(http.StatusOK, gin.H{"fiscal_year": fy})
}
