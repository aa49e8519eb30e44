package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/pagination"
	"kaban/internal/services"
)

// LedgerHandler handles reads of appropriations and allotments.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// ListAppropriations handles listing appropriations.
// @Summary     List appropriations
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       fiscal_year query int false "Filter by fiscal year"
// @Param       page        query int false "Page number (default 1)"
// @Param       page_size   query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Appropriation] "Paginated appropriations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /appropriations [get]
func (h *LedgerHandler) ListAppropriations(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fiscalYear, err := parseFiscalYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ListAppropriations(c.Request.Context(), tenant, fiscalYear, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAllotments handles listing allotments.
// @Summary     List allotments
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       fiscal_year query int false "Filter by fiscal year"
// @Param       page        query int false "Page number (default 1)"
// @Param       page_size   query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Allotment] "Paginated allotments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /allotments [get]
func (h *LedgerHandler) ListAllotments(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	fiscalYear, err := parseFiscalYearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ListAllotments(c.Request.Context(), tenant, fiscalYear, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAllotment handles fetching a single allotment.
// @Summary     Get an allotment
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Allotment ID"
// @Success     200 {object} models.Allotment "Allotment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allotment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /allotments/{id} [get]
func (h *LedgerHandler) GetAllotment(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allotmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	allotment, err := h.ledgerService.GetAllotment(c.Request.Context(), tenant, allotmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allotment": allotment})
}

// VerifyAllotment handles reconciling an allotment against its obligations.
// @Summary     Verify an allotment balance
// @Description Compare the running balance with the sum of live obligations
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Allotment ID"
// @Success     200 {object} services.AllotmentCheck "Balance check"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allotment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /allotments/{id}/verify [get]
func (h *LedgerHandler) VerifyAllotment(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allotmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	check, err := h.ledgerService.VerifyAllotment(c.Request.Context(), tenant, allotmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"check": check})
}
