package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/pagination"
	"kaban/internal/services"
)

// ObligationHandler handles fund reservations and their lifecycle.
type ObligationHandler struct {
	obligationService services.ObligationServicer
	auditService      services.AuditServicer
}

// NewObligationHandler creates a new ObligationHandler.
func NewObligationHandler(obligationService services.ObligationServicer, auditService services.AuditServicer) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService, auditService: auditService}
}

// ReserveFundsRequest represents the request payload for reserving funds.
// Amount is in centavos.
type ReserveFundsRequest struct {
	Payee         string `json:"payee" binding:"required,max=200"`
	Purpose       string `json:"purpose" binding:"max=2000"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	ReferenceCode string `json:"reference_code" binding:"max=64"`
}

// ObligationNoteRequest carries an optional note for a status change.
type ObligationNoteRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// DisburseRequest represents the request payload for releasing funds.
type DisburseRequest struct {
	Method string `json:"method" binding:"required,disbursement_method"`
	Note   string `json:"note" binding:"max=2000"`
}

// ReserveFunds handles reserving funds against an allotment.
// @Summary     Reserve funds
// @Description Create a pending obligation and deduct its amount from the allotment balance
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Allotment ID"
// @Param       request body ReserveFundsRequest true "Reservation details"
// @Success     201 {object} models.Obligation "Obligation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allotment not found"
// @Failure     409 {object} ErrorResponse "Fiscal year closed or ledger busy"
// @Failure     422 {object} ErrorResponse "Insufficient funds"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /allotments/{id}/obligations [post]
func (h *ObligationHandler) ReserveFunds(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allotmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReserveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	obligation, err := h.obligationService.Reserve(c.Request.Context(), tenant, allotmentID, services.ReserveRequest{
		Payee:         req.Payee,
		Purpose:       req.Purpose,
		Amount:        req.Amount,
		ReferenceCode: req.ReferenceCode,
	}, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "RESERVE_FUNDS", "obligation", obligation.ID, c.ClientIP(),
		map[string]any{"allotment_id": allotmentID, "amount": req.Amount, "payee": req.Payee})

	c.JSON(http.StatusCreated, gin.H{"obligation": obligation})
}

// ListObligations handles listing the obligations of an allotment.
// @Summary     List obligations of an allotment
// @Tags        obligations
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Allotment ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Obligation] "Paginated obligations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allotment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /allotments/{id}/obligations [get]
func (h *ObligationHandler) ListObligations(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.obligationService.ListObligations(c.Request.Context(), tenant, allotmentID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetObligation handles fetching an obligation with its transaction log.
// @Summary     Get an obligation
// @Tags        obligations
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Obligation ID"
// @Success     200 {object} models.Obligation "Obligation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /obligations/{id} [get]
func (h *ObligationHandler) GetObligation(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligation, err := h.obligationService.GetObligation(c.Request.Context(), tenant, obligationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// CertifyObligation handles certifying a pending obligation.
// @Summary     Certify an obligation
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true  "Obligation ID"
// @Param       request body ObligationNoteRequest false "Optional note"
// @Success     200 {object} models.Obligation "Obligation certified"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Failure     409 {object} ErrorResponse "Invalid state transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /obligations/{id}/certify [post]
func (h *ObligationHandler) CertifyObligation(c *gin.Context) {
	h.transition(c, "CERTIFY_OBLIGATION", func(tenant, id, actor, note string) (*models.Obligation, error) {
		return h.obligationService.Certify(c.Request.Context(), tenant, id, actor, note)
	})
}

// CancelObligation handles cancelling a pending obligation.
// @Summary     Cancel an obligation
// @Description Cancel a pending obligation and return its amount to the allotment balance
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true  "Obligation ID"
// @Param       request body ObligationNoteRequest false "Optional note"
// @Success     200 {object} models.Obligation "Obligation cancelled"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Failure     409 {object} ErrorResponse "Invalid state transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /obligations/{id}/cancel [post]
func (h *ObligationHandler) CancelObligation(c *gin.Context) {
	h.transition(c, "CANCEL_OBLIGATION", func(tenant, id, actor, note string) (*models.Obligation, error) {
		return h.obligationService.Cancel(c.Request.Context(), tenant, id, actor, note)
	})
}

// DisburseObligation handles releasing funds of a certified obligation.
// @Summary     Disburse an obligation
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Obligation ID"
// @Param       request body DisburseRequest true "Release method"
// @Success     200 {object} models.Obligation "Obligation disbursed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Failure     409 {object} ErrorResponse "Invalid state transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /obligations/{id}/disburse [post]
func (h *ObligationHandler) DisburseObligation(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DisburseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	obligation, err := h.obligationService.Disburse(c.Request.Context(), tenant, obligationID,
		services.DisbursementMethod(req.Method), actor, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "DISBURSE_OBLIGATION", "obligation", obligationID, c.ClientIP(),
		map[string]any{"method": req.Method})

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// transition runs a note-only status change. The body is optional.
func (h *ObligationHandler) transition(c *gin.Context, action string, apply func(tenant, id, actor, note string) (*models.Obligation, error)) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ObligationNoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	obligation, err := apply(tenant, obligationID, actor, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, action, "obligation", obligationID, c.ClientIP(),
		map[string]any{"note": req.Note})

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}
