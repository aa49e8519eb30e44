package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/pagination"
	"kaban/internal/services"
)

// ProposalHandler handles draft budget requests and their approval.
type ProposalHandler struct {
	proposalService services.ProposalServicer
	ledgerService   services.LedgerServicer
	auditService    services.AuditServicer
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService services.ProposalServicer, ledgerService services.LedgerServicer, auditService services.AuditServicer) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		ledgerService:   ledgerService,
		auditService:    auditService,
	}
}

// IncomeSourceRequest is one income line of a proposal. Amounts are in centavos.
type IncomeSourceRequest struct {
	Code   string `json:"code" binding:"max=32"`
	Name   string `json:"name" binding:"required,max=200"`
	Amount int64  `json:"amount" binding:"gte=0,lte=1000000000000000"`
}

// ExpenseAllocationRequest is one expense line of a proposal. Amounts are in centavos.
type ExpenseAllocationRequest struct {
	Class        models.ExpenseClass `json:"class" binding:"required,expense_class"`
	Name         string              `json:"name" binding:"required,max=200"`
	AccountCode  string              `json:"account_code" binding:"omitempty,account_code"`
	Amount       int64               `json:"amount" binding:"gte=0,lte=1000000000000000"`
	StatutoryTag models.StatutoryTag `json:"statutory_tag" binding:"omitempty,statutory_tag"`
	FundingCode  string              `json:"funding_code" binding:"max=32"`
}

// CreateProposalRequest represents the request payload for a new proposal.
type CreateProposalRequest struct {
	FiscalYear         int                        `json:"fiscal_year" binding:"required,gt=0"`
	Title              *string                    `json:"title" binding:"omitempty,max=200"`
	Type               models.ProposalType        `json:"type" binding:"omitempty,proposal_type"`
	Status             models.ProposalStatus      `json:"status" binding:"omitempty,proposal_status"`
	IncomeSources      []IncomeSourceRequest      `json:"income_sources" binding:"omitempty,dive"`
	ExpenseAllocations []ExpenseAllocationRequest `json:"expense_allocations" binding:"omitempty,dive"`
}

// UpdateProposalRequest represents the request payload for saving an existing
// proposal. Version must be the version the client last read. Omitted line
// arrays leave the stored lines untouched; an empty array clears them.
type UpdateProposalRequest struct {
	Version            int64                      `json:"version" binding:"required,gt=0"`
	FiscalYear         int                        `json:"fiscal_year" binding:"omitempty,gt=0"`
	Title              *string                    `json:"title" binding:"omitempty,max=200"`
	Type               models.ProposalType        `json:"type" binding:"omitempty,proposal_type"`
	Status             models.ProposalStatus      `json:"status" binding:"omitempty,proposal_status"`
	IncomeSources      []IncomeSourceRequest      `json:"income_sources" binding:"omitempty,dive"`
	ExpenseAllocations []ExpenseAllocationRequest `json:"expense_allocations" binding:"omitempty,dive"`
}

// RejectProposalRequest represents the request payload for rejecting a proposal.
type RejectProposalRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

func toIncomeInputs(lines []IncomeSourceRequest) []services.IncomeSourceInput {
	if lines == nil {
		return nil
	}
	out := make([]services.IncomeSourceInput, len(lines))
	for i, l := range lines {
		out[i] = services.IncomeSourceInput{Code: l.Code, Name: l.Name, Amount: l.Amount}
	}
	return out
}

func toExpenseInputs(lines []ExpenseAllocationRequest) []services.ExpenseAllocationInput {
	if lines == nil {
		return nil
	}
	out := make([]services.ExpenseAllocationInput, len(lines))
	for i, l := range lines {
		out[i] = services.ExpenseAllocationInput{
			Class:        l.Class,
			Name:         l.Name,
			AccountCode:  l.AccountCode,
			Amount:       l.Amount,
			StatutoryTag: l.StatutoryTag,
			FundingCode:  l.FundingCode,
		}
	}
	return out
}

// CreateProposal handles saving a new draft budget.
// @Summary     Create a budget proposal
// @Description Save a new draft budget. Totals are computed from the lines.
// @Tags        proposals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProposalRequest true "Proposal details"
// @Success     201 {object} models.BudgetProposal "Proposal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Ledger busy"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals [post]
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	proposal, err := h.proposalService.SaveProposal(c.Request.Context(), tenant, actor, services.SaveProposalInput{
		FiscalYear:         req.FiscalYear,
		Title:              req.Title,
		Type:               req.Type,
		Status:             req.Status,
		IncomeSources:      toIncomeInputs(req.IncomeSources),
		ExpenseAllocations: toExpenseInputs(req.ExpenseAllocations),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "CREATE_PROPOSAL", "proposal", proposal.ID, c.ClientIP(),
		map[string]any{"fiscal_year": proposal.FiscalYear, "status": proposal.Status})

	c.JSON(http.StatusCreated, gin.H{"proposal": proposal})
}

// UpdateProposal handles saving an existing proposal.
// @Summary     Update a budget proposal
// @Description Save changes to a proposal. The request version must match the stored version.
// @Tags        proposals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Proposal ID"
// @Param       request body UpdateProposalRequest true "Proposal changes"
// @Success     200 {object} models.BudgetProposal "Proposal saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     409 {object} ErrorResponse "Stale version or proposal not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{id} [put]
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	proposal, err := h.proposalService.SaveProposal(c.Request.Context(), tenant, actor, services.SaveProposalInput{
		ID:                 proposalID,
		Version:            req.Version,
		FiscalYear:         req.FiscalYear,
		Title:              req.Title,
		Type:               req.Type,
		Status:             req.Status,
		IncomeSources:      toIncomeInputs(req.IncomeSources),
		ExpenseAllocations: toExpenseInputs(req.ExpenseAllocations),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "UPDATE_PROPOSAL", "proposal", proposal.ID, c.ClientIP(),
		map[string]any{"version": proposal.Version, "status": proposal.Status})

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// ListProposals handles listing the tenant's proposals.
// @Summary     List budget proposals
// @Description Get a paginated list of proposals, newest first
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       fiscal_year query int    false "Filter by fiscal year"
// @Param       status      query string false "Filter by status"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetProposal] "Paginated proposals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals [get]
func (h *ProposalHandler) ListProposals(c *gin.Context) {
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

	var filter services.ProposalFilter
	if filter.FiscalYear, err = parseFiscalYearQuery(c); err != nil {
		respondWithError(c, err)
		return
	}
	if v := c.Query("status"); v != "" {
		status := models.ProposalStatus(v)
		switch status {
		case models.ProposalStatusDraft, models.ProposalStatusPendingApproval,
			models.ProposalStatusApproved, models.ProposalStatusRejected:
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"status must be one of draft, pending_approval, approved, rejected"))
			return
		}
		filter.Status = &status
	}

	result, err := h.proposalService.ListProposals(c.Request.Context(), tenant, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProposal handles fetching a single proposal with its lines and log.
// @Summary     Get a budget proposal
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Proposal ID"
// @Success     200 {object} models.BudgetProposal "Proposal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{id} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposal, err := h.proposalService.GetProposal(c.Request.Context(), tenant, proposalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// GetCompliance handles running the statutory checks on a proposal.
// @Summary     Check proposal compliance
// @Description Run the deficit and statutory allocation checks without changing the proposal
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Proposal ID"
// @Success     200 {object} compliance.Result "Compliance result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{id}/compliance [get]
func (h *ProposalHandler) GetCompliance(c *gin.Context) {
	_, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.proposalService.ValidateProposal(c.Request.Context(), tenant, proposalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"compliance": result})
}

// ApproveProposal handles approving a proposal into appropriations and allotments.
// @Summary     Approve a budget proposal
// @Description Approve a compliant proposal and create its appropriations and allotments atomically
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Proposal ID"
// @Success     200 {object} services.ApprovalResult "Approval result"
// @Failure     400 {object} ErrorResponse "Proposal fails compliance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     409 {object} ErrorResponse "Already approved, fiscal year closed or ledger busy"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{id}/approve [post]
func (h *ProposalHandler) ApproveProposal(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ApproveProposal(c.Request.Context(), tenant, proposalID, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "APPROVE_PROPOSAL", "proposal", proposalID, c.ClientIP(),
		map[string]any{
			"appropriations": len(result.Appropriations),
			"allotments":     len(result.Allotments),
			"total_income":   result.Proposal.TotalIncome,
			"total_expense":  result.Proposal.TotalExpense,
		})

	c.JSON(http.StatusOK, gin.H{"approval": result})
}

// RejectProposal handles rejecting a proposal with a reason.
// @Summary     Reject a budget proposal
// @Tags        proposals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Proposal ID"
// @Param       request body RejectProposalRequest true "Rejection reason"
// @Success     200 {object} models.BudgetProposal "Proposal rejected"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     409 {object} ErrorResponse "Already approved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{id}/reject [post]
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	actor, tenant, err := identity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	proposal, err := h.proposalService.RejectProposal(c.Request.Context(), tenant, proposalID, actor, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(tenant, actor, "REJECT_PROPOSAL", "proposal", proposalID, c.ClientIP(),
		map[string]any{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}
