package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"kaban/internal/compliance"
	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/pagination"
	"kaban/internal/services"
	"kaban/internal/uuid"
)

// --- mock proposal service ---

type mockProposalService struct {
	saveProposalFn     func(tenantID, actor string, input services.SaveProposalInput) (*models.BudgetProposal, error)
	getProposalFn      func(tenantID, proposalID string) (*models.BudgetProposal, error)
	listProposalsFn    func(tenantID string, page pagination.PageRequest, filter services.ProposalFilter) (*pagination.PageResponse[models.BudgetProposal], error)
	validateProposalFn func(tenantID, proposalID string) (*compliance.Result, error)
	rejectProposalFn   func(tenantID, proposalID, actor, reason string) (*models.BudgetProposal, error)
}

func (m *mockProposalService) SaveProposal(_ context.Context, tenantID, actor string, input services.SaveProposalInput) (*models.BudgetProposal, error) {
	if m.saveProposalFn != nil {
		return m.saveProposalFn(tenantID, actor, input)
	}
	return &models.BudgetProposal{}, nil
}

func (m *mockProposalService) GetProposal(_ context.Context, tenantID, proposalID string) (*models.BudgetProposal, error) {
	if m.getProposalFn != nil {
		return m.getProposalFn(tenantID, proposalID)
	}
	return &models.BudgetProposal{}, nil
}

func (m *mockProposalService) ListProposals(_ context.Context, tenantID string, page pagination.PageRequest, filter services.ProposalFilter) (*pagination.PageResponse[models.BudgetProposal], error) {
	if m.listProposalsFn != nil {
		return m.listProposalsFn(tenantID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.BudgetProposal{}, page, 0)
	return &resp, nil
}

func (m *mockProposalService) ValidateProposal(_ context.Context, tenantID, proposalID string) (*compliance.Result, error) {
	if m.validateProposalFn != nil {
		return m.validateProposalFn(tenantID, proposalID)
	}
	return &compliance.Result{IsValid: true}, nil
}

func (m *mockProposalService) RejectProposal(_ context.Context, tenantID, proposalID, actor, reason string) (*models.BudgetProposal, error) {
	if m.rejectProposalFn != nil {
		return m.rejectProposalFn(tenantID, proposalID, actor, reason)
	}
	return &models.BudgetProposal{}, nil
}

var _ services.ProposalServicer = (*mockProposalService)(nil)

// --- mock ledger service ---

type mockLedgerService struct {
	approveProposalFn    func(tenantID, proposalID, actor string) (*services.ApprovalResult, error)
	listAppropriationsFn func(tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Appropriation], error)
	listAllotmentsFn     func(tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Allotment], error)
	getAllotmentFn       func(tenantID, allotmentID string) (*models.Allotment, error)
	verifyAllotmentFn    func(tenantID, allotmentID string) (*services.AllotmentCheck, error)
}

func (m *mockLedgerService) ApproveProposal(_ context.Context, tenantID, proposalID, actor string) (*services.ApprovalResult, error) {
	if m.approveProposalFn != nil {
		return m.approveProposalFn(tenantID, proposalID, actor)
	}
	return &services.ApprovalResult{Proposal: &models.BudgetProposal{}}, nil
}

func (m *mockLedgerService) ListAppropriations(_ context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Appropriation], error) {
	if m.listAppropriationsFn != nil {
		return m.listAppropriationsFn(tenantID, fiscalYear, page)
	}
	resp := pagination.NewPageResponse([]models.Appropriation{}, page, 0)
	return &resp, nil
}

func (m *mockLedgerService) ListAllotments(_ context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Allotment], error) {
	if m.listAllotmentsFn != nil {
		return m.listAllotmentsFn(tenantID, fiscalYear, page)
	}
	resp := pagination.NewPageResponse([]models.Allotment{}, page, 0)
	return &resp, nil
}

func (m *mockLedgerService) GetAllotment(_ context.Context, tenantID, allotmentID string) (*models.Allotment, error) {
	if m.getAllotmentFn != nil {
		return m.getAllotmentFn(tenantID, allotmentID)
	}
	return &models.Allotment{}, nil
}

func (m *mockLedgerService) VerifyAllotment(_ context.Context, tenantID, allotmentID string) (*services.AllotmentCheck, error) {
	if m.verifyAllotmentFn != nil {
		return m.verifyAllotmentFn(tenantID, allotmentID)
	}
	return &services.AllotmentCheck{AllotmentID: allotmentID, WithinBounds: true, Consistent: true}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func setupProposalRouter(handler *ProposalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectIdentity(testActor, testTenant))
	auth.POST("/proposals", handler.CreateProposal)
	auth.GET("/proposals", handler.ListProposals)
	auth.GET("/proposals/:id", handler.GetProposal)
	auth.PUT("/proposals/:id", handler.UpdateProposal)
	auth.GET("/proposals/:id/compliance", handler.GetCompliance)
	auth.POST("/proposals/:id/approve", handler.ApproveProposal)
	auth.POST("/proposals/:id/reject", handler.RejectProposal)
	return r
}

func TestProposalHandler_CreateProposal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.SaveProposalInput
		svc := &mockProposalService{
			saveProposalFn: func(tenantID, actor string, input services.SaveProposalInput) (*models.BudgetProposal, error) {
				if tenantID != testTenant || actor != testActor {
					t.Errorf("unexpected identity %s/%s", tenantID, actor)
				}
				got = input
				return &models.BudgetProposal{
					Base:         models.Base{ID: uuid.New()},
					FiscalYear:   input.FiscalYear,
					Status:       models.ProposalStatusDraft,
					Version:      1,
					TotalIncome:  100000000,
					TotalExpense: 0,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, audit))

		rec := doRequest(r, "POST", "/proposals",
			`{"fiscal_year":2025,"title":"Annual Budget","income_sources":[{"code":"IRA","name":"Internal Revenue Allotment","amount":100000000}]}`)

		assertStatus(t, rec, http.StatusCreated)
		proposal := parseJSON(t, rec)["proposal"].(map[string]interface{})
		if proposal["version"].(float64) != 1 {
			t.Errorf("expected version 1, got %v", proposal["version"])
		}
		if got.FiscalYear != 2025 || got.Title == nil || *got.Title != "Annual Budget" {
			t.Errorf("unexpected input: %+v", got)
		}
		if len(got.IncomeSources) != 1 || got.IncomeSources[0].Amount != 100000000 {
			t.Errorf("unexpected income lines: %+v", got.IncomeSources)
		}
		if got.ExpenseAllocations != nil {
			t.Errorf("expected omitted expense lines to stay nil, got %+v", got.ExpenseAllocations)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_PROPOSAL" {
			t.Errorf("unexpected audit actions: %v", actions)
		}
	})

	t.Run("returns 400 on missing fiscal year", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals", `{"title":"No year"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown expense class", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals",
			`{"fiscal_year":2025,"expense_allocations":[{"class":"TRAVEL","name":"Trips","amount":100}]}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals",
			`{"fiscal_year":2025,"income_sources":[{"name":"RPT","amount":-5}]}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on amount above the line cap", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals",
			`{"fiscal_year":2025,"income_sources":[{"code":"RPT","name":"Real Property Tax","amount":100}],`+
				`"expense_allocations":[{"class":"MOOE","name":"Office Supplies","amount":9223372036854775807},`+
				`{"class":"MOOE","name":"Fuel","amount":9223372036854775807}]}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when saving as approved", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals", `{"fiscal_year":2025,"status":"approved"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestProposalHandler_UpdateProposal(t *testing.T) {
	id := uuid.New()

	t.Run("passes version and empty line arrays through", func(t *testing.T) {
		var got services.SaveProposalInput
		svc := &mockProposalService{
			saveProposalFn: func(_, _ string, input services.SaveProposalInput) (*models.BudgetProposal, error) {
				got = input
				return &models.BudgetProposal{Base: models.Base{ID: input.ID}, Version: input.Version + 1}, nil
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/proposals/"+id,
			`{"version":3,"status":"pending_approval","expense_allocations":[]}`)

		assertStatus(t, rec, http.StatusOK)
		if got.ID != id || got.Version != 3 || got.Status != models.ProposalStatusPendingApproval {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.ExpenseAllocations == nil || len(got.ExpenseAllocations) != 0 {
			t.Errorf("expected an empty non-nil expense slice, got %#v", got.ExpenseAllocations)
		}
		if got.IncomeSources != nil {
			t.Errorf("expected nil income slice, got %#v", got.IncomeSources)
		}
	})

	t.Run("returns 400 without version", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/proposals/"+id, `{"title":"x"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/proposals/42", `{"version":1}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on stale version", func(t *testing.T) {
		svc := &mockProposalService{
			saveProposalFn: func(_, _ string, _ services.SaveProposalInput) (*models.BudgetProposal, error) {
				return nil, apperrors.WithDetails(apperrors.ErrStaleProposal, "Proposal was modified by someone else, reload and retry",
					map[string]any{"expected_version": 1, "current_version": 2})
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/proposals/"+id, `{"version":1}`)

		assertStatus(t, rec, http.StatusConflict)
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "STALE_PROPOSAL")
		details := result["error"].(map[string]interface{})["details"].(map[string]interface{})
		if details["current_version"].(float64) != 2 {
			t.Errorf("expected current_version 2, got %v", details["current_version"])
		}
	})

	t.Run("returns 409 when approved", func(t *testing.T) {
		svc := &mockProposalService{
			saveProposalFn: func(_, _ string, _ services.SaveProposalInput) (*models.BudgetProposal, error) {
				return nil, apperrors.ErrProposalNotEditable
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/proposals/"+id, `{"version":4}`)

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "PROPOSAL_NOT_EDITABLE")
	})
}

func TestProposalHandler_ListProposals(t *testing.T) {
	t.Run("passes filters", func(t *testing.T) {
		var gotFilter services.ProposalFilter
		var gotPage pagination.PageRequest
		svc := &mockProposalService{
			listProposalsFn: func(_ string, page pagination.PageRequest, filter services.ProposalFilter) (*pagination.PageResponse[models.BudgetProposal], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.BudgetProposal{{FiscalYear: 2025}}, page, 1)
				return &resp, nil
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/proposals?fiscal_year=2025&status=draft&page=2&page_size=5", "")

		assertStatus(t, rec, http.StatusOK)
		if gotFilter.FiscalYear == nil || *gotFilter.FiscalYear != 2025 {
			t.Errorf("expected fiscal year filter 2025, got %v", gotFilter.FiscalYear)
		}
		if gotFilter.Status == nil || *gotFilter.Status != models.ProposalStatusDraft {
			t.Errorf("expected status filter draft, got %v", gotFilter.Status)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page request %+v", gotPage)
		}
		if parseJSON(t, rec)["total_items"].(float64) != 1 {
			t.Error("expected total_items 1")
		}
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/proposals?status=archived", "")

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/proposals?page_size=500", "")

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestProposalHandler_GetProposal(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockProposalService{
			getProposalFn: func(_, _ string) (*models.BudgetProposal, error) {
				return nil, apperrors.ErrProposalNotFound
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/proposals/"+uuid.New(), "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "PROPOSAL_NOT_FOUND")
	})
}

func TestProposalHandler_GetCompliance(t *testing.T) {
	svc := &mockProposalService{
		validateProposalFn: func(_, _ string) (*compliance.Result, error) {
			return &compliance.Result{
				IsValid: false,
				Errors: []compliance.Finding{{
					Rule:    compliance.RuleDeficit,
					Message: "Budget Deficit: Total expense exceeds total income by ₱100,000",
				}},
				Warnings: []compliance.Finding{},
			}, nil
		},
	}
	r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/proposals/"+uuid.New()+"/compliance", "")

	assertStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)["compliance"].(map[string]interface{})
	if result["is_valid"] != false {
		t.Errorf("expected is_valid false, got %v", result["is_valid"])
	}
	errs := result["errors"].([]interface{})
	if len(errs) != 1 || errs[0].(map[string]interface{})["rule"] != "deficit" {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestProposalHandler_ApproveProposal(t *testing.T) {
	t.Run("returns 200 with created records", func(t *testing.T) {
		id := uuid.New()
		ledger := &mockLedgerService{
			approveProposalFn: func(tenantID, proposalID, actor string) (*services.ApprovalResult, error) {
				if proposalID != id || actor != testActor || tenantID != testTenant {
					t.Errorf("unexpected call %s %s %s", tenantID, proposalID, actor)
				}
				return &services.ApprovalResult{
					Proposal:       &models.BudgetProposal{Base: models.Base{ID: id}, Status: models.ProposalStatusApproved},
					Appropriations: []models.Appropriation{{SourceCode: "IRA"}},
					Allotments:     []models.Allotment{{Description: "Salaries"}, {Description: "SK Fund"}},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, ledger, audit))

		rec := doRequest(r, "POST", "/proposals/"+id+"/approve", "")

		assertStatus(t, rec, http.StatusOK)
		approval := parseJSON(t, rec)["approval"].(map[string]interface{})
		if len(approval["allotments"].([]interface{})) != 2 {
			t.Errorf("expected 2 allotments, got %v", approval["allotments"])
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "APPROVE_PROPOSAL" {
			t.Errorf("unexpected audit actions: %v", actions)
		}
	})

	t.Run("returns 409 when already approved", func(t *testing.T) {
		ledger := &mockLedgerService{
			approveProposalFn: func(_, _, _ string) (*services.ApprovalResult, error) {
				return nil, apperrors.ErrAlreadyApproved
			},
		}
		audit := &mockAuditService{}
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, ledger, audit))

		rec := doRequest(r, "POST", "/proposals/"+uuid.New()+"/approve", "")

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "ALREADY_APPROVED")
		if len(audit.actions()) != 0 {
			t.Error("expected no audit entry on failure")
		}
	})

	t.Run("returns 409 retryable on contention", func(t *testing.T) {
		ledger := &mockLedgerService{
			approveProposalFn: func(_, _, _ string) (*services.ApprovalResult, error) {
				return nil, apperrors.ErrConcurrencyConflict
			},
		}
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, ledger, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals/"+uuid.New()+"/approve", "")

		assertStatus(t, rec, http.StatusConflict)
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "CONCURRENCY_CONFLICT")
		if result["error"].(map[string]interface{})["retryable"] != true {
			t.Error("expected retryable flag")
		}
	})
}

func TestProposalHandler_RejectProposal(t *testing.T) {
	t.Run("returns 200 with reason", func(t *testing.T) {
		var gotReason string
		svc := &mockProposalService{
			rejectProposalFn: func(_, _, _, reason string) (*models.BudgetProposal, error) {
				gotReason = reason
				return &models.BudgetProposal{Status: models.ProposalStatusRejected, RejectionReason: reason}, nil
			},
		}
		r := setupProposalRouter(NewProposalHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals/"+uuid.New()+"/reject", `{"reason":"Missing SK Fund"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotReason != "Missing SK Fund" {
			t.Errorf("expected reason passed through, got %q", gotReason)
		}
	})

	t.Run("returns 400 without reason", func(t *testing.T) {
		r := setupProposalRouter(NewProposalHandler(&mockProposalService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/proposals/"+uuid.New()+"/reject", `{}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
