package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/pagination"
	"kaban/internal/services"
	"kaban/internal/uuid"
)

// --- mock obligation service ---

type mockObligationService struct {
	reserveFn         func(tenantID, allotmentID string, req services.ReserveRequest, actor string) (*models.Obligation, error)
	certifyFn         func(tenantID, obligationID, actor, note string) (*models.Obligation, error)
	disburseFn        func(tenantID, obligationID string, method services.DisbursementMethod, actor, note string) (*models.Obligation, error)
	cancelFn          func(tenantID, obligationID, actor, note string) (*models.Obligation, error)
	getObligationFn   func(tenantID, obligationID string) (*models.Obligation, error)
	listObligationsFn func(tenantID, allotmentID string, page pagination.PageRequest) (*pagination.PageResponse[models.Obligation], error)
}

func (m *mockObligationService) Reserve(_ context.Context, tenantID, allotmentID string, req services.ReserveRequest, actor string) (*models.Obligation, error) {
	if m.reserveFn != nil {
		return m.reserveFn(tenantID, allotmentID, req, actor)
	}
	return &models.Obligation{Base: models.Base{ID: uuid.New()}}, nil
}

func (m *mockObligationService) Certify(_ context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error) {
	if m.certifyFn != nil {
		return m.certifyFn(tenantID, obligationID, actor, note)
	}
	return &models.Obligation{}, nil
}

func (m *mockObligationService) Disburse(_ context.Context, tenantID, obligationID string, method services.DisbursementMethod, actor, note string) (*models.Obligation, error) {
	if m.disburseFn != nil {
		return m.disburseFn(tenantID, obligationID, method, actor, note)
	}
	return &models.Obligation{}, nil
}

func (m *mockObligationService) Cancel(_ context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error) {
	if m.cancelFn != nil {
		return m.cancelFn(tenantID, obligationID, actor, note)
	}
	return &models.Obligation{}, nil
}

func (m *mockObligationService) GetObligation(_ context.Context, tenantID, obligationID string) (*models.Obligation, error) {
	if m.getObligationFn != nil {
		return m.getObligationFn(tenantID, obligationID)
	}
	return &models.Obligation{}, nil
}

func (m *mockObligationService) ListObligations(_ context.Context, tenantID, allotmentID string, page pagination.PageRequest) (*pagination.PageResponse[models.Obligation], error) {
	if m.listObligationsFn != nil {
		return m.listObligationsFn(tenantID, allotmentID, page)
	}
	resp := pagination.NewPageResponse([]models.Obligation{}, page, 0)
	return &resp, nil
}

var _ services.ObligationServicer = (*mockObligationService)(nil)

func setupObligationRouter(handler *ObligationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectIdentity(testActor, testTenant))
	auth.POST("/allotments/:id/obligations", handler.ReserveFunds)
	auth.GET("/allotments/:id/obligations", handler.ListObligations)
	auth.GET("/obligations/:id", handler.GetObligation)
	auth.POST("/obligations/:id/certify", handler.CertifyObligation)
	auth.POST("/obligations/:id/disburse", handler.DisburseObligation)
	auth.POST("/obligations/:id/cancel", handler.CancelObligation)
	return r
}

func TestObligationHandler_ReserveFunds(t *testing.T) {
	allotmentID := uuid.New()

	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ReserveRequest
		svc := &mockObligationService{
			reserveFn: func(_, id string, req services.ReserveRequest, actor string) (*models.Obligation, error) {
				if id != allotmentID || actor != testActor {
					t.Errorf("unexpected call %s %s", id, actor)
				}
				got = req
				return &models.Obligation{
					Base:          models.Base{ID: uuid.New()},
					AllotmentID:   id,
					ReferenceCode: "OBR-2025-0001",
					Payee:         req.Payee,
					Amount:        req.Amount,
					Status:        models.ObligationStatusPending,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupObligationRouter(NewObligationHandler(svc, audit))

		rec := doRequest(r, "POST", "/allotments/"+allotmentID+"/obligations",
			`{"payee":"ABC Supplies","purpose":"Office supplies","amount":5000000}`)

		assertStatus(t, rec, http.StatusCreated)
		obligation := parseJSON(t, rec)["obligation"].(map[string]interface{})
		if obligation["status"] != "pending" {
			t.Errorf("expected pending, got %v", obligation["status"])
		}
		if got.Amount != 5000000 || got.Purpose != "Office supplies" {
			t.Errorf("unexpected request: %+v", got)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "RESERVE_FUNDS" {
			t.Errorf("unexpected audit actions: %v", actions)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupObligationRouter(NewObligationHandler(&mockObligationService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/allotments/"+allotmentID+"/obligations", `{"payee":"ABC","amount":0}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 without payee", func(t *testing.T) {
		r := setupObligationRouter(NewObligationHandler(&mockObligationService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/allotments/"+allotmentID+"/obligations", `{"amount":100}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 422 with balance details on insufficient funds", func(t *testing.T) {
		svc := &mockObligationService{
			reserveFn: func(_, _ string, _ services.ReserveRequest, _ string) (*models.Obligation, error) {
				return nil, apperrors.WithDetails(apperrors.ErrInsufficientFunds,
					"Insufficient funds: requested ₱300.00, available ₱100.00",
					map[string]any{"requested": int64(30000), "available": int64(10000)})
			},
		}
		r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/allotments/"+allotmentID+"/obligations", `{"payee":"ABC","amount":30000}`)

		assertStatus(t, rec, http.StatusUnprocessableEntity)
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INSUFFICIENT_FUNDS")
		details := result["error"].(map[string]interface{})["details"].(map[string]interface{})
		if details["available"].(float64) != 10000 {
			t.Errorf("expected available 10000, got %v", details["available"])
		}
	})
}

func TestObligationHandler_ListObligations(t *testing.T) {
	svc := &mockObligationService{
		listObligationsFn: func(_, allotmentID string, page pagination.PageRequest) (*pagination.PageResponse[models.Obligation], error) {
			resp := pagination.NewPageResponse([]models.Obligation{{AllotmentID: allotmentID}, {AllotmentID: allotmentID}}, page, 2)
			return &resp, nil
		},
	}
	r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/allotments/"+uuid.New()+"/obligations", "")

	assertStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total_items"].(float64) != 2 {
		t.Error("expected 2 obligations")
	}
}

func TestObligationHandler_GetObligation(t *testing.T) {
	svc := &mockObligationService{
		getObligationFn: func(_, _ string) (*models.Obligation, error) {
			return nil, apperrors.ErrObligationNotFound
		},
	}
	r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/obligations/"+uuid.New(), "")

	assertStatus(t, rec, http.StatusNotFound)
	assertErrorCode(t, parseJSON(t, rec), "OBLIGATION_NOT_FOUND")
}

func TestObligationHandler_Transitions(t *testing.T) {
	id := uuid.New()

	t.Run("certify without body", func(t *testing.T) {
		var gotNote string
		svc := &mockObligationService{
			certifyFn: func(_, obligationID, _, note string) (*models.Obligation, error) {
				gotNote = note
				return &models.Obligation{Base: models.Base{ID: obligationID}, Status: models.ObligationStatusCertified}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupObligationRouter(NewObligationHandler(svc, audit))

		rec := doRequest(r, "POST", "/obligations/"+id+"/certify", "")

		assertStatus(t, rec, http.StatusOK)
		if gotNote != "" {
			t.Errorf("expected empty note, got %q", gotNote)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CERTIFY_OBLIGATION" {
			t.Errorf("unexpected audit actions: %v", actions)
		}
	})

	t.Run("cancel with note", func(t *testing.T) {
		var gotNote string
		svc := &mockObligationService{
			cancelFn: func(_, _, _, note string) (*models.Obligation, error) {
				gotNote = note
				return &models.Obligation{Status: models.ObligationStatusCancelled}, nil
			},
		}
		r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/obligations/"+id+"/cancel", `{"note":"Supplier withdrew"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotNote != "Supplier withdrew" {
			t.Errorf("expected note passed through, got %q", gotNote)
		}
	})

	t.Run("cancel after certification returns 409", func(t *testing.T) {
		svc := &mockObligationService{
			cancelFn: func(_, _, _, _ string) (*models.Obligation, error) {
				return nil, apperrors.ErrInvalidStateTransition
			},
		}
		r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/obligations/"+id+"/cancel", "")

		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATE_TRANSITION")
	})

	t.Run("disburse passes method", func(t *testing.T) {
		var gotMethod services.DisbursementMethod
		svc := &mockObligationService{
			disburseFn: func(_, _ string, method services.DisbursementMethod, _, _ string) (*models.Obligation, error) {
				gotMethod = method
				return &models.Obligation{Status: models.ObligationStatusDisbursed}, nil
			},
		}
		r := setupObligationRouter(NewObligationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/obligations/"+id+"/disburse", `{"method":"check","note":"Check #1042"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotMethod != services.DisbursementCheck {
			t.Errorf("expected check, got %q", gotMethod)
		}
	})

	t.Run("disburse rejects unknown method", func(t *testing.T) {
		r := setupObligationRouter(NewObligationHandler(&mockObligationService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/obligations/"+id+"/disburse", `{"method":"gcash"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
