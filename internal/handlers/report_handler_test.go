package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"kaban/internal/services"
)

type mockReportService struct {
	exportRegistryFn func(tenantID string, fiscalYear int, w io.Writer) error
}

func (m *mockReportService) ExportRegistry(_ context.Context, tenantID string, fiscalYear int, w io.Writer) error {
	if m.exportRegistryFn != nil {
		return m.exportRegistryFn(tenantID, fiscalYear, w)
	}
	return nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectIdentity(testActor, testTenant))
	auth.GET("/reports/registry", handler.ExportRegistry)
	return r
}

func TestReportHandler_ExportRegistry(t *testing.T) {
	t.Run("streams the workbook", func(t *testing.T) {
		var gotYear int
		svc := &mockReportService{
			exportRegistryFn: func(_ string, fiscalYear int, w io.Writer) error {
				gotYear = fiscalYear
				_, err := w.Write([]byte("PK-workbook"))
				return err
			},
		}
		audit := &mockAuditService{}
		r := setupReportRouter(NewReportHandler(svc, audit))

		rec := doRequest(r, "GET", "/reports/registry?fiscal_year=2025", "")

		assertStatus(t, rec, http.StatusOK)
		if gotYear != 2025 {
			t.Errorf("expected 2025, got %d", gotYear)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "registry-lgu-test-2025.xlsx") {
			t.Errorf("unexpected content disposition %q", cd)
		}
		if rec.Body.String() != "PK-workbook" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "EXPORT_REGISTRY" {
			t.Errorf("unexpected audit actions: %v", actions)
		}
	})

	t.Run("returns 400 without fiscal year", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/reports/registry", "")

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns json error when rendering fails", func(t *testing.T) {
		svc := &mockReportService{
			exportRegistryFn: func(_ string, _ int, w io.Writer) error {
				_, _ = w.Write([]byte("partial"))
				return errors.New("disk full")
			},
		}
		r := setupReportRouter(NewReportHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/reports/registry?fiscal_year=2025", "")

		assertStatus(t, rec, http.StatusInternalServerError)
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
