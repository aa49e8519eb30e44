package services

import (
	"context"
	"testing"
	"time"

	"kaban/internal/models"
	"kaban/internal/testutil"
)

func TestCreateFiscalYear(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_calendar_dates", func(t *testing.T) {
		env := setupEnv(t)

		fy, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 2025, time.Time{}, time.Time{})
		testutil.AssertNoError(t, err)

		if fy.Status != models.FiscalYearPreparing {
			t.Errorf("expected preparing status, got %s", fy.Status)
		}
		if fy.StartDate.Month() != time.January || fy.EndDate.Month() != time.December || fy.EndDate.Day() != 31 {
			t.Errorf("expected calendar year dates, got %s to %s", fy.StartDate, fy.EndDate)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2025, models.FiscalYearActive)

		_, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 2025, time.Time{}, time.Time{})
		testutil.AssertAppError(t, err, "FISCAL_YEAR_EXISTS")
	})

	t.Run("same_year_other_tenant", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, "lgu-other", 2025, models.FiscalYearActive)

		_, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 2025, time.Time{}, time.Time{})
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_dates", func(t *testing.T) {
		env := setupEnv(t)
		start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

		_, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 2025, start, start.AddDate(0, -1, 0))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_year", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 25, time.Time{}, time.Time{})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestFiscalYearTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("activate_then_close", func(t *testing.T) {
		env := setupEnv(t)
		_, err := env.fiscalYears.CreateFiscalYear(ctx, testutil.TestTenant, 2025, time.Time{}, time.Time{})
		testutil.AssertNoError(t, err)

		active, err := env.fiscalYears.ActivateFiscalYear(ctx, testutil.TestTenant, 2025)
		testutil.AssertNoError(t, err)
		if active.Status != models.FiscalYearActive {
			t.Errorf("expected active, got %s", active.Status)
		}

		closed, err := env.fiscalYears.CloseFiscalYear(ctx, testutil.TestTenant, 2025, "treasurer")
		testutil.AssertNoError(t, err)
		if !closed.IsClosed() || closed.ClosedBy != "treasurer" || closed.ClosedAt == nil {
			t.Errorf("expected closed year stamped by treasurer, got %+v", closed)
		}
	})

	t.Run("close_preparing", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2025, models.FiscalYearPreparing)

		_, err := env.fiscalYears.CloseFiscalYear(ctx, testutil.TestTenant, 2025, "treasurer")
		testutil.AssertAppError(t, err, "INVALID_FISCAL_YEAR_TRANSITION")
	})

	t.Run("reopen_closed", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2025, models.FiscalYearClosed)

		_, err := env.fiscalYears.ActivateFiscalYear(ctx, testutil.TestTenant, 2025)
		testutil.AssertAppError(t, err, "INVALID_FISCAL_YEAR_TRANSITION")
	})

	t.Run("not_found", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.fiscalYears.ActivateFiscalYear(ctx, testutil.TestTenant, 2030)
		testutil.AssertAppError(t, err, "FISCAL_YEAR_NOT_FOUND")
	})

	t.Run("closing_blocks_reservations", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2025, models.FiscalYearActive)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 100}, "officer")
		testutil.AssertNoError(t, err)

		_, err = env.fiscalYears.CloseFiscalYear(ctx, testutil.TestTenant, 2025, "treasurer")
		testutil.AssertNoError(t, err)

		_, err = env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 100}, "officer")
		testutil.AssertAppError(t, err, "FISCAL_YEAR_CLOSED")
		testutil.AssertBalance(t, env.db, a.ID, 900)
	})
}

func TestListFiscalYears(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2024, models.FiscalYearClosed)
	testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2025, models.FiscalYearActive)
	testutil.CreateTestFiscalYear(t, env.db, "lgu-other", 2025, models.FiscalYearActive)

	years, err := env.fiscalYears.ListFiscalYears(ctx, testutil.TestTenant)
	testutil.AssertNoError(t, err)

	if len(years) != 2 || years[0].Year != 2025 {
		t.Errorf("expected 2025 then 2024, got %+v", years)
	}

	_, err = env.fiscalYears.GetFiscalYear(ctx, "lgu-other", 2024)
	testutil.AssertAppError(t, err, "FISCAL_YEAR_NOT_FOUND")
}
