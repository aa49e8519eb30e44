package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"kaban/internal/database"
	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/pagination"
	"kaban/internal/testutil"
)

var referencePattern = regexp.MustCompile(`^OBR-2025-[0-9A-F]{8}$`)

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 100_000*testutil.Peso)

		ob, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{
			Payee:   "Bayanihan Hardware",
			Purpose: "Drainage repair materials",
			Amount:  50_000 * testutil.Peso,
		}, "budget-officer")
		testutil.AssertNoError(t, err)

		if ob.Status != models.ObligationStatusPending {
			t.Errorf("expected pending status, got %s", ob.Status)
		}
		if ob.CreatedBy != "budget-officer" || ob.AllotmentID != a.ID {
			t.Errorf("unexpected obligation %+v", ob)
		}
		if !referencePattern.MatchString(ob.ReferenceCode) {
			t.Errorf("unexpected reference code %q", ob.ReferenceCode)
		}
		if len(ob.Transactions) != 1 {
			t.Fatalf("expected 1 transaction log entry, got %d", len(ob.Transactions))
		}
		entry := ob.Transactions[0]
		if entry.Type != models.TransactionObligationCreated || entry.Amount != 50_000*testutil.Peso || entry.AllotmentID != a.ID {
			t.Errorf("unexpected transaction log entry %+v", entry)
		}
		testutil.AssertBalance(t, env.db, a.ID, 50_000*testutil.Peso)
	})

	t.Run("keeps_given_reference_code", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		ob, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 10, ReferenceCode: " OBR-0001 "}, "officer")
		testutil.AssertNoError(t, err)
		if ob.ReferenceCode != "OBR-0001" {
			t.Errorf("expected reference OBR-0001, got %q", ob.ReferenceCode)
		}
	})

	t.Run("exact_balance", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 1000}, "officer")
		testutil.AssertNoError(t, err)
		testutil.AssertBalance(t, env.db, a.ID, 0)
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 1001}, "officer")
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Details["requested"] != int64(1001) || appErr.Details["available"] != int64(1000) {
				t.Errorf("unexpected details %+v", appErr.Details)
			}
		}
		testutil.AssertBalance(t, env.db, a.ID, 1000)
		if n := countRows(t, env.db, &models.Obligation{}); n != 0 {
			t.Errorf("expected no obligation to be created, got %d", n)
		}
		if n := countRows(t, env.db, &models.TransactionLog{}); n != 0 {
			t.Errorf("expected no transaction log entry, got %d", n)
		}
	})

	t.Run("invalid_request", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		for name, req := range map[string]ReserveRequest{
			"zero_amount":     {Payee: "Supplier", Amount: 0},
			"negative_amount": {Payee: "Supplier", Amount: -5},
			"blank_payee":     {Payee: "   ", Amount: 10},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, req, "officer")
				testutil.AssertAppError(t, err, "VALIDATION_ERROR")
			})
		}
		testutil.AssertBalance(t, env.db, a.ID, 1000)
	})

	t.Run("not_found", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, "0192a0b4-0000-7000-8000-000000000000", ReserveRequest{Payee: "Supplier", Amount: 10}, "officer")
		testutil.AssertAppError(t, err, "ALLOTMENT_NOT_FOUND")
	})

	t.Run("other_tenant", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, "lgu-other", 2025, 1000)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 10}, "officer")
		testutil.AssertAppError(t, err, "ALLOTMENT_NOT_FOUND")
	})

	t.Run("closed_fiscal_year", func(t *testing.T) {
		env := setupEnv(t)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2024, models.FiscalYearClosed)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2024, 1000)

		_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 10}, "officer")
		testutil.AssertAppError(t, err, "FISCAL_YEAR_CLOSED")
		testutil.AssertBalance(t, env.db, a.ID, 1000)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := env.obligations.Reserve(cancelled, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 10}, "officer")
		testutil.AssertAppError(t, err, "REQUEST_ABORTED")
		testutil.AssertBalance(t, env.db, a.ID, 1000)
	})
}

func TestReserve_Concurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("four_reservations_of_300_against_1000", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		const callers = 4
		errs := make([]error, callers)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 300}, "officer")
			}(i)
		}
		close(start)
		wg.Wait()

		successes, insufficient := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if successes != 3 || insufficient != 1 {
			t.Errorf("expected 3 successes and 1 insufficient funds, got %d and %d", successes, insufficient)
		}
		testutil.AssertBalance(t, env.db, a.ID, 100)

		check, err := env.ledger.VerifyAllotment(ctx, testutil.TestTenant, a.ID)
		testutil.AssertNoError(t, err)
		if !check.Consistent {
			t.Errorf("expected consistent allotment, got %+v", check)
		}
	})

	t.Run("many_small_reservations_never_overdraw", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)

		const callers = 25
		var wg sync.WaitGroup
		var mu sync.Mutex
		successes := 0
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 70}, "officer")
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				} else if !errors.Is(err, apperrors.ErrInsufficientFunds) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if successes != 14 {
			t.Errorf("expected 14 reservations of 70 to fit in 1000, got %d", successes)
		}
		testutil.AssertBalance(t, env.db, a.ID, 20)
	})
}

// TestReserve_ParallelConnections races reservations on separate SQLite
// connections, so lost conditional updates and busy errors go through the
// runner's retries with production settings.
func TestReserve_ParallelConnections(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupFileTestDB(t, 8)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	runner := database.NewTxRunner(db, database.DefaultTxOptions())
	obligations := NewObligationService(runner)
	ledger := NewLedgerService(runner)

	const rounds = 10
	const callers = 4
	for round := 0; round < rounds; round++ {
		a := testutil.CreateTestAllotment(t, db, testutil.TestTenant, 2025, 1000)

		errs := make([]error, callers)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = obligations.Reserve(ctx, testutil.TestTenant, a.ID, ReserveRequest{Payee: "Supplier", Amount: 300}, "officer")
			}(i)
		}
		close(start)
		wg.Wait()

		successes, insufficient := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("round %d: unexpected error: %v", round, err)
			}
		}
		if successes != 3 || insufficient != 1 {
			t.Errorf("round %d: expected 3 successes and 1 insufficient funds, got %d and %d", round, successes, insufficient)
		}
		testutil.AssertBalance(t, db, a.ID, 100)

		check, err := ledger.VerifyAllotment(ctx, testutil.TestTenant, a.ID)
		testutil.AssertNoError(t, err)
		if !check.Consistent || check.Reserved != 900 {
			t.Errorf("round %d: expected consistent allotment with 900 reserved, got %+v", round, check)
		}
	}
}

func TestObligationLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("certify_then_disburse_by_check", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
		ob := testutil.CreateTestObligation(t, env.db, a, 400, models.ObligationStatusPending)

		certified, err := env.obligations.Certify(ctx, testutil.TestTenant, ob.ID, "accountant", "funds available")
		testutil.AssertNoError(t, err)
		if certified.Status != models.ObligationStatusCertified || certified.CertifiedBy != "accountant" || certified.CertifiedAt == nil {
			t.Errorf("unexpected certified obligation %+v", certified)
		}

		disbursed, err := env.obligations.Disburse(ctx, testutil.TestTenant, ob.ID, DisbursementCheck, "treasurer", "check no. 1001")
		testutil.AssertNoError(t, err)
		if disbursed.Status != models.ObligationStatusDisbursed || disbursed.DisbursedBy != "treasurer" {
			t.Errorf("unexpected disbursed obligation %+v", disbursed)
		}

		types := []models.TransactionLogType{}
		for _, entry := range disbursed.Transactions {
			types = append(types, entry.Type)
		}
		want := []models.TransactionLogType{models.TransactionObligationCreated, models.TransactionObligationCertified, models.TransactionCheckReleased}
		if len(types) != len(want) {
			t.Fatalf("expected log %v, got %v", want, types)
		}
		for i := range want {
			if types[i] != want[i] {
				t.Errorf("log entry %d: expected %s, got %s", i, want[i], types[i])
			}
		}
		testutil.AssertBalance(t, env.db, a.ID, 600)
	})

	t.Run("disburse_by_cash", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
		ob := testutil.CreateTestObligation(t, env.db, a, 400, models.ObligationStatusCertified)

		disbursed, err := env.obligations.Disburse(ctx, testutil.TestTenant, ob.ID, DisbursementCash, "treasurer", "")
		testutil.AssertNoError(t, err)
		last := disbursed.Transactions[len(disbursed.Transactions)-1]
		if last.Type != models.TransactionCashReleased {
			t.Errorf("expected CashReleased, got %s", last.Type)
		}
	})

	t.Run("cancel_returns_funds", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
		ob := testutil.CreateTestObligation(t, env.db, a, 400, models.ObligationStatusPending)
		testutil.AssertBalance(t, env.db, a.ID, 600)

		cancelled, err := env.obligations.Cancel(ctx, testutil.TestTenant, ob.ID, "budget-officer", "wrong payee")
		testutil.AssertNoError(t, err)

		if cancelled.Status != models.ObligationStatusCancelled || cancelled.CancelledBy != "budget-officer" {
			t.Errorf("unexpected cancelled obligation %+v", cancelled)
		}
		last := cancelled.Transactions[len(cancelled.Transactions)-1]
		if last.Type != models.TransactionObligationCancelled || last.Amount != 400 || last.Note != "wrong payee" {
			t.Errorf("unexpected cancellation entry %+v", last)
		}
		testutil.AssertBalance(t, env.db, a.ID, 1000)
	})

	t.Run("invalid_transitions", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 10_000)

		pending := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusPending)
		certified := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusCertified)
		disbursed := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusDisbursed)
		cancelled := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusCancelled)

		attempts := map[string]func() error{
			"disburse_pending": func() error {
				_, err := env.obligations.Disburse(ctx, testutil.TestTenant, pending.ID, DisbursementCheck, "treasurer", "")
				return err
			},
			"cancel_certified": func() error {
				_, err := env.obligations.Cancel(ctx, testutil.TestTenant, certified.ID, "officer", "")
				return err
			},
			"certify_certified": func() error {
				_, err := env.obligations.Certify(ctx, testutil.TestTenant, certified.ID, "accountant", "")
				return err
			},
			"cancel_disbursed": func() error {
				_, err := env.obligations.Cancel(ctx, testutil.TestTenant, disbursed.ID, "officer", "")
				return err
			},
			"certify_cancelled": func() error {
				_, err := env.obligations.Certify(ctx, testutil.TestTenant, cancelled.ID, "accountant", "")
				return err
			},
			"cancel_cancelled": func() error {
				_, err := env.obligations.Cancel(ctx, testutil.TestTenant, cancelled.ID, "officer", "")
				return err
			},
		}
		for name, attempt := range attempts {
			t.Run(name, func(t *testing.T) {
				testutil.AssertAppError(t, attempt(), "INVALID_STATE_TRANSITION")
			})
		}
		testutil.AssertBalance(t, env.db, a.ID, 10_000-300)
	})

	t.Run("unknown_disbursement_method", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
		ob := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusCertified)

		_, err := env.obligations.Disburse(ctx, testutil.TestTenant, ob.ID, "wire", "treasurer", "")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("closed_fiscal_year", func(t *testing.T) {
		env := setupEnv(t)
		a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2024, 1000)
		ob := testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusPending)
		testutil.CreateTestFiscalYear(t, env.db, testutil.TestTenant, 2024, models.FiscalYearClosed)

		_, err := env.obligations.Cancel(ctx, testutil.TestTenant, ob.ID, "officer", "")
		testutil.AssertAppError(t, err, "FISCAL_YEAR_CLOSED")
		testutil.AssertBalance(t, env.db, a.ID, 900)
	})

	t.Run("not_found", func(t *testing.T) {
		env := setupEnv(t)

		_, err := env.obligations.Certify(ctx, testutil.TestTenant, "0192a0b4-0000-7000-8000-000000000000", "accountant", "")
		testutil.AssertAppError(t, err, "OBLIGATION_NOT_FOUND")
	})
}

func TestListObligations(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t)
	a := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
	other := testutil.CreateTestAllotment(t, env.db, testutil.TestTenant, 2025, 1000)
	testutil.CreateTestObligation(t, env.db, a, 100, models.ObligationStatusPending)
	testutil.CreateTestObligation(t, env.db, a, 200, models.ObligationStatusCertified)
	testutil.CreateTestObligation(t, env.db, other, 300, models.ObligationStatusPending)

	t.Run("by_allotment", func(t *testing.T) {
		page, err := env.obligations.ListObligations(ctx, testutil.TestTenant, a.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 obligations, got %d", page.TotalItems)
		}
	})

	t.Run("unknown_allotment", func(t *testing.T) {
		_, err := env.obligations.ListObligations(ctx, testutil.TestTenant, "0192a0b4-0000-7000-8000-000000000000", pagination.PageRequest{})
		testutil.AssertAppError(t, err, "ALLOTMENT_NOT_FOUND")
	})
}
