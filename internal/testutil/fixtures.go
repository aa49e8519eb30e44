package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"kaban/internal/models"
	"kaban/internal/uuid"

	"gorm.io/gorm"
)

// TestTenant is the tenant used by fixtures unless a test needs a second one.
const TestTenant = "lgu-test"

// Peso is one peso in centavos.
const Peso int64 = 100

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestFiscalYear registers a fiscal year in the given status.
func CreateTestFiscalYear(t *testing.T, db *gorm.DB, tenantID string, year int, status models.FiscalYearStatus) *models.FiscalYear {
	t.Helper()

	fy := &models.FiscalYear{
		TenantID:  tenantID,
		Year:      year,
		Status:    status,
		StartDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if status == models.FiscalYearClosed {
		closedAt := fy.EndDate
		fy.ClosedAt = &closedAt
		fy.ClosedBy = "treasurer"
	}
	if err := db.Create(fy).Error; err != nil {
		t.Fatalf("failed to create test fiscal year: %v", err)
	}
	return fy
}

// CompliantIncome returns income lines totalling ₱1,000,000, of which
// ₱800,000 is the national tax share.
func CompliantIncome() []models.IncomeSource {
	return []models.IncomeSource{
		{Code: "IRA", Name: "Internal Revenue Allotment", Amount: 800_000 * Peso},
		{Code: "RPT", Name: "Real Property Tax", Amount: 200_000 * Peso},
	}
}

// CompliantExpenses returns expense lines that satisfy every statutory
// minimum for CompliantIncome and total ₱710,000.
func CompliantExpenses() []models.ExpenseAllocation {
	return []models.ExpenseAllocation{
		{Class: models.ExpenseClassPersonalServices, Name: "Salaries and Wages", AccountCode: "5-01-01-010", Amount: 400_000 * Peso, FundingCode: "RPT"},
		{Class: models.ExpenseClassCapitalOutlay, Name: "20% Development Fund", AccountCode: "5-01-04-990", Amount: 160_000 * Peso, FundingCode: "IRA"},
		{Class: models.ExpenseClassMOOE, Name: "LDRRMF Calamity Fund", AccountCode: "5-02-99-990", Amount: 50_000 * Peso},
		{Class: models.ExpenseClassMOOE, Name: "SK Fund", AccountCode: "5-02-99-991", Amount: 100_000 * Peso},
	}
}

// CreateTestProposal stores a draft proposal with the compliant line set.
func CreateTestProposal(t *testing.T, db *gorm.DB, tenantID string, year int) *models.BudgetProposal {
	t.Helper()
	return CreateTestProposalWithLines(t, db, tenantID, year, CompliantIncome(), CompliantExpenses())
}

// CreateTestProposalWithLines stores a draft proposal with the given lines.
func CreateTestProposalWithLines(t *testing.T, db *gorm.DB, tenantID string, year int, income []models.IncomeSource, expense []models.ExpenseAllocation) *models.BudgetProposal {
	t.Helper()

	p := &models.BudgetProposal{
		TenantID:   tenantID,
		FiscalYear: year,
		Title:      fmt.Sprintf("Annual Budget %d-%d", year, nextID()),
		Type:       models.ProposalTypeAnnual,
		Status:     models.ProposalStatusDraft,
		Version:    1,
	}
	p.IncomeSources = income
	p.ExpenseAllocations = expense
	if err := p.RecomputeTotals(); err != nil {
		t.Fatalf("failed to total test proposal: %v", err)
	}

	if err := db.Omit("IncomeSources", "ExpenseAllocations", "Logs").Create(p).Error; err != nil {
		t.Fatalf("failed to create test proposal: %v", err)
	}
	for i := range p.IncomeSources {
		p.IncomeSources[i].ProposalID = p.ID
		p.IncomeSources[i].Position = i
		if err := db.Create(&p.IncomeSources[i]).Error; err != nil {
			t.Fatalf("failed to create test income source: %v", err)
		}
	}
	for i := range p.ExpenseAllocations {
		p.ExpenseAllocations[i].ProposalID = p.ID
		p.ExpenseAllocations[i].Position = i
		if err := db.Create(&p.ExpenseAllocations[i]).Error; err != nil {
			t.Fatalf("failed to create test expense allocation: %v", err)
		}
	}
	return p
}

// CreateTestAllotment creates an allotment with a full balance.
func CreateTestAllotment(t *testing.T, db *gorm.DB, tenantID string, year int, total int64) *models.Allotment {
	t.Helper()

	allotment := &models.Allotment{
		TenantID:       tenantID,
		ProposalID:     uuid.New(),
		FiscalYear:     year,
		ExpenseClass:   models.ExpenseClassMOOE,
		Description:    fmt.Sprintf("Test Allotment %d", nextID()),
		AccountCode:    "5-02-03-010",
		TotalAmount:    total,
		CurrentBalance: total,
		LastUpdated:    time.Now().UTC(),
	}
	if err := db.Create(allotment).Error; err != nil {
		t.Fatalf("failed to create test allotment: %v", err)
	}
	return allotment
}

// CreateTestObligation reserves amount against allotment directly in the
// store, keeping the running balance consistent, and records the creation
// entry. The obligation is left in the given status.
func CreateTestObligation(t *testing.T, db *gorm.DB, allotment *models.Allotment, amount int64, status models.ObligationStatus) *models.Obligation {
	t.Helper()

	ts := time.Now().UTC()
	ob := &models.Obligation{
		TenantID:      allotment.TenantID,
		AllotmentID:   allotment.ID,
		ReferenceCode: fmt.Sprintf("OBR-%d-T%07d", allotment.FiscalYear, nextID()),
		Payee:         "Test Supplier",
		Purpose:       "Office supplies",
		Amount:        amount,
		Status:        status,
		CreatedBy:     "budget-officer",
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if status != models.ObligationStatusCancelled {
			res := tx.Model(&models.Allotment{}).
				Where("id = ?", allotment.ID).
				Update("current_balance", gorm.Expr("current_balance - ?", amount))
			if res.Error != nil {
				return res.Error
			}
		}
		if err := tx.Create(ob).Error; err != nil {
			return err
		}
		return tx.Create(&models.TransactionLog{
			ID:           uuid.New(),
			TenantID:     ob.TenantID,
			ObligationID: ob.ID,
			AllotmentID:  ob.AllotmentID,
			Type:         models.TransactionObligationCreated,
			Amount:       amount,
			Actor:        ob.CreatedBy,
			Timestamp:    ts,
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create test obligation: %v", err)
	}
	if status != models.ObligationStatusCancelled {
		allotment.CurrentBalance -= amount
	}
	return ob
}
