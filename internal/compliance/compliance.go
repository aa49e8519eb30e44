// Package compliance evaluates a draft budget against the statutory
// allocation rules for local government budgets.
//
// Validate is a pure function: it reads only the proposal passed in and
// never touches storage. A deficit is a hard error that blocks approval; the
// statutory minimums (20% development fund, 5% LDRRMF, 10% SK fund) only
// produce advisory warnings.
//
// Lines are classified by case-insensitive substring matching on their free
// text names, unless an expense line carries an explicit statutory tag. The
// name heuristic is fragile by nature: a line worded differently is missed
// and a line matching two rules counts toward both.
package compliance

import (
	"fmt"
	"strings"

	"kaban/internal/models"
	"kaban/internal/money"
)

// Rule identifies the statutory check that produced a finding.
type Rule string

const (
	RuleDeficit         Rule = "deficit"
	RuleDevelopmentFund Rule = "development_fund"
	RuleLDRRMF          Rule = "ldrrmf"
	RuleSKFund          Rule = "sk_fund"
)

// Statutory minimum shares, in percent.
const (
	DevelopmentFundPercent = 20
	LDRRMFPercent          = 5
	SKFundPercent          = 10
)

// Finding is a single error or warning. Allocated and Target are in centavos;
// for a deficit Allocated is total expense and Target is total income.
type Finding struct {
	Rule      Rule   `json:"rule"`
	Message   string `json:"message"`
	Allocated int64  `json:"allocated"`
	Target    int64  `json:"target"`
}

// Result is the outcome of validating a proposal.
type Result struct {
	IsValid  bool      `json:"is_valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

var (
	nationalShareNames = []string{"internal revenue", "national tax"}
	nationalShareCodes = []string{"IRA", "NTA"}
	developmentNames   = []string{"development fund", "20%"}
	calamityNames      = []string{"calamity", "ldrrmf"}
	skFundNames        = []string{"sangguniang kabataan", "sk fund"}
)

// Validate evaluates p against the statutory rules. Totals are taken from the
// proposal, which the proposal store always recomputes from its lines.
func Validate(p *models.BudgetProposal) Result {
	res := Result{Errors: []Finding{}, Warnings: []Finding{}}

	if p.TotalExpense > p.TotalIncome {
		res.Errors = append(res.Errors, Finding{
			Rule:      RuleDeficit,
			Message:   fmt.Sprintf("Budget Deficit: Total expense exceeds total income by %s", money.Format(p.TotalExpense-p.TotalIncome)),
			Allocated: p.TotalExpense,
			Target:    p.TotalIncome,
		})
	}

	devAllocated := sumExpenses(p.ExpenseAllocations, models.StatutoryTagDevelopmentFund, developmentNames)
	for _, src := range p.IncomeSources {
		if !isNationalShare(src) {
			continue
		}
		target := money.Percent(src.Amount, DevelopmentFundPercent)
		if devAllocated < target {
			res.Warnings = append(res.Warnings, shortfall(RuleDevelopmentFund, "20% Development Fund", devAllocated, target))
		}
	}

	calamity := sumExpenses(p.ExpenseAllocations, models.StatutoryTagLDRRMF, calamityNames)
	if target := money.Percent(p.TotalIncome, LDRRMFPercent); calamity < target {
		res.Warnings = append(res.Warnings, shortfall(RuleLDRRMF, "5% LDRRMF", calamity, target))
	}

	sk := sumExpenses(p.ExpenseAllocations, models.StatutoryTagSKFund, skFundNames)
	if target := money.Percent(p.TotalIncome, SKFundPercent); sk < target {
		res.Warnings = append(res.Warnings, shortfall(RuleSKFund, "10% SK Fund", sk, target))
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// Summary joins the error messages of r, for use in a single error response.
func (r Result) Summary() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, f := range r.Errors {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func shortfall(rule Rule, label string, allocated, target int64) Finding {
	return Finding{
		Rule:      rule,
		Message:   fmt.Sprintf("%s Compliance: Allocated %s, Target %s", label, money.Format(allocated), money.Format(target)),
		Allocated: allocated,
		Target:    target,
	}
}

func isNationalShare(src models.IncomeSource) bool {
	code := strings.ToUpper(strings.TrimSpace(src.Code))
	for _, c := range nationalShareCodes {
		if code == c {
			return true
		}
	}
	return containsAny(src.Name, nationalShareNames)
}

// sumExpenses totals the lines classified under tag. A tagged line is
// classified by its tag alone; untagged lines fall back to name matching.
func sumExpenses(lines []models.ExpenseAllocation, tag models.StatutoryTag, names []string) int64 {
	var total int64
	for _, line := range lines {
		if line.StatutoryTag != models.StatutoryTagNone {
			if line.StatutoryTag == tag {
				total += line.Amount
			}
			continue
		}
		if containsAny(line.Name, names) {
			total += line.Amount
		}
	}
	return total
}

func containsAny(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
