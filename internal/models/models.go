package models

// All returns every persisted model, in dependency order, for schema migration.
func All() []any {
	return []any{
		&FiscalYear{},
		&BudgetProposal{},
		&IncomeSource{},
		&ExpenseAllocation{},
		&ProposalLog{},
		&Appropriation{},
		&Allotment{},
		&Obligation{},
		&TransactionLog{},
		&AuditLog{},
	}
}
