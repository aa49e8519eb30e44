// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"kaban/internal/models"
)

// accountCodeRegex matches a chart-of-accounts code such as 5-02-03-010.
var accountCodeRegex = regexp.MustCompile(`^[1-9](-[0-9]{2}){2,3}(-[0-9]{3})?$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("expense_class", validateExpenseClass)
		_ = v.RegisterValidation("proposal_type", validateProposalType)
		_ = v.RegisterValidation("proposal_status", validateProposalStatus)
		_ = v.RegisterValidation("disbursement_method", validateDisbursementMethod)
		_ = v.RegisterValidation("statutory_tag", validateStatutoryTag)
		_ = v.RegisterValidation("account_code", validateAccountCode)
	}
}

func validateExpenseClass(fl validator.FieldLevel) bool {
	return models.ExpenseClass(fl.Field().String()).Valid()
}

func validateProposalType(fl validator.FieldLevel) bool {
	switch models.ProposalType(fl.Field().String()) {
	case models.ProposalTypeAnnual, models.ProposalTypeSupplemental:
		return true
	}
	return false
}

// validateProposalStatus accepts only the statuses a save may request.
// Approval and rejection have their own endpoints.
func validateProposalStatus(fl validator.FieldLevel) bool {
	switch models.ProposalStatus(fl.Field().String()) {
	case models.ProposalStatusDraft, models.ProposalStatusPendingApproval:
		return true
	}
	return false
}

func validateDisbursementMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "check", "cash":
		return true
	}
	return false
}

func validateStatutoryTag(fl validator.FieldLevel) bool {
	switch models.StatutoryTag(fl.Field().String()) {
	case models.StatutoryTagNone, models.StatutoryTagDevelopmentFund, models.StatutoryTagLDRRMF, models.StatutoryTagSKFund:
		return true
	}
	return false
}

func validateAccountCode(fl validator.FieldLevel) bool {
	return accountCodeRegex.MatchString(fl.Field().String())
}
