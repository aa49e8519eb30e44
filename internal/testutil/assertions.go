package testutil

import (
	"errors"
	"testing"

	apperrors "kaban/internal/errors"
	"kaban/internal/models"

	"gorm.io/gorm"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertBalance reloads an allotment and checks its running balance.
func AssertBalance(t *testing.T, db *gorm.DB, allotmentID string, want int64) {
	t.Helper()

	var allotment models.Allotment
	if err := db.First(&allotment, "id = ?", allotmentID).Error; err != nil {
		t.Fatalf("failed to reload allotment %s: %v", allotmentID, err)
	}
	if allotment.CurrentBalance != want {
		t.Errorf("expected allotment balance %d, got %d", want, allotment.CurrentBalance)
	}
}
