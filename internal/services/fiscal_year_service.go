package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"kaban/internal/database"
	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
	"kaban/internal/models"
)

// fiscalYearService handles the fiscal year calendar of each tenant.
type fiscalYearService struct {
	runner *database.TxRunner
}

// NewFiscalYearService creates a new FiscalYearServicer.
func NewFiscalYearService(runner *database.TxRunner) FiscalYearServicer {
	return &fiscalYearService{runner: runner}
}

// CreateFiscalYear registers a year in the preparing state. Zero dates
// default to January 1 and December 31 of the year.
func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, tenantID string, year int, startDate, endDate time.Time) (*models.FiscalYear, error) {
	if year < 1900 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "year must be a four-digit year")
	}
	if startDate.IsZero() {
		startDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if endDate.IsZero() {
		endDate = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	if !endDate.After(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "end_date must be after start_date")
	}

	fy := &models.FiscalYear{
		TenantID:  tenantID,
		Year:      year,
		Status:    models.FiscalYearPreparing,
		StartDate: startDate,
		EndDate:   endDate,
	}
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FiscalYear{}).Where("tenant_id = ? AND year = ?", tenantID, year).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.WithMessage(apperrors.ErrFiscalYearExists, fmt.Sprintf("Fiscal year %d already exists", year))
		}
		if err := tx.Create(fy).Error; err != nil {
			if isUniqueViolation(err) {
				return apperrors.WithMessage(apperrors.ErrFiscalYearExists, fmt.Sprintf("Fiscal year %d already exists", year))
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("fiscal year created", "tenant_id", tenantID, "year", year)
	return fy, nil
}

// GetFiscalYear returns the fiscal year record for year.
func (s *fiscalYearService) GetFiscalYear(ctx context.Context, tenantID string, year int) (*models.FiscalYear, error) {
	var fy models.FiscalYear
	err := s.runner.DB().WithContext(ctx).Where("tenant_id = ? AND year = ?", tenantID, year).First(&fy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFiscalYearNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &fy, nil
}

// ListFiscalYears returns every fiscal year of the tenant, latest first.
func (s *fiscalYearService) ListFiscalYears(ctx context.Context, tenantID string) ([]models.FiscalYear, error) {
	years := []models.FiscalYear{}
	if err := s.runner.DB().WithContext(ctx).Where("tenant_id = ?", tenantID).Order("year DESC").Find(&years).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return years, nil
}

// ActivateFiscalYear moves a preparing year to active.
func (s *fiscalYearService) ActivateFiscalYear(ctx context.Context, tenantID string, year int) (*models.FiscalYear, error) {
	return s.move(ctx, tenantID, year, models.FiscalYearPreparing, models.FiscalYearActive, map[string]any{})
}

// CloseFiscalYear moves an active year to closed. A closed year accepts no
// further approvals, reservations or obligation changes.
func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, tenantID string, year int, actor string) (*models.FiscalYear, error) {
	return s.move(ctx, tenantID, year, models.FiscalYearActive, models.FiscalYearClosed, map[string]any{
		"closed_by": actor,
		"closed_at": now(),
	})
}

func (s *fiscalYearService) move(ctx context.Context, tenantID string, year int, from, to models.FiscalYearStatus, updates map[string]any) (*models.FiscalYear, error) {
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		var fy models.FiscalYear
		err := forUpdate(tx).Where("tenant_id = ? AND year = ?", tenantID, year).First(&fy).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFiscalYearNotFound
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if fy.Status != from {
			return apperrors.WithMessage(apperrors.ErrInvalidFiscalYearTransition,
				fmt.Sprintf("Fiscal year %d is %s and cannot become %s", year, fy.Status, to))
		}

		updates["status"] = to
		res := tx.Model(&models.FiscalYear{}).Where("id = ? AND status = ?", fy.ID, from).Updates(updates)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("fiscal year status changed", "tenant_id", tenantID, "year", year, "status", to)
	return s.GetFiscalYear(ctx, tenantID, year)
}

// isUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
