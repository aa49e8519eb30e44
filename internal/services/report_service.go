package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
	"kaban/internal/models"
	"kaban/internal/money"
)

// Registry sheet names.
const (
	SheetAppropriations = "Appropriations"
	SheetAllotments     = "Allotments"
	SheetObligations    = "Obligations"
)

// numFmtAmount is the built-in "#,##0.00" number format.
const numFmtAmount = 4

// reportService renders registries of the ledger for a fiscal year.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

type registrySheet struct {
	name    string
	headers []string
	widths  []float64
	rows    [][]any
	// amountCols are zero-based indexes of the peso columns.
	amountCols []int
}

// ExportRegistry writes an XLSX workbook with the appropriations, allotments
// and obligations of one fiscal year. Amounts are written in pesos.
func (s *reportService) ExportRegistry(ctx context.Context, tenantID string, fiscalYear int, w io.Writer) error {
	db := s.db.WithContext(ctx)

	var appropriations []models.Appropriation
	if err := db.Where("tenant_id = ? AND fiscal_year = ?", tenantID, fiscalYear).Order("created_at, id").Find(&appropriations).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var allotments []models.Allotment
	if err := db.Where("tenant_id = ? AND fiscal_year = ?", tenantID, fiscalYear).Order("created_at, id").Find(&allotments).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var obligations []models.Obligation
	err := db.Joins("JOIN allotments ON allotments.id = obligations.allotment_id").
		Where("obligations.tenant_id = ? AND allotments.fiscal_year = ?", tenantID, fiscalYear).
		Order("obligations.created_at, obligations.id").
		Find(&obligations).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sheets := []registrySheet{
		appropriationSheet(appropriations),
		allotmentSheet(allotments),
		obligationSheet(obligations),
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Get().Warnw("failed to close registry workbook", "error", err)
		}
	}()

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := writeSheet(f, sheet, headerStyle, amountStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("registry exported",
		"tenant_id", tenantID,
		"fiscal_year", fiscalYear,
		"appropriations", len(appropriations),
		"allotments", len(allotments),
		"obligations", len(obligations),
	)
	return nil
}

func writeSheet(f *excelize.File, sheet registrySheet, headerStyle, amountStyle int) error {
	header := make([]any, len(sheet.headers))
	for i, h := range sheet.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(sheet.headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.name, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, row := range sheet.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
			return err
		}
	}

	for _, col := range sheet.amountCols {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if len(sheet.rows) > 0 {
			if err := f.SetCellStyle(sheet.name, name+"2", fmt.Sprintf("%s%d", name, len(sheet.rows)+1), amountStyle); err != nil {
				return err
			}
		}
	}

	for i, width := range sheet.widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.name, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func pesos(centavos int64) float64 {
	return money.ToPesos(centavos).InexactFloat64()
}

func appropriationSheet(rows []models.Appropriation) registrySheet {
	sheet := registrySheet{
		name:       SheetAppropriations,
		headers:    []string{"ID", "Source Code", "Source", "Amount", "Status", "Proposal ID"},
		widths:     []float64{38, 12, 36, 18, 12, 38},
		amountCols: []int{3},
	}
	for _, a := range rows {
		sheet.rows = append(sheet.rows, []any{a.ID, a.SourceCode, a.SourceName, pesos(a.TotalAmount), string(a.Status), a.ProposalID})
	}
	return sheet
}

func allotmentSheet(rows []models.Allotment) registrySheet {
	sheet := registrySheet{
		name:       SheetAllotments,
		headers:    []string{"ID", "Class", "Class Name", "Description", "Account Code", "Total", "Obligated", "Balance", "Appropriation ID"},
		widths:     []float64{38, 10, 40, 36, 14, 18, 18, 18, 38},
		amountCols: []int{5, 6, 7},
	}
	for _, a := range rows {
		appropriationID := ""
		if a.AppropriationID != nil {
			appropriationID = *a.AppropriationID
		}
		sheet.rows = append(sheet.rows, []any{
			a.ID, string(a.ExpenseClass), a.ExpenseClass.Label(), a.Description, a.AccountCode,
			pesos(a.TotalAmount), pesos(a.Obligated()), pesos(a.CurrentBalance), appropriationID,
		})
	}
	return sheet
}

func obligationSheet(rows []models.Obligation) registrySheet {
	sheet := registrySheet{
		name:       SheetObligations,
		headers:    []string{"Reference", "Payee", "Purpose", "Amount", "Status", "Created By", "Created At", "Allotment ID"},
		widths:     []float64{20, 28, 36, 18, 12, 18, 20, 38},
		amountCols: []int{3},
	}
	for _, o := range rows {
		sheet.rows = append(sheet.rows, []any{
			o.ReferenceCode, o.Payee, o.Purpose, pesos(o.Amount), string(o.Status),
			o.CreatedBy, o.CreatedAt.Format("2006-01-02 15:04"), o.AllotmentID,
		})
	}
	return sheet
}
