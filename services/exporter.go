package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/koreasuan/rainmaker-api/models"
)

// ExportReport writes one dataset's canonical records into an XLSX workbook
// for offline circulation. Display-mode values are used throughout: a row the
// sheet holds garbage amounts for exports that garbage verbatim, same as the
// screen shows it.
func ExportReport(dataset string, records []models.CanonicalRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := datasetName(dataset)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"날짜", "내용", "발주처", "금액", "등급", "지역", "결재상태", "피드백", "담당자"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, rec := range records {
		values := []any{
			rec.Date,
			rec.Title,
			rec.Counterparty,
			amountCell(rec),
			rec.RawRating,
			rec.Region,
			StatusSheetLabel(rec.Status),
			rec.Feedback,
			rec.Assignee,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	f.SetDocProps(&excelize.DocProperties{
		Title:   sheet,
		Creator: "rainmaker-api",
		Created: time.Now().Format(time.RFC3339),
	})
	return f, nil
}

func amountCell(rec models.CanonicalRecord) any {
	if rec.Amount != nil {
		return *rec.Amount
	}
	return rec.AmountLabel
}
