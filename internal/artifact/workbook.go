package artifact

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

const claimSheet = "Claim"

// renderWorkbook builds the claim summary workbook: a header section with
// the case record, the CDT-to-CPT mapping, and the reimbursement forecast.
func renderWorkbook(c *entity.Case, state *entity.CaseState, logger *zap.Logger) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(claimSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	setCell := func(cell string, value interface{}) {
		if err := f.SetCellValue(claimSheet, cell, value); err != nil {
			logger.Warn("Failed to set cell value",
				zap.String("sheet", claimSheet),
				zap.String("cell", cell),
				zap.Error(err))
		}
	}

	setCell("A1", "Reimbursement Claim Summary")
	row := 3
	if c != nil {
		for _, pair := range [][2]string{
			{"Case ID", c.CaseID},
			{"Title", c.Title},
			{"Patient", c.PatientName},
			{"Payer", c.Payer},
			{"Status", c.Status},
			{"Risk Level", c.RiskLevel},
		} {
			setCell(fmt.Sprintf("A%d", row), pair[0])
			setCell(fmt.Sprintf("B%d", row), pair[1])
			row++
		}
		if c.ReimbursementAmount != nil {
			setCell(fmt.Sprintf("A%d", row), "Projected Amount")
			setCell(fmt.Sprintf("B%d", row), *c.ReimbursementAmount)
			row++
		}
		if c.ReimbursementDate != "" {
			setCell(fmt.Sprintf("A%d", row), "Projected Payment")
			setCell(fmt.Sprintf("B%d", row), c.ReimbursementDate)
			row++
		}
	}

	if state != nil && state.Context.Conversion != nil {
		row++
		setCell(fmt.Sprintf("A%d", row), "CDT Code")
		setCell(fmt.Sprintf("B%d", row), "CPT Code")
		setCell(fmt.Sprintf("C%d", row), "Modifiers")
		row++

		cdtCodes := make([]string, 0, len(state.Context.Conversion.CDTToCPT))
		for code := range state.Context.Conversion.CDTToCPT {
			cdtCodes = append(cdtCodes, code)
		}
		sort.Strings(cdtCodes)
		for _, code := range cdtCodes {
			mapping := state.Context.Conversion.CDTToCPT[code]
			setCell(fmt.Sprintf("A%d", row), code)
			setCell(fmt.Sprintf("B%d", row), mapping.CPT)
			modifiers := ""
			for i, m := range mapping.Modifiers {
				if i > 0 {
					modifiers += ", "
				}
				modifiers += m
			}
			setCell(fmt.Sprintf("C%d", row), modifiers)
			row++
		}
	}

	if state != nil && state.Context.Reimbursement != nil {
		forecast := state.Context.Reimbursement
		row++
		setCell(fmt.Sprintf("A%d", row), "Forecast Amount")
		setCell(fmt.Sprintf("B%d", row), forecast.Amount)
		row++
		setCell(fmt.Sprintf("A%d", row), "Payment Window")
		setCell(fmt.Sprintf("B%d", row), forecast.Timeline)
		row++
		setCell(fmt.Sprintf("A%d", row), "Risk")
		setCell(fmt.Sprintf("B%d", row), forecast.Risk)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
