package submission

import (
	"bytes"
	"context"
	"fmt"

	"fieldops-backend/internal/domain/access"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Submissions"

var (
	exportHeaders = []string{
		"ID", "Created At", "Supervisor", "Order Number", "Line Item", "UOM",
		"Quantity", "Actual Manpower", "Material Consumed", "Standard Manpower",
		"Status", "Remarks", "Admin Remarks", "Evidence Photos",
	}
	financialHeaders = []string{"Rate", "Revenue"}
)

// Export renders List(scope, status) as an xlsx workbook. Rate and revenue
// columns, plus the revenue total, only appear for roles that see financials.
func (u *Usecase) Export(ctx context.Context, scope access.Scope, status string) (*bytes.Buffer, error) {
	rows, err := u.List(ctx, scope, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headers := exportHeaders
	if scope.SeesFinancials() {
		headers = append(append([]string{}, exportHeaders...), financialHeaders...)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(exportSheet, cell, cell, bold)
	}

	for i, v := range rows {
		values := []any{
			v.ID, v.CreatedAt.UTC().Format("2006-01-02 15:04:05"), v.SupervisorName, v.OrderNumber,
			v.LineItemName, v.UOM, v.Quantity.String(), v.ActualManpower, v.MaterialConsumed,
			v.StandardManpower, v.Status, v.Remarks, v.AdminRemarks, len(v.EvidencePhotos),
		}
		if scope.SeesFinancials() && v.Rate != nil && v.Revenue != nil {
			values = append(values, v.Rate.String(), v.Revenue.String())
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if scope.SeesFinancials() {
		total := totalRevenue(rows)
		sumRow := len(rows) + 2
		label, _ := excelize.CoordinatesToCellName(1, sumRow)
		amount, _ := excelize.CoordinatesToCellName(len(headers), sumRow)
		_ = f.SetCellValue(exportSheet, label, "Total")
		_ = f.SetCellValue(exportSheet, amount, total)
		_ = f.SetCellStyle(exportSheet, label, amount, bold)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func totalRevenue(rows []View) string {
	sum := decimal.Zero
	for _, v := range rows {
		if v.Revenue != nil {
			sum = sum.Add(*v.Revenue)
		}
	}
	return sum.String()
}
