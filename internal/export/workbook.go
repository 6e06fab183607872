package export

import (
	"fmt"

	"ahmedcenter-backend/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTransactions = "Transactions"
	sheetItemSales    = "Sales Summary by Item"
	sheetProfitLoss   = "Profit Loss Summary"

	currencyFmt = `"₹"#,##0.00`
)

// ExportError wraps a formatting or serialization failure. Export never
// mutates application state and never emits partial output.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return "export: " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// BuildWorkbook renders a summary into a spreadsheet with three tables:
// the flat transaction detail, weekly item sales, and the weekly
// profit/loss view. Week labels are relative to the window start, not
// calendar weeks.
func BuildWorkbook(summary *report.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	numFmt := currencyFmt
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, &ExportError{Err: err}
	}
	lossStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Font:         &excelize.Font{Bold: true, Color: "CC0000"},
	})
	if err != nil {
		return nil, &ExportError{Err: err}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, &ExportError{Err: err}
	}

	if err := writeTransactions(f, summary, currencyStyle, headerStyle); err != nil {
		return nil, err
	}
	if err := writeItemSales(f, summary, currencyStyle, headerStyle); err != nil {
		return nil, err
	}
	if err := writeProfitLoss(f, summary, currencyStyle, lossStyle, headerStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return &ExportError{Err: err}
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, col1, col2, row, style int) error {
	start, err := excelize.CoordinatesToCellName(col1, row)
	if err != nil {
		return &ExportError{Err: err}
	}
	end, err := excelize.CoordinatesToCellName(col2, row)
	if err != nil {
		return &ExportError{Err: err}
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// writeTransactions writes one row per (sale x line item): date, time,
// order number, item, quantity, unit price, line total, payment method and
// the sale total.
func writeTransactions(f *excelize.File, summary *report.Summary, currencyStyle, headerStyle int) error {
	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return &ExportError{Err: err}
	}
	if err := setRow(f, sheetTransactions, 1, []interface{}{
		"Date", "Time", "Order No", "Item", "Qty", "Unit Price", "Line Total", "Payment Method", "Sale Total",
	}); err != nil {
		return err
	}
	if err := styleRange(f, sheetTransactions, 1, 9, 1, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, sale := range summary.RawSales {
		for _, item := range sale.Items {
			if err := setRow(f, sheetTransactions, row, []interface{}{
				sale.Timestamp.Format("2006-01-02"),
				sale.Timestamp.Format("15:04:05"),
				sale.OrderNo,
				item.Name,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.LineTotal().InexactFloat64(),
				string(sale.PaymentMethod),
				sale.Total.InexactFloat64(),
			}); err != nil {
				return err
			}
			if err := styleRange(f, sheetTransactions, 6, 7, row, currencyStyle); err != nil {
				return err
			}
			if err := styleRange(f, sheetTransactions, 9, 9, row, currencyStyle); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheetTransactions, "A", "I", 14); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

func writeItemSales(f *excelize.File, summary *report.Summary, currencyStyle, headerStyle int) error {
	if _, err := f.NewSheet(sheetItemSales); err != nil {
		return &ExportError{Err: err}
	}
	if err := setRow(f, sheetItemSales, 1, []interface{}{"Week", "Item", "Quantity", "Revenue"}); err != nil {
		return err
	}
	if err := styleRange(f, sheetItemSales, 1, 4, 1, headerStyle); err != nil {
		return err
	}

	row := 2
	grandQty := 0
	grandRevenue := 0.0
	for _, key := range summary.WeekKeys() {
		bucket := summary.Weekly[key]
		if bucket.Quantity == 0 && bucket.Revenue.IsZero() {
			continue // wastage-only bucket, belongs to the profit/loss table
		}
		if err := setRow(f, sheetItemSales, row, []interface{}{
			fmt.Sprintf("Week %d", key.Week),
			key.Item,
			bucket.Quantity,
			bucket.Revenue.InexactFloat64(),
		}); err != nil {
			return err
		}
		if err := styleRange(f, sheetItemSales, 4, 4, row, currencyStyle); err != nil {
			return err
		}
		grandQty += bucket.Quantity
		grandRevenue += bucket.Revenue.InexactFloat64()
		row++
	}

	if err := setRow(f, sheetItemSales, row, []interface{}{"GRAND TOTAL", "", grandQty, grandRevenue}); err != nil {
		return err
	}
	if err := styleRange(f, sheetItemSales, 1, 3, row, headerStyle); err != nil {
		return err
	}
	if err := styleRange(f, sheetItemSales, 4, 4, row, currencyStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetItemSales, "A", "D", 18); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// writeProfitLoss writes revenue vs wastage per item per week. Net is
// wastage minus revenue; a positive net is a loss and gets the loss style.
func writeProfitLoss(f *excelize.File, summary *report.Summary, currencyStyle, lossStyle, headerStyle int) error {
	if _, err := f.NewSheet(sheetProfitLoss); err != nil {
		return &ExportError{Err: err}
	}
	if err := setRow(f, sheetProfitLoss, 1, []interface{}{"Week", "Item", "Revenue", "Wastage Cost", "Net"}); err != nil {
		return err
	}
	if err := styleRange(f, sheetProfitLoss, 1, 5, 1, headerStyle); err != nil {
		return err
	}

	row := 2
	grandRevenue := 0.0
	grandWaste := 0.0
	for _, key := range summary.WeekKeys() {
		bucket := summary.Weekly[key]
		net := bucket.Net()
		if err := setRow(f, sheetProfitLoss, row, []interface{}{
			fmt.Sprintf("Week %d", key.Week),
			key.Item,
			bucket.Revenue.InexactFloat64(),
			bucket.WasteCost.InexactFloat64(),
			net.InexactFloat64(),
		}); err != nil {
			return err
		}
		if err := styleRange(f, sheetProfitLoss, 3, 4, row, currencyStyle); err != nil {
			return err
		}
		netStyle := currencyStyle
		if net.IsPositive() {
			netStyle = lossStyle
		}
		if err := styleRange(f, sheetProfitLoss, 5, 5, row, netStyle); err != nil {
			return err
		}
		grandRevenue += bucket.Revenue.InexactFloat64()
		grandWaste += bucket.WasteCost.InexactFloat64()
		row++
	}

	if err := setRow(f, sheetProfitLoss, row, []interface{}{
		"GRAND TOTAL", "", grandRevenue, grandWaste, grandWaste - grandRevenue,
	}); err != nil {
		return err
	}
	if err := styleRange(f, sheetProfitLoss, 1, 2, row, headerStyle); err != nil {
		return err
	}
	if err := styleRange(f, sheetProfitLoss, 3, 5, row, currencyStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetProfitLoss, "A", "E", 18); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}
