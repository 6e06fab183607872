package export

import (
	"strconv"
	"strings"
	"time"

	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/report"
)

// filePrefix turns the org name into a filename-safe prefix:
// "Ahmed's Center" -> "Ahmeds_Center".
func filePrefix(org string) string {
	var b strings.Builder
	for _, r := range org {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ReportFileName follows the fixed convention
// <Org>_Report_<periodKind>_<ISODate>.xlsx.
func ReportFileName(org string, kind report.PeriodKind, date time.Time) string {
	return filePrefix(org) + "_Report_" + string(kind) + "_" + date.Format("2006-01-02") + ".xlsx"
}

// PrintFileName is the suggested document title for a printable report.
func PrintFileName(org string, kind report.PeriodKind, date time.Time) string {
	return filePrefix(org) + "_Report_" + string(kind) + "_" + date.Format("2006-01-02")
}

// ReceiptFileName follows <Org>_Receipt_<orderNoOrId>.
func ReceiptFileName(org string, sale *models.Sale) string {
	ref := sale.OrderNo
	if ref == "" {
		ref = "sale-" + strconv.Itoa(int(sale.ID))
	}
	return filePrefix(org) + "_Receipt_" + ref
}
