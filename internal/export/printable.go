package export

import (
	"fmt"
	"strings"
	"time"

	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/report"

	"github.com/shopspring/decimal"
)

const (
	reportWidth  = 42
	receiptWidth = 33
)

var (
	reportRule  = strings.Repeat("-", reportWidth)
	receiptRule = strings.Repeat("-", receiptWidth)
)

func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func lr(left, right string, width int) string {
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// BuildReportDocument renders a summary into a flat monospace document
// suitable for printing: header, totals block, one row per item.
func BuildReportDocument(org string, kind report.PeriodKind, summary *report.Summary, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(center(strings.ToUpper(org)+" - SALES REPORT", reportWidth) + "\n")
	b.WriteString(center("Period: "+strings.ToUpper(string(kind)), reportWidth) + "\n")
	b.WriteString(center("Range: "+summary.Window.Start.Format("02/01/2006")+" - "+summary.Window.End.Format("02/01/2006"), reportWidth) + "\n")
	b.WriteString(center("Generated: "+generatedAt.Format("02/01/2006 15:04:05"), reportWidth) + "\n")
	b.WriteString(reportRule + "\n")

	b.WriteString(lr("Total Revenue:", money(summary.TotalRevenue), reportWidth) + "\n")
	b.WriteString(lr("Total Plates Sold:", fmt.Sprintf("%d", summary.TotalPlates), reportWidth) + "\n")
	b.WriteString(lr("Total Orders:", fmt.Sprintf("%d", summary.SaleCount), reportWidth) + "\n")
	b.WriteString(lr("Total Wastage Cost:", money(summary.TotalWasteCost), reportWidth) + "\n")
	b.WriteString(reportRule + "\n")

	b.WriteString("Item-wise Sales:\n")
	b.WriteString(fmt.Sprintf("%-24s%5s%13s\n", "Item", "Qty", "Revenue"))
	b.WriteString(reportRule + "\n")
	for _, name := range summary.ItemNames() {
		bucket := summary.PerItem[name]
		display := name
		if len(display) > 24 {
			display = display[:24]
		}
		b.WriteString(fmt.Sprintf("%-24s%5d%13s\n", display, bucket.Quantity, money(bucket.Revenue)))
	}
	if len(summary.PerItem) == 0 {
		b.WriteString(center("No sales recorded for this period.", reportWidth) + "\n")
	}
	b.WriteString(reportRule + "\n")
	b.WriteString(center("End of Report", reportWidth) + "\n")

	return b.String()
}

// BuildReceipt renders one sale as a 33-column receipt for thermal
// printing.
func BuildReceipt(org, phone string, sale *models.Sale) string {
	var b strings.Builder

	b.WriteString(center("Powered by "+org+" :)", receiptWidth) + "\n")
	b.WriteString(center(strings.ToUpper(org), receiptWidth) + "\n")
	b.WriteString(center(phone, receiptWidth) + "\n")
	b.WriteString(receiptRule + "\n")

	b.WriteString("Order No: " + sale.OrderNo + "\n")
	b.WriteString(lr("", sale.Timestamp.Format("02 Jan 06 15:04"), receiptWidth) + "\n")
	b.WriteString(receiptRule + "\n")

	b.WriteString(fmt.Sprintf("%-13s%8s%4s%8s\n", "Item", "Rate", "Qty", "Amount"))
	b.WriteString(receiptRule + "\n")

	totalItems := 0
	for _, item := range sale.Items {
		name := strings.ToUpper(item.Name)
		if len(name) > 13 {
			name = name[:13]
		}
		b.WriteString(fmt.Sprintf("%-13s%8s%4d%8s\n",
			name, item.UnitPrice.StringFixed(2), item.Quantity, item.LineTotal().StringFixed(2)))
		totalItems += item.Quantity
	}
	b.WriteString(receiptRule + "\n")

	b.WriteString(lr("Total items", fmt.Sprintf("%d", totalItems), receiptWidth) + "\n")
	b.WriteString(lr("Subtotal", sale.Total.StringFixed(2), receiptWidth) + "\n")
	b.WriteString(receiptRule + "\n")
	b.WriteString(lr("Total Amount", money(sale.Total), receiptWidth) + "\n")
	b.WriteString(lr("Payment Method", string(sale.PaymentMethod), receiptWidth) + "\n")
	b.WriteString(lr("Amount Received", sale.Total.StringFixed(2), receiptWidth) + "\n")
	b.WriteString(receiptRule + "\n")
	b.WriteString(center("Thank you for visiting us!", receiptWidth) + "\n")
	b.WriteString(strings.Repeat("*", receiptWidth) + "\n")

	return b.String()
}
