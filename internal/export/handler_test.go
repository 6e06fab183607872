package export_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"ahmedcenter-backend/internal/config"
	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/export"
	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newReportApp(t *testing.T) (*fiber.App, *ledger.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	store := ledger.NewStore(db)

	cfg := &config.Config{OrgName: "Ahmed's Center", OrgPhone: "+918801788115"}
	app := fiber.New()
	app.Get("/api/reports/summary", export.GetSummaryHandler(store))
	app.Get("/api/reports/export", export.ExportWorkbookHandler(store, cfg))
	app.Get("/api/reports/print", export.PrintReportHandler(store, cfg))
	app.Get("/api/sales/:id/receipt", export.ReceiptHandler(store, cfg))
	return app, store
}

func seedSale(t *testing.T, store *ledger.Store, dayOfMarch int, name string, price int64, qty int) models.Sale {
	t.Helper()
	items := models.LineItems{lineItem(name, price, qty)}
	sale := models.Sale{
		Timestamp:     day(dayOfMarch),
		Items:         items,
		Total:         items.Total(),
		PaymentMethod: models.PaymentCash,
		OrderNo:       "1003202412345",
		Revision:      1,
	}
	require.NoError(t, store.InsertSale(&sale))
	return sale
}

func TestGetSummary_CustomWindow(t *testing.T) {
	app, store := newReportApp(t)
	seedSale(t, store, 10, "Chai", 10, 3)
	seedSale(t, store, 20, "Chai", 10, 1) // outside the window

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/summary?period=custom&start=2024-03-10&end=2024-03-11", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var out export.SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, "custom", out.Period)
	assert.Equal(t, "2024-03-10", out.StartDate)
	assert.Equal(t, "2024-03-11", out.EndDate)
	assert.True(t, out.TotalRevenue.Equal(decimal.NewFromInt(30)), "got %s", out.TotalRevenue)
	assert.Equal(t, 3, out.TotalPlates)
	assert.Equal(t, 1, out.SaleCount)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Chai", out.Items[0].Name)
}

func TestGetSummary_InvertedCustomRangeRejected(t *testing.T) {
	app, _ := newReportApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/summary?period=custom&start=2024-03-12&end=2024-03-10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetSummary_MonthlyNeedsYearAndMonth(t *testing.T) {
	app, _ := newReportApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/summary?period=monthly", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportWorkbook_AttachmentHeaders(t *testing.T) {
	app, store := newReportApp(t)
	seedSale(t, store, 10, "Chai", 10, 1)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/export?period=custom&start=2024-03-01&end=2024-03-31", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get(fiber.HeaderContentType))
	disposition := resp.Header.Get(fiber.HeaderContentDisposition)
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "Ahmeds_Center_Report_custom_")
	assert.Contains(t, disposition, ".xlsx")

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, body[:2])
}

func TestPrintReport_PlainTextDocument(t *testing.T) {
	app, store := newReportApp(t)
	seedSale(t, store, 10, "Chai", 10, 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/print?period=daily&date=2024-03-10", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc := string(body)
	assert.Contains(t, doc, "AHMED'S CENTER - SALES REPORT")
	assert.Contains(t, doc, "₹20.00")
	assert.Contains(t, doc, "Chai")
}

func TestReceipt_KnownAndUnknownSale(t *testing.T) {
	app, store := newReportApp(t)
	sale := seedSale(t, store, 10, "Chai", 10, 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sales/1/receipt", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Order No: "+sale.OrderNo)

	// The original order number works as the lookup key too.
	byOrderNo, err := app.Test(httptest.NewRequest("GET", "/api/sales/"+sale.OrderNo+"/receipt", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, byOrderNo.StatusCode)

	missing, err := app.Test(httptest.NewRequest("GET", "/api/sales/999/receipt", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}
