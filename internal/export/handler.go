package export

import (
	"errors"
	"log"
	"strconv"
	"time"

	"ahmedcenter-backend/internal/config"
	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// windowFromQuery reads period/date/year/month/start/end query params and
// resolves the report window.
func windowFromQuery(c *fiber.Ctx) (report.PeriodKind, report.Window, error) {
	kind := report.PeriodKind(c.Query("period", string(report.PeriodDaily)))

	var ref report.Reference
	switch kind {
	case report.PeriodDaily, report.PeriodWeekly:
		if s := c.Query("date"); s != "" {
			d, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			ref.Date = d
		}
	case report.PeriodMonthly:
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, "year is required for monthly reports")
		}
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil {
			return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, "month is required for monthly reports")
		}
		ref.Year = year
		ref.Month = time.Month(month)
	case report.PeriodCustom:
		start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
		if err != nil {
			return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, "start date must be YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
		if err != nil {
			return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, "end date must be YYYY-MM-DD")
		}
		ref.Start = start
		ref.End = end
	}

	window, err := report.ResolveWindow(kind, ref)
	if err != nil {
		var rangeErr *report.InvalidRangeError
		if errors.As(err, &rangeErr) {
			return kind, report.Window{}, fiber.NewError(fiber.StatusBadRequest, rangeErr.Error())
		}
		return kind, report.Window{}, err
	}
	return kind, window, nil
}

func summarizeWindow(store *ledger.Store, window report.Window) (*report.Summary, error) {
	sales, err := store.ListSales(&window.Start, &window.End)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	wastage, err := store.ListWastage(&window.Start, &window.End)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	summary := report.Summarize(sales, wastage, window)
	if summary.SkippedRecords > 0 {
		log.Printf("[WARN] report skipped %d malformed ledger record(s) in window %s - %s",
			summary.SkippedRecords, window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}
	return summary, nil
}

type ItemRow struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Price    decimal.Decimal `json:"price"`
}

type WeekRow struct {
	Week      int             `json:"week"`
	Item      string          `json:"item"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	WasteCost decimal.Decimal `json:"waste_cost"`
	Net       decimal.Decimal `json:"net"`
	Loss      bool            `json:"loss"`
}

type SummaryResponse struct {
	Period         string          `json:"period"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalPlates    int             `json:"total_plates"`
	SaleCount      int             `json:"sale_count"`
	TotalWasteCost decimal.Decimal `json:"total_waste_cost"`
	Items          []ItemRow       `json:"items"`
	Weekly         []WeekRow       `json:"weekly"`
	SkippedRecords int             `json:"skipped_records,omitempty"`
}

// GET /api/reports/summary
func GetSummaryHandler(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, window, err := windowFromQuery(c)
		if err != nil {
			return err
		}
		summary, err := summarizeWindow(store, window)
		if err != nil {
			return err
		}

		resp := SummaryResponse{
			Period:         string(kind),
			StartDate:      window.Start.Format("2006-01-02"),
			EndDate:        window.End.Format("2006-01-02"),
			TotalRevenue:   summary.TotalRevenue,
			TotalPlates:    summary.TotalPlates,
			SaleCount:      summary.SaleCount,
			TotalWasteCost: summary.TotalWasteCost,
			Items:          make([]ItemRow, 0, len(summary.PerItem)),
			Weekly:         make([]WeekRow, 0, len(summary.Weekly)),
			SkippedRecords: summary.SkippedRecords,
		}
		for _, name := range summary.ItemNames() {
			bucket := summary.PerItem[name]
			resp.Items = append(resp.Items, ItemRow{
				Name:     name,
				Quantity: bucket.Quantity,
				Revenue:  bucket.Revenue,
				Price:    bucket.Price,
			})
		}
		for _, key := range summary.WeekKeys() {
			bucket := summary.Weekly[key]
			resp.Weekly = append(resp.Weekly, WeekRow{
				Week:      key.Week,
				Item:      key.Item,
				Quantity:  bucket.Quantity,
				Revenue:   bucket.Revenue,
				WasteCost: bucket.WasteCost,
				Net:       bucket.Net(),
				Loss:      bucket.Net().IsPositive(),
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/reports/export
// Streams the summary as an xlsx workbook.
func ExportWorkbookHandler(store *ledger.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, window, err := windowFromQuery(c)
		if err != nil {
			return err
		}
		summary, err := summarizeWindow(store, window)
		if err != nil {
			return err
		}

		f, err := BuildWorkbook(summary)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, (&ExportError{Err: err}).Error())
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+ReportFileName(cfg.OrgName, kind, time.Now())+`"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/print
// Returns the flat printable report document as plain text.
func PrintReportHandler(store *ledger.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, window, err := windowFromQuery(c)
		if err != nil {
			return err
		}
		summary, err := summarizeWindow(store, window)
		if err != nil {
			return err
		}

		doc := BuildReportDocument(cfg.OrgName, kind, summary, time.Now())
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+PrintFileName(cfg.OrgName, kind, time.Now())+`"`)
		return c.SendString(doc)
	}
}

// GET /api/sales/:id/receipt
// Re-renders the receipt for one sale. The path segment is either the sale
// id or the order number printed on the original receipt; order numbers are
// too long to be mistaken for an id.
func ReceiptHandler(store *ledger.Store, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := c.Params("id")

		var sale *models.Sale
		id, err := strconv.ParseUint(ref, 10, 32)
		if err == nil {
			sale, err = store.GetSale(uint(id))
		} else {
			sale, err = store.GetSaleByOrderNo(ref)
		}
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "sale not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		receipt := BuildReceipt(cfg.OrgName, cfg.OrgPhone, sale)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+ReceiptFileName(cfg.OrgName, sale)+`"`)
		return c.SendString(receipt)
	}
}
