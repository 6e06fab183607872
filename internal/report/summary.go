package report

import (
	"sort"

	"ahmedcenter-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ItemTotals accumulates sale line items for one item name. Price is the
// unit price from the first occurrence seen; later differing prices for the
// same name are not reconciled, since menu prices rarely change within a
// window.
type ItemTotals struct {
	Quantity int
	Revenue  decimal.Decimal
	Price    decimal.Decimal
}

// WeekKey buckets per-item figures by week of the window (see Window.Week).
type WeekKey struct {
	Week int
	Item string
}

// WeekItemTotals carries both sides of the weekly profit/loss view: revenue
// attributed to the item in that week and the wastage cost booked against
// it.
type WeekItemTotals struct {
	Quantity  int
	Revenue   decimal.Decimal
	WasteCost decimal.Decimal
}

// Net is wastage cost minus revenue; positive means the item ran at a loss
// in that week.
func (t WeekItemTotals) Net() decimal.Decimal {
	return t.WasteCost.Sub(t.Revenue)
}

// Summary is the derived aggregate for one window. It is computed fresh on
// every query from the records passed in; nothing is cached.
type Summary struct {
	Window         Window
	PerItem        map[string]*ItemTotals
	Weekly         map[WeekKey]*WeekItemTotals
	TotalRevenue   decimal.Decimal
	TotalPlates    int
	SaleCount      int
	TotalWasteCost decimal.Decimal
	RawSales       []models.Sale
	RawWastage     []models.WastageEntry
	SkippedRecords int
}

// Summarize folds the given sales and wastage entries into a summary for
// the window. Records outside the window are ignored; malformed records
// (quarantined item blobs, invalid line items) are skipped and counted in
// SkippedRecords, never fatal. The result depends only on the inputs:
// calling it twice, or with the collections shuffled, yields the same
// summary.
func Summarize(sales []models.Sale, wastage []models.WastageEntry, window Window) *Summary {
	summary := &Summary{
		Window:         window,
		PerItem:        make(map[string]*ItemTotals),
		Weekly:         make(map[WeekKey]*WeekItemTotals),
		TotalRevenue:   decimal.Zero,
		TotalWasteCost: decimal.Zero,
	}

	for _, sale := range sales {
		if !window.Contains(sale.Timestamp) {
			continue
		}
		if sale.Quarantined() {
			summary.SkippedRecords++
			continue
		}

		summary.RawSales = append(summary.RawSales, sale)
		summary.SaleCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)

		week := window.Week(sale.Timestamp)
		for _, item := range sale.Items {
			if !item.Valid() {
				summary.SkippedRecords++
				continue
			}

			bucket, ok := summary.PerItem[item.Name]
			if !ok {
				bucket = &ItemTotals{Revenue: decimal.Zero, Price: item.UnitPrice}
				summary.PerItem[item.Name] = bucket
			}
			bucket.Quantity += item.Quantity
			bucket.Revenue = bucket.Revenue.Add(item.LineTotal())
			summary.TotalPlates += item.Quantity

			wb := summary.weekBucket(WeekKey{Week: week, Item: item.Name})
			wb.Quantity += item.Quantity
			wb.Revenue = wb.Revenue.Add(item.LineTotal())
		}
	}

	for _, entry := range wastage {
		if !window.Contains(entry.Timestamp) {
			continue
		}
		if entry.ItemName == "" || entry.Quantity <= 0 {
			summary.SkippedRecords++
			continue
		}

		summary.RawWastage = append(summary.RawWastage, entry)
		summary.TotalWasteCost = summary.TotalWasteCost.Add(entry.WasteCost())

		wb := summary.weekBucket(WeekKey{Week: window.Week(entry.Timestamp), Item: entry.ItemName})
		wb.WasteCost = wb.WasteCost.Add(entry.WasteCost())
	}

	sortByTimestamp(summary)
	return summary
}

func (s *Summary) weekBucket(key WeekKey) *WeekItemTotals {
	bucket, ok := s.Weekly[key]
	if !ok {
		bucket = &WeekItemTotals{Revenue: decimal.Zero, WasteCost: decimal.Zero}
		s.Weekly[key] = bucket
	}
	return bucket
}

// ItemNames returns the per-item bucket keys in stable alphabetical order,
// so rendered tables do not depend on map iteration.
func (s *Summary) ItemNames() []string {
	names := make([]string, 0, len(s.PerItem))
	for name := range s.PerItem {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeekKeys returns the weekly bucket keys ordered by week then item name.
func (s *Summary) WeekKeys() []WeekKey {
	keys := make([]WeekKey, 0, len(s.Weekly))
	for key := range s.Weekly {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Week != keys[j].Week {
			return keys[i].Week < keys[j].Week
		}
		return keys[i].Item < keys[j].Item
	})
	return keys
}

// sortByTimestamp fixes the raw record order regardless of how the caller's
// collections were ordered, keeping Summarize order-independent.
func sortByTimestamp(s *Summary) {
	sort.Slice(s.RawSales, func(i, j int) bool {
		if s.RawSales[i].Timestamp.Equal(s.RawSales[j].Timestamp) {
			return s.RawSales[i].ID < s.RawSales[j].ID
		}
		return s.RawSales[i].Timestamp.Before(s.RawSales[j].Timestamp)
	})
	sort.Slice(s.RawWastage, func(i, j int) bool {
		if s.RawWastage[i].Timestamp.Equal(s.RawWastage[j].Timestamp) {
			return s.RawWastage[i].ID < s.RawWastage[j].ID
		}
		return s.RawWastage[i].Timestamp.Before(s.RawWastage[j].Timestamp)
	})
}
