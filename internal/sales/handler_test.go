package sales_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *ledger.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	store := ledger.NewStore(db)

	app := fiber.New()
	app.Post("/api/sales", sales.RecordSaleHandler(store))
	app.Get("/api/sales", sales.ListSalesHandler(store))
	app.Put("/api/sales/:id", sales.UpdateSaleHandler(store))
	return app, store
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeSale(t *testing.T, resp *http.Response) sales.SaleResponse {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out sales.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func TestRecordSale_Created(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/sales", fiber.Map{
		"items": []fiber.Map{
			{"name": "Dry Gobi Full Plate", "unit_price": "100", "quantity": 2},
			{"name": "Fresh Lemon Juice", "unit_price": "30", "quantity": 1},
		},
		"payment_method": "Cash",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decodeSale(t, resp)
	require.NotNil(t, out.Sale)
	assert.True(t, out.Sale.Total.Equal(decimal.NewFromInt(230)), "got %s", out.Sale.Total)
	assert.Equal(t, 1, out.Sale.Revision)
	assert.Len(t, out.Sale.OrderNo, 13, "order no is generated when absent")
	assert.Empty(t, out.Warning)
}

func TestRecordSale_TotalMismatchRejected(t *testing.T) {
	app, store := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/sales", fiber.Map{
		"items": []fiber.Map{
			{"name": "Chai", "unit_price": "10", "quantity": 1},
		},
		"total": "999",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	listed, err := store.ListSales(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, listed, "nothing may be written on a rejected sale")
}

func TestRecordSale_RejectsBadItems(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"no items", fiber.Map{"items": []fiber.Map{}}},
		{"zero quantity", fiber.Map{"items": []fiber.Map{
			{"name": "Chai", "unit_price": "10", "quantity": 0},
		}}},
		{"negative price", fiber.Map{"items": []fiber.Map{
			{"name": "Chai", "unit_price": "-5", "quantity": 1},
		}}},
		{"blank name", fiber.Map{"items": []fiber.Map{
			{"name": "", "unit_price": "10", "quantity": 1},
		}}},
		{"unknown payment method", fiber.Map{
			"items":          []fiber.Map{{"name": "Chai", "unit_price": "10", "quantity": 1}},
			"payment_method": "Barter",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, "POST", "/api/sales", tc.body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateSale_ReplacesItems(t *testing.T) {
	app, store := newTestApp(t)

	items := models.LineItems{{Name: "Chai", UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	seed := models.Sale{Items: items, Total: items.Total(), PaymentMethod: models.PaymentCash, OrderNo: "1003202412345", Revision: 1}
	require.NoError(t, store.InsertSale(&seed))

	resp, err := app.Test(jsonRequest(t, "PUT", "/api/sales/1", fiber.Map{
		"items": []fiber.Map{
			{"name": "Chai", "unit_price": "10", "quantity": 3},
		},
		"revision": 1,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeSale(t, resp)
	require.NotNil(t, out.Sale)
	assert.True(t, out.Sale.Total.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, out.Sale.Revision)
	assert.Empty(t, out.Warning)
}

func TestUpdateSale_EmptyItemsWarns(t *testing.T) {
	app, store := newTestApp(t)

	items := models.LineItems{{Name: "Chai", UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	seed := models.Sale{Items: items, Total: items.Total(), PaymentMethod: models.PaymentCash, OrderNo: "1003202412345", Revision: 1}
	require.NoError(t, store.InsertSale(&seed))

	resp, err := app.Test(jsonRequest(t, "PUT", "/api/sales/1", fiber.Map{
		"items":    []fiber.Map{},
		"revision": 1,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeSale(t, resp)
	require.NotNil(t, out.Sale)
	assert.True(t, out.Sale.Total.IsZero())
	assert.NotEmpty(t, out.Warning, "clearing every item must be flagged")
}

func TestUpdateSale_StaleRevisionConflicts(t *testing.T) {
	app, store := newTestApp(t)

	items := models.LineItems{{Name: "Chai", UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	seed := models.Sale{Items: items, Total: items.Total(), PaymentMethod: models.PaymentCash, OrderNo: "1003202412345", Revision: 1}
	require.NoError(t, store.InsertSale(&seed))

	first, err := app.Test(jsonRequest(t, "PUT", "/api/sales/1", fiber.Map{
		"items":    []fiber.Map{{"name": "Chai", "unit_price": "10", "quantity": 2}},
		"revision": 1,
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, first.StatusCode)

	second, err := app.Test(jsonRequest(t, "PUT", "/api/sales/1", fiber.Map{
		"items":    []fiber.Map{{"name": "Chai", "unit_price": "10", "quantity": 5}},
		"revision": 1,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, second.StatusCode)

	current, err := store.GetSale(seed.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
	assert.Equal(t, 2, current.Items[0].Quantity, "losing edit must not overwrite")
}

func TestUpdateSale_UnknownIDNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "PUT", "/api/sales/999", fiber.Map{
		"items":    []fiber.Map{{"name": "Chai", "unit_price": "10", "quantity": 1}},
		"revision": 1,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateSale_MissingRevisionRejected(t *testing.T) {
	app, store := newTestApp(t)

	items := models.LineItems{{Name: "Chai", UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
	seed := models.Sale{Items: items, Total: items.Total(), PaymentMethod: models.PaymentCash, OrderNo: "1003202412345", Revision: 1}
	require.NoError(t, store.InsertSale(&seed))

	resp, err := app.Test(jsonRequest(t, "PUT", "/api/sales/1", fiber.Map{
		"items": []fiber.Map{{"name": "Chai", "unit_price": "10", "quantity": 2}},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListSales_FiltersByDate(t *testing.T) {
	app, store := newTestApp(t)

	mk := func(day int) models.Sale {
		items := models.LineItems{{Name: "Chai", UnitPrice: decimal.NewFromInt(10), Quantity: 1}}
		return models.Sale{
			Timestamp:     time.Date(2024, time.March, day, 12, 0, 0, 0, time.Local),
			Items:         items,
			Total:         items.Total(),
			PaymentMethod: models.PaymentCash,
			OrderNo:       "1003202412345",
			Revision:      1,
		}
	}
	s1, s2 := mk(10), mk(15)
	require.NoError(t, store.InsertSale(&s1))
	require.NoError(t, store.InsertSale(&s2))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/sales?from=2024-03-10&to=2024-03-11", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var listed []models.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, s1.ID, listed[0].ID)
}
