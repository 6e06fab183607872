package wastage_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/models"
	"ahmedcenter-backend/internal/wastage"

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
	app.Post("/api/wastage", wastage.CreateWastageHandler(store))
	app.Post("/api/wastage/batch", wastage.CreateBatchWastageHandler(store))
	app.Get("/api/wastage", wastage.ListWastageHandler(store))
	app.Delete("/api/wastage/:id", wastage.DeleteWastageHandler(store))
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

func TestCreateWastage_Created(t *testing.T) {
	app, store := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/wastage", fiber.Map{
		"item_name":     "Dry Gobi Full Plate",
		"quantity":      2,
		"cost_per_unit": "40",
		"reason":        "left over at close",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	defer resp.Body.Close()
	var entry models.WastageEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	assert.NotZero(t, entry.ID)
	assert.True(t, entry.CostPerUnit.Equal(decimal.NewFromInt(40)))
	assert.True(t, entry.WasteCost().Equal(decimal.NewFromInt(80)))

	listed, err := store.ListWastage(nil, nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreateWastage_BackdateKeepsGivenDay(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/wastage", fiber.Map{
		"item_name":     "Fresh Lemon Juice",
		"quantity":      1,
		"cost_per_unit": "15",
		"date":          "2024-03-05",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	defer resp.Body.Close()
	var entry models.WastageEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))

	ts := entry.Timestamp.In(time.Local)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 5, ts.Day())
}

func TestCreateWastage_RejectsInvalid(t *testing.T) {
	app, store := newTestApp(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"zero quantity", fiber.Map{"item_name": "Chai", "quantity": 0, "cost_per_unit": "10"}},
		{"blank name", fiber.Map{"item_name": "", "quantity": 1, "cost_per_unit": "10"}},
		{"negative cost", fiber.Map{"item_name": "Chai", "quantity": 1, "cost_per_unit": "-10"}},
		{"bad date", fiber.Map{"item_name": "Chai", "quantity": 1, "cost_per_unit": "10", "date": "05-03-2024"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, "POST", "/api/wastage", tc.body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	listed, err := store.ListWastage(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, listed, "rejected entries must leave the ledger untouched")
}

func TestCreateBatchWastage_AllOrNothing(t *testing.T) {
	app, store := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/wastage/batch", fiber.Map{
		"entries": []fiber.Map{
			{"item_name": "Chai", "quantity": 1, "cost_per_unit": "10"},
			{"item_name": "Dosa", "quantity": 0, "cost_per_unit": "30"},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	listed, err := store.ListWastage(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, listed, "one bad entry must block the whole batch")
}

func TestCreateBatchWastage_Created(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/wastage/batch", fiber.Map{
		"entries": []fiber.Map{
			{"item_name": "Chai", "quantity": 1, "cost_per_unit": "10"},
			{"item_name": "Dosa", "quantity": 2, "cost_per_unit": "30"},
		},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	defer resp.Body.Close()
	var entries []models.WastageEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.NotZero(t, entries[0].ID)
	assert.NotZero(t, entries[1].ID)
}

func TestDeleteWastage_IdempotentOverHTTP(t *testing.T) {
	app, store := newTestApp(t)

	inserted, err := store.InsertWastage([]models.WastageEntry{
		{Timestamp: time.Now(), ItemName: "Chai", Quantity: 1, CostPerUnit: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	target := fmt.Sprintf("/api/wastage/%d", inserted[0].ID)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("DELETE", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "delete attempt %d", i+1)
	}

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/wastage/4242", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "unknown id still succeeds")

	listed, err := store.ListWastage(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
