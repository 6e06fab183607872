package wastage

import (
	"strconv"
	"time"

	"ahmedcenter-backend/internal/ledger"
	"ahmedcenter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateWastageRequest struct {
	ItemName    string          `json:"item_name"`
	Quantity    int             `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Reason      string          `json:"reason"`
	Date        string          `json:"date"` // optional backdate, "YYYY-MM-DD"
}

type CreateBatchWastageRequest struct {
	Entries []CreateWastageRequest `json:"entries"`
}

// toEntry validates the request and builds the entry. A backdated entry
// keeps the current time of day on the given date.
func (r CreateWastageRequest) toEntry(now time.Time) (models.WastageEntry, error) {
	if r.ItemName == "" {
		return models.WastageEntry{}, fiber.NewError(fiber.StatusBadRequest, "item_name is required")
	}
	if r.Quantity <= 0 {
		return models.WastageEntry{}, fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than 0")
	}
	if r.CostPerUnit.IsNegative() {
		return models.WastageEntry{}, fiber.NewError(fiber.StatusBadRequest, "cost_per_unit cannot be negative")
	}

	ts := now
	if r.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", r.Date, time.Local)
		if err != nil {
			return models.WastageEntry{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		ts = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.Local)
	}

	return models.WastageEntry{
		Timestamp:   ts,
		ItemName:    r.ItemName,
		Quantity:    r.Quantity,
		CostPerUnit: r.CostPerUnit,
		Reason:      r.Reason,
	}, nil
}

// POST /api/wastage
func CreateWastageHandler(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWastageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		entry, err := body.toEntry(time.Now())
		if err != nil {
			return err
		}

		inserted, err := store.InsertWastage([]models.WastageEntry{entry})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(inserted[0])
	}
}

// POST /api/wastage/batch
// Every entry is validated before anything is written; the response carries
// whatever the store accepted.
func CreateBatchWastageHandler(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBatchWastageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Entries) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "entries is empty")
		}

		now := time.Now()
		entries := make([]models.WastageEntry, 0, len(body.Entries))
		for i, req := range body.Entries {
			entry, err := req.toEntry(now)
			if err != nil {
				if fe, ok := err.(*fiber.Error); ok {
					return fiber.NewError(fe.Code, "entry "+strconv.Itoa(i)+": "+fe.Message)
				}
				return err
			}
			entries = append(entries, entry)
		}

		inserted, err := store.InsertWastage(entries)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(inserted)
	}
}

// GET /api/wastage
func ListWastageHandler(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var from, to *time.Time
		if s := c.Query("from"); s != "" {
			d, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date must be YYYY-MM-DD")
			}
			from = &d
		}
		if s := c.Query("to"); s != "" {
			d, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date must be YYYY-MM-DD")
			}
			end := d.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}

		entries, err := store.ListWastage(from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	}
}

// DELETE /api/wastage/:id
// Deleting an id that no longer exists still returns success.
func DeleteWastageHandler(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid wastage id")
		}

		if err := store.DeleteWastage(uint(id)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"message": "Wastage entry deleted",
		})
	}
}
