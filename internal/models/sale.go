package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentQRCode PaymentMethod = "QR Code"
)

// LineItem is one product entry within a sale, with the quantity and the
// price at the time of sale.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Valid reports whether the line item has the shape the aggregation and
// export paths rely on.
func (li LineItem) Valid() bool {
	return li.Name != "" && li.Quantity > 0 && !li.UnitPrice.IsNegative()
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItems is stored as a single JSON column. Early records were written by
// a loosely-typed client, so Scan quarantines blobs it cannot decode instead
// of failing the whole query; such sales surface with no items and are
// counted as skipped by the aggregation.
type LineItems []LineItem

// Total sums unit price times quantity over all items.
func (lis LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range lis {
		total = total.Add(li.LineTotal())
	}
	return total
}

func (lis LineItems) Value() (driver.Value, error) {
	b, err := json.Marshal(lis)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (lis *LineItems) Scan(value interface{}) error {
	if value == nil {
		*lis = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into LineItems", value)
	}

	var items LineItems
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("[WARN] quarantined malformed line items column: %v", err)
		*lis = nil
		return nil
	}
	*lis = items
	return nil
}

func (LineItems) GormDataType() string {
	return "json"
}

func (LineItems) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// Sale is one finalized checkout. Total always equals the sum of unit price
// times quantity over Items; the handlers recompute it on every create and
// edit. Revision guards concurrent edits: an update must carry the revision
// it read and loses against a newer one.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time       `gorm:"index;not null" json:"timestamp"`
	Items         LineItems       `json:"items"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null;default:Cash" json:"payment_method"`
	OrderNo       string          `gorm:"size:20;index" json:"order_no"`
	Revision      int             `gorm:"not null;default:1" json:"revision"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Quarantined reports whether the stored line items failed to decode: a
// sale that carries revenue but lost its item breakdown.
func (s *Sale) Quarantined() bool {
	return len(s.Items) == 0 && s.Total.IsPositive()
}
