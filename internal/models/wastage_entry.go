package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WastageEntry is a recorded inventory loss (spoilage, kitchen error). The
// item name is free text and the cost per unit is copied from the product's
// price at entry time, not live-linked. Entries are created and deleted,
// never edited.
type WastageEntry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time       `gorm:"index;not null" json:"timestamp"`
	ItemName    string          `gorm:"size:100;not null" json:"item_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	CostPerUnit decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_per_unit"`
	Reason      string          `gorm:"size:500" json:"reason"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WasteCost is quantity times cost per unit.
func (w WastageEntry) WasteCost() decimal.Decimal {
	return w.CostPerUnit.Mul(decimal.NewFromInt(int64(w.Quantity)))
}
