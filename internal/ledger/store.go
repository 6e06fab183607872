package ledger

import (
	"errors"
	"time"

	"ahmedcenter-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the repository for the persisted ledger: sales and wastage
// entries. It owns the database handle and is passed to every handler that
// reads or writes ledger records, replacing the ambient record cache the
// old client kept.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListSales returns sales newest first, optionally bounded by timestamp.
func (s *Store) ListSales(from, to *time.Time) ([]models.Sale, error) {
	query := s.db.Model(&models.Sale{})
	if from != nil {
		query = query.Where("timestamp >= ?", *from)
	}
	if to != nil {
		query = query.Where("timestamp <= ?", *to)
	}

	var sales []models.Sale
	if err := query.Order("timestamp DESC").Find(&sales).Error; err != nil {
		return nil, storeErr("list sales", err)
	}
	return sales, nil
}

func (s *Store) GetSale(id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get sale", err)
	}
	return &sale, nil
}

func (s *Store) GetSaleByOrderNo(orderNo string) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.First(&sale, "order_no = ?", orderNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get sale by order no", err)
	}
	return &sale, nil
}

func (s *Store) InsertSale(sale *models.Sale) error {
	if err := s.db.Create(sale).Error; err != nil {
		return storeErr("insert sale", err)
	}
	return nil
}

// UpdateSale replaces the line items of a sale and recomputed total. The
// caller passes the revision it read; a mismatch means another operator
// saved first, and the edit is rejected with ErrConflict rather than
// silently overwriting theirs.
func (s *Store) UpdateSale(id uint, revision int, items models.LineItems, total decimal.Decimal) (*models.Sale, error) {
	res := s.db.Model(&models.Sale{}).
		Where("id = ? AND revision = ?", id, revision).
		Updates(map[string]interface{}{
			"items":    items,
			"total":    total,
			"revision": revision + 1,
		})
	if res.Error != nil {
		return nil, storeErr("update sale", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the id is gone or the revision is stale.
		if _, err := s.GetSale(id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.GetSale(id)
}

// ListWastage returns wastage entries newest first, optionally bounded by
// timestamp.
func (s *Store) ListWastage(from, to *time.Time) ([]models.WastageEntry, error) {
	query := s.db.Model(&models.WastageEntry{})
	if from != nil {
		query = query.Where("timestamp >= ?", *from)
	}
	if to != nil {
		query = query.Where("timestamp <= ?", *to)
	}

	var entries []models.WastageEntry
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, storeErr("list wastage", err)
	}
	return entries, nil
}

func (s *Store) InsertWastage(entries []models.WastageEntry) ([]models.WastageEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if err := s.db.Create(&entries).Error; err != nil {
		return nil, storeErr("insert wastage", err)
	}
	return entries, nil
}

// DeleteWastage is idempotent: deleting an id that is already absent is
// treated as success.
func (s *Store) DeleteWastage(id uint) error {
	if err := s.db.Delete(&models.WastageEntry{}, "id = ?", id).Error; err != nil {
		return storeErr("delete wastage", err)
	}
	return nil
}
