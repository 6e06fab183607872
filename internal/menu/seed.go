package menu

import (
	"log"

	"ahmedcenter-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func defaultProducts() []models.Product {
	return []models.Product{
		{Name: "Dry Gobi Half Plate", Price: decimal.NewFromInt(60), Category: "Veg", Description: "Crispy fried cauliflower florets with spices."},
		{Name: "Dry Gobi Full Plate", Price: decimal.NewFromInt(100), Category: "Veg", Description: "Large portion of crispy fried cauliflower florets."},
		{Name: "Mini Chicken Pakoda", Price: decimal.NewFromInt(90), Category: "Non-Veg", Description: "Bite-sized crispy chicken pakodas."},
		{Name: "Chicken Pakoda Half Plate", Price: decimal.NewFromInt(160), Category: "Non-Veg", Description: "Medium portion of spiced chicken pakodas."},
		{Name: "Chicken Pakoda Full Plate", Price: decimal.NewFromInt(300), Category: "Non-Veg", Description: "Full sharing portion of crispy chicken pakodas."},
		{Name: "Fresh Lemon Juice", Price: decimal.NewFromInt(30), Category: "Beverages", Description: "Refreshing sweet and salty lemon juice."},
	}
}

// EnsureDefaults inserts any default menu item that is not already present.
// Called on boot and by the restore-defaults endpoint.
func EnsureDefaults(db *gorm.DB) (int, error) {
	added := 0
	for _, p := range defaultProducts() {
		var count int64
		if err := db.Model(&models.Product{}).Where("LOWER(name) = LOWER(?)", p.Name).Count(&count).Error; err != nil {
			return added, err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			return added, err
		}
		added++
	}
	if added > 0 {
		log.Printf("Seeded %d default menu item(s)", added)
	}
	return added, nil
}
