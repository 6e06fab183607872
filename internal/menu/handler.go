package menu

import (
	"strings"

	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

func (r ProductRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if r.Price.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
	}
	if strings.TrimSpace(r.Category) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category is required")
	}
	return nil
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("category, name").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}
		return c.JSON(products)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		product := models.Product{
			Name:        strings.TrimSpace(body.Name),
			Price:       body.Price,
			Category:    strings.TrimSpace(body.Category),
			Description: body.Description,
			Image:       body.Image,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		product.Name = strings.TrimSpace(body.Name)
		product.Price = body.Price
		product.Category = strings.TrimSpace(body.Category)
		product.Description = body.Description
		product.Image = body.Image

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		return c.JSON(fiber.Map{"message": "Product deleted"})
	}
}

// DELETE /api/products/categories/:name
// Removes every product in the category, matching case-insensitively.
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category name is required")
		}

		res := database.DB.Where("LOWER(category) = LOWER(?)", name).Delete(&models.Product{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}
		return c.JSON(fiber.Map{
			"message": "Category deleted",
			"deleted": res.RowsAffected,
		})
	}
}

// POST /api/products/restore-defaults
// Re-adds any default menu item that was removed.
func RestoreDefaultsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		added, err := EnsureDefaults(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not restore defaults")
		}
		return c.JSON(fiber.Map{
			"message": "Default menu restored",
			"added":   added,
		})
	}
}
