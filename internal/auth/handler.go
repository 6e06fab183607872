package auth

import (
	"strings"

	"ahmedcenter-backend/internal/config"
	"ahmedcenter-backend/internal/database"
	"ahmedcenter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Operators log in with a display name; the synthesized email keeps the
// user table unique the way the old counter app did it:
// "ravi kumar" -> "RaviKumar@ahmedcenter.com".
func emailForName(name string) string {
	formatted := capitalizeWords(name)
	return strings.ReplaceAll(formatted, " ", "") + "@ahmedcenter.com"
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func parseRole(s string) (models.UserRole, bool) {
	switch models.UserRole(s) {
	case models.RoleAdmin:
		return models.RoleAdmin, true
	case models.RoleBiller, "":
		return models.RoleBiller, true
	case models.RoleGuest:
		return models.RoleGuest, true
	}
	return "", false
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and password are required")
		}

		role, ok := parseRole(body.Role)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown role: "+body.Role)
		}

		// The very first account becomes the admin; everyone after that is
		// whatever they asked for, except nobody self-registers as admin.
		var count int64
		database.DB.Model(&models.User{}).Count(&count)
		if count == 0 {
			role = models.RoleAdmin
		} else if role == models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "An admin already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         capitalizeWords(body.Name),
			Email:        emailForName(body.Name),
			PasswordHash: string(hash),
			Role:         role,
			Avatar:       body.Avatar,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and password are required")
		}

		var user models.User
		if err := database.DB.Where("email = ?", emailForName(body.Name)).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong name or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong name or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":     user.ID,
				"name":   user.Name,
				"role":   user.Role,
				"avatar": user.Avatar,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)
		roleVal := c.Locals(CtxUserRoleKey)

		if userID, ok := userIDVal.(uint); ok {
			var user models.User
			if err := database.DB.First(&user, userID).Error; err == nil {
				return c.JSON(fiber.Map{
					"user_id": user.ID,
					"name":    user.Name,
					"role":    user.Role,
					"avatar":  user.Avatar,
				})
			}
		}

		return c.JSON(fiber.Map{
			"user_id": userIDVal,
			"role":    roleVal,
		})
	}
}
