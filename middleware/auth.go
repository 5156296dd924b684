package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := utils.ExtractUserIDFromToken(c, cfg); err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// AccessMiddleware guards paid content. Users without the access flag are
// pointed at the payment instructions screen.
func AccessMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if !user.HasAccess {
			return utils.Forbidden(c, "Access required", "/payment-instructions")
		}
		return c.Next()
	}
}

// AdminMiddleware guards content management and user administration.
func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		if !user.IsAdmin {
			return utils.Forbidden(c, "Admin access required", "/")
		}
		return c.Next()
	}
}
