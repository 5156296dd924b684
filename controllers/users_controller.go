package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

type UsersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUsersController(db *gorm.DB, cfg *config.Config) *UsersController {
	return &UsersController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UsersController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found", "/")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"email":        user.Email,
		"is_admin":     user.IsAdmin,
		"has_access":   user.HasAccess,
		"created_at":   user.CreatedAt,
	})
}

// ListUsers returns all non-admin accounts for the user administration
// screen.
func (uc *UsersController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Where("is_admin = ?", false).Order("created_at DESC").Find(&users).Error; err != nil {
		return utils.StoreError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		result = append(result, fiber.Map{
			"id":           user.ID,
			"display_name": user.DisplayName,
			"email":        user.Email,
			"has_access":   user.HasAccess,
			"created_at":   user.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// SetAccess grants or revokes a user's access flag. With an explicit
// has_access value the flag is set; with an empty body it is toggled.
func (uc *UsersController) SetAccess(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := uc.DB.First(&user, targetID).Error; err != nil {
		return utils.NotFound(c, "User not found", "/admin")
	}

	var input struct {
		HasAccess *bool `json:"has_access"`
	}
	if err := c.BodyParser(&input); err == nil && input.HasAccess != nil {
		user.HasAccess = *input.HasAccess
	} else {
		user.HasAccess = !user.HasAccess
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.StoreError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"has_access": user.HasAccess,
	})
}
