package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplatform/models"
	"courseplatform/utils"
)

func TestListUsersExcludesAdmins(t *testing.T) {
	resp, result := doJSON(t, "GET", "/api/admin/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := result["data"].([]interface{})
	require.NotEmpty(t, list)
	for _, u := range list {
		user := u.(map[string]interface{})
		assert.NotEqual(t, "admin@example.com", user["email"])
		assert.NotContains(t, user, "password_hash")
	}
}

func TestListUsersRequiresAdmin(t *testing.T) {
	resp, result := doJSON(t, "GET", "/api/admin/users", learnerToken, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, utils.KindForbidden, result["kind"])
}

func TestSetAccessExplicit(t *testing.T) {
	user := createUser(t, "explicit@example.com")

	resp, result := doJSON(t, "PUT", "/api/admin/users/"+jsonID(t, float64(user.ID))+"/access",
		adminToken, map[string]bool{"has_access": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, data(t, result)["has_access"])

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.HasAccess)
}

func TestSetAccessToggle(t *testing.T) {
	user := createUser(t, "toggle@example.com")
	path := "/api/admin/users/" + jsonID(t, float64(user.ID)) + "/access"

	resp, result := doJSON(t, "PUT", path, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, data(t, result)["has_access"])

	resp, result = doJSON(t, "PUT", path, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, data(t, result)["has_access"])
}

func TestSetAccessUnknownUser(t *testing.T) {
	resp, result := doJSON(t, "PUT", "/api/admin/users/999999/access", adminToken, nil)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, utils.KindNotFound, result["kind"])
}

func createUser(t *testing.T, email string) *models.User {
	t.Helper()
	register("Access Target", email, "")
	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	return &user
}
