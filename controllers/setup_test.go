package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/routes"
	"courseplatform/utils"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config

	adminToken   string
	learnerToken string // paid access granted
	guestToken   string // registered, no access
)

func TestMain(m *testing.M) {
	cfg = &config.Config{
		JWTSecret: "testsecret",
		AdminCode: "letmein",
	}

	var err error
	db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)

	adminToken = register("Admin User", "admin@example.com", "letmein")
	learnerToken = register("Ada Lovelace", "ada@example.com", "")
	guestToken = register("Guest User", "guest@example.com", "")
	db.Model(&models.User{}).Where("email = ?", "ada@example.com").Update("has_access", true)

	os.Exit(m.Run())
}

func register(name, email, adminCode string) string {
	body, _ := json.Marshal(map[string]string{
		"display_name": name,
		"email":        email,
		"password":     "password123",
		"admin_code":   adminCode,
	})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		panic(err)
	}
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	token, _ := result["token"].(string)
	if token == "" {
		panic("registration failed for " + email)
	}
	return token
}

// doJSON performs a request and decodes a JSON body when one comes back.
func doJSON(t *testing.T, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		json.NewDecoder(resp.Body).Decode(&result)
	}
	return resp, result
}

func data(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "expected a data object in %v", result)
	return d
}

// buildCourse creates a course with the given module/lesson layout through
// the admin API and returns the course id plus lesson ids per module.
func buildCourse(t *testing.T, title string, moduleCount, lessonsPerModule int) (string, [][]string) {
	t.Helper()

	resp, result := doJSON(t, "POST", "/api/admin/courses", adminToken, map[string]interface{}{
		"title":       title,
		"description": "test course",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	courseID := jsonID(t, data(t, result)["id"])

	lessons := make([][]string, 0, moduleCount)
	for m := 0; m < moduleCount; m++ {
		resp, result = doJSON(t, "POST", "/api/admin/courses/"+courseID+"/modules", adminToken, map[string]interface{}{
			"title":       "Part",
			"description": "module",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		moduleID := data(t, result)["id"].(string)

		ids := make([]string, 0, lessonsPerModule)
		for l := 0; l < lessonsPerModule; l++ {
			resp, result = doJSON(t, "POST",
				"/api/admin/courses/"+courseID+"/modules/"+moduleID+"/lessons", adminToken,
				map[string]interface{}{
					"title":     "Step",
					"video_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
					"duration":  10,
				})
			require.Equal(t, fiber.StatusCreated, resp.StatusCode)
			ids = append(ids, data(t, result)["id"].(string))
		}
		lessons = append(lessons, ids)
	}
	return courseID, lessons
}

// jsonID renders a decoded JSON numeric id as a path segment.
func jsonID(t *testing.T, v interface{}) string {
	t.Helper()
	f, ok := v.(float64)
	require.True(t, ok, "expected numeric id, got %T", v)
	return strconv.Itoa(int(f))
}
