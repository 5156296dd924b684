package controllers_test

import (
	"io"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseplatform/models"
	"courseplatform/utils"
)

func TestListCoursesIncludesProgress(t *testing.T) {
	courseID, lessons := buildCourse(t, "Listing Course", 1, 2)
	resp, _ := doJSON(t, "POST",
		"/api/courses/"+courseID+"/lessons/"+lessons[0][0]+"/complete", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result := doJSON(t, "GET", "/api/courses/?search=listing", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	list := result["data"].([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, "Listing Course", entry["title"])
	assert.Equal(t, float64(1), entry["modules"])
	assert.Equal(t, float64(2), entry["lessons"])
	assert.Equal(t, float64(20), entry["duration"])
	assert.Equal(t, float64(50), entry["progress"])
}

func TestCompleteLessonProgressRounding(t *testing.T) {
	courseID, lessons := buildCourse(t, "Rounding Course", 2, 3)

	// complete five of six lessons
	var percent float64
	all := append(append([]string{}, lessons[0]...), lessons[1]...)
	for _, lessonID := range all[:5] {
		resp, result := doJSON(t, "POST",
			"/api/courses/"+courseID+"/lessons/"+lessonID+"/complete", learnerToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		percent = data(t, result)["percent"].(float64)
	}
	assert.Equal(t, float64(83), percent)

	// completing the same lesson again changes nothing
	resp, result := doJSON(t, "POST",
		"/api/courses/"+courseID+"/lessons/"+all[4]+"/complete", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(83), data(t, result)["percent"].(float64))
	record := data(t, result)["record"].(map[string]interface{})
	assert.Len(t, record["completed_lessons"].([]interface{}), 5)

	resp, result = doJSON(t, "POST",
		"/api/courses/"+courseID+"/lessons/"+all[5]+"/complete", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(100), data(t, result)["percent"].(float64))
}

func TestCompleteUnknownLesson(t *testing.T) {
	courseID, _ := buildCourse(t, "Unknown Lesson Course", 1, 1)

	resp, result := doJSON(t, "POST",
		"/api/courses/"+courseID+"/lessons/no-such-lesson/complete", learnerToken, nil)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, utils.KindNotFound, result["kind"])
	assert.Equal(t, "/courses/"+courseID, result["redirect"])
}

func TestCertificateRequiresCompletion(t *testing.T) {
	courseID, lessons := buildCourse(t, "Certificate Course", 1, 2)

	resp, result := doJSON(t, "GET", "/api/courses/"+courseID+"/certificate", learnerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, utils.KindForbidden, result["kind"])

	for _, lessonID := range lessons[0] {
		resp, _ = doJSON(t, "POST",
			"/api/courses/"+courseID+"/lessons/"+lessonID+"/complete", learnerToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", "/api/courses/"+courseID+"/certificate", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))

	var progress models.ProgressRecord
	require.NoError(t, db.Where("course_id = ?", courseID).
		Where("certificate_generated = ?", true).First(&progress).Error)
}

func TestPreviewGatingWithoutAccess(t *testing.T) {
	courseID, lessons := buildCourse(t, "Gated Course", 2, 2)

	resp, result := doJSON(t, "GET", "/api/courses/"+courseID, guestToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	modules := data(t, result)["course"].(map[string]interface{})["modules"].([]interface{})
	require.Len(t, modules, 2)

	for mi, m := range modules {
		for li, l := range m.(map[string]interface{})["lessons"].([]interface{}) {
			lesson := l.(map[string]interface{})
			if mi == 0 && li == 0 {
				assert.Equal(t, false, lesson["locked"])
				assert.Equal(t, lessons[0][0], lesson["id"])
				assert.NotEmpty(t, lesson["video_url"])
				assert.Contains(t, lesson["embed_url"], "youtube.com/embed/")
			} else {
				assert.Equal(t, true, lesson["locked"])
				assert.NotContains(t, lesson, "video_url")
				assert.NotContains(t, lesson, "embed_url")
			}
		}
	}
}

func TestProgressRequiresAccess(t *testing.T) {
	courseID, _ := buildCourse(t, "Access Gate Course", 1, 1)

	resp, result := doJSON(t, "GET", "/api/courses/"+courseID+"/progress", guestToken, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, utils.KindForbidden, result["kind"])
	assert.Equal(t, "/payment-instructions", result["redirect"])
}

func TestGetCourseProgress(t *testing.T) {
	courseID, lessons := buildCourse(t, "Progress Course", 1, 2)
	resp, _ := doJSON(t, "POST",
		"/api/courses/"+courseID+"/lessons/"+lessons[0][1]+"/complete", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result := doJSON(t, "GET", "/api/courses/"+courseID+"/progress", learnerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(50), data(t, result)["percent"].(float64))
	record := data(t, result)["record"].(map[string]interface{})
	assert.Equal(t, lessons[0][1], record["completed_lessons"].([]interface{})[0])
}

func TestGetUnknownCourse(t *testing.T) {
	resp, result := doJSON(t, "GET", "/api/courses/999999", learnerToken, nil)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, utils.KindNotFound, result["kind"])
	assert.Equal(t, "/courses", result["redirect"])
}
