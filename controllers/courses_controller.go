package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// ListCourses godoc
// @Summary List courses
// @Description Returns all courses, newest first, with the caller's progress
// @Tags courses
// @Produce json
// @Param search query string false "Filter by title"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := cc.DB.Order("created_at DESC")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return utils.StoreError(c, "Could not query database")
	}

	var records []models.ProgressRecord
	if err := cc.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return utils.StoreError(c, "Could not query database")
	}
	byCourse := make(map[uint]*models.ProgressRecord, len(records))
	for i := range records {
		byCourse[records[i].CourseID] = &records[i]
	}

	result := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		percent := 0
		if progress, ok := byCourse[course.ID]; ok {
			percent = progress.PercentComplete(course)
		}
		result = append(result, fiber.Map{
			"id":                course.ID,
			"title":             course.Title,
			"description":       course.Description,
			"preview_image_url": course.PreviewImageURL,
			"modules":           len(course.Modules),
			"lessons":           course.TotalLessons(),
			"duration":          course.TotalDuration(),
			"progress":          percent,
			"created_at":        course.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetCourseDetails returns the full course tree for users with access. For
// everyone else only the preview lesson (first lesson of the first module)
// is playable; the rest render locked with their video references stripped.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found", "/courses")
		}
		return utils.StoreError(c, "Could not query database")
	}
	course.SortModules()

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	progress, err := cc.getOrCreateProgress(userID, course.ID)
	if err != nil {
		return utils.StoreError(c, "Could not load progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":   courseView(&course, user.HasAccess, progress),
		"progress": progress.PercentComplete(&course),
	})
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Description Returns the caller's progress record for a course
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [get]
func (cc *CoursesController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found", "/courses")
		}
		return utils.StoreError(c, "Could not query database")
	}

	progress, err := cc.getOrCreateProgress(userID, course.ID)
	if err != nil {
		return utils.StoreError(c, "Could not load progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"record":  progress,
		"percent": progress.PercentComplete(&course),
	})
}

// CompleteLesson marks a lesson as completed. The operation is idempotent:
// an already-completed lesson is a no-op. The record is persisted before the
// updated state is reported; a failed write surfaces as a store error and
// leaves the completed set unchanged.
func (cc *CoursesController) CompleteLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lessonID := c.Params("lessonId")

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found", "/courses")
		}
		return utils.StoreError(c, "Could not query database")
	}

	if course.FindLesson(lessonID) == nil {
		return utils.NotFound(c, "Lesson not found", fmt.Sprintf("/courses/%d", course.ID))
	}

	progress, err := cc.getOrCreateProgress(userID, course.ID)
	if err != nil {
		return utils.StoreError(c, "Could not load progress")
	}

	if !progress.Completed(lessonID) {
		progress.CompletedLessons = append(progress.CompletedLessons, lessonID)
		progress.LastAccessedAt = time.Now()
		if err := cc.DB.Save(progress).Error; err != nil {
			return utils.StoreError(c, "Could not save progress")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"record":  progress,
		"percent": progress.PercentComplete(&course),
	})
}

// DownloadCertificate streams the completion certificate. Only permitted
// once every lesson of the course is completed; the generator itself does
// not re-verify, so the gate lives here.
func (cc *CoursesController) DownloadCertificate(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found", "/courses")
		}
		return utils.StoreError(c, "Could not query database")
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	progress, err := cc.getOrCreateProgress(userID, course.ID)
	if err != nil {
		return utils.StoreError(c, "Could not load progress")
	}

	if progress.PercentComplete(&course) != 100 {
		return utils.Forbidden(c, "Course is not completed yet", fmt.Sprintf("/courses/%d", course.ID))
	}

	pdf, err := utils.GenerateCertificate(user.DisplayName, course.Title, time.Now())
	if err != nil {
		return utils.StoreError(c, "Could not generate certificate")
	}

	if !progress.CertificateGenerated {
		progress.CertificateGenerated = true
		if err := cc.DB.Save(progress).Error; err != nil {
			return utils.StoreError(c, "Could not save progress")
		}
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="certificate_%d_%d.pdf"`, course.ID, user.ID))
	return c.Send(pdf)
}

// getOrCreateProgress lazily creates the (user, course) progress record with
// an empty completed set on first access.
func (cc *CoursesController) getOrCreateProgress(userID, courseID uint) (*models.ProgressRecord, error) {
	var progress models.ProgressRecord
	err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.ProgressRecord{
			UserID:           userID,
			CourseID:         courseID,
			CompletedLessons: models.StringList{},
			LastAccessedAt:   time.Now(),
		}
		if err := cc.DB.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// courseView renders the course tree with per-lesson completion and locking
// applied. Expects a sorted course.
func courseView(course *models.Course, hasAccess bool, progress *models.ProgressRecord) fiber.Map {
	previewID := course.PreviewLessonID()

	modules := make([]fiber.Map, 0, len(course.Modules))
	for _, module := range course.Modules {
		lessons := make([]fiber.Map, 0, len(module.Lessons))
		for _, lesson := range module.Lessons {
			locked := !hasAccess && lesson.ID != previewID
			view := fiber.Map{
				"id":          lesson.ID,
				"title":       lesson.Title,
				"description": lesson.Description,
				"order":       lesson.Order,
				"duration":    lesson.Duration,
				"completed":   progress.Completed(lesson.ID),
				"locked":      locked,
			}
			if !locked {
				view["video_url"] = lesson.VideoURL
				view["embed_url"] = utils.YouTubeEmbedURL(lesson.VideoURL)
				view["resources"] = lesson.Resources
			}
			lessons = append(lessons, view)
		}
		modules = append(modules, fiber.Map{
			"id":          module.ID,
			"title":       module.Title,
			"description": module.Description,
			"order":       module.Order,
			"lessons":     lessons,
		})
	}

	return fiber.Map{
		"id":                course.ID,
		"title":             course.Title,
		"description":       course.Description,
		"preview_image_url": course.PreviewImageURL,
		"telegram_url":      course.TelegramURL,
		"highlights":        course.Highlights,
		"requirements":      course.Requirements,
		"target_audience":   course.TargetAudience,
		"modules":           modules,
		"created_at":        course.CreatedAt,
		"updated_at":        course.UpdatedAt,
	}
}
