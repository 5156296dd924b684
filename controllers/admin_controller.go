package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/models"
	"courseplatform/utils"
)

// AdminController owns content management: course CRUD and the module/lesson
// tree. Module and lesson mutations always rewrite the course's whole
// Modules document.
type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

type CourseInput struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	PreviewImageURL string   `json:"preview_image_url"`
	TelegramURL     string   `json:"telegram_url"`
	Highlights      []string `json:"highlights"`
	Requirements    []string `json:"requirements"`
	TargetAudience  []string `json:"target_audience"`
}

type ModuleInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type ResourceInput struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=link file"`
}

type LessonInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	VideoURL    string          `json:"video_url" validate:"required,youtube"`
	Duration    int             `json:"duration" validate:"min=0"`
	Resources   []ResourceInput `json:"resources" validate:"dive"`
}

// CreateCourse godoc
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Param course body CourseInput true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (ac *AdminController) CreateCourse(c *fiber.Ctx) error {
	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := models.Course{
		Title:           input.Title,
		Description:     input.Description,
		PreviewImageURL: input.PreviewImageURL,
		TelegramURL:     input.TelegramURL,
		Highlights:      input.Highlights,
		Requirements:    input.Requirements,
		TargetAudience:  input.TargetAudience,
		Modules:         models.ModuleList{},
	}

	if err := ac.DB.Create(&course).Error; err != nil {
		return utils.StoreError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

func (ac *AdminController) UpdateCourse(c *fiber.Ctx) error {
	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	// Content tree and creation time survive a metadata edit.
	course.Title = input.Title
	course.Description = input.Description
	course.PreviewImageURL = input.PreviewImageURL
	course.TelegramURL = input.TelegramURL
	course.Highlights = input.Highlights
	course.Requirements = input.Requirements
	course.TargetAudience = input.TargetAudience

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, course)
}

func (ac *AdminController) DeleteCourse(c *fiber.Ctx) error {
	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	// Progress rows referencing this course stay behind; completed lesson
	// ids are weak references and tolerate the dangling course.
	if err := ac.DB.Delete(course).Error; err != nil {
		return utils.StoreError(c, "Could not delete course")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": course.ID})
}

// AddModule appends a module with order = 1 + max(existing orders), 0 for
// the first one. The stored title embeds the 1-based position.
func (ac *AdminController) AddModule(c *fiber.Ctx) error {
	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	order := course.NextModuleOrder()
	module := models.Module{
		ID:          uuid.NewString(),
		Title:       models.PrefixedTitle(models.TitleModule, order, input.Title),
		Description: input.Description,
		Order:       order,
		Lessons:     []models.Lesson{},
	}

	course.Modules = append(course.Modules, module)
	course.SortModules()

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not save module")
	}

	return utils.Created(c, module)
}

// UpdateModule keeps the module's order and lessons; the title is rewritten
// against the preserved order.
func (ac *AdminController) UpdateModule(c *fiber.Ctx) error {
	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	idx := course.FindModule(c.Params("moduleId"))
	if idx == -1 {
		return utils.NotFound(c, "Module not found", "/admin")
	}

	module := &course.Modules[idx]
	module.Title = models.PrefixedTitle(models.TitleModule, module.Order, input.Title)
	module.Description = input.Description
	course.SortModules()

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not save module")
	}

	return utils.Success(c, fiber.StatusOK, course.Modules[course.FindModule(c.Params("moduleId"))])
}

// DeleteModule removes the module without renumbering its siblings; gaps in
// the order sequence are tolerated.
func (ac *AdminController) DeleteModule(c *fiber.Ctx) error {
	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	moduleID := c.Params("moduleId")
	if course.FindModule(moduleID) == -1 {
		return utils.NotFound(c, "Module not found", "/admin")
	}

	kept := make(models.ModuleList, 0, len(course.Modules)-1)
	for _, m := range course.Modules {
		if m.ID != moduleID {
			kept = append(kept, m)
		}
	}
	course.Modules = kept

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not delete module")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": moduleID})
}

// AddLesson appends a lesson to a module, with the same order and title
// rules as modules. Resources are attached here and have no independent
// lifecycle.
func (ac *AdminController) AddLesson(c *fiber.Ctx) error {
	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	idx := course.FindModule(c.Params("moduleId"))
	if idx == -1 {
		return utils.NotFound(c, "Module not found", "/admin")
	}
	module := &course.Modules[idx]

	order := module.NextLessonOrder()
	lesson := models.Lesson{
		ID:          uuid.NewString(),
		Title:       models.PrefixedTitle(models.TitleLesson, order, input.Title),
		Description: input.Description,
		VideoURL:    input.VideoURL,
		Order:       order,
		Duration:    input.Duration,
		Resources:   buildResources(input.Resources),
	}

	module.Lessons = append(module.Lessons, lesson)
	course.SortModules()

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not save lesson")
	}

	return utils.Created(c, lesson)
}

func (ac *AdminController) UpdateLesson(c *fiber.Ctx) error {
	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ValidationError(c, validationDetails(err))
	}

	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	idx := course.FindModule(c.Params("moduleId"))
	if idx == -1 {
		return utils.NotFound(c, "Module not found", "/admin")
	}
	module := &course.Modules[idx]

	lessonID := c.Params("lessonId")
	var lesson *models.Lesson
	for i := range module.Lessons {
		if module.Lessons[i].ID == lessonID {
			lesson = &module.Lessons[i]
			break
		}
	}
	if lesson == nil {
		return utils.NotFound(c, "Lesson not found", "/admin")
	}

	// Order is preserved on edit.
	lesson.Title = models.PrefixedTitle(models.TitleLesson, lesson.Order, input.Title)
	lesson.Description = input.Description
	lesson.VideoURL = input.VideoURL
	lesson.Duration = input.Duration
	if input.Resources != nil {
		lesson.Resources = buildResources(input.Resources)
	}
	course.SortModules()

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not save lesson")
	}

	return utils.Success(c, fiber.StatusOK, *course.FindLesson(lessonID))
}

func (ac *AdminController) DeleteLesson(c *fiber.Ctx) error {
	course := ac.fetchCourse(c)
	if course == nil {
		return nil
	}

	idx := course.FindModule(c.Params("moduleId"))
	if idx == -1 {
		return utils.NotFound(c, "Module not found", "/admin")
	}
	module := &course.Modules[idx]

	lessonID := c.Params("lessonId")
	kept := make([]models.Lesson, 0, len(module.Lessons))
	found := false
	for _, l := range module.Lessons {
		if l.ID == lessonID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return utils.NotFound(c, "Lesson not found", "/admin")
	}
	module.Lessons = kept

	if err := ac.DB.Save(course).Error; err != nil {
		return utils.StoreError(c, "Could not delete lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": lessonID})
}

// fetchCourse loads the course named by the :id param. On failure it writes
// the error response and returns nil; the handler then just returns nil.
func (ac *AdminController) fetchCourse(c *fiber.Ctx) *models.Course {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid course ID")
		return nil
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Course not found", "/admin")
		} else {
			utils.StoreError(c, "Could not query database")
		}
		return nil
	}
	return &course
}

func buildResources(inputs []ResourceInput) []models.Resource {
	if len(inputs) == 0 {
		return nil
	}
	resources := make([]models.Resource, 0, len(inputs))
	for _, r := range inputs {
		resources = append(resources, models.Resource{
			ID:    uuid.NewString(),
			Title: r.Title,
			URL:   r.URL,
			Kind:  r.Kind,
		})
	}
	return resources
}
