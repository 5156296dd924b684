package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/controllers"
	"courseplatform/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	accessMiddleware := middleware.AccessMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	usersController := controllers.NewUsersController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, usersController.GetProfile)

	// Course routes. The detail view is reachable without the access flag so
	// the preview lesson can be shown; progress, completion and certificates
	// require paid access.
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/progress", accessMiddleware, coursesController.GetCourseProgress)
	courses.Post("/:id/lessons/:lessonId/complete", accessMiddleware, coursesController.CompleteLesson)
	courses.Get("/:id/certificate", accessMiddleware, coursesController.DownloadCertificate)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/users", usersController.ListUsers)
	admin.Put("/users/:id/access", usersController.SetAccess)
	admin.Post("/courses", adminController.CreateCourse)
	admin.Put("/courses/:id", adminController.UpdateCourse)
	admin.Delete("/courses/:id", adminController.DeleteCourse)
	admin.Post("/courses/:id/modules", adminController.AddModule)
	admin.Put("/courses/:id/modules/:moduleId", adminController.UpdateModule)
	admin.Delete("/courses/:id/modules/:moduleId", adminController.DeleteModule)
	admin.Post("/courses/:id/modules/:moduleId/lessons", adminController.AddLesson)
	admin.Put("/courses/:id/modules/:moduleId/lessons/:lessonId", adminController.UpdateLesson)
	admin.Delete("/courses/:id/modules/:moduleId/lessons/:lessonId", adminController.DeleteLesson)
}
