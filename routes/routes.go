package routes

import (
	"anglebelearn_go/controllers"
	"anglebelearn_go/middleware"
	"anglebelearn_go/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	teacherController := &controllers.TeacherController{}
	studentController := &controllers.StudentController{}
	scheduleController := &controllers.SchedulesController{}
	logsController := &controllers.LogsController{}
	importController := controllers.NewSessionsImportController(deps.Importer)
	reportsController := controllers.NewReportsController(deps.Reports, deps.Exports)
	ratesController := controllers.NewRatesController(deps.Rates, deps.Reports)
	healthController := controllers.NewHealthController(deps.Health)
	syncController := controllers.NewSyncController(deps.SheetSync)

	// API group
	api := app.Group("/api")

	// Health endpoint (no auth so load balancers can probe it)
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management (admin/owner only)
	users := protected.Group("/users", middleware.RequireOwnerOrAdmin())
	users.Post("/", authController.Register)

	// Import routes (admin/owner only)
	imports := protected.Group("/import", middleware.RequireOwnerOrAdmin())
	imports.Post("/sessions", importController.ImportSessions)
	imports.Post("/timetable", importController.ImportTimetable)
	imports.Post("/students", importController.ImportStudents)

	// Sheet sync (admin/owner only)
	protected.Post("/sync", middleware.RequireOwnerOrAdmin(), syncController.TriggerSync)

	// Report routes
	reports := protected.Group("/reports")
	reports.Get("/teacher", middleware.RequireTeacherOrAbove(), reportsController.GetTeacherReport)
	reports.Get("/student", reportsController.GetStudentReport)
	reports.Get("/overview", middleware.RequireOwnerOrAdmin(), reportsController.GetOverviewReport)
	reports.Post("/teacher/export", middleware.RequireOwnerOrAdmin(), reportsController.ExportTeacherPayroll)
	reports.Get("/exports", middleware.RequireOwnerOrAdmin(), reportsController.ListPayrollExports)

	// Rate schedule routes
	rates := protected.Group("/rates")
	rates.Get("/effective", middleware.RequireTeacherOrAbove(), ratesController.GetEffectiveSchedule)
	rates.Put("/overrides", middleware.RequireOwnerOrAdmin(), ratesController.ReplaceOverrides)
	rates.Delete("/overrides", middleware.RequireOwnerOrAdmin(), ratesController.ResetOverrides)

	// Schedule routes
	schedules := protected.Group("/schedules")
	schedules.Get("/weekly", middleware.RequireTeacherOrAbove(), scheduleController.GetWeeklySchedule)
	schedules.Get("/slots", middleware.RequireOwnerOrAdmin(), scheduleController.GetSlotAssignments)

	// Teacher register routes
	teachers := protected.Group("/teachers")
	teachers.Get("/", middleware.RequireTeacherOrAbove(), teacherController.GetTeachers)
	teachers.Get("/:teacher_id", middleware.RequireTeacherOrAbove(), teacherController.GetTeacher)
	teachers.Post("/", middleware.RequireOwnerOrAdmin(), teacherController.CreateTeacher)

	// Student register routes
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAbove(), studentController.GetStudents)
	students.Get("/:student_id", middleware.RequireTeacherOrAbove(), studentController.GetStudent)

	// Log routes (admin/owner only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logsController.GetActivityLogs)
	logs.Get("/imports", logsController.GetImportBatches)
}

// Dependencies carries the service instances routes need
type Dependencies struct {
	Importer  *services.Importer
	Reports   *services.ReportService
	Exports   *services.ExportService
	Rates     *services.RateService
	Health    *services.HealthService
	SheetSync *services.SheetSyncService
}
