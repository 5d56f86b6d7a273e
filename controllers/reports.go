package controllers

import (
	"strings"

	"anglebelearn_go/middleware"
	"anglebelearn_go/services"
	"anglebelearn_go/utils"

	"github.com/gofiber/fiber/v2"
)

// ReportsController serves the compensation and reconciliation reports
type ReportsController struct {
	Reports *services.ReportService
	Exports *services.ExportService
}

func NewReportsController(reports *services.ReportService, exports *services.ExportService) *ReportsController {
	return &ReportsController{Reports: reports, Exports: exports}
}

// GET /api/reports/teacher?teacher_id=..&name=..&month=..&year=..
// Both the sheet ID and the name are checked against the imported rows
// before anything is returned, for admins too.
func (rc *ReportsController) GetTeacherReport(c *fiber.Ctx) error {
	teacherID := strings.TrimSpace(c.Query("teacher_id"))
	claimedName := strings.TrimSpace(c.Query("name"))
	month := c.Query("month")
	year := c.Query("year")

	if teacherID == "" || claimedName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "teacher_id and name are required",
		})
	}
	if month == "" || year == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "month and year are required",
		})
	}

	// Teachers may only query their own sheet ID
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "teacher" && utils.NormalizeSheetID(user.SheetID) != utils.NormalizeSheetID(teacherID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Teachers can only view their own report",
		})
	}

	report, err := rc.Reports.BuildTeacherReport(teacherID, claimedName, month, year)
	if err != nil {
		if err == services.ErrTeacherVerification {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No sessions found for that teacher ID and name in the period",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "READ", "reports", 0, fiber.Map{
		"type":       "teacher",
		"teacher_id": teacherID,
		"month":      month,
		"year":       year,
	})
	return c.JSON(report)
}

// GET /api/reports/student?student_id=..&name=..&month=..&year=..
// Same ID-plus-name verification as the teacher path; EM contact details and
// the Supalearn password never come back on an ID alone.
func (rc *ReportsController) GetStudentReport(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Query("student_id"))
	claimedName := strings.TrimSpace(c.Query("name"))
	month := c.Query("month")
	year := c.Query("year")

	if studentID == "" || claimedName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "student_id and name are required",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "student" && utils.NormalizeSheetID(user.SheetID) != utils.NormalizeSheetID(studentID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Students can only view their own report",
		})
	}

	report, err := rc.Reports.BuildStudentReport(studentID, claimedName, month, year)
	if err != nil {
		if err == services.ErrStudentVerification {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No sessions found for that student ID and name in the period",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// GET /api/reports/overview?month=..&year=.. (admin only, enforced in routes)
func (rc *ReportsController) GetOverviewReport(c *fiber.Ctx) error {
	month := c.Query("month")
	year := c.Query("year")
	if month == "" || year == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "month and year are required",
		})
	}

	report, err := rc.Reports.BuildOverviewReport(month, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// POST /api/reports/teacher/export
// Prices the teacher's period and uploads the payroll CSV to S3
func (rc *ReportsController) ExportTeacherPayroll(c *fiber.Ctx) error {
	var req struct {
		TeacherID string `json:"teacher_id" validate:"required"`
		Name      string `json:"name" validate:"required"`
		Month     string `json:"month" validate:"required"`
		Year      string `json:"year" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TeacherID == "" || req.Name == "" || req.Month == "" || req.Year == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "teacher_id, name, month and year are required",
		})
	}

	export, err := rc.Exports.ExportTeacherPayroll(req.TeacherID, req.Name, req.Month, req.Year)
	if err != nil {
		if err == services.ErrTeacherVerification {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No sessions found for that teacher ID and name in the period",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "CREATE", "payroll_exports", export.ID, fiber.Map{
		"teacher_id": export.TeacherID,
		"s3_key":     export.S3Key,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payroll export uploaded",
		"export":  export,
	})
}

// GET /api/reports/exports?teacher_id=..
func (rc *ReportsController) ListPayrollExports(c *fiber.Ctx) error {
	exports, err := rc.Exports.ListExports(strings.TrimSpace(c.Query("teacher_id")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"exports": exports, "total": len(exports)})
}
