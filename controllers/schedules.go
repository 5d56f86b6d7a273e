package controllers

import (
	"strings"

	"anglebelearn_go/database"
	"anglebelearn_go/engine"
	"anglebelearn_go/middleware"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"

	"github.com/gofiber/fiber/v2"
)

// SchedulesController serves the weekly timetable pivot built from imported
// slot assignments
type SchedulesController struct{}

// GET /api/schedules/weekly?teacher_id=..
// Returns one cell per (time slot, weekday) with the active students in
// encounter order. Weekdays run Sunday through Saturday.
func (sc *SchedulesController) GetWeeklySchedule(c *fiber.Ctx) error {
	teacherID := strings.TrimSpace(c.Query("teacher_id"))
	if teacherID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "teacher_id is required"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "teacher" && utils.NormalizeSheetID(user.SheetID) != utils.NormalizeSheetID(teacherID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Teachers can only view their own schedule",
		})
	}

	var rows []models.SlotAssignment
	if err := database.DB.Order("weekday ASC, id ASC").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}

	cells, err := engine.BuildPivot(utils.ToSlotAssignments(rows), teacherID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"teacher_id": teacherID,
		"cells":      cells,
		"total":      len(cells),
	})
}

// GET /api/schedules/slots?weekday=..
// Raw slot assignments for admins, optionally filtered by weekday name
func (sc *SchedulesController) GetSlotAssignments(c *fiber.Ctx) error {
	q := database.DB.Order("weekday ASC, time_slot ASC, id ASC")

	if day := strings.TrimSpace(c.Query("weekday")); day != "" {
		weekday, ok := map[string]int{
			"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
			"thursday": 4, "friday": 5, "saturday": 6,
		}[strings.ToLower(day)]
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid weekday"})
		}
		q = q.Where("weekday = ?", weekday)
	}

	var rows []models.SlotAssignment
	if err := q.Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch slot assignments"})
	}

	return c.JSON(fiber.Map{"assignments": rows, "total": len(rows)})
}
