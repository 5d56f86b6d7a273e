package controllers

import (
	"strconv"
	"strings"

	"anglebelearn_go/database"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns the student register with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if active := c.Query("active"); active == "false" {
		query = query.Where("active = ?", false)
	} else {
		query = query.Where("active = ?", true)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR student_id LIKE ?", like, like)
	}

	query.Count(&total)

	if err := query.Order("student_id ASC").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	out := make([]utils.StudentShort, 0, len(students))
	for _, s := range students {
		out = append(out, utils.ToStudentShort(s))
	}

	return c.JSON(fiber.Map{
		"students": out,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by sheet ID, including the EM
// (point-of-contact) details
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("student_id"))
	if studentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{"student": utils.ToStudentShort(student)})
}
