package controllers

import (
	"strconv"
	"strings"

	"anglebelearn_go/database"
	"anglebelearn_go/middleware"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

// GetTeachers returns all teachers with pagination
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var teachers []models.Teacher
	var total int64

	query := database.DB.Model(&models.Teacher{})

	// Filter by active status
	if active := c.Query("active"); active == "false" {
		query = query.Where("active = ?", false)
	} else {
		query = query.Where("active = ?", true)
	}

	// Search by name or sheet ID
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR teacher_id LIKE ?", like, like)
	}

	// Get total count
	query.Count(&total)

	if err := query.Order("teacher_id ASC").
		Offset(offset).Limit(limit).Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teachers",
		})
	}

	out := make([]utils.TeacherShort, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, utils.ToTeacherShort(t))
	}

	return c.JSON(fiber.Map{
		"teachers": out,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTeacher returns a specific teacher by sheet ID
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	teacherID := strings.TrimSpace(c.Params("teacher_id"))
	if teacherID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.Where("teacher_id = ?", teacherID).First(&teacher).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	return c.JSON(fiber.Map{"teacher": teacher})
}

// CreateTeacher registers a teacher in the local register (admin only,
// enforced in routes). Most rows arrive through imports; this covers manual
// corrections.
func (tc *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var req struct {
		TeacherID string `json:"teacher_id" validate:"required"`
		Name      string `json:"name" validate:"required"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.TeacherID) == "" || strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "teacher_id and name are required"})
	}

	var existing models.Teacher
	if err := database.DB.Where("teacher_id = ?", req.TeacherID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Teacher already exists"})
	}

	teacher := models.Teacher{
		TeacherID: req.TeacherID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
	}
	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create teacher"})
	}

	middleware.LogActivity(c, "CREATE", "teachers", teacher.ID, fiber.Map{"teacher_id": teacher.TeacherID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"teacher": teacher})
}
