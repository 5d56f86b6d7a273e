package controllers

import (
	"strconv"

	"anglebelearn_go/database"
	"anglebelearn_go/models"

	"github.com/gofiber/fiber/v2"
)

// LogsController exposes activity logs and import history to admins
type LogsController struct{}

// GetActivityLogs returns activity logs with pagination, newest first
func (lc *LogsController) GetActivityLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset := (page - 1) * limit

	var logs []models.ActivityLog
	var total int64

	query := database.DB.Model(&models.ActivityLog{})

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	query.Count(&total)

	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetImportBatches returns import history, newest first
func (lc *LogsController) GetImportBatches(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset := (page - 1) * limit

	var batches []models.ImportBatch
	var total int64

	query := database.DB.Model(&models.ImportBatch{})

	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&batches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch import batches",
		})
	}

	return c.JSON(fiber.Map{
		"batches": batches,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
