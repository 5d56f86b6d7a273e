package controllers

import (
	"fmt"

	"anglebelearn_go/middleware"
	"anglebelearn_go/models"
	"anglebelearn_go/services"

	"github.com/gofiber/fiber/v2"
)

// RatesController manages the rate schedule used for pricing
type RatesController struct {
	Rates   *services.RateService
	Reports *services.ReportService
}

func NewRatesController(rates *services.RateService, reports *services.ReportService) *RatesController {
	return &RatesController{Rates: rates, Reports: reports}
}

// GET /api/rates/effective
// Returns the schedule pricing uses right now (built-in or overridden)
func (rc *RatesController) GetEffectiveSchedule(c *fiber.Ctx) error {
	schedule, err := rc.Rates.EffectiveSchedule()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rules": schedule, "total": len(schedule)})
}

// OverrideRequest is one submitted rate rule
type OverrideRequest struct {
	RuleID   string  `json:"rule_id" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Board    string  `json:"board"`
	MinLevel int     `json:"min_level"`
	MaxLevel int     `json:"max_level"`
	Rate     float64 `json:"rate" validate:"required"`
	Formula  string  `json:"formula"`
}

// PUT /api/rates/overrides (admin only, enforced in routes)
// Replaces the active override set; rule order is match order
func (rc *RatesController) ReplaceOverrides(c *fiber.Ctx) error {
	var req struct {
		Rules []OverrideRequest `json:"rules" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rules := make([]models.RateOverride, 0, len(req.Rules))
	for i, r := range req.Rules {
		formula := r.Formula
		if formula == "" {
			formula = "perHour"
		}
		rule := models.RateOverride{
			RuleID:   r.RuleID,
			Category: r.Category,
			Board:    r.Board,
			MinLevel: r.MinLevel,
			MaxLevel: r.MaxLevel,
			Rate:     r.Rate,
			Formula:  formula,
		}
		if err := rc.Rates.ValidateOverride(rule); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("rule %d: %v", i+1, err),
			})
		}
		rules = append(rules, rule)
	}

	if err := rc.Rates.ReplaceOverrides(rules); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// Cached reports were priced against the old schedule
	rc.Reports.InvalidateReportCache()

	middleware.LogActivity(c, "UPDATE", "rates", 0, fiber.Map{"rules": len(rules)})
	return c.JSON(fiber.Map{
		"message": "Rate overrides replaced",
		"rules":   len(rules),
	})
}

// DELETE /api/rates/overrides (admin only, enforced in routes)
// Restores the built-in schedule
func (rc *RatesController) ResetOverrides(c *fiber.Ctx) error {
	if err := rc.Rates.ResetOverrides(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	rc.Reports.InvalidateReportCache()

	middleware.LogActivity(c, "DELETE", "rates", 0, fiber.Map{"action": "reset_overrides"})
	return c.JSON(fiber.Map{"message": "Rate overrides reset to built-in schedule"})
}
