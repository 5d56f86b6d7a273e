package controllers

import (
	"context"
	"time"

	"anglebelearn_go/middleware"
	"anglebelearn_go/services"

	"github.com/gofiber/fiber/v2"
)

// SyncController triggers an on-demand Google Sheets sync
type SyncController struct {
	Sync *services.SheetSyncService
}

func NewSyncController(sync *services.SheetSyncService) *SyncController {
	return &SyncController{Sync: sync}
}

// POST /api/sync (admin only, enforced in routes)
func (sc *SyncController) TriggerSync(c *fiber.Ctx) error {
	if sc.Sync == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Sheet sync is not configured",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := sc.Sync.SyncAll(ctx); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "CREATE", "sheet_sync", 0, fiber.Map{"trigger": "manual"})
	return c.JSON(fiber.Map{"message": "Sheet sync completed"})
}
