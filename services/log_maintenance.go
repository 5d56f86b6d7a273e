package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anglebelearn_go/database"
	"anglebelearn_go/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// LogMaintenanceService moves Redis-cached activity logs into the database
// once their cache window has passed
type LogMaintenanceService struct {
	redisClient *redis.Client
}

func NewLogMaintenanceService() *LogMaintenanceService {
	return &LogMaintenanceService{redisClient: database.GetRedisClient()}
}

// FlushCachedLogsToDatabase moves logs from Redis cache to database
func (lms *LogMaintenanceService) FlushCachedLogsToDatabase() error {
	if lms.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoffTime := time.Now().Add(-24 * time.Hour)

	// Get all expired logs from the sorted set
	expiredLogs, err := lms.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoffTime.Unix()),
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to get expired logs: %v", err)
	}

	logrus.Infof("Processing %d expired cached logs", len(expiredLogs))

	var processedCount int
	var errorCount int

	for _, logKey := range expiredLogs {
		logData, err := lms.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
			}
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to save log to database: %v", activityLog)
			errorCount++
			continue
		}

		// Remove from cache and queue
		pipeline := lms.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}

		processedCount++
	}

	logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	return nil
}

// PruneOldLogs deletes activity logs older than the given age. Reports are
// rebuilt from session rows, so old request logs carry no payroll value.
func (lms *LogMaintenanceService) PruneOldLogs(daysOld int) error {
	if daysOld < 7 {
		return fmt.Errorf("minimum prune age is 7 days for safety")
	}
	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	result := database.DB.Where("created_at < ?", cutoffDate).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune old logs: %v", result.Error)
	}
	if result.RowsAffected > 0 {
		logrus.Infof("Pruned %d logs older than %s", result.RowsAffected, cutoffDate.Format("2006-01-02"))
	}
	return nil
}

// StartLogMaintenanceScheduler starts background goroutine to flush and prune logs periodically
func (lms *LogMaintenanceService) StartLogMaintenanceScheduler() {
	go func() {
		// Run immediately once
		if err := lms.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("initial FlushCachedLogsToDatabase failed")
		}
		if err := lms.PruneOldLogs(90); err != nil {
			logrus.WithError(err).Warn("initial PruneOldLogs failed")
		}

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := lms.FlushCachedLogsToDatabase(); err != nil {
				logrus.WithError(err).Warn("periodic FlushCachedLogsToDatabase failed")
			}
			if err := lms.PruneOldLogs(90); err != nil {
				logrus.WithError(err).Warn("periodic PruneOldLogs failed")
			}
		}
	}()
}
