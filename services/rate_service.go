package services

import (
	"fmt"

	"anglebelearn_go/database"
	"anglebelearn_go/engine"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"

	"github.com/sirupsen/logrus"
)

// RateService resolves the rate schedule used for pricing. The built-in
// schedule applies unless admins have stored active overrides, in which case
// the overrides replace it wholesale.
type RateService struct{}

// EffectiveSchedule returns the schedule pricing should use right now
func (rs *RateService) EffectiveSchedule() (engine.RateSchedule, error) {
	var overrides []models.RateOverride
	err := database.DB.
		Where("active = ?", true).
		Order("position ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rate overrides: %w", err)
	}

	if len(overrides) == 0 {
		return engine.DefaultSchedule(), nil
	}

	schedule := make(engine.RateSchedule, 0, len(overrides))
	for _, o := range overrides {
		schedule = append(schedule, utils.ToRateRule(o))
	}
	logrus.WithField("rules", len(schedule)).Debug("Using override rate schedule")
	return schedule, nil
}

// ReplaceOverrides deactivates the current override set and stores a new one
// in the given order. An empty slice clears overrides so pricing falls back
// to the built-in schedule.
func (rs *RateService) ReplaceOverrides(rules []models.RateOverride) error {
	tx := database.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Model(&models.RateOverride{}).
		Where("active = ?", true).
		Update("active", false).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to deactivate existing overrides: %w", err)
	}

	for i := range rules {
		rules[i].ID = 0
		rules[i].Position = i
		rules[i].Active = true
		if err := tx.Create(&rules[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to store override %s: %w", rules[i].RuleID, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit overrides: %w", err)
	}

	logrus.WithField("rules", len(rules)).Info("Rate overrides replaced")
	return nil
}

// ResetOverrides deactivates all overrides, restoring the built-in schedule
func (rs *RateService) ResetOverrides() error {
	err := database.DB.Model(&models.RateOverride{}).
		Where("active = ?", true).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to reset overrides: %w", err)
	}
	logrus.Info("Rate overrides reset to built-in schedule")
	return nil
}

// ValidateOverride checks a submitted override row before it is stored
func (rs *RateService) ValidateOverride(o models.RateOverride) error {
	switch engine.Category(o.Category) {
	case engine.CategoryDemo, engine.CategoryPaid, engine.CategoryStandard:
	default:
		return fmt.Errorf("invalid category: %s", o.Category)
	}
	switch engine.Formula(o.Formula) {
	case engine.FormulaPerHour, engine.FormulaPerHourTimesFour:
	default:
		return fmt.Errorf("invalid formula: %s", o.Formula)
	}
	if o.Board != "" {
		switch engine.BoardGroup(o.Board) {
		case engine.BoardIBIGCSE, engine.BoardOther:
		default:
			return fmt.Errorf("invalid board group: %s", o.Board)
		}
	}
	if o.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	if o.MinLevel < 0 || o.MaxLevel < 0 {
		return fmt.Errorf("levels must not be negative")
	}
	if o.MaxLevel != 0 && o.MinLevel > o.MaxLevel {
		return fmt.Errorf("min_level %d exceeds max_level %d", o.MinLevel, o.MaxLevel)
	}
	if o.RuleID == "" {
		return fmt.Errorf("rule_id is required")
	}
	return nil
}
