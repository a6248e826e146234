package parse

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/odfid"
)

// phaseFromUnitCode derives the phase from markers inside the unit
// identifier. SFNL must be checked before FNL, it contains it.
func phaseFromUnitCode(unitID string) string {
	switch {
	case strings.Contains(unitID, "SFNL"):
		return "Semifinal"
	case strings.Contains(unitID, "FNL"):
		return "Final"
	case strings.Contains(unitID, "HEAT"):
		return "Heat"
	default:
		return "Unknown"
	}
}

// configEntries flattens one Config node's extended configuration into
// a flat mapping. INTERMEDIATE entries expand to INT_<pos> and, when a
// stroke item is present, INT_<pos>_STROKE.
func configEntries(config *Node) datatypes.JSONMap {
	entries := datatypes.JSONMap{}
	for _, ext := range config.ChildrenNamed("ExtendedConfig") {
		code := ext.Attr("Code")
		value := ext.Attr("Value")
		pos := ext.Attr("Pos")
		if pos == "" {
			pos = "F"
		}
		if code == "INTERMEDIATE" {
			if item := ext.FindDescendant("ExtendedConfigItem"); item != nil {
				entries["INT_"+pos+"_STROKE"] = item.Attr("Value")
			}
			entries["INT_"+pos] = value
		} else if code != "" {
			entries[code] = value
		}
	}
	return entries
}

// UnitConfig reconciles DT_CONFIG messages. Configuration merges
// additively into the unit's config_data, keys from later messages win
// but earlier keys survive. Umbrella units, whose unit segment is all
// dash padding, carry no lane configuration and are skipped.
func UnitConfig(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	configs := msg.Body.Path("Competition", "Configs")
	if configs == nil {
		log.Warn("config message carries no Configs node")
		return nil
	}

	processed, ignored := 0, 0
	for _, config := range configs.ChildrenNamed("Config") {
		rawUnit := strings.TrimSpace(config.Attr("Unit"))
		if rawUnit == "" {
			continue
		}
		unitID, err := odfid.NormalizeUnitID(rawUnit)
		if err != nil {
			log.Warn("config message carries invalid unit identifier",
				zap.String("unit", rawUnit), zap.Error(err))
			continue
		}
		if strings.HasSuffix(unitID, odfid.UnitPlaceholder) {
			ignored++
			continue
		}

		entries := configEntries(config)
		if len(entries) == 0 {
			continue
		}
		if err := mergeUnitConfig(tx, unitID, phaseFromUnitCode(unitID), entries); err != nil {
			return err
		}
		processed++
	}

	log.Info("unit config reconciled",
		zap.Int("processed", processed), zap.Int("umbrella_ignored", ignored))
	return nil
}

// mergeUnitConfig folds new configuration keys into the schedule row,
// creating the row if the schedule feed has not delivered it yet.
func mergeUnitConfig(tx *gorm.DB, unitID, phase string, entries datatypes.JSONMap) error {
	var schedule models.Schedule
	err := tx.Where("unit_id = ?", unitID).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		schedule = models.Schedule{
			UnitID:     unitID,
			Phase:      phase,
			Status:     models.StatusScheduled,
			ConfigData: entries,
		}
		return tx.Create(&schedule).Error
	}
	if err != nil {
		return err
	}

	merged := datatypes.JSONMap{}
	for k, v := range schedule.ConfigData {
		merged[k] = v
	}
	for k, v := range entries {
		merged[k] = v
	}
	return tx.Model(&models.Schedule{}).
		Where("unit_id = ?", unitID).
		Updates(map[string]any{"phase": phase, "config_data": merged}).Error
}
