package parse

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
)

// allDashes reports whether a value consists only of dash padding.
func allDashes(s string) bool {
	return s != "" && strings.Trim(s, "-") == ""
}

// EventCodes reconciles the DT_CODES event table. Header rows, whose
// Event attribute is all dashes, are filtered out; rows must carry both
// a Code and a Gender. Only name and gender are written here, the
// schedule handlers own distance and stroke.
func EventCodes(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("event code table carries no Competition node")
		return nil
	}

	events := make(map[string]models.Event)
	for _, code := range competition.ChildrenNamed("CodeSet") {
		eventAttr := code.Attr("Event")
		if eventAttr == "" || allDashes(eventAttr) {
			continue
		}
		eventID := strings.TrimSpace(code.Attr("Code"))
		gender := strings.TrimSpace(code.Attr("Gender"))
		if eventID == "" || gender == "" {
			continue
		}

		name := eventID
		if lang := code.ChildWhere("Language", "Language", "ENG"); lang != nil {
			if long := lang.Attr("LongDescription"); long != "" {
				name = long
			} else if short := lang.Attr("Description"); short != "" {
				name = short
			}
		}

		events[eventID] = models.Event{
			EventID: eventID,
			Name:    strings.TrimSpace(name),
			Gender:  gender,
		}
	}

	if len(events) == 0 {
		log.Warn("event code table yielded no rows")
		return nil
	}

	rows := make([]models.Event, 0, len(events))
	for _, e := range events {
		rows = append(rows, e)
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gender"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("event codes reconciled", zap.Int("rows", len(rows)))
	return nil
}
