package parse

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
)

type recordKey struct {
	eventID    string
	recordType string
}

// Records reconciles DT_RECORD messages. Event identifiers are kept in
// their raw long form deliberately, unlike the other handlers, and rows
// are de-duplicated by (event_id, record_type) because the same
// physical record can appear multiple times in one feed.
func Records(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	var recordNodes []*Node
	if competition := msg.Body.Child("Competition"); competition != nil {
		recordNodes = competition.ChildrenNamed("Record")
	}
	if len(recordNodes) == 0 {
		log.Warn("records message carries no Record nodes")
		return nil
	}

	rows := make(map[recordKey]models.Record)

	for _, record := range recordNodes {
		eventID := strings.TrimSpace(record.Attr("Code"))
		if eventID == "" {
			continue
		}
		if err := EnsureEvent(tx, eventID); err != nil {
			return err
		}

		for _, typeNode := range record.Descendants("RecordType") {
			recordType := typeNode.Attr("RecordType")
			if recordType == "" {
				continue
			}
			data := typeNode.FindDescendant("RecordData")
			if data == nil {
				continue
			}
			recordTime := data.Attr("Result")
			if recordTime == "" {
				continue
			}

			row := models.Record{
				EventID:    eventID,
				RecordType: recordType,
				Time:       recordTime,
			}

			if competitor := data.FindDescendant("Competitor"); competitor != nil {
				row.HolderNOC = competitor.Attr("Organisation")
				if err := EnsureNOC(tx, row.HolderNOC); err != nil {
					return err
				}
			}
			row.Year = recordYear(data.Attr("Date"), log)
			row.HolderName = holderName(data)

			rows[recordKey{eventID, recordType}] = row
		}
	}

	if len(rows) == 0 {
		log.Info("records message yielded no valid records")
		return nil
	}

	batch := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, r)
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "record_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"time", "holder_name", "holder_noc", "year"}),
	}).Create(&batch).Error
	if err != nil {
		return err
	}

	log.Info("records reconciled", zap.Int("rows", len(batch)))
	return nil
}

// recordYear takes the leading four digits of the record date, falling
// back to a full date parse.
func recordYear(date string, log *zap.Logger) *int {
	if date == "" {
		return nil
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return &year
		}
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(date)); err == nil {
		year := t.Year()
		return &year
	}
	log.Warn("unrecognized record date format", zap.String("date", date))
	return nil
}

// holderName prefers the athlete's print name, then "FAMILY Given"
// upper-cased, then the team name.
func holderName(data *Node) string {
	if athlete := data.FindDescendant("Athlete"); athlete != nil {
		if desc := athlete.Child("Description"); desc != nil {
			if name := desc.Attr("PrintName"); name != "" {
				return name
			}
			name := strings.TrimSpace(desc.Attr("FamilyName") + " " + desc.Attr("GivenName"))
			if name != "" {
				return strings.ToUpper(name)
			}
		}
	}
	if competitor := data.FindDescendant("Competitor"); competitor != nil {
		if desc := competitor.Child("Description"); desc != nil {
			return desc.Attr("TeamName")
		}
	}
	return ""
}
