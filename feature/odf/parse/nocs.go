package parse

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
)

// NOCCodes reconciles the DT_CODES delegation table, enriching stub
// rows created earlier by reference. Long and short names borrow from
// each other when only one is present, and both fall back to the code.
func NOCCodes(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("delegation code table carries no Competition node")
		return nil
	}
	codeSets := competition.ChildrenNamed("CodeSet")
	if len(codeSets) == 0 {
		log.Warn("delegation code table carries no CodeSet nodes")
		return nil
	}

	var rows []models.NOC
	for _, code := range codeSets {
		nocCode := strings.TrimSpace(code.Attr("Code"))
		if nocCode == "" {
			continue
		}
		lang := code.ChildWhere("Language", "Language", "ENG")
		if lang == nil {
			continue
		}

		longName := lang.Attr("LongDescription")
		shortName := lang.Attr("Description")
		if longName == "" {
			longName = shortName
		}
		if shortName == "" {
			shortName = longName
		}
		if longName == "" {
			longName = nocCode
			shortName = nocCode
		}

		rows = append(rows, models.NOC{
			Code:      nocCode,
			LongName:  strings.TrimSpace(longName),
			ShortName: strings.TrimSpace(shortName),
		})
	}

	if len(rows) == 0 {
		log.Warn("delegation code table yielded no rows")
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"long_name", "short_name"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("delegation codes reconciled", zap.Int("rows", len(rows)))
	return nil
}
