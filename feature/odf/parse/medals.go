package parse

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
)

// MedalTally reconciles DT_MEDALS standings: one row per delegation,
// fully replaced each message, counters plus rank and the optional
// secondary sort rank.
func MedalTally(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	table := msg.Body.Path("Competition", "MedalStandings", "MedalsTable")
	if table == nil {
		log.Warn("medal standings message carries no MedalsTable")
		return nil
	}

	var rows []models.MedalTally
	nocs := make(map[string]struct{})

	for _, line := range table.ChildrenNamed("MedalLine") {
		noc := strings.TrimSpace(line.Attr("Organisation"))
		if noc == "" {
			continue
		}
		totals := line.ChildWhere("MedalNumber", "Type", "TOT")
		if totals == nil || totals.Attr("Type") != "TOT" {
			continue
		}

		row := models.MedalTally{
			NOC:     noc,
			Golds:   atoiOr(totals.Attr("Gold"), 0),
			Silvers: atoiOr(totals.Attr("Silver"), 0),
			Bronzes: atoiOr(totals.Attr("Bronze"), 0),
			Total:   atoiOr(totals.Attr("Total"), 0),
			Rank:    atoiOr(line.Attr("Rank"), 999),
		}
		if sortRank, err := strconv.Atoi(line.Attr("SortRank")); err == nil {
			row.SortRank = &sortRank
		}
		nocs[noc] = struct{}{}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		log.Info("medal standings message yielded no rows")
		return nil
	}
	if err := EnsureNOCs(tx, nocs); err != nil {
		return err
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "noc"}},
		DoUpdates: clause.AssignmentColumns([]string{"golds", "silvers", "bronzes", "total", "rank", "sort_rank"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("medal tally reconciled", zap.Int("delegations", len(rows)))
	return nil
}

func atoiOr(value string, fallback int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return fallback
}

var medalTypes = map[string]string{
	"ME_GOLD":   "G",
	"ME_SILVER": "S",
	"ME_BRONZE": "B",
}

// trimPadding strips the trailing dash padding from a medallists event
// identifier. Both medallists shapes store events in this stripped form.
func trimPadding(eventID string) string {
	return strings.TrimRight(strings.TrimSpace(eventID), "-")
}

// Medallists reconciles single-event DT_MEDALLISTS messages. The
// DocumentCode carries the event identifier; each Medal node names the
// final unit, so this shape always updates final_unit_id.
func Medallists(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	eventID := trimPadding(msg.DocumentCode)
	if eventID == "" {
		log.Error("medallists message carries no event identifier")
		return nil
	}

	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("medallists message carries no Competition node", zap.String("event_id", eventID))
		return nil
	}
	medals := competition.ChildrenNamed("Medal")
	if len(medals) == 0 {
		log.Warn("medallists message carries no Medal nodes", zap.String("event_id", eventID))
		return nil
	}

	if err := EnsureEvent(tx, eventID); err != nil {
		return err
	}

	var rows []models.Medallist
	participants := make(map[string]struct{})
	for _, medal := range medals {
		competitor := medal.Child("Competitor")
		if competitor == nil {
			continue
		}
		participantID := strings.TrimSpace(competitor.Attr("Code"))
		finalUnitID := strings.TrimSpace(medal.Attr("Unit"))
		medalType := medalTypes[medal.Attr("Code")]
		if participantID == "" || finalUnitID == "" || medalType == "" {
			log.Warn("skipping incomplete medal node",
				zap.String("event_id", eventID),
				zap.String("participant_id", participantID),
				zap.String("medal_code", medal.Attr("Code")))
			continue
		}
		participants[participantID] = struct{}{}
		rows = append(rows, models.Medallist{
			EventID:       eventID,
			ParticipantID: participantID,
			MedalType:     medalType,
			FinalUnitID:   finalUnitID,
		})
	}

	if len(rows) == 0 {
		log.Info("medallists message yielded no rows", zap.String("event_id", eventID))
		return nil
	}
	if _, err := EnsureParticipants(tx, participants); err != nil {
		return err
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"medal_type", "final_unit_id"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("medallists reconciled", zap.String("event_id", eventID), zap.Int("rows", len(rows)))
	return nil
}

// DisciplineMedallists reconciles whole-discipline
// DT_MEDALLISTS_DISCIPLINE messages. This shape carries no final unit,
// so it must never overwrite a final_unit_id recorded by the
// single-event shape.
func DisciplineMedallists(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	discipline := msg.Body.Path("Competition", "Discipline")
	if discipline == nil {
		log.Warn("discipline medallists message carries no Discipline node")
		return nil
	}
	disciplineCode := strings.TrimSpace(discipline.Attr("Code"))

	events := discipline.ChildrenNamed("Event")
	if len(events) == 0 {
		log.Warn("discipline medallists message carries no Event nodes",
			zap.String("discipline", disciplineCode))
		return nil
	}

	var rows []models.Medallist
	participants := make(map[string]struct{})

	for _, event := range events {
		eventID := trimPadding(event.Attr("Code"))
		if eventID == "" {
			continue
		}
		if err := EnsureEvent(tx, eventID); err != nil {
			return err
		}
		for _, medal := range event.ChildrenNamed("Medal") {
			competitor := medal.Child("Competitor")
			if competitor == nil {
				continue
			}
			participantID := strings.TrimSpace(competitor.Attr("Code"))
			medalType := medalTypes[medal.Attr("Code")]
			if participantID == "" || medalType == "" {
				log.Warn("skipping incomplete medal node",
					zap.String("event_id", eventID),
					zap.String("medal_code", medal.Attr("Code")))
				continue
			}
			participants[participantID] = struct{}{}
			rows = append(rows, models.Medallist{
				EventID:       eventID,
				ParticipantID: participantID,
				MedalType:     medalType,
			})
		}
	}

	if len(rows) == 0 {
		log.Info("discipline medallists message yielded no rows",
			zap.String("discipline", disciplineCode))
		return nil
	}
	if _, err := EnsureParticipants(tx, participants); err != nil {
		return err
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"medal_type"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("discipline medallists reconciled",
		zap.String("discipline", disciplineCode), zap.Int("rows", len(rows)))
	return nil
}
