package parse

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/odfid"
)

// SwimResults reconciles swimming DT_RESULT messages. The DocumentCode
// is the unit identifier; ResultStatus selects between the start-list
// shape and the live/unofficial/official results shape. Every results
// message also implies a status update on the owning Schedule row.
func SwimResults(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	unitID, err := odfid.NormalizeUnitID(msg.DocumentCode)
	if err != nil {
		// The unit identifier opens the whole batch; nothing in the
		// message can be attributed without it.
		log.Error("results message carries invalid unit identifier",
			zap.String("document_code", msg.DocumentCode), zap.Error(err))
		return nil
	}
	status := msg.ResultStatus
	if status == "" {
		log.Error("results message carries no ResultStatus", zap.String("unit_id", unitID))
		return nil
	}

	log.Info("processing swimming results",
		zap.String("unit_id", unitID), zap.String("status", status))

	if eventID, derr := odfid.EventIDFromUnit(unitID); derr == nil {
		if err := EnsureEvent(tx, eventID); err != nil {
			return err
		}
	} else {
		log.Warn("skipping event stub for underivable event identifier",
			zap.String("unit_id", unitID), zap.Error(derr))
	}

	switch status {
	case models.StatusStartList:
		competition := msg.Body.Child("Competition")
		if competition == nil {
			log.Warn("start list carries no Competition node", zap.String("unit_id", unitID))
		} else if err := reconcileStartList(tx, log, competition.ChildrenNamed("Result"), unitID); err != nil {
			return err
		}
	case models.StatusLive, models.StatusUnofficial, models.StatusOfficial:
		if err := reconcileResults(tx, log, msg.Body, unitID); err != nil {
			return err
		}
	default:
		log.Warn("unhandled result status",
			zap.String("unit_id", unitID), zap.String("status", status))
	}

	return updateScheduleStatus(tx, log, unitID, status)
}

// recordMark resolves the extended-result record codes of one result by
// priority WR > OR > first CR.
func recordMark(result *Node) string {
	mark := ""
	if extended := result.Child("ExtendedResults"); extended != nil {
		for _, rec := range extended.ChildrenNamed("ExtendedResult") {
			if rec.Attr("Type") != "RECORD" {
				continue
			}
			switch rec.Attr("Code") {
			case "WR":
				return "WR"
			case "OR":
				mark = "OR"
			case "CR":
				if mark == "" {
					mark = "CR"
				}
			}
		}
	}
	return mark
}

// intermediateSplits collects PROGRESS/INTERMEDIATE extended results
// under a node.
func intermediateSplits(parent *Node, includeDiff bool) []models.Split {
	var out []models.Split
	extended := parent.Child("ExtendedResults")
	if extended == nil {
		return nil
	}
	for _, split := range extended.ChildrenNamed("ExtendedResult") {
		if split.Attr("Type") != "PROGRESS" || split.Attr("Code") != "INTERMEDIATE" {
			continue
		}
		s := models.Split{
			Pos:   split.Attr("Pos"),
			Value: split.Attr("Value"),
			Rank:  split.Attr("Rank"),
		}
		if includeDiff {
			s.Diff = split.Attr("Diff")
		} else {
			s.Value2 = split.Attr("Value2")
		}
		out = append(out, s)
	}
	return out
}

func reconcileResults(tx *gorm.DB, log *zap.Logger, body *Node, unitID string) error {
	competition := body.Child("Competition")
	if competition == nil {
		log.Warn("results message carries no Competition node", zap.String("unit_id", unitID))
		return nil
	}

	var rows []models.Result
	participants := make(map[string]struct{})

	for _, result := range competition.ChildrenNamed("Result") {
		competitor := result.Child("Competitor")
		if competitor == nil {
			continue
		}
		participantID := strings.TrimSpace(competitor.Attr("Code"))
		if participantID == "" {
			continue
		}
		participants[participantID] = struct{}{}

		row := models.Result{
			UnitID:            unitID,
			ParticipantID:     participantID,
			Time:              result.Attr("Result"),
			Diff:              result.Attr("Diff"),
			IRM:               result.Attr("IRM"),
			QualificationMark: result.Attr("QualificationMark"),
			RecordMark:        recordMark(result),
		}
		if rank, err := strconv.Atoi(result.Attr("Rank")); err == nil {
			row.Rank = &rank
		}

		splits := models.Splits{AthleteSplits: make(map[string][]models.Split)}
		splits.TeamSplits = intermediateSplits(result, true)

		if composition := competitor.Child("Composition"); composition != nil {
			for _, athlete := range composition.ChildrenNamed("Athlete") {
				// Reaction time rides on the lead-off athlete's
				// extended results.
				if athlete.Attr("Order") == "1" {
					if extended := athlete.Child("ExtendedResults"); extended != nil {
						for _, er := range extended.ChildrenNamed("ExtendedResult") {
							if er.Attr("Type") == "ER" && er.Attr("Code") == "REACT_TIME" {
								row.ReactionTime = er.Attr("Value")
							}
						}
					}
				}
				code := strings.TrimSpace(athlete.Attr("Code"))
				if laps := intermediateSplits(athlete, false); len(laps) > 0 && code != "" {
					splits.AthleteSplits[code] = laps
				}
			}
		}
		if !splits.Empty() {
			encoded, err := json.Marshal(splits)
			if err != nil {
				return err
			}
			row.Splits = encoded
		}
		rows = append(rows, row)
	}

	created, err := EnsureParticipants(tx, participants)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("created stub participants", zap.Int("count", created))
	}

	if len(rows) == 0 {
		log.Warn("results message yielded no rows", zap.String("unit_id", unitID))
		return nil
	}
	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "unit_id"}, {Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rank", "time", "diff", "reaction_time", "irm",
			"qualification_mark", "splits", "record_mark",
		}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("results reconciled", zap.String("unit_id", unitID), zap.Int("rows", len(rows)))
	return nil
}

// updateScheduleStatus reflects a results message's state on the owning
// Schedule row. A missing row is absorbed; the schedule feed may lag.
func updateScheduleStatus(tx *gorm.DB, log *zap.Logger, unitID, status string) error {
	err := tx.Model(&models.Schedule{}).
		Where("unit_id = ?", unitID).
		Update("status", status).Error
	if err != nil {
		log.Error("schedule status update failed",
			zap.String("unit_id", unitID), zap.Error(err))
	}
	return nil
}

// GenericResults reconciles DT_RESULT messages for disciplines without
// a specialized handler: rank, time, IRM and qualification mark only.
func GenericResults(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	unitID, err := odfid.NormalizeUnitID(msg.DocumentCode)
	if err != nil {
		log.Warn("generic results message carries invalid unit identifier",
			zap.String("document_code", msg.DocumentCode), zap.Error(err))
		return nil
	}

	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("generic results message carries no Competition node", zap.String("unit_id", unitID))
		return nil
	}

	var rows []models.Result
	participants := make(map[string]struct{})
	for _, result := range competition.ChildrenNamed("Result") {
		competitor := result.Child("Competitor")
		if competitor == nil {
			continue
		}
		participantID := strings.TrimSpace(competitor.Attr("Code"))
		if participantID == "" {
			continue
		}
		participants[participantID] = struct{}{}

		row := models.Result{
			UnitID:            unitID,
			ParticipantID:     participantID,
			Time:              result.Attr("Result"),
			IRM:               result.Attr("IRM"),
			QualificationMark: result.Attr("QualificationMark"),
		}
		if rank, err := strconv.Atoi(result.Attr("Rank")); err == nil {
			row.Rank = &rank
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		log.Warn("generic results message yielded no rows", zap.String("unit_id", unitID))
		return nil
	}

	created, err := EnsureParticipants(tx, participants)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("created stub participants", zap.Int("count", created))
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_id"}, {Name: "participant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rank", "time", "irm", "qualification_mark"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}
	log.Info("generic results reconciled", zap.String("unit_id", unitID), zap.Int("rows", len(rows)))
	return nil
}
