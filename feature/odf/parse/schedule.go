package parse

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/odfid"
)

// Schedules reconciles the two schedule message shapes: the DT_CODES
// EVENT_UNIT code table and DT_SCHEDULE / DT_SCHEDULE_UPDATE live
// updates. Both de-duplicate into one map per unit identifier before
// the batch upsert, so a unit appearing twice in one message yields one
// write.
func Schedules(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	if msg.Type == "DT_CODES" && msg.Subtype == "EVENT_UNIT" {
		return scheduleCodeTable(tx, log, msg)
	}
	return scheduleUpdate(tx, log, msg)
}

// phaseDetails extracts the phase and unit number from a unit node.
// DT_SCHEDULE carries UnitNum; DT_CODES carries Phase and EventUnit.
// When no explicit phase code is present it is pattern-matched from the
// free-text unit name.
func phaseDetails(unit *Node, unitName string) (string, *int) {
	numStr := unit.Attr("UnitNum")
	if numStr == "" {
		numStr = strings.TrimRight(unit.Attr("EventUnit"), "-")
	}
	var unitNum *int
	if n, err := strconv.Atoi(numStr); err == nil {
		unitNum = &n
	}

	phase := unit.Attr("Phase")
	if phase == "" {
		name := strings.ToLower(unitName)
		switch {
		case strings.Contains(name, "semifinal"):
			phase = "Semifinal"
		case strings.Contains(name, "final"):
			phase = "Final"
		case strings.Contains(name, "heat"):
			phase = "Heat"
		case strings.Contains(name, "victory"), strings.Contains(name, "medals"):
			phase = "Medal"
		default:
			phase = "Other"
		}
	}

	// Collapse raw ODF phase codes (FNL-, HEAT, SFNL, VICT).
	switch {
	case strings.Contains(phase, "SFNL"):
		phase = "Semifinal"
	case strings.Contains(phase, "FNL"):
		phase = "Final"
	case strings.Contains(phase, "HEAT"):
		phase = "Heat"
	case strings.Contains(phase, "VICT"):
		phase = "Medal"
	}
	return phase, unitNum
}

func parseStartTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func eventRowFor(eventID string) models.Event {
	info := odfid.DecodeEvent(eventID)
	return models.Event{
		EventID:  eventID,
		Name:     info.Name,
		Gender:   info.Gender,
		Distance: info.Distance,
		Stroke:   info.Stroke,
	}
}

func upsertEvents(tx *gorm.DB, events map[string]models.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]models.Event, 0, len(events))
	for _, e := range events {
		rows = append(rows, e)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "distance", "stroke"}),
	}).Create(&rows).Error
}

func scheduleCodeTable(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("schedule code table carries no Competition node")
		return nil
	}

	scheduleRows := make(map[string]models.Schedule)
	eventRows := make(map[string]models.Event)

	for _, code := range competition.ChildrenNamed("CodeSet") {
		if code.Attr("Group") != "Unit" {
			continue
		}
		rawUnit := code.Attr("Code")
		gender := code.Attr("Gender")
		discipline := code.Attr("Discipline")
		eventCode := code.Attr("Event")
		if rawUnit == "" || gender == "" || gender == "-" || discipline == "" || eventCode == "" {
			continue
		}

		unitID, err := odfid.NormalizeUnitID(rawUnit)
		if err != nil {
			log.Warn("skipping invalid unit identifier in code table",
				zap.String("unit_id", rawUnit), zap.Error(err))
			continue
		}

		eventID, err := odfid.NormalizeEventID(strings.TrimSpace(discipline + gender + eventCode))
		if err != nil {
			log.Warn("skipping invalid event identifier in code table",
				zap.String("unit_id", unitID), zap.Error(err))
			continue
		}
		if derived, derr := odfid.EventIDFromUnit(unitID); derr == nil && derived != eventID {
			log.Warn("event identifier inconsistent with unit",
				zap.String("unit_id", unitID),
				zap.String("from_unit", derived),
				zap.String("from_codeset", eventID))
		}

		name := unitID
		if lang := code.ChildWhere("Language", "Language", "ENG"); lang != nil {
			if d := lang.Attr("Description"); d != "" {
				name = d
			}
		}
		phase, unitNum := phaseDetails(code, name)

		if _, ok := eventRows[eventID]; !ok {
			eventRows[eventID] = eventRowFor(eventID)
		}
		if _, ok := scheduleRows[unitID]; !ok {
			scheduleRows[unitID] = models.Schedule{
				UnitID:  unitID,
				EventID: eventID,
				Name:    strings.TrimSpace(name),
				Phase:   phase,
				UnitNum: unitNum,
				Status:  models.StatusScheduled,
			}
		}
	}

	if len(scheduleRows) == 0 {
		log.Warn("schedule code table yielded no units")
		return nil
	}
	if err := upsertEvents(tx, eventRows); err != nil {
		return err
	}

	rows := make([]models.Schedule, 0, len(scheduleRows))
	for _, s := range scheduleRows {
		rows = append(rows, s)
	}
	// Code tables own naming and numbering; start_time and status stay
	// with the live-update shape.
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"event_id", "name", "phase", "unit_num"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("schedule code table reconciled",
		zap.Int("units", len(rows)), zap.Int("events", len(eventRows)))
	return nil
}

func scheduleUpdate(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("schedule update carries no Competition node")
		return nil
	}
	units := competition.ChildrenNamed("Unit")
	if len(units) == 0 {
		log.Warn("schedule update carries no Unit nodes")
		return nil
	}

	scheduleRows := make(map[string]models.Schedule)
	eventRows := make(map[string]models.Event)

	for _, unit := range units {
		rawUnit := unit.Attr("Code")
		if rawUnit == "" {
			continue
		}
		unitID, err := odfid.NormalizeUnitID(rawUnit)
		if err != nil {
			log.Warn("skipping invalid unit identifier in schedule",
				zap.String("unit_id", rawUnit), zap.Error(err))
			continue
		}

		name := unitID
		if item := unit.ChildWhere("ItemName", "Language", "ENG"); item != nil {
			if v := item.Attr("Value"); v != "" {
				name = v
			}
		}

		eventID, err := odfid.EventIDFromUnit(unitID)
		if err != nil {
			log.Warn("skipping unit with underivable event identifier",
				zap.String("unit_id", unitID), zap.Error(err))
			continue
		}
		phase, unitNum := phaseDetails(unit, name)

		status := strings.TrimSpace(unit.Attr("ScheduleStatus"))
		if status == "" {
			status = models.StatusScheduled
		}

		if _, ok := eventRows[eventID]; !ok {
			eventRows[eventID] = eventRowFor(eventID)
		}
		scheduleRows[unitID] = models.Schedule{
			UnitID:    unitID,
			EventID:   eventID,
			Name:      strings.TrimSpace(name),
			Phase:     phase,
			UnitNum:   unitNum,
			Status:    status,
			StartTime: parseStartTime(unit.Attr("StartDate")),
		}

		if startList := unit.Child("StartList"); startList != nil {
			if err := reconcileStartList(tx, log, startList.ChildrenNamed("Start"), unitID); err != nil {
				return err
			}
		}
	}

	if len(scheduleRows) == 0 {
		log.Warn("schedule update yielded no units")
		return nil
	}
	if err := upsertEvents(tx, eventRows); err != nil {
		return err
	}

	rows := make([]models.Schedule, 0, len(scheduleRows))
	for _, s := range scheduleRows {
		rows = append(rows, s)
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"event_id", "name", "phase", "unit_num", "status", "start_time"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	log.Info("schedule update reconciled",
		zap.Int("units", len(rows)), zap.Int("events", len(eventRows)))
	return nil
}

// reconcileStartList upserts lane assignments (and relay team rows) for
// one unit from a list of entry nodes, each wrapping a Competitor.
// Results START_LIST messages and schedule-embedded start lists share
// this shape.
func reconcileStartList(tx *gorm.DB, log *zap.Logger, entries []*Node, unitID string) error {
	var startRows []models.StartListEntry
	var teamRows []models.Participant
	nocs := make(map[string]struct{})
	participants := make(map[string]struct{})

	for _, entry := range entries {
		competitor := entry.Child("Competitor")
		if competitor == nil {
			continue
		}
		participantID := strings.TrimSpace(competitor.Attr("Code"))
		if participantID == "" {
			continue
		}
		participants[participantID] = struct{}{}

		noc := competitor.Attr("Organisation")
		if noc != "" {
			nocs[noc] = struct{}{}
		}

		var members []models.TeamMember
		if composition := competitor.Child("Composition"); composition != nil {
			for _, athlete := range composition.ChildrenNamed("Athlete") {
				desc := athlete.Child("Description")
				if desc == nil {
					continue
				}
				members = append(members, models.TeamMember{
					Code:         strings.TrimSpace(athlete.Attr("Code")),
					Order:        athlete.Attr("Order"),
					FederationID: desc.Attr("IFId"),
					GivenName:    desc.Attr("GivenName"),
					FamilyName:   desc.Attr("FamilyName"),
				})
			}
		}

		row := models.StartListEntry{UnitID: unitID, ParticipantID: participantID}
		if lane, err := strconv.Atoi(entry.Attr("StartOrder")); err == nil {
			row.Lane = &lane
		}
		if len(members) > 0 {
			encoded, err := json.Marshal(members)
			if err != nil {
				return err
			}
			row.Composition = encoded
		}
		startRows = append(startRows, row)

		if desc := competitor.Child("Description"); desc != nil && competitor.Attr("Type") == "T" {
			teamRows = append(teamRows, models.Participant{
				ParticipantID: participantID,
				Name:          desc.Attr("TeamName"),
				NOC:           noc,
				Gender:        "X",
			})
		}
	}

	if err := EnsureNOCs(tx, nocs); err != nil {
		return err
	}
	created, err := EnsureParticipants(tx, participants)
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("created stub participants", zap.Int("count", created))
	}

	if len(teamRows) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "noc"}),
		}).Create(&teamRows).Error
		if err != nil {
			return err
		}
	}
	if len(startRows) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unit_id"}, {Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lane", "composition"}),
		}).Create(&startRows).Error
		if err != nil {
			return err
		}
		log.Info("start list reconciled", zap.String("unit_id", unitID), zap.Int("entries", len(startRows)))
	}
	return nil
}
