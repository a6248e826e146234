package parse

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/odfid"
)

// Participants reconciles DT_PARTIC and DT_PARTIC_UPDATE rosters.
// Only rows with Status ACTIVE and the athlete function role are
// written; officials and inactive entries are skipped.
func Participants(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	nodes := participantNodes(msg.Body)
	if len(nodes) == 0 {
		log.Warn("participants message carries no Participant nodes")
		return nil
	}

	applied, skipped := 0, 0
	for _, node := range nodes {
		if node.Attr("Status") != "ACTIVE" || node.Attr("MainFunctionId") != "AA01" {
			skipped++
			continue
		}
		participantID := strings.TrimSpace(node.Attr("Code"))
		if participantID == "" {
			continue
		}

		noc := node.Attr("Organisation")
		if err := EnsureNOC(tx, noc); err != nil {
			return err
		}

		row := models.Participant{
			ParticipantID: participantID,
			Name:          node.Attr("PrintName"),
			GivenName:     node.Attr("GivenName"),
			FamilyName:    node.Attr("FamilyName"),
			NOC:           noc,
			Gender:        node.Attr("Gender"),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "given_name", "family_name", "noc", "gender"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		if err := reconcileRegisteredEvents(tx, node, participantID); err != nil {
			return err
		}
		applied++
	}

	log.Info("participants reconciled", zap.Int("applied", applied), zap.Int("skipped", skipped))
	return nil
}

// Teams reconciles DT_PARTIC_TEAMS and DT_PARTIC_TEAMS_UPDATE rosters.
// A team lands in the participants table like an athlete would, minus
// the individual name fields. Only Current="true" rows are written.
func Teams(tx *gorm.DB, log *zap.Logger, msg *Message) error {
	competition := msg.Body.Child("Competition")
	if competition == nil {
		log.Warn("teams message carries no Competition node")
		return nil
	}
	teams := competition.ChildrenNamed("Team")
	if len(teams) == 0 {
		log.Warn("teams message carries no Team nodes")
		return nil
	}

	applied, skipped := 0, 0
	for _, team := range teams {
		if team.Attr("Current") != "true" {
			skipped++
			continue
		}
		teamID := strings.TrimSpace(team.Attr("Code"))
		if teamID == "" {
			continue
		}

		noc := team.Attr("Organisation")
		if err := EnsureNOC(tx, noc); err != nil {
			return err
		}

		row := models.Participant{
			ParticipantID: teamID,
			Name:          team.Attr("Name"),
			NOC:           noc,
			Gender:        team.Attr("Gender"),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "noc", "gender"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		if err := reconcileRegisteredEvents(tx, team, teamID); err != nil {
			return err
		}
		applied++
	}

	log.Info("teams reconciled", zap.Int("applied", applied), zap.Int("skipped", skipped))
	return nil
}

// participantNodes tolerates the container variants the roster feed has
// shipped under over time.
func participantNodes(body *Node) []*Node {
	if competition := body.Child("Competition"); competition != nil {
		if nodes := competition.ChildrenNamed("Participant"); len(nodes) > 0 {
			return nodes
		}
	}
	if list := body.FindDescendant("Participants"); list != nil {
		if nodes := list.ChildrenNamed("Participant"); len(nodes) > 0 {
			return nodes
		}
	}
	return body.Descendants("Participant")
}

// reconcileRegisteredEvents writes one EventEntry per registered event
// under the roster node. Event identifiers use the looser roster
// normalization, so the stub event key may differ from the canonical
// form written by the schedule handlers.
func reconcileRegisteredEvents(tx *gorm.DB, node *Node, participantID string) error {
	for _, regEvent := range node.Descendants("RegisteredEvent") {
		eventID := odfid.RosterEventID(regEvent.Attr("Event"))
		if eventID == "" {
			continue
		}
		if err := EnsureEvent(tx, eventID); err != nil {
			return err
		}

		qualMark := ""
		details := datatypes.JSONMap{}
		for _, entry := range regEvent.Descendants("EventEntry") {
			code := entry.Attr("Code")
			value := strings.TrimSpace(entry.Attr("Value"))
			if code == "QUAL_BEST" {
				qualMark = value
			} else if code != "" {
				details[code] = value
			}
		}
		if len(details) == 0 {
			details = nil
		}

		entry := models.EventEntry{
			ParticipantID:        participantID,
			EventID:              eventID,
			QualificationMark:    qualMark,
			QualificationDetails: details,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qualification_mark", "qualification_details"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
	}
	return nil
}
