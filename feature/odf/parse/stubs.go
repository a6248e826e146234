package parse

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"odf-core/feature/odf/models"
	"odf-core/feature/odf/odfid"
)

// Stub-ensure utilities. Every foreign-key target must exist before a
// dependent row is written; these insert minimal placeholder rows and
// never overwrite existing data.

// EnsureNOC inserts a stub delegation whose names equal its code.
func EnsureNOC(tx *gorm.DB, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	stub := models.NOC{Code: code, LongName: code, ShortName: code}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stub).Error
}

// EnsureNOCs inserts stubs for every code in the set.
func EnsureNOCs(tx *gorm.DB, codes map[string]struct{}) error {
	if len(codes) == 0 {
		return nil
	}
	stubs := make([]models.NOC, 0, len(codes))
	for code := range codes {
		stubs = append(stubs, models.NOC{Code: code, LongName: code, ShortName: code})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stubs).Error
}

// EnsureEvent inserts a stub event named after its identifier, with the
// gender derived positionally from the identifier's 4th character.
func EnsureEvent(tx *gorm.DB, eventID string) error {
	if eventID == "" {
		return nil
	}
	stub := models.Event{
		EventID: eventID,
		Name:    eventID,
		Gender:  odfid.GenderFromEventID(eventID),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stub).Error
}

// EnsureParticipants guarantees a row for every referenced participant
// identifier, querying existing keys in one round trip and inserting
// "Pending Info" placeholders only for the complement. Returns how many
// stubs were created.
func EnsureParticipants(tx *gorm.DB, participantIDs map[string]struct{}) (int, error) {
	cleaned := make([]string, 0, len(participantIDs))
	for id := range participantIDs {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return 0, nil
	}

	var existing []string
	err := tx.Model(&models.Participant{}).
		Where("participant_id IN ?", cleaned).
		Pluck("participant_id", &existing).Error
	if err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var stubs []models.Participant
	for _, id := range cleaned {
		if _, ok := known[id]; !ok {
			stubs = append(stubs, models.Participant{ParticipantID: id, Name: models.StubParticipantName})
		}
	}
	if len(stubs) == 0 {
		return 0, nil
	}

	err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stubs).Error
	if err != nil {
		return 0, err
	}
	return len(stubs), nil
}
