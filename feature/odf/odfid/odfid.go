package odfid

import (
	"fmt"
	"regexp"
	"strings"
)

// Segment widths of the fixed-width ODF identifier layout.
// An event identifier is the 26-char core (discipline + gender +
// event type + event modifier + phase) followed by an all-dash unit
// placeholder. A unit identifier carries a real unit segment instead.
const (
	DisciplineLen    = 3
	GenderLen        = 1
	EventTypeLen     = 8
	EventModifierLen = 10
	PhaseLen         = 4
	UnitSegmentLen   = 8

	EventCoreLen = DisciplineLen + GenderLen + EventTypeLen + EventModifierLen + PhaseLen
	EventIDLen   = EventCoreLen + UnitSegmentLen
	UnitIDLen    = EventCoreLen + UnitSegmentLen
)

// UnitPlaceholder is the unit segment carried by every event identifier.
const UnitPlaceholder = "--------"

var (
	disciplineRe = regexp.MustCompile(`^[A-Z]{3}$`)
	segmentRe    = regexp.MustCompile(`^[A-Z0-9-]+$`)
)

// EventIDParts is the decomposition of a normalized event identifier.
type EventIDParts struct {
	Discipline    string
	Gender        string
	EventType     string
	EventModifier string
	Phase         string
}

func validChars(segment string) bool {
	return segmentRe.MatchString(segment)
}

// trimOverflow drops trailing all-dash overflow beyond max. Any non-dash
// character past max fails validation.
func trimOverflow(code string, max int) (string, error) {
	if len(code) <= max {
		return code, nil
	}
	if strings.Trim(code[max:], "-") != "" {
		return "", fmt.Errorf("identifier %q exceeds %d characters", code, max)
	}
	return code[:max], nil
}

func padSegment(segment string, width int) (string, error) {
	if segment == "" {
		return strings.Repeat("-", width), nil
	}
	if !validChars(segment) {
		return "", fmt.Errorf("segment %q contains invalid characters", segment)
	}
	if len(segment) > width {
		return "", fmt.Errorf("segment %q exceeds %d characters", segment, width)
	}
	return segment + strings.Repeat("-", width-len(segment)), nil
}

// validateCore checks the padded 26-char event core segment by segment.
func validateCore(core string) error {
	discipline := core[:DisciplineLen]
	gender := core[DisciplineLen : DisciplineLen+GenderLen]
	eventType := core[DisciplineLen+GenderLen : DisciplineLen+GenderLen+EventTypeLen]
	eventModifier := core[DisciplineLen+GenderLen+EventTypeLen : DisciplineLen+GenderLen+EventTypeLen+EventModifierLen]
	phase := core[DisciplineLen+GenderLen+EventTypeLen+EventModifierLen:]

	if !disciplineRe.MatchString(discipline) {
		return fmt.Errorf("discipline %q must be three uppercase letters", discipline)
	}
	switch gender {
	case "M", "W", "X":
	default:
		return fmt.Errorf("gender %q must be one of M, W, X", gender)
	}
	if !validChars(eventType) {
		return fmt.Errorf("event type %q contains invalid characters", eventType)
	}
	if !validChars(eventModifier) {
		return fmt.Errorf("event modifier %q contains invalid characters", eventModifier)
	}
	if !validChars(phase) {
		return fmt.Errorf("phase %q contains invalid characters", phase)
	}
	return nil
}

// NormalizeEventID validates an event identifier and returns its 34-char
// canonical form. Inputs of 22 (no phase), 26 (core only) or 34 characters
// are accepted; the phase segment is always rewritten to dashes because
// phase is a property of the unit, not the event.
func NormalizeEventID(eventID string) (string, error) {
	eventID = strings.ToUpper(strings.TrimSpace(eventID))
	if eventID == "" {
		return "", fmt.Errorf("empty event identifier")
	}

	eventID, err := trimOverflow(eventID, EventIDLen)
	if err != nil {
		return "", err
	}
	if len(eventID) < DisciplineLen+GenderLen {
		return "", fmt.Errorf("event identifier %q too short", eventID)
	}

	core := eventID
	unit := ""
	if len(eventID) > EventCoreLen {
		core = eventID[:EventCoreLen]
		unit = eventID[EventCoreLen:]
	}
	if strings.Trim(unit, "-") != "" {
		return "", fmt.Errorf("event identifier %q carries a unit segment", eventID)
	}

	core = core + strings.Repeat("-", EventCoreLen-len(core))
	if err := validateCore(core); err != nil {
		return "", err
	}

	// Discard any phase the caller supplied.
	core = core[:EventCoreLen-PhaseLen] + strings.Repeat("-", PhaseLen)
	return core + UnitPlaceholder, nil
}

// NormalizeUnitID validates a unit identifier and returns its 34-char
// canonical form with every segment right-padded with dashes.
func NormalizeUnitID(unitID string) (string, error) {
	unitID = strings.ToUpper(strings.TrimSpace(unitID))
	if unitID == "" {
		return "", fmt.Errorf("empty unit identifier")
	}

	unitID, err := trimOverflow(unitID, UnitIDLen)
	if err != nil {
		return "", err
	}

	core := unitID
	unitSegment := ""
	if len(unitID) > EventCoreLen {
		core = unitID[:EventCoreLen]
		unitSegment = unitID[EventCoreLen:]
	}

	core = core + strings.Repeat("-", EventCoreLen-len(core))
	if err := validateCore(core); err != nil {
		return "", err
	}

	unitSegment, err = padSegment(unitSegment, UnitSegmentLen)
	if err != nil {
		return "", err
	}
	return core + unitSegment, nil
}

// ParseEventID normalizes an event identifier and splits it into its
// named segments. It returns an error, never a zero-value fallback,
// when any segment fails validation.
func ParseEventID(eventID string) (EventIDParts, error) {
	normalized, err := NormalizeEventID(eventID)
	if err != nil {
		return EventIDParts{}, err
	}

	typeStart := DisciplineLen + GenderLen
	typeEnd := typeStart + EventTypeLen
	modifierEnd := typeEnd + EventModifierLen

	return EventIDParts{
		Discipline:    normalized[:DisciplineLen],
		Gender:        normalized[DisciplineLen : DisciplineLen+GenderLen],
		EventType:     normalized[typeStart:typeEnd],
		EventModifier: normalized[typeEnd:modifierEnd],
		Phase:         normalized[modifierEnd : modifierEnd+PhaseLen],
	}, nil
}

// ValidEventID reports whether the identifier conforms to, or can be
// padded to, the canonical event form.
func ValidEventID(eventID string) bool {
	_, err := NormalizeEventID(eventID)
	return err == nil
}

// ValidUnitID reports whether the identifier conforms to, or can be
// padded to, the canonical unit form.
func ValidUnitID(unitID string) bool {
	_, err := NormalizeUnitID(unitID)
	return err == nil
}

// EventIDFromUnit returns the canonical event identifier owning a unit:
// the unit's 26-char event core with the phase forced to dashes, plus
// the unit placeholder. Inputs that are already event identifiers pass
// through NormalizeEventID.
func EventIDFromUnit(unitID string) (string, error) {
	normalized, err := NormalizeUnitID(unitID)
	if err == nil {
		core := normalized[:EventCoreLen]
		core = core[:EventCoreLen-PhaseLen] + strings.Repeat("-", PhaseLen)
		return core + UnitPlaceholder, nil
	}
	return NormalizeEventID(unitID)
}

// RosterEventID applies the looser roster-reference normalization used
// by participant and team registered-event cross-references: truncate at
// the first dash and strip what remains of the padding. This is a
// distinct rule from NormalizeEventID; roster feeds carry a short code
// form and the two must not be unified.
func RosterEventID(raw string) string {
	base, _, _ := strings.Cut(raw, "-")
	return strings.TrimRight(base, "-")
}
