package odfid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EventInfo is the human-readable metadata decoded from an event identifier.
type EventInfo struct {
	Name     string
	Gender   string
	Distance string
	Stroke   string
}

var genderNames = map[string]string{
	"M": "Men",
	"W": "Women",
	"X": "Mixed",
}

var strokeNames = map[string]string{
	"FR":  "Freestyle",
	"BA":  "Backstroke",
	"BR":  "Breaststroke",
	"BF":  "Butterfly",
	"IM":  "Individual Medley",
	"MFR": "Freestyle Relay",
	"MMD": "Medley Relay",
	"MD":  "Medley Relay",
}

// distanceRe separates a leading distance token (100M, 4X100M) from the
// trailing stroke code of an event type segment.
var distanceRe = regexp.MustCompile(`(\d+M|4X\d+M)(.+)`)

// paraClass derives the para-sport classification token from the first
// two digits of the event modifier, prefixed per stroke family.
func paraClass(eventModifier, strokeCode string) string {
	modifier := strings.TrimRight(eventModifier, "-")
	if len(modifier) < 2 {
		return ""
	}
	classNum, err := strconv.Atoi(modifier[:2])
	if err != nil || classNum <= 0 {
		return ""
	}

	prefix := "S"
	switch strokeCode {
	case "BR":
		prefix = "SB"
	case "IM":
		prefix = "SM"
	}
	return fmt.Sprintf("%s%d", prefix, classNum)
}

// DecodeEvent maps a validated event identifier to descriptive metadata.
// It never fails outward: any identifier it cannot decode yields the
// identifier itself as name with gender "U".
func DecodeEvent(eventID string) EventInfo {
	parts, err := ParseEventID(eventID)
	if err != nil {
		return EventInfo{Name: eventID, Gender: "U"}
	}

	gender := genderNames[parts.Gender]
	if gender == "" {
		gender = "Unknown"
	}

	eventBase := strings.TrimRight(parts.EventType, "-")
	var distance, strokeCode string
	if m := distanceRe.FindStringSubmatch(eventBase); m != nil {
		distance = m[1]
		strokeCode = m[2]
	} else {
		strokeCode = eventBase
	}

	stroke := strokeNames[strokeCode]
	if stroke == "" {
		// Unrecognized stroke codes pass through verbatim.
		stroke = strokeCode
	}

	var name string
	if distance != "" {
		name = fmt.Sprintf("%s's %s %s", gender, strings.ReplaceAll(distance, "M", "m"), stroke)
	} else {
		name = fmt.Sprintf("%s's %s", gender, stroke)
	}
	if class := paraClass(parts.EventModifier, strokeCode); class != "" {
		name = name + " " + class
	}

	return EventInfo{
		Name:     strings.TrimSpace(name),
		Gender:   parts.Gender,
		Distance: distance,
		Stroke:   strokeCode,
	}
}

// GenderFromEventID derives the gender positionally from the 4th
// character of an identifier, falling back to "U". Stub creation uses
// this without requiring full validation.
func GenderFromEventID(eventID string) string {
	if len(eventID) >= 4 {
		switch g := eventID[3:4]; g {
		case "M", "W", "X":
			return g
		}
	}
	return "U"
}
