package models

import (
	"time"

	"gorm.io/datatypes"
)

// Schedule status progression delivered by results messages.
const (
	StatusScheduled  = "SCHEDULED"
	StatusStartList  = "START_LIST"
	StatusLive       = "LIVE"
	StatusUnofficial = "UNOFFICIAL"
	StatusOfficial   = "OFFICIAL"
)

// NOC is a National Olympic Committee delegation. Rows are created in
// full from DT_CODES code tables, or as stubs (all names equal to the
// code) by whichever handler references the delegation first.
type NOC struct {
	Code          string `gorm:"column:code;primaryKey;size:3" json:"code"`
	LongName      string `gorm:"column:long_name;size:100;not null" json:"long_name"`
	ShortName     string `gorm:"column:short_name;size:50" json:"short_name"`
	FlagPathLocal string `gorm:"column:flag_path_local" json:"flag_path_local,omitempty"`
	FlagURLCloud  string `gorm:"column:flag_url_cloud" json:"flag_url_cloud,omitempty"`
}

func (NOC) TableName() string { return "nocs" }

// Participant is an athlete or a relay team. Team rows carry no
// individual name fields; their member composition lives on the related
// start list entries. Stub rows carry the name "Pending Info" until a
// roster message enriches them.
type Participant struct {
	ParticipantID string `gorm:"column:participant_id;primaryKey;size:50" json:"participant_id"`
	Name          string `gorm:"column:name;size:255;not null" json:"name"`
	GivenName     string `gorm:"column:given_name;size:100" json:"given_name,omitempty"`
	FamilyName    string `gorm:"column:family_name;size:100" json:"family_name,omitempty"`
	NOC           string `gorm:"column:noc;size:3" json:"noc,omitempty"`
	Gender        string `gorm:"column:gender;size:10" json:"gender,omitempty"`
	PhotoURL      string `gorm:"column:photo_url" json:"photo_url,omitempty"`
}

func (Participant) TableName() string { return "participants" }

// StubParticipantName marks a participant row created purely to satisfy
// a reference before roster data arrived.
const StubParticipantName = "Pending Info"

// Event is a discipline/distance/stroke combination, independent of
// phase. The primary key is the fully padded canonical identifier for
// rows written by the codec-driven handlers, or the short roster form
// for rows ensured by roster cross-references.
type Event struct {
	EventID  string `gorm:"column:event_id;primaryKey;size:50" json:"event_id"`
	Name     string `gorm:"column:name;size:100;not null" json:"name"`
	Gender   string `gorm:"column:gender;size:10" json:"gender"`
	Distance string `gorm:"column:distance;size:20" json:"distance,omitempty"`
	Stroke   string `gorm:"column:stroke;size:20" json:"stroke,omitempty"`
}

func (Event) TableName() string { return "events" }

// Schedule is one schedulable unit of competition (heat, semifinal,
// final) within an event. ConfigData is an open, feed-defined mapping
// merged additively across DT_CONFIG messages.
type Schedule struct {
	UnitID     string            `gorm:"column:unit_id;primaryKey;size:50" json:"unit_id"`
	EventID    string            `gorm:"column:event_id;size:50" json:"event_id"`
	Name       string            `gorm:"column:name;size:100" json:"name"`
	Phase      string            `gorm:"column:phase;size:50" json:"phase"`
	UnitNum    *int              `gorm:"column:unit_num" json:"unit_num,omitempty"`
	StartTime  *time.Time        `gorm:"column:start_time" json:"start_time,omitempty"`
	Status     string            `gorm:"column:status;size:20;default:SCHEDULED" json:"status"`
	ConfigData datatypes.JSONMap `gorm:"column:config_data" json:"config_data,omitempty"`
}

func (Schedule) TableName() string { return "schedule" }

// StartListEntry assigns a participant to a lane in one unit. For relay
// teams Composition holds the ordered member list.
type StartListEntry struct {
	UnitID        string         `gorm:"column:unit_id;primaryKey;size:50;uniqueIndex:uq_unit_lane" json:"unit_id"`
	ParticipantID string         `gorm:"column:participant_id;primaryKey;size:50" json:"participant_id"`
	Lane          *int           `gorm:"column:lane;uniqueIndex:uq_unit_lane" json:"lane,omitempty"`
	Composition   datatypes.JSON `gorm:"column:composition" json:"composition,omitempty"`
}

func (StartListEntry) TableName() string { return "start_list_entries" }

// TeamMember is one athlete inside a relay composition, serialized into
// StartListEntry.Composition.
type TeamMember struct {
	Code         string `json:"code"`
	Order        string `json:"order"`
	FederationID string `json:"federation_id,omitempty"`
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
}

// Result is the live or official outcome of one participant in one
// unit. RecordMark holds the highest-priority record code (WR > OR > CR)
// carried by the message.
type Result struct {
	UnitID            string         `gorm:"column:unit_id;primaryKey;size:50" json:"unit_id"`
	ParticipantID     string         `gorm:"column:participant_id;primaryKey;size:50" json:"participant_id"`
	Rank              *int           `gorm:"column:rank" json:"rank,omitempty"`
	Time              string         `gorm:"column:time;size:20" json:"time,omitempty"`
	Diff              string         `gorm:"column:diff;size:20" json:"diff,omitempty"`
	ReactionTime      string         `gorm:"column:reaction_time;size:20" json:"reaction_time,omitempty"`
	IRM               string         `gorm:"column:irm;size:10" json:"irm,omitempty"`
	QualificationMark string         `gorm:"column:qualification_mark;size:10" json:"qualification_mark,omitempty"`
	RecordMark        string         `gorm:"column:record_mark;size:10" json:"record_mark,omitempty"`
	Splits            datatypes.JSON `gorm:"column:splits" json:"splits,omitempty"`
}

func (Result) TableName() string { return "results" }

// Split is one intermediate time, either team-level or per athlete.
type Split struct {
	Pos    string `json:"pos,omitempty"`
	Value  string `json:"value,omitempty"`
	Rank   string `json:"rank,omitempty"`
	Diff   string `json:"diff,omitempty"`
	Value2 string `json:"value2,omitempty"`
}

// Splits groups the intermediate times of one result: the team-level
// progression plus per-athlete lists keyed by athlete code.
type Splits struct {
	TeamSplits    []Split            `json:"team_splits"`
	AthleteSplits map[string][]Split `json:"athlete_splits"`
}

// Empty reports whether the structure carries no intermediate times.
func (s Splits) Empty() bool {
	return len(s.TeamSplits) == 0 && len(s.AthleteSplits) == 0
}

// Record is a standing record for an event. Identifiers are deliberately
// kept in their raw long form, unlike the other tables.
type Record struct {
	EventID    string `gorm:"column:event_id;primaryKey;size:50" json:"event_id"`
	RecordType string `gorm:"column:record_type;primaryKey;size:10" json:"record_type"`
	Time       string `gorm:"column:time;size:20;not null" json:"time"`
	HolderName string `gorm:"column:holder_name;size:255" json:"holder_name,omitempty"`
	HolderNOC  string `gorm:"column:holder_noc;size:3" json:"holder_noc,omitempty"`
	Year       *int   `gorm:"column:year" json:"year,omitempty"`
}

func (Record) TableName() string { return "records" }

// MedalTally is the standing medal count of one delegation, fully
// replaced by every DT_MEDALS message.
type MedalTally struct {
	NOC      string `gorm:"column:noc;primaryKey;size:3" json:"noc"`
	Golds    int    `gorm:"column:golds;not null;default:0" json:"golds"`
	Silvers  int    `gorm:"column:silvers;not null;default:0" json:"silvers"`
	Bronzes  int    `gorm:"column:bronzes;not null;default:0" json:"bronzes"`
	Total    int    `gorm:"column:total;not null;default:0" json:"total"`
	Rank     int    `gorm:"column:rank;not null;default:999" json:"rank"`
	SortRank *int   `gorm:"column:sort_rank" json:"sort_rank,omitempty"`
}

func (MedalTally) TableName() string { return "medaltally" }

// Medallist records one medal won by a participant in an event.
// FinalUnitID is only known to the single-event medallists message; the
// discipline-wide shape must never overwrite it.
type Medallist struct {
	EventID       string `gorm:"column:event_id;primaryKey;size:50" json:"event_id"`
	ParticipantID string `gorm:"column:participant_id;primaryKey;size:50" json:"participant_id"`
	MedalType     string `gorm:"column:medal_type;size:1;not null" json:"medal_type"`
	FinalUnitID   string `gorm:"column:final_unit_id;size:50" json:"final_unit_id,omitempty"`
}

func (Medallist) TableName() string { return "medallists" }

// EventEntry is a roster registration of a participant into an event,
// keyed by the looser roster form of the event identifier.
type EventEntry struct {
	ParticipantID        string            `gorm:"column:participant_id;primaryKey;size:50" json:"participant_id"`
	EventID              string            `gorm:"column:event_id;primaryKey;size:50" json:"event_id"`
	QualificationMark    string            `gorm:"column:qualification_mark;size:20" json:"qualification_mark,omitempty"`
	QualificationDetails datatypes.JSONMap `gorm:"column:qualification_details" json:"qualification_details,omitempty"`
}

func (EventEntry) TableName() string { return "event_entries" }

// TournamentInfo is the single administrative record describing the
// competition itself. The reconciliation core never touches it.
type TournamentInfo struct {
	ID            uint   `gorm:"column:id;primaryKey" json:"id"`
	Name          string `gorm:"column:name;size:255;not null" json:"name"`
	LogoPathLocal string `gorm:"column:logo_path_local" json:"logo_path_local,omitempty"`
	LogoURLCloud  string `gorm:"column:logo_url_cloud" json:"logo_url_cloud,omitempty"`
	WebsiteURL    string `gorm:"column:website_url" json:"website_url,omitempty"`
}

func (TournamentInfo) TableName() string { return "tournament_info" }

// All lists every table for migration, dependency targets first so
// foreign keys resolve.
func All() []any {
	return []any{
		&NOC{},
		&Participant{},
		&Event{},
		&Schedule{},
		&StartListEntry{},
		&Result{},
		&Record{},
		&MedalTally{},
		&Medallist{},
		&EventEntry{},
		&TournamentInfo{},
	}
}
