package parse

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler reconciles one classified message inside the caller's
// transaction. A nil error means every write the handler issued may be
// committed; any error aborts the whole message.
type Handler func(tx *gorm.DB, log *zap.Logger, msg *Message) error

// RouteKey classifies a handler registration. Discipline and Subtype
// may be Wildcard.
type RouteKey struct {
	Type       string
	Discipline string
	Subtype    string
}

// Registry is an immutable routing table from message classification to
// handler, resolved with specificity-ordered fallback.
type Registry struct {
	entries map[RouteKey]Handler
}

// NewRegistry builds a registry from an explicit routing table. The
// table is copied; registrations cannot change after construction.
func NewRegistry(entries map[RouteKey]Handler) *Registry {
	table := make(map[RouteKey]Handler, len(entries))
	for k, h := range entries {
		table[k] = h
	}
	return &Registry{entries: table}
}

// Resolve selects the handler for a message by trying, in order:
// exact triple, (type, discipline, *), (type, *, subtype), (type, *, *).
// The second return names the matched registration for logging. A false
// third return is the reportable "unhandled message" outcome, not an
// error.
func (r *Registry) Resolve(msg *Message) (Handler, RouteKey, bool) {
	candidates := []RouteKey{
		{msg.Type, msg.Discipline, msg.Subtype},
		{msg.Type, msg.Discipline, Wildcard},
		{msg.Type, Wildcard, msg.Subtype},
		{msg.Type, Wildcard, Wildcard},
	}
	for _, key := range candidates {
		if h, ok := r.entries[key]; ok {
			return h, key, true
		}
	}
	return nil, RouteKey{}, false
}

// DefaultRegistry wires the full ODF routing table: swimming-specific
// handlers ahead of generic ones, code tables, schedule, config, medal
// standings and rosters.
func DefaultRegistry() *Registry {
	return NewRegistry(map[RouteKey]Handler{
		{"DT_RESULT", "SWM", Wildcard}:    SwimResults,
		{"DT_RESULT", Wildcard, Wildcard}: GenericResults,

		{"DT_RECORD", "SWM", Wildcard}: Records,

		{"DT_PARTIC", Wildcard, Wildcard}:        Participants,
		{"DT_PARTIC_UPDATE", Wildcard, Wildcard}: Participants,

		{"DT_PARTIC_TEAMS", Wildcard, Wildcard}:        Teams,
		{"DT_PARTIC_TEAMS_UPDATE", Wildcard, Wildcard}: Teams,

		{"DT_CODES", Wildcard, "NOC"}:          NOCCodes,
		{"DT_CODES", Wildcard, "ORGANISATION"}: NOCCodes,

		{"DT_CODES", Wildcard, "EVENT"}:  EventCodes,
		{"DT_CODES", Wildcard, "RECORD"}: EventCodes,

		{"DT_CODES", Wildcard, "EVENT_UNIT"}:       Schedules,
		{"DT_SCHEDULE", Wildcard, Wildcard}:        Schedules,
		{"DT_SCHEDULE_UPDATE", Wildcard, Wildcard}: Schedules,

		{"DT_CONFIG", Wildcard, Wildcard}: UnitConfig,

		{"DT_MEDALS", Wildcard, Wildcard}:                MedalTally,
		{"DT_MEDALLISTS", Wildcard, Wildcard}:            Medallists,
		{"DT_MEDALLISTS_DISCIPLINE", Wildcard, Wildcard}: DisciplineMedallists,
	})
}
