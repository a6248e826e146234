package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func namedHandler(name string, picked *string) Handler {
	return func(tx *gorm.DB, log *zap.Logger, msg *Message) error {
		*picked = name
		return nil
	}
}

func TestRegistryResolve(t *testing.T) {
	var picked string
	registry := NewRegistry(map[RouteKey]Handler{
		{"DT_RESULT", "SWM", "SPECIAL"}:    namedHandler("exact", &picked),
		{"DT_RESULT", "SWM", Wildcard}:     namedHandler("discipline", &picked),
		{"DT_RESULT", Wildcard, "SPECIAL"}: namedHandler("subtype", &picked),
		{"DT_RESULT", Wildcard, Wildcard}:  namedHandler("type", &picked),
	})

	tests := []struct {
		name string
		msg  Message
		want RouteKey
		hit  string
	}{
		{"ExactTriple", Message{Type: "DT_RESULT", Discipline: "SWM", Subtype: "SPECIAL"},
			RouteKey{"DT_RESULT", "SWM", "SPECIAL"}, "exact"},
		{"DisciplineBeatsSubtype", Message{Type: "DT_RESULT", Discipline: "SWM", Subtype: "OTHER"},
			RouteKey{"DT_RESULT", "SWM", Wildcard}, "discipline"},
		{"SubtypeFallback", Message{Type: "DT_RESULT", Discipline: "ATH", Subtype: "SPECIAL"},
			RouteKey{"DT_RESULT", Wildcard, "SPECIAL"}, "subtype"},
		{"TypeFallback", Message{Type: "DT_RESULT", Discipline: "ATH", Subtype: "OTHER"},
			RouteKey{"DT_RESULT", Wildcard, Wildcard}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, route, ok := registry.Resolve(&tt.msg)
			require.True(t, ok)
			require.NotNil(t, handler)
			assert.Equal(t, tt.want, route)

			require.NoError(t, handler(nil, zap.NewNop(), &tt.msg))
			assert.Equal(t, tt.hit, picked)
		})
	}

	t.Run("NoMatchIsNotAnError", func(t *testing.T) {
		handler, _, ok := registry.Resolve(&Message{Type: "DT_UNKNOWN", Discipline: "SWM", Subtype: Wildcard})
		assert.False(t, ok)
		assert.Nil(t, handler)
	})
}

func TestDefaultRegistryRouting(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name string
		msg  Message
		want RouteKey
	}{
		{"SwimmingResults", Message{Type: "DT_RESULT", Discipline: "SWM", Subtype: Wildcard},
			RouteKey{"DT_RESULT", "SWM", Wildcard}},
		{"GenericResults", Message{Type: "DT_RESULT", Discipline: "ATH", Subtype: Wildcard},
			RouteKey{"DT_RESULT", Wildcard, Wildcard}},
		{"NOCCodeTable", Message{Type: "DT_CODES", Discipline: "GEN", Subtype: "NOC"},
			RouteKey{"DT_CODES", Wildcard, "NOC"}},
		{"ScheduleCodeTable", Message{Type: "DT_CODES", Discipline: "SWM", Subtype: "EVENT_UNIT"},
			RouteKey{"DT_CODES", Wildcard, "EVENT_UNIT"}},
		{"DisciplineMedallists", Message{Type: "DT_MEDALLISTS_DISCIPLINE", Discipline: "SWM", Subtype: Wildcard},
			RouteKey{"DT_MEDALLISTS_DISCIPLINE", Wildcard, Wildcard}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, route, ok := registry.Resolve(&tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.want, route)
		})
	}

	t.Run("SwimmingRecordsOnly", func(t *testing.T) {
		_, _, ok := registry.Resolve(&Message{Type: "DT_RECORD", Discipline: "ATH", Subtype: Wildcard})
		assert.False(t, ok)
	})
}
