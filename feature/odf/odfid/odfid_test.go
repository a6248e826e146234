package odfid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	menFR100Event = "SWMM100MFR----------------" + UnitPlaceholder
	heatUnit      = "SWMW50MBA-------------HEAT0001----"
)

func TestNormalizeEventID(t *testing.T) {
	t.Run("ShortFormPadsToCanonical", func(t *testing.T) {
		got, err := NormalizeEventID("SWMM100MFR")
		require.NoError(t, err)
		assert.Equal(t, menFR100Event, got)
		assert.Len(t, got, EventIDLen)
	})

	t.Run("Idempotent", func(t *testing.T) {
		once, err := NormalizeEventID("SWMM100MFR")
		require.NoError(t, err)
		twice, err := NormalizeEventID(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("LowercaseAndWhitespace", func(t *testing.T) {
		got, err := NormalizeEventID("  swmm100mfr ")
		require.NoError(t, err)
		assert.Equal(t, menFR100Event, got)
	})

	t.Run("PhaseAlwaysDashes", func(t *testing.T) {
		got, err := NormalizeEventID("SWMM100MFR----------FNL-")
		require.NoError(t, err)
		assert.Equal(t, "----", got[EventCoreLen-PhaseLen:EventCoreLen])
	})

	t.Run("TrailingDashOverflowTrimmed", func(t *testing.T) {
		got, err := NormalizeEventID(menFR100Event + "------")
		require.NoError(t, err)
		assert.Equal(t, menFR100Event, got)
	})

	t.Run("NonDashOverflowInvalid", func(t *testing.T) {
		_, err := NormalizeEventID(menFR100Event + "X")
		assert.Error(t, err)
	})

	t.Run("UnitSegmentRejected", func(t *testing.T) {
		_, err := NormalizeEventID(menFR100Event[:EventCoreLen] + "0001----")
		assert.Error(t, err)
	})

	t.Run("BadGender", func(t *testing.T) {
		_, err := NormalizeEventID("SWMQ100MFR")
		assert.Error(t, err)
	})

	t.Run("BadDiscipline", func(t *testing.T) {
		_, err := NormalizeEventID("S1MM100MFR")
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NormalizeEventID("   ")
		assert.Error(t, err)
	})
}

func TestNormalizeUnitID(t *testing.T) {
	t.Run("CanonicalPassesThrough", func(t *testing.T) {
		got, err := NormalizeUnitID(heatUnit)
		require.NoError(t, err)
		assert.Equal(t, heatUnit, got)
		assert.Len(t, got, UnitIDLen)
	})

	t.Run("ShortUnitSegmentPadded", func(t *testing.T) {
		got, err := NormalizeUnitID("SWMW50MBA-------------HEAT0001")
		require.NoError(t, err)
		assert.Equal(t, heatUnit, got)
	})

	t.Run("Idempotent", func(t *testing.T) {
		once, err := NormalizeUnitID("SWMW50MBA-------------HEAT0001")
		require.NoError(t, err)
		twice, err := NormalizeUnitID(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("InvalidCharacters", func(t *testing.T) {
		_, err := NormalizeUnitID("SWMW50MBA-------------HEAT00_1")
		assert.Error(t, err)
	})
}

func TestParseEventID(t *testing.T) {
	parts, err := ParseEventID("SWMM100MFR")
	require.NoError(t, err)
	assert.Equal(t, EventIDParts{
		Discipline:    "SWM",
		Gender:        "M",
		EventType:     "100MFR--",
		EventModifier: "----------",
		Phase:         "----",
	}, parts)

	_, err = ParseEventID("SWMQ100MFR")
	assert.Error(t, err)
}

func TestEventIDFromUnit(t *testing.T) {
	t.Run("UnitCollapsesToOwningEvent", func(t *testing.T) {
		got, err := EventIDFromUnit(heatUnit)
		require.NoError(t, err)
		assert.Equal(t, "SWMW50MBA-----------------"+UnitPlaceholder, got)
		assert.Equal(t, "----", got[EventCoreLen-PhaseLen:EventCoreLen])
	})

	t.Run("EventIdentifierPassesThrough", func(t *testing.T) {
		got, err := EventIDFromUnit("SWMM100MFR")
		require.NoError(t, err)
		assert.Equal(t, menFR100Event, got)
	})
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidEventID("SWMM100MFR"))
	assert.False(t, ValidEventID("SWMQ100MFR"))
	assert.True(t, ValidUnitID(heatUnit))
	assert.False(t, ValidUnitID(heatUnit+"Z"))
}

func TestRosterEventID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SWMM100MFR----------------", "SWMM100MFR"},
		{"SWMM100MFR", "SWMM100MFR"},
		{"", ""},
		{"----------", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RosterEventID(tt.in), tt.in)
	}
}
