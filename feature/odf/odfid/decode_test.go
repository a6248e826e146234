package odfid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		want    EventInfo
	}{
		{
			name:    "MensFreestyle",
			eventID: "SWMM100MFR",
			want:    EventInfo{Name: "Men's 100m Freestyle", Gender: "M", Distance: "100M", Stroke: "FR"},
		},
		{
			name:    "WomensBackstroke",
			eventID: "SWMW50MBA",
			want:    EventInfo{Name: "Women's 50m Backstroke", Gender: "W", Distance: "50M", Stroke: "BA"},
		},
		{
			name:    "MixedMedleyRelay",
			eventID: "SWMX4X100MMD",
			want:    EventInfo{Name: "Mixed's 4X100m Medley Relay", Gender: "X", Distance: "4X100M", Stroke: "MD"},
		},
		{
			name:    "IndividualMedley",
			eventID: "SWMM200MIM",
			want:    EventInfo{Name: "Men's 200m Individual Medley", Gender: "M", Distance: "200M", Stroke: "IM"},
		},
		{
			name:    "ParaBreaststrokeClass",
			eventID: "SWMW100MBR--08",
			want:    EventInfo{Name: "Women's 100m Breaststroke SB8", Gender: "W", Distance: "100M", Stroke: "BR"},
		},
		{
			name:    "UnknownStrokePassesThrough",
			eventID: "SWMM100MZZ",
			want:    EventInfo{Name: "Men's 100m ZZ", Gender: "M", Distance: "100M", Stroke: "ZZ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeEvent(tt.eventID))
		})
	}
}

func TestDecodeEventFallback(t *testing.T) {
	got := DecodeEvent("not-an-identifier")
	assert.Equal(t, EventInfo{Name: "not-an-identifier", Gender: "U"}, got)
}

func TestGenderFromEventID(t *testing.T) {
	assert.Equal(t, "M", GenderFromEventID("SWMM100MFR"))
	assert.Equal(t, "W", GenderFromEventID("SWMW50MBA"))
	assert.Equal(t, "X", GenderFromEventID("SWMX4X100MMD"))
	assert.Equal(t, "U", GenderFromEventID("SWMQ100MFR"))
	assert.Equal(t, "U", GenderFromEventID("SW"))
}
