package dialect

import "testing"

func TestIsStationID(t *testing.T) {
	known := []string{"SomaFM", "Station ID"}

	tests := []struct {
		title string
		want  bool
	}{
		{"somafm station id", true},
		{"SomaFM - Groove Salad", true},
		{"Now playing a STATION ID", true},
		{"a normal song", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStationID(tt.title, known); got != tt.want {
			t.Errorf("IsStationID(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestIsStationIDEmptyKnownSet(t *testing.T) {
	if IsStationID("somafm station id", nil) {
		t.Error("no known IDs should never match")
	}
	if IsStationID("anything", []string{""}) {
		t.Error("empty known ID must not match every title")
	}
}
