package player

import (
	"reflect"
	"testing"

	"github.com/pes18fan/etere/dialect"
)

func TestArgs(t *testing.T) {
	const url = "http://ice1.somafm.com/groovesalad-128-mp3"

	tests := []struct {
		kind dialect.PlayerKind
		want []string
	}{
		{dialect.Mplayer, []string{"-nolirc", url}},
		{dialect.Mpg123, []string{"-v", url}},
		{dialect.Mpv, []string{"--no-video", url}},
	}

	for _, tt := range tests {
		if got := args(tt.kind, url); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("args(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestPickRejectsUnknownPlayer(t *testing.T) {
	if _, err := Pick("vlc"); err == nil {
		t.Error("Pick should reject players outside the supported set")
	}
}

func TestPickMissingPreferred(t *testing.T) {
	// A supported player name that is certainly not installed under this
	// name in a test environment.
	if Available(dialect.Mplayer) {
		t.Skip("mplayer installed, cannot test the missing-binary path")
	}
	if _, err := Pick("mplayer"); err == nil {
		t.Error("Pick should fail when the preferred player is not installed")
	}
}
