// Package player launches the external player binaries and hands back their
// console output as a single line stream. All invocations use exec.Command
// with explicit argument slices; nothing ever goes through a shell.
package player

import (
	"fmt"
	"os/exec"

	"github.com/pes18fan/etere/dialect"
)

// fallbackOrder is tried when the user expressed no player preference.
var fallbackOrder = []dialect.PlayerKind{dialect.Mplayer, dialect.Mpg123, dialect.Mpv}

// ErrNoPlayer means none of the supported player binaries is installed.
var ErrNoPlayer = fmt.Errorf("no supported player found in PATH (tried mplayer, mpg123, mpv)")

// Available reports whether the player's binary exists in PATH.
func Available(kind dialect.PlayerKind) bool {
	_, err := exec.LookPath(kind.String())
	return err == nil
}

// Pick resolves which player to use. An explicit preference must be
// installed; with no preference the fallback order decides.
func Pick(preferred string) (dialect.PlayerKind, error) {
	if preferred != "" {
		kind, err := dialect.ParseKind(preferred)
		if err != nil {
			return 0, err
		}
		if !Available(kind) {
			return 0, fmt.Errorf("player %s not found in PATH", kind)
		}
		return kind, nil
	}

	for _, kind := range fallbackOrder {
		if Available(kind) {
			return kind, nil
		}
	}
	return 0, ErrNoPlayer
}

// args builds the argument list that makes each player stream a URL while
// still printing the metadata lines the dialect tables expect. mpg123 stays
// verbose on purpose: without -v it never echoes ICY metadata.
func args(kind dialect.PlayerKind, url string) []string {
	switch kind {
	case dialect.Mplayer:
		return []string{"-nolirc", url}
	case dialect.Mpg123:
		return []string{"-v", url}
	case dialect.Mpv:
		return []string{"--no-video", url}
	default:
		return []string{url}
	}
}
