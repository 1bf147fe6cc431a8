// Package dialect knows the console output formats of the supported
// external players. None of these formats are documented anywhere, so the
// tables here are the product of staring at terminal scrollback; treat every
// rule as best-effort.
package dialect

import "fmt"

// PlayerKind identifies which external player produced an output line.
type PlayerKind int

const (
	Mplayer PlayerKind = iota
	Mpg123
	Mpv
)

func (k PlayerKind) String() string {
	switch k {
	case Mplayer:
		return "mplayer"
	case Mpg123:
		return "mpg123"
	case Mpv:
		return "mpv"
	default:
		return "unknown"
	}
}

// ParseKind maps a player binary name to its PlayerKind.
func ParseKind(name string) (PlayerKind, error) {
	switch name {
	case "mplayer":
		return Mplayer, nil
	case "mpg123":
		return Mpg123, nil
	case "mpv":
		return Mpv, nil
	}
	return 0, fmt.Errorf("unsupported player %q", name)
}

// Role is the meaning of a matched header or track line.
type Role int

const (
	RolePlayerName Role = iota // the player announcing itself
	RoleChannelName
	RoleGenre
	RoleBitrate // doubles as the end-of-header marker
	RoleTrackTitle
)

func (r Role) String() string {
	switch r {
	case RolePlayerName:
		return "player"
	case RoleChannelName:
		return "channel"
	case RoleGenre:
		return "genre"
	case RoleBitrate:
		return "bitrate"
	case RoleTrackTitle:
		return "track"
	default:
		return "unknown"
	}
}

// Extraction selects how a rule pulls the field value out of a matched line.
type Extraction int

const (
	// ExtractColon takes the substring after the Colon-th colon, trimmed.
	ExtractColon Extraction = iota
	// ExtractRest takes everything after the prefix, trimmed.
	ExtractRest
	// ExtractICY digs the title out of an ICY metadata payload of the form
	// StreamTitle='...';StreamUrl=...
	ExtractICY
)

// Rule maps one line prefix to a field role.
type Rule struct {
	Prefix  string
	Role    Role
	Extract Extraction
	Colon   int // which colon starts the value, for ExtractColon
}

// Profile is the full line format table for one player. Profiles are static
// and safe to share between sessions.
type Profile struct {
	Kind PlayerKind

	// HasHeader is false for players that never print a recognizable header
	// block before track updates start (mpv). The session layer uses this to
	// skip the header gate.
	HasHeader bool

	// Rules are tried in order; the first matching prefix wins, so header
	// fields must be listed before anything they could shadow.
	Rules []Rule
}

// mplayer prints a block of "Name   : x" style header lines once the stream
// connects, then one "ICY Info:" line per track. The Name value itself may
// contain colons ("SomaFM: Groove Salad"), hence the first-colon split.
var mplayerProfile = Profile{
	Kind:      Mplayer,
	HasHeader: true,
	Rules: []Rule{
		{Prefix: "MPlayer", Role: RolePlayerName, Extract: ExtractRest},
		{Prefix: "Name", Role: RoleChannelName, Extract: ExtractColon, Colon: 1},
		{Prefix: "Genre", Role: RoleGenre, Extract: ExtractColon, Colon: 1},
		{Prefix: "Bitrate", Role: RoleBitrate, Extract: ExtractColon, Colon: 1},
		{Prefix: "ICY Info:", Role: RoleTrackTitle, Extract: ExtractICY},
	},
}

// mpg123 reports the ICY headers it received, one per line. The genre comes
// through as a raw echoed HTTP header, where the value sits after the second
// colon of the line. Its audio format line has no colon at all, but it is the
// last thing printed before track metadata starts, so it plays the part of
// the end-of-header marker.
var mpg123Profile = Profile{
	Kind:      Mpg123,
	HasHeader: true,
	Rules: []Rule{
		{Prefix: "High Performance MPEG", Role: RolePlayerName, Extract: ExtractRest},
		{Prefix: "ICY-NAME:", Role: RoleChannelName, Extract: ExtractColon, Colon: 1},
		{Prefix: "HTTP header: icy-genre", Role: RoleGenre, Extract: ExtractColon, Colon: 2},
		{Prefix: "ICY-META:", Role: RoleTrackTitle, Extract: ExtractICY},
		{Prefix: "MPEG", Role: RoleBitrate, Extract: ExtractRest},
	},
}

// mpv has no header block worth speaking of: it announces the URL and then
// emits bare "icy-title:" lines. Channel name and genre have to come from
// the catalog instead.
var mpvProfile = Profile{
	Kind:      Mpv,
	HasHeader: false,
	Rules: []Rule{
		{Prefix: "Playing:", Role: RolePlayerName, Extract: ExtractColon, Colon: 1},
		{Prefix: "icy-title:", Role: RoleTrackTitle, Extract: ExtractColon, Colon: 1},
	},
}

// ProfileFor returns the static output profile for a player.
func ProfileFor(kind PlayerKind) *Profile {
	switch kind {
	case Mplayer:
		return &mplayerProfile
	case Mpg123:
		return &mpg123Profile
	case Mpv:
		return &mpvProfile
	default:
		return nil
	}
}
