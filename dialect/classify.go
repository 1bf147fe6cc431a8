package dialect

import (
	"strings"
	"unicode/utf8"
)

// Event is the classification result for a single output line.
// Like fono's Status messages, events are plain tagged values with no
// identity beyond the line that produced them.
type Event interface {
	isEvent()
}

// Header carries one recognized header field and its value.
type Header struct {
	Field Role
	Value string
}

func (Header) isEvent() {}

// TrackUpdate carries the raw title of the track the player just switched to.
type TrackUpdate struct {
	Title string
}

func (TrackUpdate) isEvent() {}

// Unrecognized wraps a line that matched no rule. Not an error, only a
// no-op signal; the session layer decides whether to echo it.
type Unrecognized struct {
	Line string
}

func (Unrecognized) isEvent() {}

const icyTitleMarker = "StreamTitle='"

// Classify matches one raw output line against a player's profile.
// Lines may contain arbitrary bytes; anything that is not valid text is
// treated as unrecognized rather than an error.
func Classify(line []byte, p *Profile) Event {
	if !utf8.Valid(line) {
		return Unrecognized{Line: strings.ToValidUTF8(string(line), "�")}
	}

	s := strings.TrimSpace(string(line))
	if s == "" || p == nil {
		return Unrecognized{Line: s}
	}

	for _, rule := range p.Rules {
		if !strings.HasPrefix(s, rule.Prefix) {
			continue
		}

		value, ok := extract(s, rule)
		if !ok {
			// The prefix matched but the payload was malformed. Still not
			// an error, the line just carries nothing usable.
			return Unrecognized{Line: s}
		}

		if rule.Role == RoleTrackTitle {
			return TrackUpdate{Title: value}
		}
		return Header{Field: rule.Role, Value: value}
	}

	return Unrecognized{Line: s}
}

func extract(s string, rule Rule) (string, bool) {
	switch rule.Extract {
	case ExtractRest:
		return strings.TrimSpace(strings.TrimPrefix(s, rule.Prefix)), true
	case ExtractColon:
		return afterColon(s, rule.Colon)
	case ExtractICY:
		return extractICYTitle(s)
	}
	return "", false
}

// afterColon returns the trimmed substring after the n-th colon of s.
// Values themselves may contain colons ("SomaFM: Groove Salad"), so only
// the first n colons are consumed.
func afterColon(s string, n int) (string, bool) {
	rest := s
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(rest, ':')
		if idx < 0 {
			return "", false
		}
		rest = rest[idx+1:]
	}
	return strings.TrimSpace(rest), true
}

// extractICYTitle pulls the quoted title out of an ICY metadata payload:
//
//	ICY Info: StreamTitle='Artist - Track';StreamUrl='http://...';
//
// Everything up to the closing quote-semicolon pair belongs to the title,
// including stray quotes and semicolons on their own.
func extractICYTitle(s string) (string, bool) {
	start := strings.Index(s, icyTitleMarker)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(icyTitleMarker):]

	end := strings.Index(rest, "';")
	if end < 0 {
		// Some streams drop the trailing StreamUrl part; fall back to the
		// last quote on the line.
		end = strings.LastIndexByte(rest, '\'')
		if end < 0 {
			return "", false
		}
	}
	return rest[:end], true
}
