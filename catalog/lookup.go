package catalog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrNoChannel is returned when a query matches nothing in the directory.
var ErrNoChannel = fmt.Errorf("no channel matches")

// channelSource adapts a channel slice for fuzzy matching over both ID and
// title, so "salad" finds "Groove Salad" and "gsclassic" finds the ID.
type channelSource []Channel

func (s channelSource) String(i int) string {
	return s[i].ID + " " + s[i].Title
}

func (s channelSource) Len() int { return len(s) }

// Find resolves a user-entered channel identifier against the directory.
// Exact ID and title matches win; otherwise the best fuzzy match does.
func Find(channels []Channel, query string) (Channel, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Channel{}, fmt.Errorf("%w: empty query", ErrNoChannel)
	}

	for _, ch := range channels {
		if strings.EqualFold(ch.ID, q) || strings.EqualFold(ch.Title, q) {
			return ch, nil
		}
	}

	matches := fuzzy.FindFrom(q, channelSource(channels))
	if len(matches) == 0 {
		return Channel{}, fmt.Errorf("%w %q", ErrNoChannel, query)
	}
	return channels[matches[0].Index], nil
}
