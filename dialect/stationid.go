package dialect

import "strings"

// IsStationID reports whether a track title is actually a station
// identification jingle rather than music. The check is a case-insensitive
// substring match against the known jingle names, since stations tend to
// title these things inconsistently ("SomaFM Station ID", "somafm.com id",
// and so on).
func IsStationID(title string, knownIDs []string) bool {
	t := strings.ToLower(title)
	for _, id := range knownIDs {
		if id == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(id)) {
			return true
		}
	}
	return false
}
