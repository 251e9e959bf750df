// Package search implements accent-insensitive substring search over the
// music catalog.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/123ibadullah/MusicWebApplication/model"
)

// stripAccents decomposes to NFD, drops combining marks, and recomposes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a string and removes diacritics, so that "café"
// matches "Cafe" and vice versa.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Results holds the matches of a single query across all entity kinds.
type Results struct {
	Songs     []model.Song
	Albums    []model.Album
	Playlists []model.Playlist
}

// Empty reports whether no entity matched.
func (r Results) Empty() bool {
	return len(r.Songs) == 0 && len(r.Albums) == 0 && len(r.Playlists) == 0
}

// Query matches the normalized query as a substring against the searchable
// fields of every entity. An empty or whitespace-only query matches nothing.
func Query(query string, songs []model.Song, albums []model.Album, playlists []model.Playlist) Results {
	var res Results
	q := Normalize(strings.TrimSpace(query))
	if q == "" {
		return res
	}

	for _, s := range songs {
		if matches(q, s.Name, s.Desc, s.Album, s.Artist) {
			res.Songs = append(res.Songs, s)
		}
	}
	for _, a := range albums {
		if matches(q, a.Name, a.Desc, a.Artist) {
			res.Albums = append(res.Albums, a)
		}
	}
	for _, p := range playlists {
		if matches(q, p.Name, p.Description) {
			res.Playlists = append(res.Playlists, p)
		}
	}
	return res
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(Normalize(f), q) {
			return true
		}
	}
	return false
}
