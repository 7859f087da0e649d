package model

import (
	"strings"
)

// GenreSeparator delimits entries of a user's genre list
const GenreSeparator = ";"

// Genres is the parsed form of the users.genres column
type Genres []string

// ParseGenres splits a stored genre list. Empty entries are dropped.
func ParseGenres(s string) Genres {
	var out Genres
	for _, g := range strings.Split(s, GenreSeparator) {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Contains reports whether genre is in the list, ignoring case
func (g Genres) Contains(genre string) bool {
	genre = strings.TrimSpace(genre)
	for _, existing := range g {
		if strings.EqualFold(existing, genre) {
			return true
		}
	}
	return false
}

// AppendGenre appends genre to a stored list unless it is already present in
// any letter case. The stored entries are kept as they are. It reports
// whether the list changed.
func AppendGenre(stored, genre string) (string, bool) {
	if strings.TrimSpace(genre) == "" || ParseGenres(stored).Contains(genre) {
		return stored, false
	}
	if strings.TrimSpace(stored) == "" {
		return genre, true
	}
	return stored + GenreSeparator + genre, true
}
