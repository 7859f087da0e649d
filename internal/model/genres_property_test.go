package model

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genGenre generates a single genre name with mixed case
func genGenre() gopter.Gen {
	return gen.RegexMatch(`[A-Za-z]{1,12}`)
}

// Property: re-adding a genre in any letter case leaves the list unchanged
func TestProperty_AppendGenreCaseInsensitive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("second append of same genre in other case is a no-op", prop.ForAll(
		func(existing []string, genre string) bool {
			stored := ""
			for _, e := range existing {
				stored, _ = AppendGenre(stored, e)
			}

			once, _ := AppendGenre(stored, genre)
			twice, changed := AppendGenre(once, strings.ToLower(genre))
			if changed {
				return false
			}
			twice, changed = AppendGenre(twice, strings.ToUpper(genre))
			return !changed && twice == once
		},
		gen.SliceOfN(5, genGenre()),
		genGenre(),
	))

	properties.TestingRun(t)
}

// Property: appending never rewrites the stored text and never creates a
// case-insensitive duplicate
func TestProperty_AppendGenrePreservesStored(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("stored text is a prefix and entries stay unique", prop.ForAll(
		func(genres []string) bool {
			stored := ""
			for _, e := range genres {
				next, changed := AppendGenre(stored, e)
				if changed && stored != "" && !strings.HasPrefix(next, stored+GenreSeparator) {
					return false
				}
				stored = next
			}

			seen := make(map[string]bool)
			for _, e := range ParseGenres(stored) {
				key := strings.ToLower(e)
				if seen[key] {
					return false
				}
				seen[key] = true
			}
			return true
		},
		gen.SliceOf(genGenre()),
	))

	properties.TestingRun(t)
}
