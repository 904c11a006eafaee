package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical genre keys are lowercase Spanish names with accents stripped.
// Synonyms fold the English names and common spellings onto the same key.
var genreSynonyms = map[string]string{
	"action":          "accion",
	"adventure":       "aventura",
	"animation":       "animacion",
	"comedy":          "comedia",
	"crime":           "crimen",
	"documentary":     "documental",
	"family":          "familia",
	"fantasy":         "fantasia",
	"history":         "historia",
	"horror":          "terror",
	"music":           "musica",
	"mystery":         "misterio",
	"romantica":       "romance",
	"sci-fi":          "ciencia ficcion",
	"science fiction": "ciencia ficcion",
	"thriller":        "suspense",
	"war":             "belica",
	"guerra":          "belica",
	"oeste":           "western",
}

// TMDB genre ids keyed by canonical name.
var tmdbGenreIDs = map[string]int{
	"accion":          28,
	"aventura":        12,
	"animacion":       16,
	"comedia":         35,
	"crimen":          80,
	"documental":      99,
	"drama":           18,
	"familia":         10751,
	"fantasia":        14,
	"historia":        36,
	"terror":          27,
	"musica":          10402,
	"misterio":        9648,
	"romance":         10749,
	"ciencia ficcion": 878,
	"suspense":        53,
	"belica":          10752,
	"western":         37,
}

// normalizeGenre lowercases, strips accents and folds synonyms so that
// "Acción", "accion" and "Action" all land on the same canonical key.
func normalizeGenre(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}
	if canonical, ok := genreSynonyms[stripped]; ok {
		return canonical
	}
	return stripped
}

// GenreID maps a user-facing genre name to the TMDB genre id.
func GenreID(name string) (int, bool) {
	id, ok := tmdbGenreIDs[normalizeGenre(name)]
	return id, ok
}
