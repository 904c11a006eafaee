package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGenre(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acción", "accion"},
		{"accion", "accion"},
		{"Action", "accion"},
		{"  Drama  ", "drama"},
		{"Sci-Fi", "ciencia ficcion"},
		{"Science Fiction", "ciencia ficcion"},
		{"THRILLER", "suspense"},
		{"war", "belica"},
		{"Guerra", "belica"},
		{"Bélica", "belica"},
		{"Oeste", "western"},
		{"Música", "musica"},
		{"xyzzy", "xyzzy"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, normalizeGenre(tc.in), "normalizeGenre(%q)", tc.in)
	}
}

func TestGenreID(t *testing.T) {
	cases := []struct {
		in   string
		id   int
		ok   bool
	}{
		{"Acción", 28, true},
		{"Action", 28, true},
		{"drama", 18, true},
		{"Ciencia Ficción", 878, true},
		{"Terror", 27, true},
		{"Horror", 27, true},
		{"xyzzy", 0, false},
	}
	for _, tc := range cases {
		id, ok := GenreID(tc.in)
		assert.Equalf(t, tc.ok, ok, "GenreID(%q) ok", tc.in)
		assert.Equalf(t, tc.id, id, "GenreID(%q)", tc.in)
	}
}
