package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "diacritics removed", input: "Canción", want: []string{"cancion"}},
		{name: "enye folded", input: "El niño", want: []string{"el", "nino"}},
		{name: "punctuation splits", input: "¡Hola, amigo!", want: []string{"hola", "amigo"}},
		{name: "question marks", input: "¿Cómo estás?", want: []string{"como", "estas"}},
		{name: "apostrophe splits", input: "don't", want: []string{"don", "t"}},
		{name: "digits split", input: "abc123def", want: []string{"abc", "def"}},
		{name: "dieresis", input: "pingüino", want: []string{"pinguino"}},
		{name: "uppercase", input: "MADRID", want: []string{"madrid"}},
		{name: "empty", input: "", want: nil},
		{name: "only punctuation", input: "... !!", want: nil},
		{name: "non-latin ignored", input: "привет hola", want: []string{"hola"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"¿Me llamo Marta y hago pan en Sevilla!",
		"Él comió una canción... ¡qué raro!",
		"  Naïve   Résumé  ",
		"",
	}
	for _, in := range inputs {
		first := Normalize(in)
		second := Normalize(strings.Join(first, " "))
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestFoldWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cancion", FoldWord(" Canción "))
	assert.Equal(t, "arbol", FoldWord("Árbol"))
	assert.Equal(t, "", FoldWord("   "))
}
