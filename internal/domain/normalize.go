package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wordLetters are the non-ASCII letters kept inside a token. After accent
// folding they no longer occur, but they are accepted so that text folded by
// another producer still tokenizes the same way.
const wordLetters = "áéíóúñü"

// FoldWord lowercases a single word and strips its diacritics:
// "Canción" becomes "cancion". Surrounding whitespace is trimmed.
func FoldWord(word string) string {
	return foldAccents(strings.ToLower(strings.TrimSpace(word)))
}

// Normalize lowercases text, strips diacritics, and splits it into tokens:
// maximal runs of Latin letters. Everything else (digits, punctuation,
// apostrophes, non-Latin scripts) separates tokens.
//
// Normalize is idempotent: Normalize(strings.Join(Normalize(s), " "))
// yields the same tokens as Normalize(s).
func Normalize(text string) []string {
	folded := foldAccents(strings.ToLower(text))

	var tokens []string
	start := -1
	for i, r := range folded {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, folded[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, folded[start:])
	}
	return tokens
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || strings.ContainsRune(wordLetters, r)
}

// foldAccents decomposes s (NFD), drops combining marks and recomposes.
// A transformer chain carries state, so a fresh one is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
