package dialogue

import (
	"regexp"
	"strings"
)

// PlaceholderName is used when no name can be read from a persona.
const PlaceholderName = "Personaje"

var (
	clauseBreak = regexp.MustCompile(`[,.\n]`)
	quoted      = regexp.MustCompile(`^"(.*)"$`)
	selfIntroRe = regexp.MustCompile(`(?i)^(soy|i am)\s+`)
)

// ExtractName derives the character's display name from a free-text persona:
// the first word of the first clause, minus wrapping quotes and a leading
// "Soy" / "I am".
func ExtractName(persona string) string {
	clause := strings.TrimSpace(clauseBreak.Split(persona, 2)[0])
	if clause == "" {
		clause = strings.TrimSpace(persona)
	}

	cleaned := quoted.ReplaceAllString(clause, "$1")
	cleaned = strings.TrimSpace(selfIntroRe.ReplaceAllString(cleaned, ""))

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return PlaceholderName
	}
	return fields[0]
}
