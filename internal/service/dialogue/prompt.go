package dialogue

import (
	"fmt"
	"strings"
)

// PromptParams carries everything the composer needs. It is plain data; no
// lookups happen while composing.
type PromptParams struct {
	Persona  string
	Name     string // identity-lock name, see ExtractName
	Language string
	Level    string // level key as requested
	CEFR     string // CEFR label for Level, may equal Level
	Guidance string // level rule text, may be empty
	Ceiling  int
	Policy   Policy
}

// ComposeSystem builds the system instruction.
func ComposeSystem(p PromptParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s. ", p.Persona)
	fmt.Fprintf(&b, "Your fixed personal name is %q. ", p.Name)
	fmt.Fprintf(&b, `If the player asks who you are, your name, or "what are you called", clearly say your name (e.g., "Me llamo %s", "Soy %s", or the correct equivalent in %s). `,
		p.Name, p.Name, p.Language)
	b.WriteString(`Never answer with only a pronoun like "yo/ella/él" instead of your name. `)
	fmt.Fprintf(&b, "Speak only %s. ", p.Language)
	if p.Guidance != "" {
		b.WriteString(strings.TrimSpace(p.Guidance))
		b.WriteString(" ")
	}

	cefr := p.CEFR
	if cefr == "" {
		cefr = "no CEFR"
	}
	if p.Policy == PolicyStrict {
		fmt.Fprintf(&b, "Use ONLY BANK words for Level %s (%s) when possible; paraphrase to stay in level. ", p.Level, cefr)
	} else {
		fmt.Fprintf(&b, "Prefer using only the BANK vocabulary for Level %s (%s). ", p.Level, cefr)
		b.WriteString("If a key word is missing, you may use simple outside words sparingly. ")
	}

	fmt.Fprintf(&b, "One sentence, <=%d characters. No emojis/quotes/prefixes. Stay in character.", p.Ceiling)
	return b.String()
}

// ComposeUser builds the first-attempt user message.
func ComposeUser(level string, slice []string, topic, player string) string {
	return bankLine(level, slice) + "\n" +
		"TOPIC: " + topic + "\n" +
		"PLAYER: " + player
}

// ComposeCorrection builds the user message for the corrective attempt. It
// names the offending words and carries the original reply.
func ComposeCorrection(policy Policy, level string, slice, oov []string, original string) string {
	bad := strings.Join(oov, ", ")

	var fix string
	if policy == PolicyStrict {
		fix = fmt.Sprintf("Rewrite without: %s. Use only BANK words. Keep meaning.", bad)
	} else {
		fix = fmt.Sprintf("Rewrite using mainly BANK words. Replace outside words (%s) with close BANK synonyms when possible. Keep meaning.", bad)
	}

	return bankLine(level, slice) + "\n" + fix + "\nOriginal: " + original
}

// ComposeChatSystem builds the system instruction for free chat.
func ComposeChatSystem(persona, language string) string {
	return fmt.Sprintf("You are %s. Reply only in %s. One sentence, <=%d chars, no emojis, no quotes, no prefixes.",
		persona, language, ChatCeiling)
}

func bankLine(level string, slice []string) string {
	return fmt.Sprintf("BANK (Level %s): %s", level, strings.Join(slice, ", "))
}
