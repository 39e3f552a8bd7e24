package dialogue

import "strings"

// Defaults applied to missing request fields.
const (
	DefaultPersona  = "María, teen from Madrid who loves art and padel."
	DefaultLanguage = "Spanish"
	DefaultLangCode = "es"
	DefaultLevel    = "1"
	DefaultUser     = "Greet the player."
)

// Free-chat field limits, in characters.
const (
	maxChatPersona  = 400
	maxChatLanguage = 40
	maxChatUser     = 400
)

// GenerateInput is one vocabulary-constrained reply request.
type GenerateInput struct {
	Persona  string
	Language string
	LangCode string
	Level    string // numeric ("1".."5", "1000"...) or symbolic ("A1")
	Topic    string
	User     string
}

// WithDefaults fills blank fields with the documented fallbacks.
func (in GenerateInput) WithDefaults() GenerateInput {
	in.Persona = orDefault(in.Persona, DefaultPersona)
	in.Language = orDefault(in.Language, DefaultLanguage)
	in.LangCode = orDefault(in.LangCode, DefaultLangCode)
	in.Level = orDefault(in.Level, DefaultLevel)
	in.User = orDefault(in.User, DefaultUser)
	in.Topic = strings.TrimSpace(in.Topic)
	return in
}

// ChatInput is a free persona chat request without a vocabulary bank.
type ChatInput struct {
	Persona  string
	Language string
	User     string
}

// Normalized fills blank fields and clips every field to its limit.
func (in ChatInput) Normalized() ChatInput {
	return ChatInput{
		Persona:  Truncate(orDefault(in.Persona, DefaultPersona), maxChatPersona),
		Language: Truncate(orDefault(in.Language, DefaultLanguage), maxChatLanguage),
		User:     Truncate(orDefault(in.User, DefaultUser), maxChatUser),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Truncate cuts s to at most limit characters (runes). A limit <= 0 leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
