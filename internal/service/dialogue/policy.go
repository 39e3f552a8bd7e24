package dialogue

import (
	"fmt"
	"strings"
)

// Policy decides when a generated reply is corrected.
type Policy string

const (
	// PolicyTolerant retries only when the OOV ratio exceeds the threshold and
	// accepts the corrected reply as-is.
	PolicyTolerant Policy = "tolerant"
	// PolicyStrict retries on any OOV word and replaces a still non-compliant
	// reply with the language's fallback sentence.
	PolicyStrict Policy = "strict"
)

// ParsePolicy accepts "tolerant" or "strict" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyTolerant, PolicyStrict:
		return p, nil
	}
	return "", fmt.Errorf("unknown dialogue policy %q", s)
}

// DefaultCeiling returns the reply length limit, in characters, used by p
// when none is configured.
func (p Policy) DefaultCeiling() int {
	if p == PolicyStrict {
		return 60
	}
	return 150
}

const (
	DefaultThreshold   = 0.30
	DefaultMaxAttempts = 2
	ChatCeiling        = 60
)

// DefaultFallbacks are the strict-policy replacement sentences per language code.
var DefaultFallbacks = map[string]string{
	"es": "¿Puedes decirlo de otra forma?",
	"en": "Can you say that another way?",
	"fr": "Tu peux le dire autrement ?",
	"de": "Kannst du das anders sagen?",
	"it": "Puoi dirlo in un altro modo?",
	"pt": "Você pode dizer de outra forma?",
}

// fallbackLang is used when a language has no fallback of its own.
const fallbackLang = "es"

// Settings configures the retry controller.
type Settings struct {
	Policy      Policy
	Threshold   float64 // tolerant only
	MaxAttempts int     // clamped to [1, 2]
	Ceiling     int     // characters; 0 picks the policy default
	SliceLimit  int
	Fallbacks   map[string]string
}

// withDefaults returns s with zero fields replaced and bounds applied.
func (s Settings) withDefaults() Settings {
	if s.Policy == "" {
		s.Policy = PolicyTolerant
	}
	if s.Threshold <= 0 {
		s.Threshold = DefaultThreshold
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = DefaultMaxAttempts
	}
	s.MaxAttempts = min(max(s.MaxAttempts, 1), 2)
	if s.Ceiling <= 0 {
		s.Ceiling = s.Policy.DefaultCeiling()
	}
	if s.SliceLimit <= 0 {
		s.SliceLimit = DefaultSliceLimit
	}
	if len(s.Fallbacks) == 0 {
		s.Fallbacks = DefaultFallbacks
	}
	return s
}

// needsRetry reports whether an attempt with the given OOV list and ratio
// should be corrected.
func (s Settings) needsRetry(oov []string, ratio float64) bool {
	if s.Policy == PolicyStrict {
		return len(oov) > 0
	}
	return ratio > s.Threshold
}

// fallback returns the replacement sentence for langCode.
func (s Settings) fallback(langCode string) string {
	if f, ok := s.Fallbacks[strings.ToLower(langCode)]; ok {
		return f
	}
	if f, ok := s.Fallbacks[fallbackLang]; ok {
		return f
	}
	return DefaultFallbacks[fallbackLang]
}

// ParseFallbacks reads "es=¿Puedes...?;en=Can you...?" into a map. Blank
// input yields nil.
func ParseFallbacks(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		lang, text, ok := strings.Cut(pair, "=")
		lang = strings.ToLower(strings.TrimSpace(lang))
		text = strings.TrimSpace(text)
		if !ok || lang == "" || text == "" {
			return nil, fmt.Errorf("invalid fallback %q: want lang=sentence", pair)
		}
		out[lang] = text
	}
	return out, nil
}
