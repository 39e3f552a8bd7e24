package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// TierStep is the word count of one vocabulary sub-bank.
const TierStep = 1000

// DefaultMaxTier caps the bank size a level can ask for.
const DefaultMaxTier = 20000

// ResolveTier maps a level key to a bank word count. Small numbers are
// levels ("3" is 3000 words), large ones are word counts already, and
// anything else falls back to the smallest tier. Only the leading integer
// is read, so "3abc" and "2.0" resolve like "3" and "2". Values that
// overflow int resolve to math.MaxInt and are left for the caller to clamp.
func ResolveTier(level string) int {
	n, ok := leadingInt(level)
	if !ok || n <= 0 {
		return TierStep
	}
	if n < TierStep {
		return n * TierStep
	}
	return n
}

// ClampTier bounds tier to [TierStep, maxTier]. A maxTier below TierStep
// means DefaultMaxTier.
func ClampTier(tier, maxTier int) int {
	if maxTier < TierStep {
		maxTier = DefaultMaxTier
	}
	return max(TierStep, min(tier, maxTier))
}

// leadingInt parses an optional sign and the digit run that follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	if neg {
		return -1, true
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// FloorTier rounds tier down to a whole sub-bank, never below TierStep.
func FloorTier(tier int) int {
	return max(TierStep, tier-tier%TierStep)
}

// SubTiers lists the sub-banks that make up a cumulative bank for tier:
// 1000, 2000, ... up to the last whole step at or below tier. Callers clamp
// tier first; the list grows with it.
func SubTiers(tier int) []int {
	var tiers []int
	for i := 1; i <= FloorTier(tier)/TierStep; i++ {
		tiers = append(tiers, i*TierStep)
	}
	return tiers
}

var cefrByLevel = map[string]string{
	"1": "A1", "1000": "A1",
	"2": "A2", "2000": "A2",
	"3": "B1", "3000": "B1",
	"4": "B2", "4000": "B2",
	"5": "C1", "5000": "C1",
}

// LevelToCEFR returns the CEFR label for a numeric level key. Keys that are
// not numeric levels (for example "B1") are returned unchanged.
func LevelToCEFR(level string) string {
	level = strings.TrimSpace(level)
	if cefr, ok := cefrByLevel[level]; ok {
		return cefr
	}
	return level
}

// LevelRules maps a level key to its guidance text for one language.
type LevelRules map[string]string

// Guidance returns the guidance for level, trying the CEFR label first and
// the raw key second. Unknown keys yield "".
func (r LevelRules) Guidance(level string) string {
	if g, ok := r[LevelToCEFR(level)]; ok {
		return g
	}
	return r[strings.TrimSpace(level)]
}
