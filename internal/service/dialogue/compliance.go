package dialogue

import "github.com/pollylang/pollylang-backend/internal/domain"

// CheckCompliance returns the distinct tokens of text that are not in bank,
// in first-seen order. An empty result means the text is compliant.
func CheckCompliance(text string, bank domain.Bank) []string {
	oov, _ := checkCompliance(text, bank)
	return oov
}

// OOVRatio is the number of distinct out-of-bank tokens divided by the total
// token count of text. Text without tokens has ratio 0.
func OOVRatio(text string, bank domain.Bank) float64 {
	oov, total := checkCompliance(text, bank)
	if total == 0 {
		return 0
	}
	return float64(len(oov)) / float64(total)
}

func checkCompliance(text string, bank domain.Bank) (oov []string, total int) {
	tokens := domain.Normalize(text)
	seen := make(map[string]struct{})
	for _, t := range tokens {
		if bank.Contains(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		oov = append(oov, t)
	}
	return oov, len(tokens)
}
