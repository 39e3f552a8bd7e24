package dialogue

import "github.com/pollylang/pollylang-backend/internal/domain"

// DefaultSliceLimit is the number of bank words shown to the model.
const DefaultSliceLimit = 200

// SelectSlice picks at most limit distinct bank words: topic tokens that are
// in the bank first, in topic order, then the rest of the bank in its
// iteration order.
func SelectSlice(bank domain.Bank, topicTokens []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	slice := make([]string, 0, min(limit, bank.Len()))
	seen := make(map[string]struct{}, cap(slice))

	add := func(w string) bool {
		if _, dup := seen[w]; dup {
			return len(slice) < limit
		}
		seen[w] = struct{}{}
		slice = append(slice, w)
		return len(slice) < limit
	}

	for _, w := range topicTokens {
		if !bank.Contains(w) {
			continue
		}
		if !add(w) {
			return slice
		}
	}
	for w := range bank.All() {
		if !add(w) {
			return slice
		}
	}
	return slice
}
