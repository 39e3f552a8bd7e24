package domain

import (
	"iter"
	"slices"
)

// Bank is an immutable set of folded vocabulary words for one language and
// level. The zero value is an empty bank.
type Bank struct {
	set   map[string]struct{}
	words []string // sorted, unique
}

// NewBank folds every word and builds a bank. Empty words are dropped.
func NewBank(words []string) Bank {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		f := FoldWord(w)
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return bankFromSet(set)
}

func bankFromSet(set map[string]struct{}) Bank {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	slices.Sort(words)
	return Bank{set: set, words: words}
}

// Contains reports whether the folded word is a member of the bank.
func (b Bank) Contains(word string) bool {
	_, ok := b.set[word]
	return ok
}

// Len returns the number of distinct words.
func (b Bank) Len() int { return len(b.words) }

// All iterates the bank in sorted order.
func (b Bank) All() iter.Seq[string] {
	return slices.Values(b.words)
}

// Words returns a copy of the sorted members.
func (b Bank) Words() []string {
	return slices.Clone(b.words)
}

// UnionBanks builds a new bank containing every member of banks.
// The inputs are left untouched.
func UnionBanks(banks ...Bank) Bank {
	size := 0
	for _, b := range banks {
		size += b.Len()
	}
	set := make(map[string]struct{}, size)
	for _, b := range banks {
		for w := range b.set {
			set[w] = struct{}{}
		}
	}
	return bankFromSet(set)
}
