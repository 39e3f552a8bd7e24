package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pollylang/pollylang-backend/internal/cache"
	"github.com/pollylang/pollylang-backend/internal/domain"
)

type ruleSource interface {
	FetchRules(ctx context.Context, lang string) (domain.LevelRules, error)
}

// RuleStore loads per-language level guidance and caches it.
type RuleStore struct {
	log    *slog.Logger
	source ruleSource
	cache  *cache.Loader[domain.LevelRules]
}

// NewRuleStore creates a RuleStore.
func NewRuleStore(logger *slog.Logger, source ruleSource, c *cache.Loader[domain.LevelRules]) *RuleStore {
	return &RuleStore{
		log:    logger.With("service", "rulestore"),
		source: source,
		cache:  c,
	}
}

// Load returns the rule table for langCode. The returned map is shared and
// must not be modified.
func (s *RuleStore) Load(ctx context.Context, langCode string) (domain.LevelRules, error) {
	lang := normalizeLang(langCode)
	return s.cache.Get(ctx, lang, func(ctx context.Context) (domain.LevelRules, error) {
		rules, err := s.source.FetchRules(ctx, lang)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", lang, err)
		}
		s.log.InfoContext(ctx, "rules loaded", slog.String("lang", lang), slog.Int("levels", len(rules)))
		return rules, nil
	})
}
