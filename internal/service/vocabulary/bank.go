package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pollylang/pollylang-backend/internal/cache"
	"github.com/pollylang/pollylang-backend/internal/domain"
)

// maxParallelFetches bounds concurrent sub-bank downloads for one cumulative load.
const maxParallelFetches = 4

type bankSource interface {
	FetchBank(ctx context.Context, lang string, tier int) ([]string, error)
}

// BankStore loads vocabulary banks and keeps them in a bounded cache.
type BankStore struct {
	log        *slog.Logger
	source     bankSource
	cache      *cache.Loader[domain.Bank]
	cumulative bool
	maxTier    int
}

// NewBankStore creates a BankStore. With cumulative set, the bank for a tier
// is the union of every 1000-word sub-bank up to that tier. Levels above
// maxTier are served the maxTier bank; maxTier < 1000 uses
// domain.DefaultMaxTier.
func NewBankStore(logger *slog.Logger, source bankSource, c *cache.Loader[domain.Bank], cumulative bool, maxTier int) *BankStore {
	if maxTier < domain.TierStep {
		maxTier = domain.DefaultMaxTier
	}
	return &BankStore{
		log:        logger.With("service", "bankstore"),
		source:     source,
		cache:      c,
		cumulative: cumulative,
		maxTier:    maxTier,
	}
}

// Load returns the bank for langCode at level. Fetch failures surface as
// errors matching domain.ErrFetch.
func (s *BankStore) Load(ctx context.Context, langCode, level string) (domain.Bank, error) {
	lang := normalizeLang(langCode)
	tier := domain.FloorTier(domain.ClampTier(domain.ResolveTier(level), s.maxTier))

	if !s.cumulative {
		return s.loadTier(ctx, lang, tier)
	}

	tiers := domain.SubTiers(tier)
	if len(tiers) == 1 {
		return s.loadTier(ctx, lang, tiers[0])
	}

	key := lang + ":" + strconv.Itoa(tier) + ":cumulative"
	return s.cache.Get(ctx, key, func(ctx context.Context) (domain.Bank, error) {
		return s.union(ctx, lang, tiers)
	})
}

func (s *BankStore) union(ctx context.Context, lang string, tiers []int) (domain.Bank, error) {
	banks := make([]domain.Bank, len(tiers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, t := range tiers {
		// Once a sub-bank fails the group is cancelled; stop starting fetches.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := s.loadTier(gctx, lang, t)
			if err != nil {
				return err
			}
			banks[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Bank{}, err
	}

	u := domain.UnionBanks(banks...)
	s.log.InfoContext(ctx, "cumulative bank built",
		slog.String("lang", lang),
		slog.Int("tiers", len(tiers)),
		slog.Int("words", u.Len()),
	)
	return u, nil
}

func (s *BankStore) loadTier(ctx context.Context, lang string, tier int) (domain.Bank, error) {
	key := lang + ":" + strconv.Itoa(tier)
	return s.cache.Get(ctx, key, func(ctx context.Context) (domain.Bank, error) {
		words, err := s.source.FetchBank(ctx, lang, tier)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("load bank %s: %w", key, err)
		}
		b := domain.NewBank(words)
		s.log.InfoContext(ctx, "bank loaded", slog.String("key", key), slog.Int("words", b.Len()))
		return b, nil
	})
}

func normalizeLang(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
