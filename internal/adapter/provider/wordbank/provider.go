// Package wordbank fetches vocabulary banks and level-rule tables from the
// static resource host.
package wordbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

const (
	defaultBaseURL   = "https://pollylang.app"
	defaultBankPath  = "/wordbanks/{lang}/{lang}_{tier}.json"
	defaultRulesPath = "/cefr/{lang}.json"
	defaultTimeout   = 10 * time.Second

	// maxBodyBytes bounds a single resource download.
	maxBodyBytes = 8 << 20
)

// Config selects where banks and rules are served from. Path templates may
// use {lang} and {tier}.
type Config struct {
	BaseURL   string
	BankPath  string
	RulesPath string
	Timeout   time.Duration
}

// Provider fetches bank arrays and rule objects over HTTP.
// It never retries; a failed fetch is reported as *domain.FetchError.
type Provider struct {
	baseURL    string
	bankPath   string
	rulesPath  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. Zero fields in cfg take the defaults.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.BankPath == "" {
		cfg.BankPath = defaultBankPath
	}
	if cfg.RulesPath == "" {
		cfg.RulesPath = defaultRulesPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		bankPath:   cfg.BankPath,
		rulesPath:  cfg.RulesPath,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "wordbank"),
	}
}

// NewProviderWithURL creates a Provider with default paths and a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return NewProvider(Config{BaseURL: baseURL}, logger)
}

// FetchBank returns the raw word list for one language and tier.
func (p *Provider) FetchBank(ctx context.Context, lang string, tier int) ([]string, error) {
	reqURL := p.resolve(p.bankPath, lang, tier)

	var words []string
	if err := p.getJSON(ctx, reqURL, &words); err != nil {
		return nil, fmt.Errorf("wordbank: bank %s/%d: %w", lang, tier, err)
	}

	p.log.DebugContext(ctx, "bank fetched",
		slog.String("lang", lang),
		slog.Int("tier", tier),
		slog.Int("words", len(words)),
	)
	return words, nil
}

// FetchRules returns the level-rule table for one language.
func (p *Provider) FetchRules(ctx context.Context, lang string) (domain.LevelRules, error) {
	reqURL := p.resolve(p.rulesPath, lang, 0)

	var rules domain.LevelRules
	if err := p.getJSON(ctx, reqURL, &rules); err != nil {
		return nil, fmt.Errorf("wordbank: rules %s: %w", lang, err)
	}
	if rules == nil {
		rules = domain.LevelRules{}
	}

	p.log.DebugContext(ctx, "rules fetched", slog.String("lang", lang), slog.Int("levels", len(rules)))
	return rules, nil
}

func (p *Provider) resolve(tmpl, lang string, tier int) string {
	r := strings.NewReplacer(
		"{lang}", url.PathEscape(lang),
		"{tier}", strconv.Itoa(tier),
	)
	return p.baseURL + r.Replace(tmpl)
}

func (p *Provider) getJSON(ctx context.Context, reqURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.FetchError{URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "wordbank request failed", slog.String("url", reqURL), slog.String("error", err.Error()))
		return &domain.FetchError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.WarnContext(ctx, "wordbank unexpected status", slog.String("url", reqURL), slog.Int("status", resp.StatusCode))
		return &domain.FetchError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.FetchError{URL: reqURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &domain.FetchError{URL: reqURL, Err: fmt.Errorf("decode json: %w", err)}
	}
	return nil
}
