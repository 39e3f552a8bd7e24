package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.Enabled() && len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 characters when a database is configured (got %d)", len(c.Auth.SessionSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %v)", c.Auth.SessionTTL)
	}

	if err := validateURL(c.LLM.BaseURL); err != nil {
		return fmt.Errorf("llm.base_url: %w", err)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2] (got %v)", c.LLM.Temperature)
	}

	if err := validateURL(c.Resources.BaseURL); err != nil {
		return fmt.Errorf("resources.base_url: %w", err)
	}
	if !strings.Contains(c.Resources.BankPath, "{tier}") {
		return fmt.Errorf("resources.bank_path must contain {tier} (got %q)", c.Resources.BankPath)
	}

	if c.Cache.BankSize <= 0 || c.Cache.RulesSize <= 0 {
		return fmt.Errorf("cache sizes must be > 0 (bank %d, rules %d)", c.Cache.BankSize, c.Cache.RulesSize)
	}

	if err := c.Dialogue.validate(); err != nil {
		return fmt.Errorf("dialogue: %w", err)
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}

	return nil
}

func (d *DialogueConfig) validate() error {
	d.Policy = strings.ToLower(strings.TrimSpace(d.Policy))
	if d.Policy != "tolerant" && d.Policy != "strict" {
		return fmt.Errorf("policy must be tolerant or strict (got %q)", d.Policy)
	}
	if d.Threshold < 0 || d.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1] (got %v)", d.Threshold)
	}
	if d.MaxAttempts < 1 || d.MaxAttempts > 2 {
		return fmt.Errorf("max_attempts must be 1 or 2 (got %d)", d.MaxAttempts)
	}
	if d.MaxTier != 0 && d.MaxTier < 1000 {
		return fmt.Errorf("max_tier must be 0 or >= 1000 (got %d)", d.MaxTier)
	}
	if d.SliceLimit <= 0 {
		return fmt.Errorf("slice_limit must be > 0 (got %d)", d.SliceLimit)
	}
	if d.Ceiling < 0 {
		return fmt.Errorf("ceiling must be >= 0 (got %d)", d.Ceiling)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("host is empty (got %q)", raw)
	}
	return nil
}
