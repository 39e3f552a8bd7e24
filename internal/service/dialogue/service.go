package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

type bankLoader interface {
	Load(ctx context.Context, langCode, level string) (domain.Bank, error)
}

type ruleLoader interface {
	Load(ctx context.Context, langCode string) (domain.LevelRules, error)
}

type generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Attempt records one LLM call of a request.
type Attempt struct {
	System string
	User   string
	Raw    string
	Text   string // Raw cut to the ceiling
	OOV    []string
	Ratio  float64
}

// Result is the outcome of Generate.
type Result struct {
	Text     string
	Attempts []Attempt
	Retried  bool
	Fallback bool
}

// Service produces vocabulary-constrained NPC replies.
type Service struct {
	log      *slog.Logger
	banks    bankLoader
	rules    ruleLoader
	llm      generator
	settings Settings
	tracer   trace.Tracer
}

// NewService creates a dialogue Service. Zero settings take the defaults.
func NewService(logger *slog.Logger, banks bankLoader, rules ruleLoader, llm generator, settings Settings) *Service {
	return &Service{
		log:      logger.With("service", "dialogue"),
		banks:    banks,
		rules:    rules,
		llm:      llm,
		settings: settings.withDefaults(),
		tracer:   otel.Tracer("pollylang/dialogue"),
	}
}

// Settings returns the effective settings after defaults.
func (s *Service) Settings() Settings { return s.settings }

// Generate runs the full pipeline: bank and rules, identity lock, slice,
// prompts, generation, compliance and at most one correction.
//
// Bank and generation failures are returned as errors matching
// domain.ErrFetch or domain.ErrGeneration. A rule fetch failure only drops
// the level guidance.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (Result, error) {
	in = in.WithDefaults()
	cfg := s.settings

	ctx, span := s.tracer.Start(ctx, "dialogue.generate", trace.WithAttributes(
		attribute.String("dialogue.lang", in.LangCode),
		attribute.String("dialogue.level", in.Level),
		attribute.String("dialogue.policy", string(cfg.Policy)),
	))
	defer span.End()

	bank, err := s.banks.Load(ctx, in.LangCode, in.Level)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bank load failed")
		return Result{}, fmt.Errorf("dialogue: %w", err)
	}

	guidance := ""
	if rules, err := s.rules.Load(ctx, in.LangCode); err != nil {
		s.log.WarnContext(ctx, "level rules unavailable, continuing without guidance",
			slog.String("lang", in.LangCode),
			slog.String("error", err.Error()),
		)
	} else {
		guidance = rules.Guidance(in.Level)
	}

	slice := SelectSlice(bank, domain.Normalize(in.Topic), cfg.SliceLimit)
	name := ExtractName(in.Persona)

	system := ComposeSystem(PromptParams{
		Persona:  in.Persona,
		Name:     name,
		Language: in.Language,
		Level:    in.Level,
		CEFR:     domain.LevelToCEFR(in.Level),
		Guidance: guidance,
		Ceiling:  cfg.Ceiling,
		Policy:   cfg.Policy,
	})
	user := ComposeUser(in.Level, slice, in.Topic, in.User)

	span.SetAttributes(
		attribute.Int("dialogue.bank_size", bank.Len()),
		attribute.Int("dialogue.slice_size", len(slice)),
		attribute.String("dialogue.npc_name", name),
	)

	first, err := s.attempt(ctx, 1, system, user, bank)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return Result{}, err
	}
	res := Result{Text: first.Text, Attempts: []Attempt{first}}

	if cfg.needsRetry(first.OOV, first.Ratio) {
		res, err = s.correct(ctx, res, in, system, slice, bank)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "correction failed")
			return Result{}, err
		}
	}

	span.SetAttributes(
		attribute.Int("dialogue.attempts", len(res.Attempts)),
		attribute.Bool("dialogue.retried", res.Retried),
		attribute.Bool("dialogue.fallback", res.Fallback),
	)
	s.log.DebugContext(ctx, "reply generated",
		slog.String("lang", in.LangCode),
		slog.String("level", in.Level),
		slog.Int("attempts", len(res.Attempts)),
		slog.Bool("fallback", res.Fallback),
	)
	return res, nil
}

// correct runs the corrective attempt when the attempt budget allows it and
// applies the policy to its outcome. It never loops.
func (s *Service) correct(ctx context.Context, res Result, in GenerateInput, system string, slice []string, bank domain.Bank) (Result, error) {
	cfg := s.settings
	prev := res.Attempts[len(res.Attempts)-1]

	if len(res.Attempts) >= cfg.MaxAttempts {
		if cfg.Policy == PolicyStrict {
			return s.withFallback(ctx, res, in.LangCode), nil
		}
		return res, nil
	}

	s.log.InfoContext(ctx, "reply off-bank, requesting correction",
		slog.String("lang", in.LangCode),
		slog.Float64("oov_ratio", prev.Ratio),
		slog.Any("oov", prev.OOV),
	)

	user := ComposeCorrection(cfg.Policy, in.Level, slice, prev.OOV, prev.Text)
	next, err := s.attempt(ctx, len(res.Attempts)+1, system, user, bank)
	if err != nil {
		return Result{}, err
	}
	res.Attempts = append(res.Attempts, next)
	res.Retried = true
	res.Text = next.Text

	if cfg.Policy == PolicyStrict && len(next.OOV) > 0 {
		return s.withFallback(ctx, res, in.LangCode), nil
	}
	return res, nil
}

func (s *Service) withFallback(ctx context.Context, res Result, langCode string) Result {
	res.Text = Truncate(s.settings.fallback(langCode), s.settings.Ceiling)
	res.Fallback = true
	s.log.InfoContext(ctx, "reply still off-bank, using fallback", slog.String("lang", langCode))
	return res
}

// attempt performs one LLM call and scores the reply against bank.
func (s *Service) attempt(ctx context.Context, n int, system, user string, bank domain.Bank) (Attempt, error) {
	ctx, span := s.tracer.Start(ctx, "dialogue.attempt", trace.WithAttributes(attribute.Int("dialogue.attempt", n)))
	defer span.End()

	raw, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm call failed")
		return Attempt{}, fmt.Errorf("dialogue: attempt %d: %w", n, err)
	}

	text := Truncate(raw, s.settings.Ceiling)
	oov, total := checkCompliance(text, bank)
	ratio := 0.0
	if total > 0 {
		ratio = float64(len(oov)) / float64(total)
	}

	span.SetAttributes(
		attribute.Int("dialogue.tokens", total),
		attribute.Int("dialogue.oov_count", len(oov)),
		attribute.Float64("dialogue.oov_ratio", ratio),
	)
	return Attempt{System: system, User: user, Raw: raw, Text: text, OOV: oov, Ratio: ratio}, nil
}

// Chat answers a free persona chat message with one LLM call and no
// vocabulary constraint.
func (s *Service) Chat(ctx context.Context, in ChatInput) (string, error) {
	in = in.Normalized()

	ctx, span := s.tracer.Start(ctx, "dialogue.chat")
	defer span.End()

	raw, err := s.llm.Generate(ctx, ComposeChatSystem(in.Persona, in.Language), in.User)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm call failed")
		return "", fmt.Errorf("dialogue: chat: %w", err)
	}
	return Truncate(raw, ChatCeiling), nil
}
