package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zen-systems/tripgate/pkg/adapter"
	"github.com/zen-systems/tripgate/pkg/cache"
	"github.com/zen-systems/tripgate/pkg/config"
	"github.com/zen-systems/tripgate/pkg/extract"
	"github.com/zen-systems/tripgate/pkg/planner"
)

// selection holds the --provider, --model and --strategy flags.
type selection struct {
	provider string
	model    string
	strategy string
}

func newExtractor(cfg *config.Config, strategy string) (*extract.Extractor, error) {
	if strategy == "" {
		strategy = cfg.Strategy
	}
	s, err := extract.StrategyByName(strategy)
	if err != nil {
		return nil, err
	}
	return extract.New(extract.WithStrategy(s), extract.WithLogger(logger)), nil
}

// resolveTarget picks the provider and model. Flags win over config; a
// model alias known to one provider selects that provider.
func resolveTarget(cfg *config.Config, sel selection) (provider, model string, err error) {
	aliases, err := config.LoadAliasesFromDir(cfg.ConfigDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to load model aliases: %w", err)
	}

	model = sel.model
	if model == "" && sel.provider == "" {
		model = cfg.Model
	}
	model = aliases.Resolve(model)

	provider = sel.provider
	if provider == "" && model != "" {
		provider = aliases.ProviderFor(model)
	}
	if provider == "" {
		provider = cfg.Provider
	}
	if provider == "" {
		provider = adapter.DefaultProvider
	}
	if model != "" {
		if err := aliases.ValidateModel(provider, model); err != nil {
			logger.Warn().Err(err).Msg("model not in provider list")
		}
	}
	return provider, model, nil
}

// newReplyCache connects to redis when configured. An unreachable server
// disables caching.
func newReplyCache(cfg *config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}
	c := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, reply cache disabled")
		_ = c.Close()
		return cache.Nop{}
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("reply cache connected")
	return c
}

func newPlanner(cfg *config.Config, sel selection) (*planner.Planner, error) {
	provider, model, err := resolveTarget(cfg, sel)
	if err != nil {
		return nil, err
	}
	a, err := adapter.New(provider, adapter.Keys{
		Google:    cfg.GoogleAPIKey,
		Anthropic: cfg.AnthropicAPIKey,
		OpenAI:    cfg.OpenAIAPIKey,
		DeepSeek:  cfg.DeepSeekAPIKey,
	})
	if err != nil {
		return nil, err
	}
	e, err := newExtractor(cfg, sel.strategy)
	if err != nil {
		return nil, err
	}
	return planner.New(a,
		planner.WithModel(model),
		planner.WithExtractor(e),
		planner.WithCache(newReplyCache(cfg), cfg.CacheTTL),
		planner.WithRateLimit(cfg.RateLimitPerMinute),
		planner.WithLogger(logger),
	), nil
}
