// Package planner runs the request pipeline: extract details, compile the
// directive, call the generation service and re-parse its reply.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/zen-systems/tripgate/pkg/adapter"
	"github.com/zen-systems/tripgate/pkg/artifact"
	"github.com/zen-systems/tripgate/pkg/cache"
	"github.com/zen-systems/tripgate/pkg/extract"
	"github.com/zen-systems/tripgate/pkg/itinerary"
	"github.com/zen-systems/tripgate/pkg/observability"
	"github.com/zen-systems/tripgate/pkg/prompt"
)

// Plan is the outcome of one request. A validation failure leaves Prompt,
// Reply and Itinerary unset.
type Plan struct {
	Details    *extract.Details        `json:"details"`
	Prompt     string                  `json:"prompt,omitempty"`
	Validation *prompt.ValidationError `json:"validation,omitempty"`
	Reply      *artifact.Artifact      `json:"reply,omitempty"`
	Usage      *adapter.Usage          `json:"usage,omitempty"`
	Itinerary  *itinerary.Itinerary    `json:"itinerary,omitempty"`
}

// Planner is safe for concurrent use.
type Planner struct {
	adapter   adapter.Adapter
	model     string
	extractor *extract.Extractor
	cache     cache.Cache
	ttl       time.Duration
	limiter   *rate.Limiter
	group     singleflight.Group
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithModel selects the model. Empty selects the adapter's default.
func WithModel(model string) Option {
	return func(p *Planner) {
		p.model = model
	}
}

// WithExtractor replaces the default cascade extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(p *Planner) {
		p.extractor = e
	}
}

// WithCache stores replies in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(p *Planner) {
		if c != nil {
			p.cache = c
			p.ttl = ttl
		}
	}
}

// WithRateLimit caps generation calls per minute. Zero disables the cap.
func WithRateLimit(perMinute int) Option {
	return func(p *Planner) {
		if perMinute > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// WithClock sets the reference time for relative dates and validation.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Planner around a.
func New(a adapter.Adapter, opts ...Option) *Planner {
	p := &Planner{
		adapter: a,
		cache:   cache.Nop{},
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.model = adapter.ResolveModel(a, p.model)
	if p.extractor == nil {
		p.extractor = extract.New(extract.WithClock(p.now), extract.WithLogger(p.logger))
	}
	return p
}

// Adapter returns the adapter name.
func (p *Planner) Adapter() string { return p.adapter.Name() }

// Model returns the model in use.
func (p *Planner) Model() string { return p.model }

// Extract runs the configured extractor on text.
func (p *Planner) Extract(text string) *extract.Details {
	start := time.Now()
	d := p.extractor.Extract(text)
	observability.ObserveStage("extract", time.Since(start))
	return d
}

// Plan extracts details from text and plans from them.
func (p *Planner) Plan(ctx context.Context, text string) (*Plan, error) {
	return p.PlanDetails(ctx, p.Extract(text))
}

// PlanDetails compiles d and asks the generation service for an itinerary.
// A validation failure is reported in Plan.Validation with a nil error. A
// generation failure returns the Plan so far with the error.
func (p *Planner) PlanDetails(ctx context.Context, d *extract.Details) (*Plan, error) {
	plan := &Plan{Details: d}

	start := time.Now()
	base, err := prompt.Compile(d, p.now())
	observability.ObserveStage("compile", time.Since(start))
	if err != nil {
		var v *prompt.ValidationError
		if errors.As(err, &v) {
			p.logger.Info().Str("kind", string(v.Kind)).Msg("details need correction")
			plan.Validation = v
			return plan, nil
		}
		return plan, fmt.Errorf("compile prompt: %w", err)
	}
	plan.Prompt = prompt.WithStructuredOutput(base)

	start = time.Now()
	resp, err := p.generate(ctx, plan.Prompt)
	observability.ObserveStage("generate", time.Since(start))
	if err != nil {
		p.logger.Error().Err(err).
			Str("adapter", p.adapter.Name()).
			Str("model", p.model).
			Str("reason", string(adapter.ReasonOf(err))).
			Bool("transient", adapter.IsTransient(err)).
			Msg("generation failed")
		return plan, fmt.Errorf("generate itinerary: %w", err)
	}
	plan.Reply = resp.Artifact.WithMetadata("destination", d.Destination)
	plan.Usage = resp.Usage

	start = time.Now()
	plan.Itinerary = itinerary.Parse(resp.Artifact.Content)
	observability.ObserveStage("parse", time.Since(start))
	source := plan.Itinerary.Source
	if plan.Itinerary.Failed() {
		source = "failed"
	}
	observability.ObserveItinerary(source)

	p.logger.Info().
		Str("adapter", p.adapter.Name()).
		Str("model", p.model).
		Str("destination", d.Destination).
		Bool("cached", resp.Artifact.Cached).
		Str("source", source).
		Int("days", len(plan.Itinerary.Days)).
		Msg("itinerary planned")
	return plan, nil
}

// generate returns the reply for full, from the cache when present.
// Concurrent calls for the same key share one generation call.
func (p *Planner) generate(ctx context.Context, full string) (*adapter.Response, error) {
	name := p.adapter.Name()
	key := artifact.Key(name, p.model, full)

	if reply, ok := p.lookup(ctx, key); ok {
		return &adapter.Response{Artifact: artifact.FromCache(reply, name, p.model, full)}, nil
	}

	ch := p.group.DoChan(key, func() (any, error) {
		callCtx, cancel := detach(ctx)
		defer cancel()
		if p.limiter != nil {
			if err := p.limiter.Wait(callCtx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}
		start := time.Now()
		resp, err := p.adapter.Generate(callCtx, p.model, full)
		observability.ObserveGeneration(name, p.model, err, time.Since(start))
		if err != nil {
			return nil, err
		}
		if resp.Usage != nil {
			observability.ObserveTokens(name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
		if err := p.cache.Set(callCtx, key, resp.Artifact.Content, p.ttl); err != nil {
			p.logger.Warn().Err(err).Msg("reply cache write failed")
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.logger.Debug().Str("key", key[:12]).Msg("shared in-flight generation")
		}
		return res.Val.(*adapter.Response), nil
	}
}

// detach keeps the deadline of ctx but not its cancellation, so one caller
// leaving does not fail the others sharing the call.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	base := context.WithoutCancel(ctx)
	if !ok {
		return context.WithCancel(base)
	}
	return context.WithDeadline(base, deadline)
}

func (p *Planner) lookup(ctx context.Context, key string) (string, bool) {
	reply, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn().Err(err).Msg("reply cache read failed")
		return "", false
	}
	return reply, ok
}
