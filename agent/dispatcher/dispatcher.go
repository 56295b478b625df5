// Package dispatcher binds a classified query to a restricted execution
// context: the selected mode's tools, instructions, and step budget.
package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
	toolx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/tool"
)

type Dispatcher struct {
	classifier  contractx.Classifier
	registry    *modex.Registry
	deps        toolx.Deps
	defaultMode contractx.Mode

	mu    sync.Mutex
	cache map[string]contractx.ClassificationResult
}

type Option func(*Dispatcher)

// WithMemoization caches classification results per normalized query for the
// dispatcher's lifetime. Classification is deterministic per query, so the
// cache is never invalidated.
func WithMemoization() Option {
	return func(d *Dispatcher) {
		d.cache = make(map[string]contractx.ClassificationResult)
	}
}

func New(classifier contractx.Classifier, registry *modex.Registry, deps toolx.Deps, defaultMode contractx.Mode, opts ...Option) (*Dispatcher, error) {
	if _, ok := registry.Get(defaultMode); !ok {
		return nil, fmt.Errorf("%w: default mode %q is not registered", contractx.ErrValidation, defaultMode)
	}
	d := &Dispatcher{
		classifier:  classifier,
		registry:    registry,
		deps:        deps,
		defaultMode: defaultMode,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch resolves the mode for a query and assembles its execution
// context. A non-empty explicit tag that resolves via the registry wins over
// classification; an unrecognized explicit tag falls through to it.
func (d *Dispatcher) Dispatch(ctx context.Context, query string, explicit string) (contractx.ExecutionContext, contractx.ClassificationResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return contractx.ExecutionContext{}, contractx.ClassificationResult{}, fmt.Errorf("%w: query is empty", contractx.ErrInvalidInput)
	}

	var result contractx.ClassificationResult
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if m, ok := d.registry.Lookup(explicit); ok {
			result = contractx.ClassificationResult{Mode: m, Slots: map[string]any{}}
			return d.assemble(result)
		}
		log.Warn().Str("tag", explicit).Msg("explicit mode tag not recognized, classifying instead")
	}

	result, err := d.classify(ctx, query)
	if err != nil {
		return contractx.ExecutionContext{}, contractx.ClassificationResult{}, err
	}
	return d.assemble(result)
}

func (d *Dispatcher) classify(ctx context.Context, query string) (contractx.ClassificationResult, error) {
	key := strings.ToLower(query)
	if d.cache != nil {
		d.mu.Lock()
		cached, ok := d.cache[key]
		d.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	result, err := d.classifier.Classify(ctx, query)
	if err != nil {
		return contractx.ClassificationResult{}, err
	}

	if d.cache != nil {
		d.mu.Lock()
		d.cache[key] = result
		d.mu.Unlock()
	}
	return result, nil
}

func (d *Dispatcher) assemble(result contractx.ClassificationResult) (contractx.ExecutionContext, contractx.ClassificationResult, error) {
	cfg, ok := d.registry.Get(result.Mode)
	if !ok {
		// The classifier only emits registered modes; guard anyway.
		log.Warn().Str("mode", string(result.Mode)).Msg("classified mode has no configuration, using default mode")
		result = contractx.ClassificationResult{Mode: d.defaultMode, Slots: result.Slots, LowConfidence: true}
		cfg, _ = d.registry.Get(d.defaultMode)
	}

	infos, executor := toolx.Build(cfg, d.deps)
	ec := contractx.ExecutionContext{
		Mode:         cfg.Mode,
		Tools:        infos,
		Executor:     executor,
		Instructions: cfg.Instructions,
		MaxSteps:     cfg.MaxSteps,
	}
	return ec, result, nil
}
