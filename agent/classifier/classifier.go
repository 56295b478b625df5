// Package classifier maps a raw traveler query to a generation mode using a
// structured LLM graph. Classification never fails the request: any model,
// parse, or tag problem degrades to the default mode with LowConfidence set.
package classifier

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	llmx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/llm"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
)

// llmOutput is the JSON shape the classifier prompt asks the model for.
type llmOutput struct {
	GenerationMode string `json:"generation_mode"`
	Days           int    `json:"days,omitempty"`
}

type Classifier struct {
	graph    compose.Runnable[map[string]any, llmOutput]
	registry *modex.Registry
	fallback contractx.Mode
}

var _ contractx.Classifier = (*Classifier)(nil)

// New compiles the classification graph. fallback is the mode used when the
// model output cannot be trusted; it must be a registered mode.
func New(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	registry *modex.Registry,
	fallback contractx.Mode,
) (*Classifier, error) {
	if _, ok := registry.Get(fallback); !ok {
		return nil, fmt.Errorf("%w: fallback mode %q is not registered", contractx.ErrValidation, fallback)
	}

	graph, err := llmx.CompileStructuredGraph[llmOutput](ctx, chatModel, systemPrompt, "mode_classifier")
	if err != nil {
		return nil, fmt.Errorf("compile classifier graph: %w", err)
	}

	return &Classifier{graph: graph, registry: registry, fallback: fallback}, nil
}

// Classify resolves the generation mode for a query. Empty queries are the
// only error path; everything downstream of the model degrades to the
// fallback mode instead of propagating.
func (c *Classifier) Classify(ctx context.Context, query string) (contractx.ClassificationResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return contractx.ClassificationResult{}, fmt.Errorf("%w: query is empty", contractx.ErrInvalidInput)
	}

	out, err := c.graph.Invoke(ctx, map[string]any{"input": query})
	if err != nil {
		log.Warn().Err(err).Msg("classification failed, using default mode")
		return c.degraded(), nil
	}

	m, ok := c.registry.Lookup(out.GenerationMode)
	if !ok {
		log.Warn().Str("tag", out.GenerationMode).Msg("unknown mode tag, using default mode")
		return c.degraded(), nil
	}

	result := contractx.ClassificationResult{Mode: m, Slots: map[string]any{}}
	if out.Days > 0 {
		result.Slots["days"] = out.Days
	}
	return result, nil
}

func (c *Classifier) degraded() contractx.ClassificationResult {
	return contractx.ClassificationResult{
		Mode:          c.fallback,
		Slots:         map[string]any{},
		LowConfidence: true,
	}
}
