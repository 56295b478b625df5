// Package extract turns a free-text traveler query into a structured
// retrieval filter via a structured LLM graph.
package extract

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	llmx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/llm"
)

// llmOutput mirrors the JSON schema in the extractor prompt. All fields are
// optional; absent fields stay zero.
type llmOutput struct {
	Kind       string   `json:"kind,omitempty"`
	Location   string   `json:"location,omitempty"`
	PlaceName  string   `json:"place_name,omitempty"`
	Category   string   `json:"category,omitempty"`
	Country    string   `json:"country,omitempty"`
	PriceRange string   `json:"price_range,omitempty"`
	MinRating  float64  `json:"min_rating,omitempty"`
	RadiusKm   float64  `json:"radius_km,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
	Activities []string `json:"activities,omitempty"`
	FreeText   string   `json:"free_text,omitempty"`
}

type Extractor struct {
	graph compose.Runnable[map[string]any, llmOutput]
}

var _ contractx.Extractor = (*Extractor)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Extractor, error) {
	graph, err := llmx.CompileStructuredGraph[llmOutput](ctx, chatModel, systemPrompt, "query_extractor")
	if err != nil {
		return nil, fmt.Errorf("compile extractor graph: %w", err)
	}
	return &Extractor{graph: graph}, nil
}

// Extract parses a query into a filter. Unlike classification this surfaces
// model failures, since downstream retrieval cannot proceed on a guess.
func (e *Extractor) Extract(ctx context.Context, query string) (contractx.QueryFilter, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return contractx.QueryFilter{}, fmt.Errorf("%w: query is empty", contractx.ErrInvalidInput)
	}

	out, err := e.graph.Invoke(ctx, map[string]any{"input": query})
	if err != nil {
		return contractx.QueryFilter{}, fmt.Errorf("%w: extract query: %v", contractx.ErrModelInvoke, err)
	}

	f := contractx.QueryFilter{
		Kind:       parseKind(out.Kind),
		Location:   strings.TrimSpace(out.Location),
		PlaceName:  strings.TrimSpace(out.PlaceName),
		Category:   strings.TrimSpace(out.Category),
		Country:    strings.TrimSpace(out.Country),
		PriceRange: strings.TrimSpace(strings.ToLower(out.PriceRange)),
		MinRating:  out.MinRating,
		RadiusKm:   out.RadiusKm,
		Amenities:  cleanList(out.Amenities),
		Activities: cleanList(out.Activities),
		FreeText:   strings.TrimSpace(out.FreeText),
	}
	if f.FreeText == "" {
		f.FreeText = query
	}
	return f, nil
}

func parseKind(raw string) contractx.CandidateKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accommodation", "hotel", "hostel", "resort", "lodging":
		return contractx.KindAccommodation
	default:
		return contractx.KindPlace
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(strings.ToLower(v))
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
