// Package tool defines the executable tool catalog. Each mode receives only
// the infos its configuration names and an executor that refuses everything
// else, so no execution context ever sees the full tool universe.
package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
)

// Deps carries the capabilities tools execute against.
type Deps struct {
	Extractor  contractx.Extractor
	Retriever  contractx.Retriever
	Comparator contractx.Comparator
	Generator  contractx.TextGenerator

	// GenerationPrompt is the shared system prompt for text-producing tools.
	GenerationPrompt string
}

// Build returns the tool infos for a mode in configured order and an
// executor restricted to that set.
func Build(cfg modex.Config, deps Deps) ([]*schema.ToolInfo, contractx.ToolExecutor) {
	infos := make([]*schema.ToolInfo, 0, len(cfg.Tools))
	for _, name := range cfg.Tools {
		if info, ok := toolInfos[name]; ok {
			infos = append(infos, info)
		}
	}
	return infos, newExecutor(cfg, deps)
}

func newExecutor(cfg modex.Config, deps Deps) contractx.ToolExecutor {
	allowed := make(map[string]bool, len(cfg.Tools))
	for _, name := range cfg.Tools {
		allowed[name] = true
	}

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if !allowed[tool] {
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is unavailable for mode=%s", tool, cfg.Mode),
			}, nil
		}

		switch tool {
		case modex.ToolQueryExtract:
			return executeExtract(ctx, deps, tool, args)
		case modex.ToolPlacesSuggest:
			return executeSearch(ctx, deps, tool, args, contractx.KindPlace)
		case modex.ToolAccommodationSearch:
			return executeSearch(ctx, deps, tool, args, contractx.KindAccommodation)
		case modex.ToolPlaceDescribe:
			return executeDescribe(ctx, deps, tool, args)
		case modex.ToolPlacesCompare:
			return executeCompare(ctx, deps, tool, args)
		case modex.ToolItineraryGenerate, modex.ToolActivityPlan:
			return executeGenerate(ctx, deps, tool, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is unavailable for mode=%s", tool, cfg.Mode),
			}, nil
		}
	}
}

var filterParam = &schema.ParameterInfo{
	Type: schema.Object,
	Desc: "Structured query filter produced by query.extract",
	SubParams: map[string]*schema.ParameterInfo{
		"kind":        {Type: schema.String, Desc: "place or accommodation"},
		"location":    {Type: schema.String, Desc: "Region or city"},
		"place_name":  {Type: schema.String, Desc: "Specific place or landmark"},
		"category":    {Type: schema.String, Desc: "Place category"},
		"country":     {Type: schema.String, Desc: "Country"},
		"price_range": {Type: schema.String, Desc: "budget, mid, or luxury"},
		"min_rating":  {Type: schema.Number, Desc: "Minimum rating"},
		"radius_km":   {Type: schema.Number, Desc: "Search radius in kilometers"},
		"amenities":   {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}, Desc: "Required amenities"},
		"activities":  {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}, Desc: "Desired activities"},
		"free_text":   {Type: schema.String, Desc: "Residual descriptive text"},
	},
}

var toolInfos = map[string]*schema.ToolInfo{
	modex.ToolQueryExtract: {
		Name: modex.ToolQueryExtract,
		Desc: "Extract a structured travel filter (location, type, budget, amenities) from the user's query. Call this first.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "The user's travel query", Required: true},
		}),
	},
	modex.ToolPlacesSuggest: {
		Name: modex.ToolPlacesSuggest,
		Desc: "Search stored destinations and attractions matching a filter.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"filter": filterParam,
			"top_k":  {Type: schema.Integer, Desc: "Maximum results to return"},
		}),
	},
	modex.ToolAccommodationSearch: {
		Name: modex.ToolAccommodationSearch,
		Desc: "Search stored hotels, hostels, and resorts matching a filter. Sorted by distance when a landmark is given.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"filter": filterParam,
			"top_k":  {Type: schema.Integer, Desc: "Maximum results to return"},
		}),
	},
	modex.ToolPlaceDescribe: {
		Name: modex.ToolPlaceDescribe,
		Desc: "Look up stored details about one specific place.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"filter": filterParam,
		}),
	},
	modex.ToolPlacesCompare: {
		Name: modex.ToolPlacesCompare,
		Desc: "Compare 2-3 retrieved candidates by id: price and rating deltas plus shared and unique amenities.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"ids":  {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.Integer}, Desc: "Candidate ids from a previous search", Required: true},
			"kind": {Type: schema.String, Desc: "place or accommodation"},
		}),
	},
	modex.ToolItineraryGenerate: {
		Name: modex.ToolItineraryGenerate,
		Desc: "Write a day-by-day itinerary from the request and retrieved candidates.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"request":    {Type: schema.String, Desc: "What the traveler asked for", Required: true},
			"days":       {Type: schema.Integer, Desc: "Trip length in days"},
			"candidates": {Type: schema.String, Desc: "JSON of retrieved candidates to build from"},
		}),
	},
	modex.ToolActivityPlan: {
		Name: modex.ToolActivityPlan,
		Desc: "Write an activity-centered trip plan from the request and retrieved candidates.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"request":    {Type: schema.String, Desc: "What the traveler asked for", Required: true},
			"candidates": {Type: schema.String, Desc: "JSON of retrieved candidates to build from"},
		}),
	},
}
