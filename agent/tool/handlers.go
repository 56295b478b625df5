package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

// SearchOutput is the payload search tools hand back to the model.
type SearchOutput struct {
	Results []contractx.RankedResult `json:"results"`
	Message string                   `json:"message,omitempty"`
}

func executeExtract(ctx context.Context, deps Deps, tool string, args map[string]any) (contractx.ToolResult, error) {
	query, ok := stringArg(args, "query")
	if !ok || strings.TrimSpace(query) == "" {
		return contractx.ToolResult{Tool: tool, Error: "query is required"}, nil
	}

	filter, err := deps.Extractor.Extract(ctx, query)
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidInput) {
			return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Tool: tool, Result: filter}, nil
}

func executeSearch(ctx context.Context, deps Deps, tool string, args map[string]any, kind contractx.CandidateKind) (contractx.ToolResult, error) {
	filter, err := filterFromArgs(args)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	filter.Kind = kind

	results, err := deps.Retriever.Retrieve(ctx, filter, intArg(args, "top_k"))
	if err != nil {
		return contractx.ToolResult{}, err
	}

	out := SearchOutput{Results: results}
	if len(results) == 0 {
		out.Results = []contractx.RankedResult{}
		out.Message = "no matches found, consider widening the search radius or relaxing filters"
	}
	return contractx.ToolResult{Tool: tool, Result: out}, nil
}

func executeDescribe(ctx context.Context, deps Deps, tool string, args map[string]any) (contractx.ToolResult, error) {
	filter, err := filterFromArgs(args)
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	if filter.PlaceName == "" && filter.FreeText == "" {
		return contractx.ToolResult{Tool: tool, Error: "place_name or free_text is required"}, nil
	}
	filter.Kind = contractx.KindPlace
	if filter.FreeText == "" {
		filter.FreeText = filter.PlaceName
	}
	// Describe wants one place; keep a couple of near-misses for context.
	filter.Anchor = nil
	filter.PlaceName = ""

	results, err := deps.Retriever.Retrieve(ctx, filter, 3)
	if err != nil {
		return contractx.ToolResult{}, err
	}

	out := SearchOutput{Results: results}
	if len(results) == 0 {
		out.Results = []contractx.RankedResult{}
		out.Message = "no stored information about this place"
	}
	return contractx.ToolResult{Tool: tool, Result: out}, nil
}

func executeCompare(ctx context.Context, deps Deps, tool string, args map[string]any) (contractx.ToolResult, error) {
	ids := idsArg(args, "ids")
	if len(ids) == 0 {
		return contractx.ToolResult{Tool: tool, Error: "ids is required"}, nil
	}

	kind := contractx.KindPlace
	if raw, ok := stringArg(args, "kind"); ok && strings.EqualFold(strings.TrimSpace(raw), string(contractx.KindAccommodation)) {
		kind = contractx.KindAccommodation
	}

	report, err := deps.Comparator.Compare(ctx, kind, ids)
	if err != nil {
		if errors.Is(err, contractx.ErrInsufficientCandidates) {
			return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
		}
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Tool: tool, Result: report}, nil
}

func executeGenerate(ctx context.Context, deps Deps, tool string, args map[string]any) (contractx.ToolResult, error) {
	request, ok := stringArg(args, "request")
	if !ok || strings.TrimSpace(request) == "" {
		return contractx.ToolResult{Tool: tool, Error: "request is required"}, nil
	}

	var input strings.Builder
	input.WriteString("Request: ")
	input.WriteString(strings.TrimSpace(request))
	if days := intArg(args, "days"); days > 0 {
		fmt.Fprintf(&input, "\nTrip length: %d days", days)
	}
	if candidates, ok := stringArg(args, "candidates"); ok && strings.TrimSpace(candidates) != "" {
		input.WriteString("\nCandidates:\n")
		input.WriteString(strings.TrimSpace(candidates))
	}

	text, err := deps.Generator.Generate(ctx, deps.GenerationPrompt, input.String())
	if err != nil {
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{Tool: tool, Result: text}, nil
}

// filterFromArgs decodes the filter object through a JSON round-trip so the
// tool argument shape and the contract type cannot drift.
func filterFromArgs(args map[string]any) (contractx.QueryFilter, error) {
	raw, ok := args["filter"]
	if !ok || raw == nil {
		return contractx.QueryFilter{}, nil
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return contractx.QueryFilter{}, fmt.Errorf("filter is not an object")
	}
	var f contractx.QueryFilter
	if err := json.Unmarshal(buf, &f); err != nil {
		return contractx.QueryFilter{}, fmt.Errorf("filter is malformed: %v", err)
	}
	return f, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

func idsArg(args map[string]any, key string) []int64 {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case int:
			ids = append(ids, int64(v))
		case int64:
			ids = append(ids, v)
		case float64:
			ids = append(ids, int64(v))
		case json.Number:
			if n, err := v.Int64(); err == nil {
				ids = append(ids, n)
			}
		}
	}
	return ids
}
