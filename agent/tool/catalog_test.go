package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
	promptx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/prompt"
)

type fakeExtractor struct {
	filter contractx.QueryFilter
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, query string) (contractx.QueryFilter, error) {
	if f.err != nil {
		return contractx.QueryFilter{}, f.err
	}
	return f.filter, nil
}

type fakeRetriever struct {
	results []contractx.RankedResult
	err     error

	gotFilter contractx.QueryFilter
	gotTopK   int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, filter contractx.QueryFilter, topK int) ([]contractx.RankedResult, error) {
	f.gotFilter = filter
	f.gotTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeComparator struct {
	report contractx.ComparisonReport
	err    error

	gotKind contractx.CandidateKind
	gotIDs  []int64
}

func (f *fakeComparator) Compare(ctx context.Context, kind contractx.CandidateKind, ids []int64) (contractx.ComparisonReport, error) {
	f.gotKind = kind
	f.gotIDs = ids
	if f.err != nil {
		return contractx.ComparisonReport{}, f.err
	}
	return f.report, nil
}

type fakeGenerator struct {
	text     string
	err      error
	gotInput string
}

func (f *fakeGenerator) Generate(ctx context.Context, system string, input string) (string, error) {
	f.gotInput = input
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testRegistry() *modex.Registry {
	return modex.NewRegistry(promptx.LoadSet())
}

func TestBuildReturnsInfosInConfiguredOrder(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	for _, m := range []contractx.Mode{
		contractx.ModeItinerary,
		contractx.ModeSuggestPlaces,
		contractx.ModeDescribePlace,
		contractx.ModeActivityFocused,
		contractx.ModeComparison,
		contractx.ModeFindAccommodation,
	} {
		cfg, _ := registry.Get(m)
		infos, executor := Build(cfg, Deps{})
		if executor == nil {
			t.Fatalf("mode %s has nil executor", m)
		}
		if len(infos) != len(cfg.Tools) {
			t.Fatalf("mode %s: %d infos for %d configured tools", m, len(infos), len(cfg.Tools))
		}
		for i, info := range infos {
			if info.Name != cfg.Tools[i] {
				t.Fatalf("mode %s: info %d = %s, want %s", m, i, info.Name, cfg.Tools[i])
			}
		}
		if infos[0].Name != modex.ToolQueryExtract {
			t.Fatalf("mode %s: first tool = %s, want %s", m, infos[0].Name, modex.ToolQueryExtract)
		}
	}
}

func TestExecutorRefusesToolOutsideModeSet(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeSuggestPlaces)
	_, executor := Build(cfg, Deps{})

	result, err := executor(context.Background(), modex.ToolPlacesCompare, map[string]any{"ids": []any{1.0, 2.0}})
	if err != nil {
		t.Fatalf("refusal must be a tool-level error, got %v", err)
	}
	if !strings.Contains(result.Error, "unavailable for mode=suggest_places") {
		t.Fatalf("unexpected refusal payload: %+v", result)
	}
}

func TestExecuteExtract(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeSuggestPlaces)
	extractor := &fakeExtractor{filter: contractx.QueryFilter{Location: "Chiang Mai"}}
	_, executor := Build(cfg, Deps{Extractor: extractor})

	result, err := executor(context.Background(), modex.ToolQueryExtract, map[string]any{"query": "waterfalls near Chiang Mai"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	filter, ok := result.Result.(contractx.QueryFilter)
	if !ok || filter.Location != "Chiang Mai" {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = executor(context.Background(), modex.ToolQueryExtract, map[string]any{})
	if err != nil {
		t.Fatalf("missing query must be a tool-level error, got %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected error payload for missing query")
	}
}

func TestExecuteSearchForcesKindPerTool(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeComparison)
	retriever := &fakeRetriever{results: []contractx.RankedResult{{Candidate: contractx.Candidate{ID: 7}}}}
	_, executor := Build(cfg, Deps{Retriever: retriever})

	args := map[string]any{
		"filter": map[string]any{"kind": "place", "location": "Chiang Mai"},
		"top_k":  3.0,
	}
	if _, err := executor(context.Background(), modex.ToolAccommodationSearch, args); err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if retriever.gotFilter.Kind != contractx.KindAccommodation {
		t.Fatalf("accommodation.search must force kind, got %s", retriever.gotFilter.Kind)
	}
	if retriever.gotFilter.Location != "Chiang Mai" {
		t.Fatalf("filter fields must pass through, got %+v", retriever.gotFilter)
	}
	if retriever.gotTopK != 3 {
		t.Fatalf("top_k = %d, want 3", retriever.gotTopK)
	}

	if _, err := executor(context.Background(), modex.ToolPlacesSuggest, args); err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if retriever.gotFilter.Kind != contractx.KindPlace {
		t.Fatalf("places.suggest must force kind, got %s", retriever.gotFilter.Kind)
	}
}

func TestExecuteSearchEmptyResultCarriesMessage(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeFindAccommodation)
	_, executor := Build(cfg, Deps{Retriever: &fakeRetriever{}})

	result, err := executor(context.Background(), modex.ToolAccommodationSearch, map[string]any{})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	out, ok := result.Result.(SearchOutput)
	if !ok {
		t.Fatalf("unexpected result type: %T", result.Result)
	}
	if len(out.Results) != 0 || out.Message == "" {
		t.Fatalf("empty search must carry a message, got %+v", out)
	}
}

func TestExecuteSearchInfraFailurePropagates(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeSuggestPlaces)
	retriever := &fakeRetriever{err: fmt.Errorf("%w: down", contractx.ErrRetrievalUnavailable)}
	_, executor := Build(cfg, Deps{Retriever: retriever})

	_, err := executor(context.Background(), modex.ToolPlacesSuggest, map[string]any{})
	if !errors.Is(err, contractx.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestExecuteCompare(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeComparison)
	comparator := &fakeComparator{report: contractx.ComparisonReport{SharedAmenities: []string{"wifi"}}}
	_, executor := Build(cfg, Deps{Comparator: comparator})

	args := map[string]any{"ids": []any{1.0, 2.0}, "kind": "accommodation"}
	result, err := executor(context.Background(), modex.ToolPlacesCompare, args)
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if comparator.gotKind != contractx.KindAccommodation {
		t.Fatalf("kind = %s, want accommodation", comparator.gotKind)
	}
	if len(comparator.gotIDs) != 2 || comparator.gotIDs[0] != 1 || comparator.gotIDs[1] != 2 {
		t.Fatalf("ids = %#v", comparator.gotIDs)
	}
	if _, ok := result.Result.(contractx.ComparisonReport); !ok {
		t.Fatalf("unexpected result type: %T", result.Result)
	}
}

func TestExecuteCompareInsufficientIsToolLevel(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeComparison)
	comparator := &fakeComparator{err: fmt.Errorf("%w: need 2", contractx.ErrInsufficientCandidates)}
	_, executor := Build(cfg, Deps{Comparator: comparator})

	result, err := executor(context.Background(), modex.ToolPlacesCompare, map[string]any{"ids": []any{1.0}})
	if err != nil {
		t.Fatalf("insufficient candidates must be a tool-level error, got %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected error payload")
	}
}

func TestExecuteGenerateComposesInput(t *testing.T) {
	t.Parallel()

	registry := testRegistry()
	cfg, _ := registry.Get(contractx.ModeItinerary)
	generator := &fakeGenerator{text: "Day 1: old town walk"}
	_, executor := Build(cfg, Deps{Generator: generator, GenerationPrompt: "system prompt"})

	args := map[string]any{
		"request":    "3 days in Chiang Mai",
		"days":       3.0,
		"candidates": `[{"id":1,"name":"Wat Phra Singh"}]`,
	}
	result, err := executor(context.Background(), modex.ToolItineraryGenerate, args)
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if result.Result != "Day 1: old town walk" {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, want := range []string{"3 days in Chiang Mai", "3 days", "Wat Phra Singh"} {
		if !strings.Contains(generator.gotInput, want) {
			t.Fatalf("generator input missing %q:\n%s", want, generator.gotInput)
		}
	}
}
