package mode

import (
	"testing"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	promptx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/prompt"
)

func newTestRegistry() *Registry {
	return NewRegistry(promptx.LoadSet())
}

func TestRegistryCoversAllModes(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	modes := []contractx.Mode{
		contractx.ModeItinerary,
		contractx.ModeSuggestPlaces,
		contractx.ModeDescribePlace,
		contractx.ModeActivityFocused,
		contractx.ModeComparison,
		contractx.ModeFindAccommodation,
	}

	for _, m := range modes {
		cfg, ok := registry.Get(m)
		if !ok {
			t.Fatalf("mode %s not registered", m)
		}
		if cfg.Mode != m {
			t.Fatalf("config for %s reports mode %s", m, cfg.Mode)
		}
		if cfg.MaxSteps < 1 {
			t.Fatalf("mode %s has non-positive step budget %d", m, cfg.MaxSteps)
		}
		if len(cfg.Tools) == 0 || cfg.Tools[0] != ToolQueryExtract {
			t.Fatalf("mode %s tools must start with %s, got %#v", m, ToolQueryExtract, cfg.Tools)
		}
		if cfg.Instructions == "" {
			t.Fatalf("mode %s has empty instructions", m)
		}
	}
}

func TestRegistryLookupRoundTrip(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	for _, info := range registry.List() {
		m, ok := registry.Lookup(info.Tag)
		if !ok {
			t.Fatalf("listed tag %q does not resolve", info.Tag)
		}
		if string(m) != info.Tag {
			t.Fatalf("tag %q resolved to mode %q", info.Tag, m)
		}
	}
}

func TestRegistryLookupNormalizesTags(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	m, ok := registry.Lookup("  ITINERARY ")
	if !ok || m != contractx.ModeItinerary {
		t.Fatalf("Lookup(\"  ITINERARY \") = (%q, %v)", m, ok)
	}

	if _, ok := registry.Lookup("road_trip"); ok {
		t.Fatal("unknown tag must not resolve")
	}
}

func TestRegistryListOrderAndShape(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	infos := registry.List()
	if len(infos) != 6 {
		t.Fatalf("expected 6 modes, got %d", len(infos))
	}
	if infos[0].Tag != string(contractx.ModeItinerary) {
		t.Fatalf("first listed mode = %s", infos[0].Tag)
	}
	for _, info := range infos {
		if info.Description == "" {
			t.Fatalf("mode %s has empty description", info.Tag)
		}
		if info.ToolCount < 2 {
			t.Fatalf("mode %s lists %d tools, want at least extraction plus one", info.Tag, info.ToolCount)
		}
	}
}

func TestComparisonModeCarriesSearchAndCompareTools(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	cfg, _ := registry.Get(contractx.ModeComparison)

	want := map[string]bool{
		ToolPlacesSuggest:       false,
		ToolAccommodationSearch: false,
		ToolPlacesCompare:       false,
	}
	for _, tool := range cfg.Tools {
		if _, ok := want[tool]; ok {
			want[tool] = true
		}
	}
	for tool, seen := range want {
		if !seen {
			t.Fatalf("comparison mode is missing tool %s", tool)
		}
	}
}
