// Package mode holds the closed mode-to-configuration table. The registry is
// built once at process start and is immutable afterward, which makes it safe
// for unsynchronized concurrent reads.
package mode

import (
	"strings"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	promptx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/prompt"
)

// Tool identifiers referenced by mode configurations. The executable catalog
// lives in the tool package; the registry only names tools.
const (
	ToolQueryExtract        = "query.extract"
	ToolItineraryGenerate   = "itinerary.generate"
	ToolPlacesSuggest       = "places.suggest"
	ToolPlaceDescribe       = "places.describe"
	ToolActivityPlan        = "trip.activity_plan"
	ToolPlacesCompare       = "places.compare"
	ToolAccommodationSearch = "accommodation.search"
)

// Config describes one generation mode: its ordered tool set (the extraction
// tool is always first), instruction text, positive step budget, and a
// human-readable description for the mode listing surface.
type Config struct {
	Mode         contractx.Mode
	Tools        []string
	Instructions string
	MaxSteps     int
	Description  string
}

// Info is the data shape exposed to external CLIs and APIs per mode.
type Info struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
	ToolCount   int    `json:"tool_count"`
	MaxSteps    int    `json:"max_steps"`
}

// Registry maps modes to their configurations.
type Registry struct {
	configs map[contractx.Mode]Config
	order   []contractx.Mode
}

// NewRegistry builds the static mode table. Prompts are injected so the
// registry stays testable with fixture prompt sets.
func NewRegistry(prompts promptx.Set) *Registry {
	order := []contractx.Mode{
		contractx.ModeItinerary,
		contractx.ModeSuggestPlaces,
		contractx.ModeDescribePlace,
		contractx.ModeActivityFocused,
		contractx.ModeComparison,
		contractx.ModeFindAccommodation,
	}

	configs := map[contractx.Mode]Config{
		contractx.ModeItinerary: {
			Mode:        contractx.ModeItinerary,
			Tools:       []string{ToolQueryExtract, ToolPlacesSuggest, ToolItineraryGenerate},
			MaxSteps:    8,
			Description: "Creates day-by-day travel itineraries",
		},
		contractx.ModeSuggestPlaces: {
			Mode:        contractx.ModeSuggestPlaces,
			Tools:       []string{ToolQueryExtract, ToolPlacesSuggest},
			MaxSteps:    6,
			Description: "Suggests travel destinations based on preferences",
		},
		contractx.ModeDescribePlace: {
			Mode:        contractx.ModeDescribePlace,
			Tools:       []string{ToolQueryExtract, ToolPlaceDescribe},
			MaxSteps:    6,
			Description: "Provides detailed information about specific places",
		},
		contractx.ModeActivityFocused: {
			Mode:        contractx.ModeActivityFocused,
			Tools:       []string{ToolQueryExtract, ToolPlacesSuggest, ToolActivityPlan},
			MaxSteps:    8,
			Description: "Plans trips around specific activities",
		},
		contractx.ModeComparison: {
			Mode:        contractx.ModeComparison,
			Tools:       []string{ToolQueryExtract, ToolPlacesSuggest, ToolAccommodationSearch, ToolPlacesCompare},
			MaxSteps:    6,
			Description: "Compares multiple destinations side-by-side",
		},
		contractx.ModeFindAccommodation: {
			Mode:        contractx.ModeFindAccommodation,
			Tools:       []string{ToolQueryExtract, ToolAccommodationSearch},
			MaxSteps:    8,
			Description: "Finds hotels, hostels, resorts near landmarks or in regions",
		},
	}

	for m, cfg := range configs {
		cfg.Instructions = prompts.Instructions(m)
		configs[m] = cfg
	}

	return &Registry{configs: configs, order: order}
}

// Get returns the configuration for a mode.
func (r *Registry) Get(m contractx.Mode) (Config, bool) {
	cfg, ok := r.configs[m]
	return cfg, ok
}

// Lookup resolves a raw tag to a mode, case-insensitively. Unrecognized tags
// return ok=false so callers can apply their own default-mode policy.
func (r *Registry) Lookup(tag string) (contractx.Mode, bool) {
	m := contractx.Mode(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := r.configs[m]; !ok {
		return "", false
	}
	return m, true
}

// List exposes all registered modes in declaration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, m := range r.order {
		cfg := r.configs[m]
		infos = append(infos, Info{
			Tag:         string(m),
			Description: cfg.Description,
			ToolCount:   len(cfg.Tools),
			MaxSteps:    cfg.MaxSteps,
		})
	}
	return infos
}
