package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/extractor.txt
	extractorRaw string

	//go:embed template/generation.txt
	generationRaw string

	//go:embed template/itinerary.txt
	itineraryRaw string

	//go:embed template/suggest_places.txt
	suggestPlacesRaw string

	//go:embed template/describe_place.txt
	describePlaceRaw string

	//go:embed template/activity_focused.txt
	activityFocusedRaw string

	//go:embed template/comparison.txt
	comparisonRaw string

	//go:embed template/find_accommodation.txt
	findAccommodationRaw string
)

// Set holds loaded prompt content. Instruction templates are opaque
// configuration; nothing in the dispatch core depends on their wording.
type Set struct {
	Classifier string
	Extractor  string
	Generation string

	instructions map[contractx.Mode]string
}

// LoadSet returns a Set with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadSet() Set {
	return Set{
		Classifier: strings.TrimSpace(classifierRaw),
		Extractor:  strings.TrimSpace(extractorRaw),
		Generation: strings.TrimSpace(generationRaw),
		instructions: map[contractx.Mode]string{
			contractx.ModeItinerary:         strings.TrimSpace(itineraryRaw),
			contractx.ModeSuggestPlaces:     strings.TrimSpace(suggestPlacesRaw),
			contractx.ModeDescribePlace:     strings.TrimSpace(describePlaceRaw),
			contractx.ModeActivityFocused:   strings.TrimSpace(activityFocusedRaw),
			contractx.ModeComparison:        strings.TrimSpace(comparisonRaw),
			contractx.ModeFindAccommodation: strings.TrimSpace(findAccommodationRaw),
		},
	}
}

// Instructions returns the instruction template for a mode, or "" when the
// mode has none.
func (s Set) Instructions(m contractx.Mode) string {
	return s.instructions[m]
}
