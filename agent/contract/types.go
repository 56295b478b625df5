package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Mode is a discrete query-intent category. Every mode owns exactly one
// registry entry describing the tools, instructions, and step budget its
// execution context may use.
type Mode string

const (
	ModeItinerary         Mode = "itinerary"
	ModeSuggestPlaces     Mode = "suggest_places"
	ModeDescribePlace     Mode = "describe_place"
	ModeActivityFocused   Mode = "activity_focused"
	ModeComparison        Mode = "comparison"
	ModeFindAccommodation Mode = "find_accommodation"
)

// ClassificationResult is produced once per query and never mutated.
// LowConfidence marks results that fell back to the default mode because the
// model output was unparseable or named an unknown mode.
type ClassificationResult struct {
	Mode          Mode           `json:"mode"`
	Slots         map[string]any `json:"slots,omitempty"`
	LowConfidence bool           `json:"low_confidence,omitempty"`
}

// Days returns the trip-length slot, or 0 when absent.
func (r ClassificationResult) Days() int {
	raw, ok := r.Slots["days"]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

type CandidateKind string

const (
	KindPlace         CandidateKind = "place"
	KindAccommodation CandidateKind = "accommodation"
)

// GeoPoint is a WGS84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// QueryFilter is the structured extraction of a free-text query. It is
// produced by the extraction tool and consumed by the retrieval engine.
type QueryFilter struct {
	Kind       CandidateKind `json:"kind,omitempty"`
	Location   string        `json:"location,omitempty"`
	PlaceName  string        `json:"place_name,omitempty"`
	Anchor     *GeoPoint     `json:"anchor,omitempty"`
	Category   string        `json:"category,omitempty"`
	Country    string        `json:"country,omitempty"`
	PriceRange string        `json:"price_range,omitempty"`
	MinRating  float64       `json:"min_rating,omitempty"`
	RadiusKm   float64       `json:"radius_km,omitempty"`
	Amenities  []string      `json:"amenities,omitempty"`
	Activities []string      `json:"activities,omitempty"`
	FreeText   string        `json:"free_text,omitempty"`
}

// Candidate is a place or accommodation row read from the record store.
type Candidate struct {
	ID          int64         `json:"id"`
	Kind        CandidateKind `json:"kind"`
	Name        string        `json:"name"`
	Category    string        `json:"category,omitempty"`
	Region      string        `json:"region,omitempty"`
	Country     string        `json:"country,omitempty"`
	Coord       *GeoPoint     `json:"coord,omitempty"`
	PriceRange  string        `json:"price_range,omitempty"`
	PriceMin    float64       `json:"price_min,omitempty"`
	PriceMax    float64       `json:"price_max,omitempty"`
	Currency    string        `json:"currency,omitempty"`
	Rating      float64       `json:"rating,omitempty"`
	Amenities   []string      `json:"amenities,omitempty"`
	Activities  []string      `json:"activities,omitempty"`
	Description string        `json:"description,omitempty"`
	Embedding   []float32     `json:"-"`
}

// RankedResult is computed per query and never persisted. Similarity is
// cosine similarity in [-1,1] (0 when the query carried no free text).
// DistanceKm is nil when no anchor was in play.
type RankedResult struct {
	Candidate  Candidate `json:"candidate"`
	Similarity float64   `json:"similarity"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
	Rank       int       `json:"rank"`
}

// ComparisonEntry describes one compared candidate and the amenities found
// on it but on none of the others.
type ComparisonEntry struct {
	Candidate       Candidate `json:"candidate"`
	UniqueAmenities []string  `json:"unique_amenities"`
}

// PairDelta holds price and rating differences for one candidate pair,
// computed as second minus first.
type PairDelta struct {
	First       string  `json:"first"`
	Second      string  `json:"second"`
	PriceDelta  float64 `json:"price_delta"`
	RatingDelta float64 `json:"rating_delta"`
}

// ComparisonReport is the structured diff of 2-3 candidates.
type ComparisonReport struct {
	Entries         []ComparisonEntry `json:"entries"`
	SharedAmenities []string          `json:"shared_amenities"`
	Deltas          []PairDelta       `json:"deltas"`
}

// ToolResult mirrors one tool invocation outcome. Operational failures
// (bad arguments, zero matches) travel in Error so the model can react;
// infrastructure failures are returned as Go errors by the executor.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ToolExecutor runs a single named tool. Executors built for a mode refuse
// tools outside that mode's configured set.
type ToolExecutor func(ctx context.Context, tool string, args map[string]any) (ToolResult, error)

// ExecutionContext is the restricted runtime configuration handed to the
// step-bounded tool-calling loop. It carries exactly the selected mode's
// tool set, never the full tool universe.
type ExecutionContext struct {
	Mode         Mode
	Tools        []*schema.ToolInfo
	Executor     ToolExecutor
	Instructions string
	MaxSteps     int
}
