package contract

import "context"

// Embedder is the embedding capability: text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Classifier maps free text to a generation mode plus optional slots.
type Classifier interface {
	Classify(ctx context.Context, query string) (ClassificationResult, error)
}

// Extractor turns free text into a structured retrieval filter.
type Extractor interface {
	Extract(ctx context.Context, query string) (QueryFilter, error)
}

// RecordStore is the read interface over stored places and accommodations.
// ListCandidates applies the filter's hard predicates; when queryVec is
// non-nil the store may narrow candidates by vector proximity, but exact
// scoring and ordering remain the retrieval engine's job.
// ResolveAnchor returns (nil, nil) when the name is unknown.
type RecordStore interface {
	ListCandidates(ctx context.Context, f QueryFilter, queryVec []float32) ([]Candidate, error)
	GetByIDs(ctx context.Context, kind CandidateKind, ids []int64) ([]Candidate, error)
	ResolveAnchor(ctx context.Context, name string) (*GeoPoint, error)
}

// Geocoder resolves a place name to coordinates via an external service.
// A (nil, nil) return means the name could not be resolved.
type Geocoder interface {
	Locate(ctx context.Context, name string) (*GeoPoint, error)
}

// Retriever returns ranked candidates for a structured filter.
type Retriever interface {
	Retrieve(ctx context.Context, f QueryFilter, topK int) ([]RankedResult, error)
}

// Comparator produces a structured diff of 2-3 candidate records.
type Comparator interface {
	Compare(ctx context.Context, kind CandidateKind, ids []int64) (ComparisonReport, error)
}

// TextGenerator is the raw generation capability used by mode tools.
type TextGenerator interface {
	Generate(ctx context.Context, system string, input string) (string, error)
}
