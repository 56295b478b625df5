// Package retrieval ranks stored travel records against a structured query
// filter. The store narrows by hard filters; exact similarity, distance, and
// ordering are computed here so tie-break rules stay in one place.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

const (
	DefaultRadiusKm = 10.0
	DefaultTopK     = 5
)

type Engine struct {
	store    contractx.RecordStore
	embedder contractx.Embedder
	geocoder contractx.Geocoder
}

var _ contractx.Retriever = (*Engine)(nil)

// NewEngine wires the engine. geocoder may be nil; anchor resolution then
// relies on the record store alone.
func NewEngine(store contractx.RecordStore, embedder contractx.Embedder, geocoder contractx.Geocoder) *Engine {
	return &Engine{store: store, embedder: embedder, geocoder: geocoder}
}

// Retrieve returns the topK best candidates for the filter. An empty result
// is not an error; infrastructure failures surface as ErrRetrievalUnavailable.
func (e *Engine) Retrieve(ctx context.Context, f contractx.QueryFilter, topK int) ([]contractx.RankedResult, error) {
	if topK < 1 {
		topK = DefaultTopK
	}
	radiusKm := f.RadiusKm
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	var queryVec []float32
	if text := strings.TrimSpace(f.FreeText); text != "" {
		vec, err := e.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrRetrievalUnavailable, err)
		}
		queryVec = vec
	}

	anchor, err := e.resolveAnchor(ctx, f)
	if err != nil {
		return nil, err
	}

	candidates, err := e.store.ListCandidates(ctx, f, queryVec)
	if err != nil {
		return nil, fmt.Errorf("%w: list candidates: %v", contractx.ErrRetrievalUnavailable, err)
	}

	scored := make([]contractx.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		r := contractx.RankedResult{Candidate: c}
		if queryVec != nil && len(c.Embedding) > 0 {
			r.Similarity = cosineSimilarity(queryVec, c.Embedding)
		}
		if anchor != nil {
			if c.Coord == nil {
				continue
			}
			d := haversineKm(anchor.Lat, anchor.Lon, c.Coord.Lat, c.Coord.Lon)
			if d > radiusKm {
				continue
			}
			r.DistanceKm = &d
		}
		scored = append(scored, r)
	}

	sortResults(scored, queryVec != nil, anchor != nil)

	if len(scored) > topK {
		scored = scored[:topK]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}

// resolveAnchor determines the geographic anchor for the filter: explicit
// coordinates win, then a store lookup by place name, then the geocoder.
// A name that resolves nowhere leaves the query without a geo signal.
func (e *Engine) resolveAnchor(ctx context.Context, f contractx.QueryFilter) (*contractx.GeoPoint, error) {
	if f.Anchor != nil {
		return f.Anchor, nil
	}
	name := strings.TrimSpace(f.PlaceName)
	if name == "" {
		return nil, nil
	}

	pt, err := e.store.ResolveAnchor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve anchor: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if pt != nil {
		return pt, nil
	}

	if e.geocoder == nil {
		return nil, nil
	}
	pt, err = e.geocoder.Locate(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("anchor", name).Msg("geocoder lookup failed, proceeding without anchor")
		return nil, nil
	}
	return pt, nil
}

// sortResults applies the ordering contract. With an anchor, distance rules
// and similarity breaks ties; with text only, similarity rules; with neither
// signal, rating rules. ID ascending is always the final tie-break.
func sortResults(results []contractx.RankedResult, hasText, hasAnchor bool) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch {
		case hasAnchor:
			if *a.DistanceKm != *b.DistanceKm {
				return *a.DistanceKm < *b.DistanceKm
			}
			if hasText && a.Similarity != b.Similarity {
				return a.Similarity > b.Similarity
			}
		case hasText:
			if a.Similarity != b.Similarity {
				return a.Similarity > b.Similarity
			}
		default:
			if a.Candidate.Rating != b.Candidate.Rating {
				return a.Candidate.Rating > b.Candidate.Rating
			}
		}
		return a.Candidate.ID < b.Candidate.ID
	})
}
