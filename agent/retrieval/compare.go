package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

const maxCompareCandidates = 3

// Comparator builds structured side-by-side reports over stored records.
type Comparator struct {
	store contractx.RecordStore
}

var _ contractx.Comparator = (*Comparator)(nil)

func NewComparator(store contractx.RecordStore) *Comparator {
	return &Comparator{store: store}
}

// Compare fetches 2-3 records and reports amenity partitions plus pairwise
// price and rating deltas. Ids beyond the third are ignored; fewer than two
// resolvable records is ErrInsufficientCandidates.
func (c *Comparator) Compare(ctx context.Context, kind contractx.CandidateKind, ids []int64) (contractx.ComparisonReport, error) {
	ids = dedupeIDs(ids)
	if len(ids) < 2 {
		return contractx.ComparisonReport{}, fmt.Errorf("%w: need at least 2 ids, got %d", contractx.ErrInsufficientCandidates, len(ids))
	}
	if len(ids) > maxCompareCandidates {
		ids = ids[:maxCompareCandidates]
	}

	records, err := c.store.GetByIDs(ctx, kind, ids)
	if err != nil {
		return contractx.ComparisonReport{}, fmt.Errorf("%w: fetch candidates: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(records) < 2 {
		return contractx.ComparisonReport{}, fmt.Errorf("%w: only %d of %d ids resolved", contractx.ErrInsufficientCandidates, len(records), len(ids))
	}

	// Preserve the requested order for records the store returned.
	byID := make(map[int64]contractx.Candidate, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	ordered := make([]contractx.Candidate, 0, len(records))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	amenitySets := make([]map[string]bool, len(ordered))
	for i, r := range ordered {
		amenitySets[i] = toSet(r.Amenities)
	}

	report := contractx.ComparisonReport{
		Entries:         make([]contractx.ComparisonEntry, 0, len(ordered)),
		SharedAmenities: intersectAll(amenitySets),
	}
	for i, r := range ordered {
		report.Entries = append(report.Entries, contractx.ComparisonEntry{
			Candidate:       r,
			UniqueAmenities: uniqueTo(amenitySets, i),
		})
	}

	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			report.Deltas = append(report.Deltas, contractx.PairDelta{
				First:       ordered[i].Name,
				Second:      ordered[j].Name,
				PriceDelta:  midPrice(ordered[j]) - midPrice(ordered[i]),
				RatingDelta: ordered[j].Rating - ordered[i].Rating,
			})
		}
	}
	return report, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toSet(amenities []string) map[string]bool {
	set := make(map[string]bool, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			set[a] = true
		}
	}
	return set
}

func intersectAll(sets []map[string]bool) []string {
	if len(sets) == 0 {
		return []string{}
	}
	shared := make([]string, 0)
	for a := range sets[0] {
		inAll := true
		for _, s := range sets[1:] {
			if !s[a] {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, a)
		}
	}
	sort.Strings(shared)
	return shared
}

func uniqueTo(sets []map[string]bool, idx int) []string {
	unique := make([]string, 0)
	for a := range sets[idx] {
		elsewhere := false
		for i, s := range sets {
			if i != idx && s[a] {
				elsewhere = true
				break
			}
		}
		if !elsewhere {
			unique = append(unique, a)
		}
	}
	sort.Strings(unique)
	return unique
}

// midPrice compares on the midpoint of the price band, falling back to
// whichever bound is present.
func midPrice(c contractx.Candidate) float64 {
	switch {
	case c.PriceMin > 0 && c.PriceMax > 0:
		return (c.PriceMin + c.PriceMax) / 2
	case c.PriceMax > 0:
		return c.PriceMax
	default:
		return c.PriceMin
	}
}
