// Package storage implements the record store over Postgres with pgvector.
// The store narrows by hard filters and, when a query vector is present,
// pre-orders by approximate vector distance; exact scoring and final
// ordering happen in the retrieval engine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

// candidateCap bounds how many rows a narrowing query may hand to the
// engine for exact scoring.
const candidateCap = 200

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

type Store struct {
	db *bun.DB
}

var _ contractx.RecordStore = (*Store)(nil)

func NewStore(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ListCandidates narrows rows by the filter's hard criteria. With a query
// vector the result is pre-ordered by cosine distance; otherwise by rating.
func (s *Store) ListCandidates(ctx context.Context, f contractx.QueryFilter, queryVec []float32) ([]contractx.Candidate, error) {
	if f.Kind == contractx.KindAccommodation {
		return s.listAccommodations(ctx, f, queryVec)
	}
	return s.listPlaces(ctx, f, queryVec)
}

func (s *Store) listPlaces(ctx context.Context, f contractx.QueryFilter, queryVec []float32) ([]contractx.Candidate, error) {
	var rows []placeRow
	q := s.db.NewSelect().Model(&rows)

	if f.Location != "" {
		q = q.Where("p.region ILIKE ?", "%"+f.Location+"%")
	}
	if f.Country != "" {
		q = q.Where("p.country ILIKE ?", "%"+f.Country+"%")
	}
	if f.Category != "" {
		q = q.Where("p.category ILIKE ?", "%"+f.Category+"%")
	}
	if f.MinRating > 0 {
		q = q.Where("p.rating >= ?", f.MinRating)
	}
	if len(f.Activities) > 0 {
		q = q.Where("p.activities && ?", pgdialect.Array(f.Activities))
	}

	q = orderNarrowed(q, "p", queryVec)
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	out := make([]contractx.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCandidate())
	}
	return out, nil
}

func (s *Store) listAccommodations(ctx context.Context, f contractx.QueryFilter, queryVec []float32) ([]contractx.Candidate, error) {
	var rows []accommodationRow
	q := s.db.NewSelect().Model(&rows)

	if f.Location != "" {
		q = q.Where("a.region ILIKE ?", "%"+f.Location+"%")
	}
	if f.Country != "" {
		q = q.Where("a.country ILIKE ?", "%"+f.Country+"%")
	}
	if f.Category != "" {
		q = q.Where("a.category ILIKE ?", "%"+f.Category+"%")
	}
	if f.PriceRange != "" {
		q = q.Where("a.price_range = ?", f.PriceRange)
	}
	if f.MinRating > 0 {
		q = q.Where("a.rating >= ?", f.MinRating)
	}
	if len(f.Amenities) > 0 {
		q = q.Where("a.amenities @> ?", pgdialect.Array(f.Amenities))
	}

	q = orderNarrowed(q, "a", queryVec)
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list accommodations: %w", err)
	}

	out := make([]contractx.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCandidate())
	}
	return out, nil
}

func orderNarrowed(q *bun.SelectQuery, alias string, queryVec []float32) *bun.SelectQuery {
	if len(queryVec) > 0 {
		q = q.OrderExpr(alias+".embedding <=> ?", pgvector.NewVector(queryVec))
	} else {
		q = q.OrderExpr(alias + ".rating DESC").OrderExpr(alias + ".id ASC")
	}
	return q.Limit(candidateCap)
}

// GetByIDs fetches records of one kind. Missing ids are silently absent
// from the result; the caller decides whether that is fatal.
func (s *Store) GetByIDs(ctx context.Context, kind contractx.CandidateKind, ids []int64) ([]contractx.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if kind == contractx.KindAccommodation {
		var rows []accommodationRow
		err := s.db.NewSelect().Model(&rows).Where("a.id IN (?)", bun.In(ids)).Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("get accommodations by ids: %w", err)
		}
		out := make([]contractx.Candidate, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.toCandidate())
		}
		return out, nil
	}

	var rows []placeRow
	err := s.db.NewSelect().Model(&rows).Where("p.id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get places by ids: %w", err)
	}
	out := make([]contractx.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCandidate())
	}
	return out, nil
}

// ResolveAnchor finds coordinates for a named place. An unknown name is
// (nil, nil) so the caller can fall through to the geocoder.
func (s *Store) ResolveAnchor(ctx context.Context, name string) (*contractx.GeoPoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var row placeRow
	err := s.db.NewSelect().
		Model(&row).
		Column("p.lat", "p.lon").
		Where("p.name ILIKE ?", name).
		Where("p.lat IS NOT NULL").
		Where("p.lon IS NOT NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve anchor %q: %w", name, err)
	}
	return coord(row.Lat, row.Lon), nil
}
