package storage

import (
	"database/sql"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

type placeRow struct {
	bun.BaseModel `bun:"table:places,alias:p"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Category    string          `bun:"category"`
	Region      string          `bun:"region"`
	Country     string          `bun:"country"`
	Lat         sql.NullFloat64 `bun:"lat"`
	Lon         sql.NullFloat64 `bun:"lon"`
	Rating      float64         `bun:"rating"`
	Activities  []string        `bun:"activities,array"`
	Description string          `bun:"description"`
	Embedding   pgvector.Vector `bun:"embedding,type:vector(768),nullzero"`
}

type accommodationRow struct {
	bun.BaseModel `bun:"table:accommodations,alias:a"`

	ID          int64           `bun:"id,pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Category    string          `bun:"category"`
	Region      string          `bun:"region"`
	Country     string          `bun:"country"`
	Lat         sql.NullFloat64 `bun:"lat"`
	Lon         sql.NullFloat64 `bun:"lon"`
	PriceRange  string          `bun:"price_range"`
	PriceMin    float64         `bun:"price_min"`
	PriceMax    float64         `bun:"price_max"`
	Currency    string          `bun:"currency"`
	Rating      float64         `bun:"rating"`
	Amenities   []string        `bun:"amenities,array"`
	Description string          `bun:"description"`
	Embedding   pgvector.Vector `bun:"embedding,type:vector(768),nullzero"`
}

func (r placeRow) toCandidate() contractx.Candidate {
	return contractx.Candidate{
		ID:          r.ID,
		Kind:        contractx.KindPlace,
		Name:        r.Name,
		Category:    r.Category,
		Region:      r.Region,
		Country:     r.Country,
		Coord:       coord(r.Lat, r.Lon),
		Rating:      r.Rating,
		Activities:  r.Activities,
		Description: r.Description,
		Embedding:   r.Embedding.Slice(),
	}
}

func (r accommodationRow) toCandidate() contractx.Candidate {
	return contractx.Candidate{
		ID:          r.ID,
		Kind:        contractx.KindAccommodation,
		Name:        r.Name,
		Category:    r.Category,
		Region:      r.Region,
		Country:     r.Country,
		Coord:       coord(r.Lat, r.Lon),
		PriceRange:  r.PriceRange,
		PriceMin:    r.PriceMin,
		PriceMax:    r.PriceMax,
		Currency:    r.Currency,
		Rating:      r.Rating,
		Amenities:   r.Amenities,
		Description: r.Description,
		Embedding:   r.Embedding.Slice(),
	}
}

func coord(lat, lon sql.NullFloat64) *contractx.GeoPoint {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &contractx.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
}
