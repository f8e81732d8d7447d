package listings

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("listing not found")
	ErrInvalidFilter = errors.New("invalid filter")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

// Mirror records a published project in the public catalog. Keyed on the
// listing id so a re-submission updates in place.
func (s *Service) Mirror(ctx context.Context, listing Listing) error {
	now := time.Now().In(s.location)
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	if price, err := decimal.NewFromString(strings.TrimSpace(listing.Price)); err == nil {
		listing.PriceValue, _ = price.Float64()
	}
	return s.repo.Upsert(ctx, listing)
}

func (s *Service) Search(ctx context.Context, filter SearchFilter, limit, offset int64) ([]Listing, int64, error) {
	q, err := parseFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	near, hasNear, err := parseNear(filter)
	if err != nil {
		return nil, 0, err
	}

	if !hasNear {
		items, err := s.repo.Find(ctx, q, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.repo.Count(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		return items, total, nil
	}

	// The nearby filter post-filters the mongo page set in memory. Listing
	// volume is modest enough that a geospatial index is not worth carrying.
	all, err := s.repo.Find(ctx, q, 10000, 0)
	if err != nil {
		return nil, 0, err
	}
	matched := lo.Filter(all, func(l Listing, _ int) bool {
		return l.HasPoint() && geo.Distance(l.Point(), near.center) <= near.radiusMeters
	})

	total := int64(len(matched))
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Detail, error) {
	listing, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return Detail{
		Listing:         listing,
		DescriptionHTML: RenderDescription(listing.Description),
	}, nil
}

// ListingName satisfies the lead capture's listing lookup.
func (s *Service) ListingName(ctx context.Context, id string) (string, error) {
	listing, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return listing.Name, nil
}

type nearQuery struct {
	center       orb.Point
	radiusMeters float64
}

func parseFilter(filter SearchFilter) (query, error) {
	q := query{
		CityID:      strings.TrimSpace(filter.CityID),
		ProjectType: strings.TrimSpace(filter.ProjectType),
		Beds:        strings.TrimSpace(filter.Beds),
		Status:      strings.TrimSpace(filter.Status),
	}

	if raw := strings.TrimSpace(filter.PriceMin); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return query{}, ErrInvalidFilter
		}
		q.PriceMin, _ = value.Float64()
		q.HasPriceMin = true
	}
	if raw := strings.TrimSpace(filter.PriceMax); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return query{}, ErrInvalidFilter
		}
		q.PriceMax, _ = value.Float64()
		q.HasPriceMax = true
	}
	if q.HasPriceMin && q.HasPriceMax && q.PriceMin > q.PriceMax {
		return query{}, ErrInvalidFilter
	}

	return q, nil
}

func parseNear(filter SearchFilter) (nearQuery, bool, error) {
	lat := strings.TrimSpace(filter.NearLat)
	lng := strings.TrimSpace(filter.NearLng)
	if lat == "" && lng == "" {
		return nearQuery{}, false, nil
	}
	if lat == "" || lng == "" {
		return nearQuery{}, false, ErrInvalidFilter
	}

	latValue, err := strconv.ParseFloat(lat, 64)
	if err != nil || latValue < -90 || latValue > 90 {
		return nearQuery{}, false, ErrInvalidFilter
	}
	lngValue, err := strconv.ParseFloat(lng, 64)
	if err != nil || lngValue < -180 || lngValue > 180 {
		return nearQuery{}, false, ErrInvalidFilter
	}

	radiusKM := 10.0
	if raw := strings.TrimSpace(filter.RadiusKM); raw != "" {
		radiusKM, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKM <= 0 {
			return nearQuery{}, false, ErrInvalidFilter
		}
	}

	return nearQuery{
		center:       orb.Point{lngValue, latValue},
		radiusMeters: radiusKM * 1000,
	}, true, nil
}
