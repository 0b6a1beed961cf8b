package services

import (
	"context"
	"errors"
	"flight-route-service/internal/domain"
	"fmt"
)

var (
	ErrSameAirport = errors.New("origin and destination must differ")
	ErrInvalidBags = errors.New("bags must not be negative")
	ErrInvalidStay = errors.New("stay must not be negative")
)

type FindRoutesRequest struct {
	Origin      string
	Destination string
	Return      bool
	// Day count between outbound arrival and return departure; zero means at least one hour.
	StayDays int
	Bags     int
}

func (r FindRoutesRequest) Validate() error {
	if r.Origin == r.Destination {
		return ErrSameAirport
	}
	if r.Bags < 0 {
		return ErrInvalidBags
	}
	if r.StayDays < 0 {
		return ErrInvalidStay
	}
	return nil
}

// FindRoutes runs a one-way or round-trip search and prices every itinerary.
//
// Results are in search order; callers sort them for presentation.
// An unknown airport or an unsatisfiable query returns an empty slice.
func FindRoutes(ctx context.Context, search *RouteSearch, req FindRoutesRequest) ([]domain.PricedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("find routes: %w", err)
	}

	var itineraries []domain.Itinerary
	if req.Return {
		trips, err := search.RoundTrips(ctx, req.Origin, req.Destination, req.Bags, ReturnGap(req.StayDays))
		if err != nil {
			return nil, fmt.Errorf("find routes: %w", err)
		}
		itineraries = trips
	} else {
		for it := range search.Search(RouteQuery{
			Origin:      req.Origin,
			Destination: req.Destination,
			MinBags:     req.Bags,
		}) {
			itineraries = append(itineraries, it)
		}
	}

	results := make([]domain.PricedResult, 0, len(itineraries))
	for _, it := range itineraries {
		results = append(results, Evaluate(it, req.Bags))
	}

	return results, nil
}
