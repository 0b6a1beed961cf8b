package dto

import (
	"flight-route-service/internal/domain"
	"fmt"
	"time"
)

type RouteRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Bags        int    `json:"bags"`
	Return      bool   `json:"return"`
	Stay        int    `json:"stay"`
}

type RouteResponse struct {
	Flights           []FlightResponse `json:"flights"`
	Origin            string           `json:"origin"`
	Destination       string           `json:"destination"`
	BagsAllowed       int              `json:"bags_allowed"`
	BagsCount         int              `json:"bags_count"`
	TotalPrice        float64          `json:"total_price"`
	TravelTime        string           `json:"travel_time"`
	TravelTimeSeconds int64            `json:"travel_time_seconds"`
}

type ListRoutesResponse struct {
	Results  []RouteResponse `json:"results"`
	Count    int             `json:"count"`
	CacheHit bool            `json:"cache_hit"`
}

func NewRouteResponse(r domain.PricedResult) RouteResponse {
	flights := make([]FlightResponse, 0, len(r.Flights))
	for _, s := range r.Flights {
		flights = append(flights, FlightResponse(s))
	}

	return RouteResponse{
		Flights:           flights,
		Origin:            r.Origin,
		Destination:       r.Destination,
		BagsAllowed:       r.BagsAllowed,
		BagsCount:         r.BagsCount,
		TotalPrice:        r.TotalPrice,
		TravelTime:        FormatTravelTime(r.TravelTime),
		TravelTimeSeconds: int64(r.TravelTime / time.Second),
	}
}

func NewRouteResponses(results []domain.PricedResult) []RouteResponse {
	out := make([]RouteResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewRouteResponse(r))
	}
	return out
}

// FormatTravelTime renders d as H:MM:SS, prefixed with "N day(s), " past 24h.
func FormatTravelTime(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400

	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)
	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	default:
		return clock
	}
}
