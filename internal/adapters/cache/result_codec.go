package cache

import (
	"encoding/json"
	"flight-route-service/internal/domain"
	"time"
)

type cachedSegment struct {
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	BasePrice   float64 `json:"base_price"`
	BagPrice    float64 `json:"bag_price"`
	BagsAllowed int     `json:"bags_allowed"`
}

type cachedResult struct {
	Flights     []cachedSegment `json:"flights"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	BagsAllowed int             `json:"bags_allowed"`
	BagsCount   int             `json:"bags_count"`
	TotalPrice  float64         `json:"total_price"`
	TravelTime  int64           `json:"travel_time_ns"`
}

// Serialized form shared by the Redis and SQL caches.
func encodeResults(results []domain.PricedResult) ([]byte, error) {
	stored := make([]cachedResult, 0, len(results))
	for _, r := range results {
		flights := make([]cachedSegment, 0, len(r.Flights))
		for _, s := range r.Flights {
			flights = append(flights, cachedSegment(s))
		}
		stored = append(stored, cachedResult{
			Flights:     flights,
			Origin:      r.Origin,
			Destination: r.Destination,
			BagsAllowed: r.BagsAllowed,
			BagsCount:   r.BagsCount,
			TotalPrice:  r.TotalPrice,
			TravelTime:  int64(r.TravelTime),
		})
	}
	return json.Marshal(stored)
}

func decodeResults(raw []byte) ([]domain.PricedResult, error) {
	var stored []cachedResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	out := make([]domain.PricedResult, 0, len(stored))
	for _, r := range stored {
		flights := make([]domain.PricedSegment, 0, len(r.Flights))
		for _, s := range r.Flights {
			flights = append(flights, domain.PricedSegment(s))
		}
		out = append(out, domain.PricedResult{
			Flights:     flights,
			Origin:      r.Origin,
			Destination: r.Destination,
			BagsAllowed: r.BagsAllowed,
			BagsCount:   r.BagsCount,
			TotalPrice:  r.TotalPrice,
			TravelTime:  time.Duration(r.TravelTime),
		})
	}
	return out, nil
}
