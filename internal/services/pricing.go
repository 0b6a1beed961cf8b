package services

import (
	"cmp"
	"flight-route-service/internal/domain"
	"slices"
)

// Evaluate prices an itinerary for the requested number of bags.
//
// Total price is the sum of base prices, plus bags times the sum of bag
// prices when at least one bag is requested. With zero bags the surcharge
// is skipped entirely.
func Evaluate(it domain.Itinerary, bagsRequested int) domain.PricedResult {
	segments := it.Segments()

	flights := make([]domain.PricedSegment, 0, len(segments))
	var baseTotal, bagTotal float64
	for _, s := range segments {
		baseTotal += s.BasePrice
		bagTotal += s.BagPrice

		flights = append(flights, domain.PricedSegment{
			FlightNo:    s.FlightNo,
			Origin:      s.Origin,
			Destination: s.Destination,
			Departure:   s.Departure.Format(domain.TimestampLayout),
			Arrival:     s.Arrival.Format(domain.TimestampLayout),
			BasePrice:   s.BasePrice,
			BagPrice:    s.BagPrice,
			BagsAllowed: s.BagsAllowed,
		})
	}

	total := baseTotal
	if bagsRequested != 0 {
		total += float64(bagsRequested) * bagTotal
	}

	return domain.PricedResult{
		Flights:     flights,
		Origin:      it.Origin(),
		Destination: it.Destination(),
		BagsAllowed: it.BagsAllowed(),
		BagsCount:   bagsRequested,
		TotalPrice:  total,
		TravelTime:  it.TravelTime(),
	}
}

// SortByTotalPrice orders results by ascending total price.
// Equal prices keep their search order.
func SortByTotalPrice(results []domain.PricedResult) {
	slices.SortStableFunc(results, func(a, b domain.PricedResult) int {
		return cmp.Compare(a.TotalPrice, b.TotalPrice)
	})
}
