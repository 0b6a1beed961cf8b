package services

import (
	"flight-route-service/internal/domain"
	"time"
)

var day0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// at returns day0 + d days + hh:mm.
func at(d, hh, mm int) time.Time {
	return day0.AddDate(0, 0, d).Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func flight(no, from, to string, dep, arr time.Time, base, bag float64, bags int) domain.Flight {
	return domain.Flight{
		FlightNo:    no,
		Origin:      from,
		Destination: to,
		Departure:   dep,
		Arrival:     arr,
		BasePrice:   base,
		BagPrice:    bag,
		BagsAllowed: bags,
	}
}

func flightNos(it domain.Itinerary) []string {
	segs := it.Segments()
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.FlightNo)
	}
	return out
}
