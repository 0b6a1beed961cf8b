package handlers

import (
	"flight-route-service/internal/api/dto"
	"flight-route-service/internal/domain"
	"net/http"
	"strings"
)

// FlightHandler exposes the loaded flight schedule read-only.
type FlightHandler struct {
	Flights []domain.Flight
}

func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	origin := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("origin")))

	res := dto.ListFlightsResponse{
		Flights: make([]dto.FlightResponse, 0, len(h.Flights)),
	}
	for _, f := range h.Flights {
		if origin != "" && f.Origin != origin {
			continue
		}
		res.Flights = append(res.Flights, dto.FlightResponse{
			FlightNo:    f.FlightNo,
			Origin:      f.Origin,
			Destination: f.Destination,
			Departure:   f.Departure.Format(domain.TimestampLayout),
			Arrival:     f.Arrival.Format(domain.TimestampLayout),
			BasePrice:   f.BasePrice,
			BagPrice:    f.BagPrice,
			BagsAllowed: f.BagsAllowed,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
