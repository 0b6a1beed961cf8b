package ports

import (
	"context"
	"flight-route-service/internal/domain"
)

// Port: a boundary for loading validated flight segments from a data source.
type FlightRepository interface {
	// Return all flights in source order. Malformed input fails the whole load.
	ListFlights(ctx context.Context) ([]domain.Flight, error)
}
