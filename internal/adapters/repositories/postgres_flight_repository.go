package repositories

import (
	"context"
	"database/sql"
	"errors"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"fmt"
)

// Postgres-backed implementation of the FlightRepository port.
type PostgresFlightRepository struct{ DB *sql.DB }

func NewPostgresFlightRepository(db *sql.DB) *PostgresFlightRepository {
	return &PostgresFlightRepository{DB: db}
}

// Return all flights in insertion order.
// Rows are re-checked against the same rules as the CSV loader; Line in a
// ValidationError is the 1-based row position.
func (p *PostgresFlightRepository) ListFlights(ctx context.Context) (_ []domain.Flight, err error) {
	defer obs.Time(ctx, "flights.postgres.List")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres flight repository: DB is nil")
	}

	query := `
	SELECT
		flight_no,
		origin,
		destination,
		departure,
		arrival,
		base_price,
		bag_price,
		bags_allowed
	FROM flights
	ORDER BY id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list flights: query flights table: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0, 256)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(
			&f.FlightNo,
			&f.Origin,
			&f.Destination,
			&f.Departure,
			&f.Arrival,
			&f.BasePrice,
			&f.BagPrice,
			&f.BagsAllowed,
		); err != nil {
			return nil, fmt.Errorf("list flights: scan row: %w", err)
		}
		f.Departure = f.Departure.UTC()
		f.Arrival = f.Arrival.UTC()

		if err := validateFlight(len(flights)+1, f); err != nil {
			return nil, fmt.Errorf("list flights: %w", err)
		}
		flights = append(flights, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flights: row iteration: %w", err)
	}

	return flights, nil
}
