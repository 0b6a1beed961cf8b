package repositories

import (
	"context"
	"database/sql"
	"errors"
	"flight-route-service/internal/domain"
	"fmt"
	"os"
)

// Initialize the Postgres database schema: the flights table and the result cache table.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createFlightsQuery := `
	CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		flight_no TEXT NOT NULL,
		origin CHAR(3) NOT NULL,
		destination CHAR(3) NOT NULL,
		departure TIMESTAMP NOT NULL,
		arrival TIMESTAMP NOT NULL,
		base_price DOUBLE PRECISION NOT NULL CHECK (base_price >= 0),
		bag_price DOUBLE PRECISION NOT NULL CHECK (bag_price >= 0),
		bags_allowed INTEGER NOT NULL CHECK (bags_allowed >= 0),
		CHECK (arrival > departure),
		UNIQUE (flight_no, departure)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_flights_origin_departure
	ON flights(origin, departure);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	`

	statements := []string{
		createFlightsQuery,
		createIndexQuery,
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the flights table from a CSV file validated by ParseFlightsCSV.
// Rows are upserted on (flight_no, departure) in a single transaction.
func SeedFromCSV(ctx context.Context, db *sql.DB, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("seed flights: open %q: %w", csvPath, err)
	}
	defer file.Close()

	flights, err := ParseFlightsCSV(file)
	if err != nil {
		return 0, fmt.Errorf("seed flights: %w", err)
	}

	if err := insertFlights(ctx, db, flights); err != nil {
		return 0, fmt.Errorf("seed flights: %w", err)
	}

	return len(flights), nil
}

func insertFlights(ctx context.Context, db *sql.DB, flights []domain.Flight) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert flights: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO flights (
		flight_no,
		origin,
		destination,
		departure,
		arrival,
		base_price,
		bag_price,
		bags_allowed
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (flight_no, departure) DO UPDATE SET
		origin = EXCLUDED.origin,
		destination = EXCLUDED.destination,
		arrival = EXCLUDED.arrival,
		base_price = EXCLUDED.base_price,
		bag_price = EXCLUDED.bag_price,
		bags_allowed = EXCLUDED.bags_allowed;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("insert flights: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range flights {
		if _, err := stmt.ExecContext(ctx,
			f.FlightNo,
			f.Origin,
			f.Destination,
			f.Departure,
			f.Arrival,
			f.BasePrice,
			f.BagPrice,
			f.BagsAllowed,
		); err != nil {
			return fmt.Errorf("insert flights: flight_no=%s departure=%s: %w",
				f.FlightNo, f.Departure.Format(domain.TimestampLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert flights: commit tx: %w", err)
	}

	return nil
}
