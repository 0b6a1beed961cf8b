package main

import (
	"context"
	"encoding/json"
	"errors"
	"flight-route-service/internal/adapters/repositories"
	"flight-route-service/internal/api/dto"
	"flight-route-service/internal/services"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const usage = "usage: routes <data.csv> <origin> <destination> [--bags N] [--return] [--stay DAYS] [--max-layover HOURS]"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run searches a flight file once and prints the priced itineraries as JSON.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("routes", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	bags := fs.Int("bags", 0, "number of checked bags")
	roundTrip := fs.Bool("return", false, "search return trips back to origin")
	stay := fs.Int("stay", 0, "days between outbound arrival and return departure")
	maxLayover := fs.Int("max-layover", 6, "longest allowed connection in hours")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(stderr, usage)
		return 1
	}
	if *maxLayover < 1 {
		fmt.Fprintln(stderr, "error: --max-layover must be at least 1")
		return 1
	}

	path, origin, destination := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	flights, err := repositories.NewCSVFlightRepository(path).ListFlights(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	search := services.NewRouteSearch(services.BuildConnectionGraph(flights, *maxLayover), 1)
	results, err := services.FindRoutes(ctx, search, services.FindRoutesRequest{
		Origin:      origin,
		Destination: destination,
		Return:      *roundTrip,
		StayDays:    *stay,
		Bags:        *bags,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if len(results) == 0 {
		fmt.Fprintln(stdout, "No flights found.")
		return 0
	}

	services.SortByTotalPrice(results)
	out, err := json.MarshalIndent(dto.NewRouteResponses(results), "", "    ")
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
