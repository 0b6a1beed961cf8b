package api

import (
	"flight-route-service/internal/api/handlers"
	"flight-route-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(search *services.SearchService) http.Handler {
	mux := http.NewServeMux()

	flightHandler := &handlers.FlightHandler{Flights: search.Graph().Flights()}
	routeHandler := &handlers.RouteHandler{Service: search}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/flights", flightHandler.List)
	mux.HandleFunc("/routes", routeHandler.Search)

	return requestIDMiddleware(loggingMiddleware(mux))
}
