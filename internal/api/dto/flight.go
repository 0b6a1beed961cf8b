package dto

type FlightResponse struct {
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	BasePrice   float64 `json:"base_price"`
	BagPrice    float64 `json:"bag_price"`
	BagsAllowed int     `json:"bags_allowed"`
}

type ListFlightsResponse struct {
	Flights []FlightResponse `json:"flights"`
}
