package recommend

// fallbackResults is shown when the recommendation service cannot answer.
// The list is fixed; it does not depend on the user's preferences.
var fallbackResults = []Result{
	{
		ID:           "mercedes-benz-c300-sedan",
		VehicleName:  "Mercedes-Benz C300 Sedan",
		PriceDisplay: "AED 189,000",
		EngineType:   "Petrol",
		BodyStyle:    "Sedan",
		Features:     []string{"leather seats", "navigation", "bluetooth", "rear camera"},
		SeatCount:    5,
		MatchScore:   92,
		Year:         2024,
	},
	{
		ID:           "mercedes-benz-gle-450-suv",
		VehicleName:  "Mercedes-Benz GLE 450 SUV",
		PriceDisplay: "AED 345,000",
		EngineType:   "Petrol",
		BodyStyle:    "SUV",
		Features:     []string{"sunroof", "heated seats", "lane assist", "blind spot monitor"},
		SeatCount:    7,
		MatchScore:   87,
		Year:         2024,
	},
	{
		ID:           "mercedes-benz-c350e-hybrid",
		VehicleName:  "Mercedes-Benz C350e Hybrid",
		PriceDisplay: "AED 235,000",
		EngineType:   "Hybrid",
		BodyStyle:    "Sedan",
		Features:     []string{"touch screen", "cruise control", "keyless entry"},
		SeatCount:    5,
		MatchScore:   81,
		Year:         2024,
	},
}

// Fallback returns a fresh copy of the built-in result list.
func Fallback() []Result {
	out := make([]Result, len(fallbackResults))
	for i, r := range fallbackResults {
		r.Features = append([]string(nil), r.Features...)
		out[i] = r
	}
	return out
}
