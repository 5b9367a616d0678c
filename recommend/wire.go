package recommend

import (
	"errors"
	"fmt"

	"car-advisor/wizard"
)

// NoPriceLimit is sent as the price because the wizard does not ask for a budget.
const NoPriceLimit = 1_000_000

// Request is the body of POST /recommend. Field names match the provider.
type Request struct {
	Price      float64  `json:"price"`
	EngineType string   `json:"engine_type"`
	BodyStyle  string   `json:"body_style"`
	Seating    int      `json:"seating"`
	Features   []string `json:"features"`
}

// Response is the provider's success body. A missing top_recommendations key
// decodes to a nil slice and is treated as malformed; an empty list is a
// valid "no matches" answer.
type Response struct {
	TopRecommendations []Candidate `json:"top_recommendations"`
}

type Candidate struct {
	CarModel    string         `json:"car_model"`
	Probability float64        `json:"probability"`
	Specs       map[string]any `json:"specs"`
}

// StatusError is returned by transports for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recommendation service responded with status %d", e.StatusCode)
}

// ErrMalformedResponse marks a 2xx response whose body could not be understood.
var ErrMalformedResponse = errors.New("malformed recommendation response")

// NewRequest builds the provider request from a complete selection.
func NewRequest(sel wizard.Selection) Request {
	features := make([]string, len(sel.Features))
	copy(features, sel.Features)
	return Request{
		Price:      NoPriceLimit,
		EngineType: string(sel.EngineType),
		BodyStyle:  string(sel.BodyStyle),
		Seating:    sel.SeatCount,
		Features:   features,
	}
}
