package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"car-advisor/wizard"
)

// PriceOnRequest is shown when the provider does not quote a price.
const PriceOnRequest = "Price on request"

// Result is one recommended vehicle as rendered on a card.
type Result struct {
	ID           string            `json:"id" bson:"id"`
	VehicleName  string            `json:"vehicle_name" bson:"vehicle_name"`
	PriceDisplay string            `json:"price_display" bson:"price_display"`
	EngineType   string            `json:"engine_type" bson:"engine_type"`
	BodyStyle    string            `json:"body_style" bson:"body_style"`
	Features     []string          `json:"features" bson:"features"`
	SeatCount    int               `json:"seat_count" bson:"seat_count"`
	MatchScore   int               `json:"match_score" bson:"match_score"`
	Year         int               `json:"year,omitempty" bson:"year,omitempty"`
	Specs        map[string]string `json:"specs,omitempty" bson:"specs,omitempty"`
	// Estimated lists fields copied from the user's preferences because the
	// provider did not return them.
	Estimated []string `json:"estimated,omitempty" bson:"estimated,omitempty"`
}

// Snapshot is what gets written to the session's result store so a reload can
// restore the last results without calling the provider again.
type Snapshot struct {
	SessionKey   string           `json:"session_key" bson:"session_key"`
	Preferences  wizard.Selection `json:"preferences" bson:"preferences"`
	Results      []Result         `json:"results" bson:"results"`
	FallbackUsed bool             `json:"fallback_used" bson:"fallback_used"`
	SavedAt      time.Time        `json:"saved_at" bson:"saved_at"`
}

// MatchScore converts a provider probability into a 0-100 score, rounding down.
func MatchScore(probability float64) int {
	if math.IsNaN(probability) || probability <= 0 {
		return 0
	}
	if probability >= 1 {
		return 100
	}
	return int(math.Floor(probability * 100))
}

// MapCandidates normalises provider candidates in response order. Candidates
// without a model name are dropped.
func MapCandidates(candidates []Candidate, sel wizard.Selection) []Result {
	out := make([]Result, 0, len(candidates))
	seen := map[string]int{}
	for _, c := range candidates {
		name := strings.TrimSpace(c.CarModel)
		if name == "" {
			continue
		}
		r := Result{
			VehicleName: name,
			MatchScore:  MatchScore(c.Probability),
			Specs:       stringifySpecs(c.Specs),
		}
		r.ID = uniqueID(vehicleID(name), seen)
		r.Year = specYear(r.Specs)

		if price, ok := lookupSpec(r.Specs, "Price"); ok {
			r.PriceDisplay = price
		} else {
			r.PriceDisplay = PriceOnRequest
			r.Estimated = append(r.Estimated, "price")
		}

		r.EngineType = string(sel.EngineType)
		r.BodyStyle = string(sel.BodyStyle)
		r.SeatCount = sel.SeatCount
		r.Estimated = append(r.Estimated, "engine_type", "body_style", "seat_count")

		if matched := featuresMentioned(r.Specs, sel.Features); len(matched) > 0 {
			r.Features = matched
		} else {
			r.Features = append([]string(nil), sel.Features...)
			r.Estimated = append(r.Estimated, "features")
		}
		out = append(out, r)
	}
	return out
}

func vehicleID(name string) string {
	id := slug.Make(name)
	if id == "" {
		id = "vehicle"
	}
	return id
}

func uniqueID(base string, seen map[string]int) string {
	seen[base]++
	if n := seen[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

func stringifySpecs(specs map[string]any) map[string]string {
	if len(specs) == 0 {
		return nil
	}
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(tv) == "" {
				continue
			}
			out[k] = strings.TrimSpace(tv)
		case float64:
			out[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}

func lookupSpec(specs map[string]string, key string) (string, bool) {
	for k, v := range specs {
		if strings.EqualFold(k, key) && v != "" {
			return v, true
		}
	}
	return "", false
}

func specYear(specs map[string]string) int {
	v, ok := lookupSpec(specs, "Year")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// featuresMentioned returns the requested features that appear in any spec
// value, in the order the user picked them.
func featuresMentioned(specs map[string]string, requested []string) []string {
	if len(specs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var text strings.Builder
	for _, k := range keys {
		text.WriteString(strings.ToLower(specs[k]))
		text.WriteByte(' ')
	}
	haystack := text.String()

	var out []string
	for _, f := range requested {
		if strings.Contains(haystack, strings.ToLower(f)) {
			out = append(out, f)
		}
	}
	return out
}
