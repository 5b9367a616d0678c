// Package wizard holds the preference form model and the step-gated
// controller that drives the onboarding flow.
package wizard

import (
	"fmt"
	"slices"
	"strings"
)

type EngineType string

const (
	Petrol EngineType = "Petrol"
	Diesel EngineType = "Diesel"
	Hybrid EngineType = "Hybrid"
)

var EngineTypes = []EngineType{Petrol, Diesel, Hybrid}

type BodyStyle string

const (
	SUV       BodyStyle = "SUV"
	Sedan     BodyStyle = "Sedan"
	Hatchback BodyStyle = "Hatchback"
	MPV       BodyStyle = "MPV"
)

var BodyStyles = []BodyStyle{SUV, Sedan, Hatchback, MPV}

// FeatureCatalog is the fixed set of selectable features, in display order.
var FeatureCatalog = []string{
	"leather seats",
	"navigation",
	"bluetooth",
	"cruise control",
	"touch screen",
	"turbo",
	"sport mode",
	"sunroof",
	"rear camera",
	"lane assist",
	"blind spot monitor",
	"heated seats",
	"keyless entry",
}

var SeatOptions = []int{3, 4, 5, 6, 7}

// Field names a single form input. Each step owns exactly one field.
type Field string

const (
	FieldEngineType Field = "engine_type"
	FieldBodyStyle  Field = "body_style"
	FieldFeatures   Field = "features"
	FieldSeatCount  Field = "seat_count"
)

// FieldError is a step-scoped validation failure. It is shown inline next to
// the field and never escalates to a notification.
type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Selection is the user's preference set. Fields start empty and are filled
// one step at a time.
type Selection struct {
	EngineType EngineType `json:"engine_type" bson:"engine_type"`
	BodyStyle  BodyStyle  `json:"body_style" bson:"body_style"`
	Features   []string   `json:"features" bson:"features"`
	SeatCount  int        `json:"seat_count" bson:"seat_count"`
}

// ParseEngineType matches case-insensitively against EngineTypes.
func ParseEngineType(s string) (EngineType, bool) {
	for _, et := range EngineTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(et)) {
			return et, true
		}
	}
	return "", false
}

func ParseBodyStyle(s string) (BodyStyle, bool) {
	for _, bs := range BodyStyles {
		if strings.EqualFold(strings.TrimSpace(s), string(bs)) {
			return bs, true
		}
	}
	return "", false
}

func normalizeFeature(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func IsCatalogFeature(s string) bool {
	return slices.Contains(FeatureCatalog, normalizeFeature(s))
}

// SetEngineType stores the canonical spelling when the value is known and the
// raw value otherwise, so the step validator can report it.
func (s *Selection) SetEngineType(v string) {
	if et, ok := ParseEngineType(v); ok {
		s.EngineType = et
		return
	}
	s.EngineType = EngineType(strings.TrimSpace(v))
}

func (s *Selection) SetBodyStyle(v string) {
	if bs, ok := ParseBodyStyle(v); ok {
		s.BodyStyle = bs
		return
	}
	s.BodyStyle = BodyStyle(strings.TrimSpace(v))
}

// SetFeatures replaces the feature set, normalising case and dropping duplicates.
func (s *Selection) SetFeatures(features []string) {
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = normalizeFeature(f)
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	s.Features = out
}

// ToggleFeature adds the feature if absent and removes it otherwise.
func (s *Selection) ToggleFeature(feature string) {
	f := normalizeFeature(feature)
	if f == "" {
		return
	}
	if i := slices.Index(s.Features, f); i >= 0 {
		s.Features = slices.Delete(s.Features, i, i+1)
		return
	}
	s.Features = append(s.Features, f)
}

func (s *Selection) SetSeatCount(n int) {
	s.SeatCount = n
}

// ValidateStep checks only the field owned by step.
func (s Selection) ValidateStep(step Step) *FieldError {
	switch step {
	case StepEngineType:
		if s.EngineType == "" {
			return &FieldError{Field: FieldEngineType, Message: "Please select an engine type"}
		}
		if !slices.Contains(EngineTypes, s.EngineType) {
			return &FieldError{Field: FieldEngineType, Message: fmt.Sprintf("Unknown engine type %q", s.EngineType)}
		}
	case StepBodyStyle:
		if s.BodyStyle == "" {
			return &FieldError{Field: FieldBodyStyle, Message: "Please select a body style"}
		}
		if !slices.Contains(BodyStyles, s.BodyStyle) {
			return &FieldError{Field: FieldBodyStyle, Message: fmt.Sprintf("Unknown body style %q", s.BodyStyle)}
		}
	case StepFeatures:
		if len(s.Features) == 0 {
			return &FieldError{Field: FieldFeatures, Message: "Please select at least one feature"}
		}
		for _, f := range s.Features {
			if !IsCatalogFeature(f) {
				return &FieldError{Field: FieldFeatures, Message: fmt.Sprintf("Unknown feature %q", f)}
			}
		}
	case StepSeating:
		if s.SeatCount == 0 {
			return &FieldError{Field: FieldSeatCount, Message: "Please select number of seats"}
		}
		if !slices.Contains(SeatOptions, s.SeatCount) {
			return &FieldError{Field: FieldSeatCount, Message: fmt.Sprintf("Seat count must be one of %v", SeatOptions)}
		}
	default:
		return &FieldError{Field: "", Message: fmt.Sprintf("unknown step %d", step)}
	}
	return nil
}

// Validate returns the first failing step's error, walking steps in order.
func (s Selection) Validate() *FieldError {
	for _, step := range Steps {
		if err := s.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}

func (s Selection) Complete() bool {
	return s.Validate() == nil
}

// Clone returns a copy that does not share the feature slice.
func (s Selection) Clone() Selection {
	s.Features = slices.Clone(s.Features)
	return s
}
