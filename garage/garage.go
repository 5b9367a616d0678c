// Package garage proxies accident analysis requests and normalises the
// answers into a single result shape.
package garage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxImageBytes caps uploads forwarded to the analyser.
const MaxImageBytes = 10 << 20

var (
	ErrNoQuery       = errors.New("no query provided")
	ErrNoImage       = errors.New("no image provided")
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
)

type Garage struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	Justification string `json:"justification"`
}

// RawAnalysis is the analyser's success body.
type RawAnalysis struct {
	AccidentType       string   `json:"accident_type"`
	Damage             string   `json:"damage"`
	Severity           string   `json:"severity"`
	RecommendedGarages []Garage `json:"recommended_garages"`
}

// Analysis is the normalised result returned to callers.
type Analysis struct {
	Success            bool     `json:"success"`
	AccidentType       string   `json:"accident_type,omitempty"`
	Damage             string   `json:"damage,omitempty"`
	Severity           string   `json:"severity,omitempty"`
	SeverityLevel      Severity `json:"severity_level,omitempty"`
	RecommendedGarages []Garage `json:"recommended_garages"`
	Error              string   `json:"error,omitempty"`
}

// Image is an uploaded photo of the damage.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Analyzer performs the remote calls.
type Analyzer interface {
	AnalyzeQuery(ctx context.Context, query string) (*RawAnalysis, error)
	AnalyzeImage(ctx context.Context, img Image) (*RawAnalysis, error)
}

type Service struct {
	analyzer Analyzer
}

func NewService(a Analyzer) *Service {
	return &Service{analyzer: a}
}

// AnalyzeQuery never returns an error; failures are reported in the result.
func (s *Service) AnalyzeQuery(ctx context.Context, query string) Analysis {
	query = strings.TrimSpace(query)
	if query == "" {
		return Failed(ErrNoQuery)
	}
	raw, err := s.analyzer.AnalyzeQuery(ctx, query)
	if err != nil {
		return Failed(err)
	}
	return Normalize(raw)
}

func (s *Service) AnalyzeImage(ctx context.Context, img Image) Analysis {
	if err := ValidateImage(img); err != nil {
		return Failed(err)
	}
	raw, err := s.analyzer.AnalyzeImage(ctx, img)
	if err != nil {
		return Failed(err)
	}
	return Normalize(raw)
}

// ReadImage reads at most MaxImageBytes+1 bytes so oversize uploads are detectable.
func ReadImage(r io.Reader, filename, contentType string) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return Image{}, err
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Image{Filename: filename, ContentType: contentType, Data: data}, nil
}

func ValidateImage(img Image) error {
	if len(img.Data) == 0 {
		return ErrNoImage
	}
	if len(img.Data) > MaxImageBytes {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return ErrNotAnImage
	}
	return nil
}

func Normalize(raw *RawAnalysis) Analysis {
	if raw == nil {
		return Analysis{Success: true, RecommendedGarages: []Garage{}}
	}
	garages := raw.RecommendedGarages
	if garages == nil {
		garages = []Garage{}
	}
	return Analysis{
		Success:            true,
		AccidentType:       raw.AccidentType,
		Damage:             raw.Damage,
		Severity:           raw.Severity,
		SeverityLevel:      ClassifySeverity(raw.Severity),
		RecommendedGarages: garages,
	}
}

// StatusError is returned by analysers for non-2xx answers.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API responded with status: %d", e.StatusCode)
}

func Failed(err error) Analysis {
	return Analysis{Success: false, Error: err.Error(), RecommendedGarages: []Garage{}}
}

type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityUnknown Severity = "unknown"
)

// ClassifySeverity buckets the analyser's free-text severity.
func ClassifySeverity(s string) Severity {
	l := strings.ToLower(s)
	switch {
	case l == "":
		return ""
	case strings.Contains(l, "minor") || strings.Contains(l, "low"):
		return SeverityLow
	case strings.Contains(l, "moderate") || strings.Contains(l, "medium"):
		return SeverityMedium
	case strings.Contains(l, "major") || strings.Contains(l, "high") || strings.Contains(l, "severe"):
		return SeverityHigh
	}
	return SeverityUnknown
}
