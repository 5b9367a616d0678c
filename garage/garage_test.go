package garage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	queries int
	images  int
	raw     *RawAnalysis
}

func (f *fakeAnalyzer) AnalyzeQuery(context.Context, string) (*RawAnalysis, error) {
	f.queries++
	return f.raw, nil
}

func (f *fakeAnalyzer) AnalyzeImage(context.Context, Image) (*RawAnalysis, error) {
	f.images++
	return f.raw, nil
}

func TestBlankQueryIsRejectedLocally(t *testing.T) {
	a := &fakeAnalyzer{}
	got := NewService(a).AnalyzeQuery(context.Background(), "   ")
	assert.False(t, got.Success)
	assert.Equal(t, ErrNoQuery.Error(), got.Error)
	assert.Zero(t, a.queries)
}

func TestImageValidation(t *testing.T) {
	a := &fakeAnalyzer{raw: &RawAnalysis{Severity: "minor"}}
	svc := NewService(a)

	assert.Equal(t, ErrNoImage.Error(), svc.AnalyzeImage(context.Background(), Image{}).Error)
	assert.Equal(t, ErrNotAnImage.Error(), svc.AnalyzeImage(context.Background(), Image{ContentType: "text/plain", Data: []byte("hi")}).Error)
	assert.Equal(t, ErrImageTooLarge.Error(), svc.AnalyzeImage(context.Background(), Image{ContentType: "image/png", Data: make([]byte, MaxImageBytes+1)}).Error)
	assert.Zero(t, a.images)

	got := svc.AnalyzeImage(context.Background(), Image{ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}})
	assert.True(t, got.Success)
	assert.Equal(t, SeverityLow, got.SeverityLevel)
	assert.Equal(t, 1, a.images)
}

func TestReadImageSniffsContentType(t *testing.T) {
	img, err := ReadImage(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nrest")), "a.png", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestClassifySeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, ClassifySeverity("Severe"))
	assert.Equal(t, SeverityMedium, ClassifySeverity("medium"))
	assert.Equal(t, SeverityUnknown, ClassifySeverity("cosmetic"))
	assert.Equal(t, Severity(""), ClassifySeverity(""))
}
