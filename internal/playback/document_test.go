package playback

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeURLBuilder struct{}

func (fakeURLBuilder) DocumentPageURL(id string, page int) string {
	return fmt.Sprintf("https://api.example.com/api/documents/%s/page/%d", id, page)
}

func TestPageURLs(t *testing.T) {
	urls := PageURLs(fakeURLBuilder{}, "d1", 6)

	require.Len(t, urls, 6)
	for i, url := range urls {
		assert.Equal(t, fmt.Sprintf("https://api.example.com/api/documents/d1/page/%d", i+1), url)
	}
}

func TestPageURLsEmptyDocument(t *testing.T) {
	assert.Empty(t, PageURLs(fakeURLBuilder{}, "d1", 0))
}

func newDocument(pageCount int) *DocumentController {
	return NewDocumentController(PageURLs(fakeURLBuilder{}, "d1", pageCount), 390)
}

func TestScrollOffsetRounding(t *testing.T) {
	c := newDocument(4)

	tests := []struct {
		name   string
		offset float64
		want   int
	}{
		{name: "нулевое смещение остаётся на первой странице", offset: 0, want: 0},
		{name: "смещение округляется к ближайшей странице", offset: 600, want: 2},
		{name: "смещение за последней страницей зажимается", offset: 5000, want: 3},
		{name: "отрицательное смещение зажимается в ноль", offset: -100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetScrollOffset(tt.offset)
			assert.Equal(t, tt.want, c.Page())
		})
	}
}

func TestPinchClamped(t *testing.T) {
	c := newDocument(2)

	c.Pinch(8)
	assert.Equal(t, 4.0, c.Zoom().Scale)

	c.Pinch(0.3)
	assert.Equal(t, 1.0, c.Zoom().Scale)
}

func TestReleasePinchSpringBack(t *testing.T) {
	c := newDocument(2)

	c.Pinch(1.05)
	c.Pan(30, 40)
	c.ReleasePinch()

	zoom := c.Zoom()
	assert.Equal(t, 1.0, zoom.Scale)
	assert.Equal(t, 0.0, zoom.TranslateX)
	assert.Equal(t, 0.0, zoom.TranslateY)
}

func TestReleasePinchAboveThresholdKeepsZoom(t *testing.T) {
	c := newDocument(2)

	c.Pinch(2.5)
	c.ReleasePinch()
	assert.Equal(t, 2.5, c.Zoom().Scale)
}

func TestDoubleTapToggles(t *testing.T) {
	c := newDocument(2)

	c.DoubleTap()
	assert.Equal(t, 2.25, c.Zoom().Scale)

	c.DoubleTap()
	assert.Equal(t, 1.0, c.Zoom().Scale)
}

func TestPanOnlyWhileZoomed(t *testing.T) {
	c := newDocument(2)

	c.Pan(10, 10)
	assert.Equal(t, 0.0, c.Zoom().TranslateX)

	c.Pinch(2)
	c.Pan(10, -5)
	zoom := c.Zoom()
	assert.Equal(t, 10.0, zoom.TranslateX)
	assert.Equal(t, -5.0, zoom.TranslateY)
}

func TestPageChangeResetsZoom(t *testing.T) {
	c := newDocument(3)

	c.Pinch(3)
	c.Pan(50, 50)
	c.SetScrollOffset(390)

	assert.Equal(t, 1, c.Page())
	assert.Equal(t, ZoomState{Scale: 1}, c.Zoom())
}

func TestSameOffsetKeepsZoom(t *testing.T) {
	c := newDocument(3)

	c.Pinch(3)
	c.SetScrollOffset(10)
	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 3.0, c.Zoom().Scale)
}
