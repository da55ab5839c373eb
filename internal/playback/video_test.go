package playback

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
)

type fakeVideoAPI struct {
	descriptor *models.StreamDescriptor
	err        error
	calls      int
}

func (a *fakeVideoAPI) Stream(context.Context, string) (*models.StreamDescriptor, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.descriptor, nil
}

type fakeMarker struct {
	ids []string
}

func (m *fakeMarker) MarkOpened(_ context.Context, id string) {
	m.ids = append(m.ids, id)
}

func newVideo(api VideoAPI, marker ViewMarker) *VideoController {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewVideoController("v1", api, marker, logger)
}

func TestLoadPrefersNativeHLS(t *testing.T) {
	api := &fakeVideoAPI{descriptor: &models.StreamDescriptor{
		CDNURL:   "https://cdn.example.com/v1/master.m3u8",
		EmbedURL: "https://player.vimeo.com/video/1",
	}}
	c := newVideo(api, &fakeMarker{})

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, VideoPlaying, c.State())
	assert.Equal(t, SourceHLS, c.Source().Kind)
	assert.Equal(t, "https://cdn.example.com/v1/master.m3u8", c.Source().URL)
}

func TestLoadFallsBackToEmbed(t *testing.T) {
	api := &fakeVideoAPI{descriptor: &models.StreamDescriptor{
		EmbedURL:     "https://player.vimeo.com/video/1",
		VimeoVideoID: "1",
	}}
	c := newVideo(api, &fakeMarker{})

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, SourceEmbed, c.Source().Kind)
}

func TestLoadNoUsableSource(t *testing.T) {
	c := newVideo(&fakeVideoAPI{descriptor: &models.StreamDescriptor{}}, &fakeMarker{})

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrMediaUnavailable)
	assert.Equal(t, VideoError, c.State())
	assert.ErrorIs(t, c.Err(), ErrMediaUnavailable)
}

func TestLoadResolutionFailure(t *testing.T) {
	c := newVideo(&fakeVideoAPI{err: errors.New("backend down")}, &fakeMarker{})

	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, VideoError, c.State())
}

func TestMarkViewedFiresOncePerEntry(t *testing.T) {
	marker := &fakeMarker{}
	// Первый вызов падает, второй успешен: отметка всё равно одна.
	api := &fakeVideoAPI{err: errors.New("backend down")}
	c := newVideo(api, marker)

	require.Error(t, c.Load(context.Background()))

	api.err = nil
	api.descriptor = &models.StreamDescriptor{EmbedURL: "https://player.vimeo.com/video/1"}
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, []string{"v1"}, marker.ids)
}

func TestHLSDerivedByMediaType(t *testing.T) {
	d := &models.StreamDescriptor{CDNURL: "https://cdn.example.com/v1/stream", MediaType: "hls"}
	assert.Equal(t, "https://cdn.example.com/v1/stream", hlsURL(d))

	plain := &models.StreamDescriptor{CDNURL: "https://cdn.example.com/v1.mp4"}
	assert.Empty(t, hlsURL(plain))
}
