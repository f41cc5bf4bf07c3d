package dispatcher

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/austinm34563/treelights-go/internal/audio"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/playlist"
	"github.com/austinm34563/treelights-go/internal/runtime"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type stubSongLibrary struct {
	songs        map[string]SongInfo
	downloadErr  error
	downloaded   bool
	lastURL      string
	lastTitle    string
	lastArtist   string
}

func (s *stubSongLibrary) List() map[string]SongInfo { return s.songs }

func (s *stubSongLibrary) Download(url, title, artist string) error {
	s.downloaded = true
	s.lastURL, s.lastTitle, s.lastArtist = url, title, artist
	return s.downloadErr
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *hardware.MemoryStrip) {
	t.Helper()
	strip := hardware.NewMemoryStrip(10)
	rt := runtime.New(strip, nil)
	sched := playlist.New(rt, discardLogger(), []palette.Palette{palette.Default}, 0, 1)
	ledSink := audio.NewStripSink(strip)
	playback := audio.NewMemoryPlaybackSink()
	pipeline := audio.New(ledSink, playback, strip.Len(), palette.Default, discardLogger())
	d := New(strip, rt, sched, pipeline, playback, nil, discardLogger())
	return d, strip
}

func dispatchJSON(t *testing.T, d *Dispatcher, method string, params interface{}) Response {
	t.Helper()
	req := map[string]interface{}{"method": method}
	if params != nil {
		b, err := json.Marshal(params)
		require.NoError(t, err)
		req["params"] = json.RawMessage(b)
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return d.Dispatch(raw)
}

func TestDispatchUnknownMethod(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "not_a_real_method", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestDispatchMalformedJSON(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Dispatch([]byte("{not json"))
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeParseError, resp.Error.Code)
}

func TestDispatchMissingMethod(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Dispatch([]byte(`{"params":{}}`))
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidRequest, resp.Error.Code)
}

func TestSetLightPaintsStripStatically(t *testing.T) {
	d, strip := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_light", map[string]interface{}{"color": "0xFF0000"})
	require.Nil(t, resp.Error)
	for _, c := range strip.Snapshot() {
		require.Equal(t, uint8(0xFF), c.R)
		require.Equal(t, uint8(0), c.G)
	}
}

func TestSetLightAcceptsIntegerColor(t *testing.T) {
	d, strip := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_light", map[string]interface{}{"color": 0x00FF00})
	require.Nil(t, resp.Error)
	for _, c := range strip.Snapshot() {
		require.Equal(t, uint8(0xFF), c.G)
	}
}

func TestSetLightRejectsMissingParams(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_light", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidRequest, resp.Error.Code)
}

func TestSetPalleteRejectsEmptyPallete(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_pallete", map[string]interface{}{"pallete": []interface{}{}})
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestSetPalleteWritesCyclically(t *testing.T) {
	d, strip := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_pallete", map[string]interface{}{
		"pallete": []interface{}{"0xFF0000", "0x00FF00"},
	})
	require.Nil(t, resp.Error)
	snap := strip.Snapshot()
	require.Equal(t, uint8(0xFF), snap[0].R)
	require.Equal(t, uint8(0xFF), snap[1].G)
	require.Equal(t, uint8(0xFF), snap[2].R)
}

func TestTriggerEffectRejectsUnknownID(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "trigger_effect", map[string]interface{}{"animation_id": 250, "speed": 1.0})
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestTriggerEffectRejectsNonPositiveSpeed(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "trigger_effect", map[string]interface{}{"animation_id": 3, "speed": 0})
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestTriggerEffectThenSetLightTearsDownRuntime(t *testing.T) {
	d, strip := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "trigger_effect", map[string]interface{}{"animation_id": 3, "speed": 1.0})
	require.Nil(t, resp.Error)
	require.Equal(t, ownerEffect, d.currentOwner)

	resp = dispatchJSON(t, d, "set_light", map[string]interface{}{"color": "0x00FF00"})
	require.Nil(t, resp.Error)
	require.Equal(t, ownerNone, d.currentOwner)
	for _, c := range strip.Snapshot() {
		require.Equal(t, uint8(0xFF), c.G)
	}
}

func TestGetEffectsListsAllEleven(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "get_effects", nil)
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result, 11)
}

func TestGetPalettesNonEmpty(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "get_palettes", nil)
	require.Nil(t, resp.Error)
	require.NotEmpty(t, resp.Result)
}

func TestStartAnimationPlaylistTakesOwnershipFromEffect(t *testing.T) {
	d, _ := newTestDispatcher(t)
	dispatchJSON(t, d, "trigger_effect", map[string]interface{}{"animation_id": 2, "speed": 1.0})
	require.Equal(t, ownerEffect, d.currentOwner)

	resp := dispatchJSON(t, d, "start_animation_playlist", map[string]interface{}{
		"animations": []map[string]interface{}{{"animation_id": 1, "speed": 1.0}},
	})
	require.Nil(t, resp.Error)
	require.Equal(t, ownerPlaylist, d.currentOwner)
}

func TestStopAnimationPlaylistWhenIdleErrors(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "stop_animation_playlist", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeNoPlaylist, resp.Error.Code)
}

func TestStopAnimationPlaylistRestoresDefaultPalette(t *testing.T) {
	d, strip := newTestDispatcher(t)
	dispatchJSON(t, d, "start_animation_playlist", map[string]interface{}{
		"animations": []map[string]interface{}{{"animation_id": 1, "speed": 1.0}},
	})
	require.Equal(t, ownerPlaylist, d.currentOwner)

	resp := dispatchJSON(t, d, "stop_animation_playlist", nil)
	require.Nil(t, resp.Error)
	require.Equal(t, ownerNone, d.currentOwner)

	snap := strip.Snapshot()
	for i, c := range snap {
		require.Equal(t, d.defaultPalette.At(i), c)
	}
}

func TestAudioSyncIsEnabledTogglesOwnership(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "audio_sync_is_enabled", map[string]interface{}{"is_enabled": true})
	require.Nil(t, resp.Error)
	require.Equal(t, ownerAudio, d.currentOwner)

	resp = dispatchJSON(t, d, "audio_sync_is_enabled", map[string]interface{}{"is_enabled": false})
	require.Nil(t, resp.Error)
	require.Equal(t, ownerNone, d.currentOwner)
}

func TestSetVolumeAndGetVolumeRoundTrip(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_volume", map[string]interface{}{"volume": 42})
	require.Nil(t, resp.Error)

	resp = dispatchJSON(t, d, "get_volume", nil)
	require.Nil(t, resp.Error)
	require.Equal(t, map[string]int{"volume": 42}, resp.Result)
}

func TestSetVolumeRejectsOutOfRange(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "set_volume", map[string]interface{}{"volume": 101})
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestGetSongsWithNoLibraryReturnsEmptyMap(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := dispatchJSON(t, d, "get_songs", nil)
	require.Nil(t, resp.Error)
	require.Empty(t, resp.Result)
}

func TestDownloadSongDelegatesToLibrary(t *testing.T) {
	strip := hardware.NewMemoryStrip(10)
	rt := runtime.New(strip, nil)
	sched := playlist.New(rt, discardLogger(), []palette.Palette{palette.Default}, 0, 1)
	ledSink := audio.NewStripSink(strip)
	playback := audio.NewMemoryPlaybackSink()
	pipeline := audio.New(ledSink, playback, strip.Len(), palette.Default, discardLogger())
	lib := &stubSongLibrary{songs: map[string]SongInfo{}}
	d := New(strip, rt, sched, pipeline, playback, lib, discardLogger())

	resp := dispatchJSON(t, d, "download_song", map[string]interface{}{
		"url": "http://example.com/song", "title": "Some Song", "artist": "Someone",
	})
	require.Nil(t, resp.Error)
	require.True(t, lib.downloaded)
	require.Equal(t, "http://example.com/song", lib.lastURL)
}

func TestDownloadSongPropagatesLibraryError(t *testing.T) {
	strip := hardware.NewMemoryStrip(10)
	rt := runtime.New(strip, nil)
	sched := playlist.New(rt, discardLogger(), []palette.Palette{palette.Default}, 0, 1)
	ledSink := audio.NewStripSink(strip)
	playback := audio.NewMemoryPlaybackSink()
	pipeline := audio.New(ledSink, playback, strip.Len(), palette.Default, discardLogger())
	lib := &stubSongLibrary{songs: map[string]SongInfo{}, downloadErr: errors.New("network down")}
	d := New(strip, rt, sched, pipeline, playback, lib, discardLogger())

	resp := dispatchJSON(t, d, "download_song", map[string]interface{}{"url": "http://example.com/song"})
	require.NotNil(t, resp.Error)
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
}
