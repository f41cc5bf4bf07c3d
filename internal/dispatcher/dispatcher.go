package dispatcher

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/audio"
	"github.com/austinm34563/treelights-go/internal/hardware"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/playlist"
	"github.com/austinm34563/treelights-go/internal/runtime"
)

// Request is one JSON-RPC-like call, as framed off the wire by the
// session server. ID is opaque and echoed back verbatim.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response carries either a Result or an Error, never both, per
// spec.md §4.6.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result interface{}     `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// handlerFunc is the signature every registered method implements.
type handlerFunc func(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError)

// owner identifies which subsystem currently holds the render
// ownership invariant.
type owner int

const (
	ownerNone owner = iota
	ownerEffect
	ownerPlaylist
	ownerAudio
)

// Dispatcher is the single point every client request passes through.
// Its mutex enforces the teardown-before-install ownership invariant
// from spec.md §4.7: switching between a single effect, the playlist
// scheduler, and the audio pipeline always stops whichever of the
// three currently owns the strip before starting the next, and no two
// ever run concurrently.
type Dispatcher struct {
	strip    hardware.Strip
	rt       *runtime.Runtime
	sched    *playlist.Scheduler
	pipeline *audio.Pipeline
	playback audio.PlaybackSink
	log      *logrus.Entry
	songs    SongLibrary

	mu              sync.Mutex
	currentOwner    owner
	defaultPalette  palette.Palette
	defaultPalettes []palette.Palette
	methods         map[string]handlerFunc
}

// SongLibrary is the narrow surface the dispatcher needs from the song
// catalog (spec.md §6's "Song library" collaborator), kept as an
// interface so the dispatcher doesn't import the filesystem-backed
// implementation directly.
type SongLibrary interface {
	List() map[string]SongInfo
	Download(url, title, artist string) error
}

// SongInfo describes one catalog entry returned by get_songs, keyed by
// song id in the response map, matching spec.md §6's
// "{ id: { title, artist, album, file } }" shape.
type SongInfo struct {
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	File   string `json:"file"`
}

// New constructs a Dispatcher. songs may be nil, in which case
// get_songs always returns an empty map and download_song always
// errors.
func New(strip hardware.Strip, rt *runtime.Runtime, sched *playlist.Scheduler, pipeline *audio.Pipeline, playback audio.PlaybackSink, songs SongLibrary, log *logrus.Entry) *Dispatcher {
	d := &Dispatcher{
		strip:           strip,
		rt:              rt,
		sched:           sched,
		pipeline:        pipeline,
		playback:        playback,
		songs:           songs,
		log:             log,
		defaultPalette:  palette.Default,
		defaultPalettes: []palette.Palette{palette.Default},
	}
	d.methods = map[string]handlerFunc{
		"set_light":                handleSetLight,
		"set_pallete":              handleSetPallete,
		"trigger_effect":           handleTriggerEffect,
		"start_animation_playlist": handleStartPlaylist,
		"stop_animation_playlist":  handleStopPlaylist,
		"audio_sync_is_enabled":    handleAudioSyncIsEnabled,
		"set_volume":               handleSetVolume,
		"get_volume":               handleGetVolume,
		"get_palettes":             handleGetPalettes,
		"get_effects":              handleGetEffects,
		"get_songs":                handleGetSongs,
		"download_song":            handleDownloadSong,
	}
	return d
}

// methodsRequiringParams names every method whose handler needs a
// params object to do anything meaningful. A request for one of these
// methods with no top-level "params" key is a malformed request
// (spec.md §4.6/§7: CodeInvalidRequest), distinct from a params object
// that is present but fails a method's own validation
// (CodeInvalidParams).
var methodsRequiringParams = map[string]bool{
	"set_light":                true,
	"set_pallete":              true,
	"trigger_effect":           true,
	"start_animation_playlist": true,
	"audio_sync_is_enabled":    true,
	"set_volume":               true,
	"download_song":            true,
}

// Dispatch parses and runs one request, correlating it with a fresh
// request id for logging (generated for every request, whether or not
// the caller supplied an id), following the google/uuid correlation-id
// convention of SPEC_FULL.md's ambient stack section.
func (d *Dispatcher) Dispatch(raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Response{Error: newError(CodeParseError, "invalid JSON: %v", err)}
	}
	if req.Method == "" {
		return Response{ID: req.ID, Error: newError(CodeInvalidRequest, "missing method")}
	}

	correlationID := uuid.NewString()
	entry := d.log.WithField("request_id", correlationID).WithField("method", req.Method)

	handler, ok := d.methods[req.Method]
	if !ok {
		entry.Warn("method not found")
		return Response{ID: req.ID, Error: newError(CodeMethodNotFound, "unknown method %q", req.Method)}
	}
	if methodsRequiringParams[req.Method] && len(req.Params) == 0 {
		entry.Warn("request missing params")
		return Response{ID: req.ID, Error: newError(CodeInvalidRequest, "missing params")}
	}

	d.mu.Lock()
	result, rpcErr := handler(d, req.Params)
	d.mu.Unlock()
	if rpcErr != nil {
		entry.WithError(rpcErr).Warn("request failed")
		return Response{ID: req.ID, Error: rpcErr}
	}
	entry.Debug("request handled")
	return Response{ID: req.ID, Result: result}
}

// takeOwnership stops whichever of the effect runtime, playlist
// scheduler, or audio pipeline currently owns the strip (if it isn't
// already next) before the caller starts next. Holding d.mu while
// calling this serializes concurrent requests, satisfying the single
// ownership-mutex described in spec.md §4.7.
func (d *Dispatcher) takeOwnership(next owner) {
	if d.currentOwner == next {
		return
	}
	switch d.currentOwner {
	case ownerEffect:
		d.rt.Stop()
	case ownerPlaylist:
		d.sched.Stop()
	case ownerAudio:
		d.pipeline.Disable()
	}
	d.currentOwner = next
}
