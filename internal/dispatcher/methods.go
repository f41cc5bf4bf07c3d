package dispatcher

import (
	"encoding/json"

	"github.com/austinm34563/treelights-go/internal/color"
	"github.com/austinm34563/treelights-go/internal/kernel"
	"github.com/austinm34563/treelights-go/internal/palette"
	"github.com/austinm34563/treelights-go/internal/playlist"
)

func decodeParams(params json.RawMessage, v interface{}) *RPCError {
	if err := json.Unmarshal(params, v); err != nil {
		return newError(CodeInvalidParams, "invalid params: %v", err)
	}
	return nil
}

// setLightParams mirrors the original protocol's _set_light: one color,
// accepted as a hex string or integer (color.RGB's UnmarshalJSON also
// accepts a [r,g,b] tuple), painted statically across the whole strip.
type setLightParams struct {
	Color color.RGB `json:"color"`
}

func handleSetLight(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p setLightParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	d.takeOwnership(ownerNone)
	d.strip.Fill(p.Color)
	if err := d.strip.Commit(); err != nil {
		return nil, newError(CodeInvalidParams, "%v", err)
	}
	return true, nil
}

// setPalletteParams mirrors _set_pallete: a non-empty palette written
// cyclically across all N pixels, per spec.md §4.6's method table. The
// field name keeps the original protocol's "pallete" misspelling since
// it is the literal wire key recognized clients depend on.
type setPalletteParams struct {
	Pallete palette.Palette `json:"pallete"`
}

func handleSetPallete(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p setPalletteParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.Pallete) == 0 {
		return nil, newError(CodeInvalidParams, "pallete must not be empty")
	}

	d.takeOwnership(ownerNone)
	n := d.strip.Len()
	colors := make([]color.RGB, n)
	for i := 0; i < n; i++ {
		colors[i] = p.Pallete.At(i)
	}
	if err := d.strip.SliceAssign(0, colors); err != nil {
		return nil, newError(CodeInvalidParams, "%v", err)
	}
	if err := d.strip.Commit(); err != nil {
		return nil, newError(CodeInvalidParams, "%v", err)
	}
	d.defaultPalette = p.Pallete
	return true, nil
}

// triggerEffectParams mirrors _trigger_effect's animation_id/speed/
// color_scheme trio, plus the optional per-kernel construction knobs
// that kernel.Options carries (width, steps, fade_amount, seed, rate,
// min, max).
type triggerEffectParams struct {
	AnimationID uint8           `json:"animation_id"`
	Speed       float64         `json:"speed"`
	ColorScheme palette.Palette `json:"color_scheme"`
	Width       int             `json:"width"`
	Steps       int             `json:"steps"`
	FadeAmount  int             `json:"fade_amount"`
	Seed        int64           `json:"seed"`
	Rate        float64         `json:"rate"`
	Min         int             `json:"min"`
	Max         int             `json:"max"`
}

func handleTriggerEffect(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p triggerEffectParams
	p.Speed = 1
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if _, ok := kernel.ByID[p.AnimationID]; !ok {
		return nil, newError(CodeInvalidParams, "unknown animation_id %d", p.AnimationID)
	}
	if p.Speed <= 0 {
		return nil, newError(CodeInvalidParams, "speed must be > 0")
	}

	pal := d.defaultPalette
	if kernel.AnimationID(p.AnimationID) == kernel.IDCandleFlicker {
		pal = palette.CandleColors
	}
	if len(p.ColorScheme) > 0 {
		pal = p.ColorScheme
	}

	k, err := kernel.Construct(kernel.AnimationID(p.AnimationID), d.strip, pal, p.Speed, kernel.Options{
		Width:      p.Width,
		Steps:      p.Steps,
		FadeAmount: p.FadeAmount,
		Seed:       p.Seed,
		Rate:       p.Rate,
		Min:        p.Min,
		Max:        p.Max,
	})
	if err != nil {
		return nil, newError(CodeInvalidParams, "%v", err)
	}

	d.takeOwnership(ownerEffect)
	d.rt.Start(k)
	return true, nil
}

// playlistAnimation is one entry of start_animation_playlist's
// animations list: an effect id paired with a speed multiplier.
type playlistAnimation struct {
	AnimationID uint8   `json:"animation_id"`
	Speed       float64 `json:"speed"`
}

// startPlaylistParams mirrors spec.md §4.6's start_animation_playlist:
// a rotation list, the pool of palettes to randomize across, and an
// optional dwell override.
type startPlaylistParams struct {
	Animations   []playlistAnimation `json:"animations"`
	ColorSchemes []palette.Palette   `json:"color_schemes"`
	TimeDelay    float64             `json:"time_delay"`
}

func handleStartPlaylist(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p startPlaylistParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.Animations) == 0 {
		return nil, newError(CodeInvalidParams, "animations must not be empty")
	}

	steps := make([]playlist.Step, len(p.Animations))
	for i, a := range p.Animations {
		if _, ok := kernel.ByID[a.AnimationID]; !ok {
			return nil, newError(CodeInvalidParams, "unknown animation_id %d at step %d", a.AnimationID, i)
		}
		speed := a.Speed
		if speed <= 0 {
			speed = 1
		}
		steps[i] = playlist.Step{Effect: kernel.AnimationID(a.AnimationID), Speed: speed}
	}

	palettes := d.defaultPalettes
	if len(p.ColorSchemes) > 0 {
		palettes = make([]palette.Palette, len(p.ColorSchemes))
		for i, cs := range p.ColorSchemes {
			if len(cs) == 0 {
				return nil, newError(CodeInvalidParams, "color_schemes[%d] must not be empty", i)
			}
			palettes[i] = cs
		}
	}
	if len(palettes) == 0 {
		return nil, newError(CodeInvalidParams, "no palettes available for playlist")
	}

	// The rotation loop reads the pool and dwell without locking, so any
	// running rotation is stopped before they are replaced.
	d.sched.Stop()
	d.sched.SetPalettes(palettes)
	if p.TimeDelay > 0 {
		d.sched.SetDwell(p.TimeDelay)
	}

	d.takeOwnership(ownerPlaylist)
	d.sched.Start(d.strip, steps)
	return true, nil
}

func handleStopPlaylist(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	if d.currentOwner != ownerPlaylist {
		return nil, newError(CodeNoPlaylist, "No animation playlist is currently playing")
	}
	d.takeOwnership(ownerNone)
	n := d.strip.Len()
	colors := make([]color.RGB, n)
	for i := 0; i < n; i++ {
		colors[i] = d.defaultPalette.At(i)
	}
	_ = d.strip.SliceAssign(0, colors)
	_ = d.strip.Commit()
	return true, nil
}

func handleGetEffects(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	out := make(map[string]kernel.Descriptor, len(kernel.Catalog))
	for name, desc := range kernel.Catalog {
		out[name] = desc
	}
	return out, nil
}

func handleGetPalettes(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	out := make(map[string]palette.Palette, len(palette.Store))
	for name, pal := range palette.Store {
		out[name] = pal
	}
	return out, nil
}

func handleGetSongs(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	if d.songs == nil {
		return map[string]SongInfo{}, nil
	}
	return d.songs.List(), nil
}

type downloadSongParams struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func handleDownloadSong(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p downloadSongParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.URL == "" {
		return nil, newError(CodeInvalidParams, "url must not be empty")
	}
	if d.songs == nil {
		return nil, newError(CodeInvalidParams, "no song library configured")
	}
	if err := d.songs.Download(p.URL, p.Title, p.Artist); err != nil {
		return nil, newError(CodeInvalidParams, "%v", err)
	}
	return true, nil
}

type audioSyncParams struct {
	IsEnabled bool `json:"is_enabled"`
}

func handleAudioSyncIsEnabled(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p audioSyncParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	if p.IsEnabled {
		d.takeOwnership(ownerAudio)
		if err := d.pipeline.Enable(); err != nil {
			return nil, newError(CodeInvalidParams, "%v", err)
		}
	} else {
		d.pipeline.Disable()
		if d.currentOwner == ownerAudio {
			d.currentOwner = ownerNone
		}
	}
	return true, nil
}

type setVolumeParams struct {
	Volume int `json:"volume"`
}

func handleSetVolume(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	var p setVolumeParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Volume < 0 || p.Volume > 100 {
		return nil, newError(CodeInvalidParams, "volume must be in [0,100]")
	}
	d.playback.SetGain(p.Volume)
	return true, nil
}

func handleGetVolume(d *Dispatcher, params json.RawMessage) (interface{}, *RPCError) {
	return map[string]int{"volume": d.playback.Gain()}, nil
}
