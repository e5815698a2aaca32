// Package studio is the engine's external surface: it validates requests at
// the boundary, orchestrates the phoneme/melody/voice/render pipeline, and
// assembles song results. All failures are either ValidationError (bad
// parameters, rejected before any synthesis) or RenderError (a stage of the
// pipeline failed).
package studio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/iabetor/choirsynth/internal/config"
	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/melody"
	"github.com/iabetor/choirsynth/internal/render"
	"github.com/iabetor/choirsynth/internal/rng"
	"github.com/iabetor/choirsynth/internal/voice"
)

// TrackRequest asks for one sung track.
type TrackRequest struct {
	Lyrics  string
	BPM     int     // [40,200]
	Seconds float64 // (0,60]
	Scale   string  // major or minor
	Preset  string  // one of the four named presets
	Pan     float64 // [-1,1]
	Seed    int64
}

// Asset is one immutable rendered audio artifact.
type Asset struct {
	ID         string
	WAV        []byte
	SampleRate int
	Channels   int
}

// SongObject is one singing object in a song request.
type SongObject struct {
	ID         string
	Name       string
	Genre      string
	VocalRange string // bass, tenor, alto, soprano
	Enabled    bool
	Volume     float64 // [0,1]
	Mood       render.Mood
}

// SongRequest asks for a mixed multi-object song.
type SongRequest struct {
	Title       string
	Objects     []SongObject
	HarmonyMode bool
	Seconds     float64 // 0 means the configured default
}

// SongTrack is the per-object result metadata, including the visualization
// waveform.
type SongTrack struct {
	ObjectID    string
	DisplayName string
	Genre       string
	VocalRange  string
	Enabled     bool
	Volume      float64
	Waveform    []render.WaveformPoint
}

// SongResult is one composed song. The mixed asset is immutable once
// produced.
type SongResult struct {
	ID          string
	Title       string
	BPM         int
	Key         string
	HarmonyMode bool
	Tracks      []SongTrack
	MixedWAV    []byte
}

// Studio owns the offline renderer and the asset cache.
type Studio struct {
	cfg      *config.Config
	renderer *render.Renderer
	cache    *render.AssetCache
}

// New builds a studio from configuration.
func New(cfg *config.Config) (*Studio, error) {
	cache, err := render.OpenCache(cfg.Cache.Dir, cfg.Cache.MaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("open asset cache: %w", err)
	}
	return &Studio{
		cfg:      cfg,
		renderer: render.NewRenderer(cfg.Engine.SampleRate, cfg.Engine.Channels, cfg.Engine.MixGain),
		cache:    cache,
	}, nil
}

// Close releases the asset cache.
func (s *Studio) Close() error {
	return s.cache.Close()
}

// RenderTrack validates the request, then renders one sung track to a WAV
// asset. Identical requests yield byte-identical WAV output; the asset
// cache short-circuits repeat renders.
func (s *Studio) RenderTrack(req TrackRequest) (*Asset, error) {
	if err := validateTrackRequest(req); err != nil {
		return nil, err
	}

	scale, err := melody.ParseScale(req.Scale)
	if err != nil {
		return nil, &ValidationError{Field: "scale", Reason: err.Error()}
	}
	preset, err := voice.ParsePreset(req.Preset)
	if err != nil {
		return nil, &ValidationError{Field: "preset", Reason: err.Error()}
	}

	key := trackCacheKey(req, s.cfg.Engine)
	if wav, ok := s.cache.Lookup(key); ok {
		logger.Debugf("[studio] cache hit for track render %s", key[:12])
		return s.newAsset(wav), nil
	}

	samples := s.renderer.RenderVocal(render.VocalSpec{
		Lyrics:  req.Lyrics,
		BPM:     req.BPM,
		Seconds: req.Seconds,
		Scale:   scale,
		Preset:  preset,
		Pan:     req.Pan,
		Seed:    req.Seed,
	})

	wav := render.EncodeWAV(samples, s.cfg.Engine.Channels, s.cfg.Engine.SampleRate)
	if err := s.cache.Store(key, wav); err != nil {
		// Cache failures never fail the render.
		logger.Warnf("[studio] cache store failed: %v", err)
	}
	return s.newAsset(wav), nil
}

// RenderSong validates the request, renders each enabled object through the
// instrument fallback, mixes the tracks, and attaches per-track
// visualization waveforms. One synchronous call, one result: a superseding
// request simply discards the prior result.
func (s *Studio) RenderSong(req SongRequest) (*SongResult, error) {
	seconds := req.Seconds
	if seconds == 0 {
		seconds = s.cfg.Engine.DefaultDurationSeconds
	}
	if seconds < 0 || seconds > 60 {
		return nil, &ValidationError{Field: "seconds", Reason: fmt.Sprintf("must be in (0,60], got %g", seconds)}
	}

	var enabled []SongObject
	for _, obj := range req.Objects {
		if obj.Enabled {
			enabled = append(enabled, obj)
		}
	}
	if len(enabled) == 0 {
		return nil, &ValidationError{Field: "objects", Reason: "at least one object must be enabled"}
	}
	if len(enabled) > s.cfg.Engine.MaxTracks {
		return nil, &ValidationError{
			Field:  "objects",
			Reason: fmt.Sprintf("too many tracks (%d, max %d)", len(enabled), s.cfg.Engine.MaxTracks),
		}
	}

	buffers := make([][]float64, 0, len(enabled))
	tracks := make([]SongTrack, 0, len(enabled))
	for index, obj := range enabled {
		buffers = append(buffers, s.renderer.RenderInstrument(render.InstrumentSpec{
			ID:         obj.ID,
			VocalRange: obj.VocalRange,
			Mood:       obj.Mood,
			Volume:     obj.Volume,
		}, seconds))

		seed := render.WaveformSeed(index, req.HarmonyMode)
		tracks = append(tracks, SongTrack{
			ObjectID:    obj.ID,
			DisplayName: obj.Name,
			Genre:       obj.Genre,
			VocalRange:  obj.VocalRange,
			Enabled:     obj.Enabled,
			Volume:      obj.Volume,
			Waveform:    render.MakeWaveform(render.WaveformLength, seed),
		})
	}

	mixed, err := render.MixTracks(buffers)
	if err != nil {
		return nil, &RenderError{Stage: StageMix, Err: err}
	}

	// Song metadata is drawn from the deterministic stream so identical
	// requests compose identical songs.
	g := rng.New(render.BaseWaveformSeed + int64(len(enabled)))
	keys := []string{"C", "D", "E", "F", "G", "A", "B"}
	bpm := 100 + g.IntN(61)
	key := keys[g.IntN(len(keys))]

	title := req.Title
	if title == "" {
		if req.HarmonyMode {
			title = fmt.Sprintf("Harmony of %d Objects", len(enabled))
		} else {
			title = enabled[0].Name
		}
	}

	logger.Infof("[studio] composed song: %d tracks, %gs, harmony=%v", len(enabled), seconds, req.HarmonyMode)

	return &SongResult{
		ID:          uuid.NewString(),
		Title:       title,
		BPM:         bpm,
		Key:         key,
		HarmonyMode: req.HarmonyMode,
		Tracks:      tracks,
		MixedWAV:    render.EncodeWAV(mixed, 1, s.cfg.Engine.SampleRate),
	}, nil
}

func (s *Studio) newAsset(wav []byte) *Asset {
	return &Asset{
		ID:         uuid.NewString(),
		WAV:        wav,
		SampleRate: s.cfg.Engine.SampleRate,
		Channels:   s.cfg.Engine.Channels,
	}
}

// validateTrackRequest fails fast on out-of-range parameters.
func validateTrackRequest(req TrackRequest) error {
	if req.BPM < 40 || req.BPM > 200 {
		return &ValidationError{Field: "bpm", Reason: fmt.Sprintf("must be in [40,200], got %d", req.BPM)}
	}
	if req.Seconds <= 0 || req.Seconds > 60 {
		return &ValidationError{Field: "seconds", Reason: fmt.Sprintf("must be in (0,60], got %g", req.Seconds)}
	}
	if req.Pan < -1 || req.Pan > 1 {
		return &ValidationError{Field: "pan", Reason: fmt.Sprintf("must be in [-1,1], got %g", req.Pan)}
	}
	return nil
}

// trackCacheKey hashes every parameter that affects the rendered bytes.
func trackCacheKey(req TrackRequest, eng config.EngineConfig) string {
	h := sha256.Sum256([]byte(fmt.Sprintf(
		"v1|%s|%d|%g|%s|%s|%g|%d|%d|%d|%g",
		req.Lyrics, req.BPM, req.Seconds, req.Scale, req.Preset, req.Pan, req.Seed,
		eng.SampleRate, eng.Channels, eng.MixGain,
	)))
	return hex.EncodeToString(h[:])
}
