package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/iabetor/choirsynth/internal/config"
	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/render"
	"github.com/iabetor/choirsynth/internal/studio"
)

// demoObjects is the household trio the engine ships as its example song.
func demoObjects() []studio.SongObject {
	return []studio.SongObject{
		{
			ID: "kettle-1", Name: "Kettle", Genre: "pop", VocalRange: "soprano",
			Enabled: true, Volume: 0.8,
			Mood: render.Mood{Happy: 0.9, Calm: 0.5, Bright: 0.8},
		},
		{
			ID: "toaster-1", Name: "Toaster", Genre: "pop", VocalRange: "tenor",
			Enabled: true, Volume: 0.7,
			Mood: render.Mood{Happy: 0.7, Calm: 0.6, Bright: 0.5},
		},
		{
			ID: "fridge-1", Name: "Fridge", Genre: "ambient", VocalRange: "bass",
			Enabled: true, Volume: 0.6,
			Mood: render.Mood{Happy: 0.4, Calm: 0.9, Bright: 0.2},
		},
	}
}

func main() {
	configPath := flag.String("config", "configs/choirsynth.yaml", "config file path")
	title := flag.String("title", "", "song title (empty picks a default)")
	harmony := flag.Bool("harmony", false, "give each track its own harmony waveform")
	seconds := flag.Float64("seconds", 0, "song length in seconds (0 uses the configured default)")
	out := flag.String("out", "song.wav", "mixed output WAV path")
	waveformOut := flag.String("waveforms", "", "optional JSON path for per-track waveform data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := studio.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create studio: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	song, err := s.RenderSong(studio.SongRequest{
		Title:       *title,
		Objects:     demoObjects(),
		HarmonyMode: *harmony,
		Seconds:     *seconds,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render song: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, song.MixedWAV, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	if *waveformOut != "" {
		if err := writeWaveforms(*waveformOut, song); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *waveformOut, err)
			os.Exit(1)
		}
	}

	logger.Infof("[main] composed %q: %d bpm, key %s, %d tracks -> %s",
		song.Title, song.BPM, song.Key, len(song.Tracks), *out)
}

type waveformFile struct {
	Title  string              `json:"title"`
	BPM    int                 `json:"bpm"`
	Key    string              `json:"key"`
	Tracks []waveformFileTrack `json:"tracks"`
}

type waveformFileTrack struct {
	ObjectID    string                 `json:"object_id"`
	DisplayName string                 `json:"display_name"`
	VocalRange  string                 `json:"vocal_range"`
	Waveform    []render.WaveformPoint `json:"waveform"`
}

func writeWaveforms(path string, song *studio.SongResult) error {
	out := waveformFile{Title: song.Title, BPM: song.BPM, Key: song.Key}
	for _, tr := range song.Tracks {
		out.Tracks = append(out.Tracks, waveformFileTrack{
			ObjectID:    tr.ObjectID,
			DisplayName: tr.DisplayName,
			VocalRange:  tr.VocalRange,
			Waveform:    tr.Waveform,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
