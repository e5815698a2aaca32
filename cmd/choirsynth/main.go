package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iabetor/choirsynth/internal/config"
	"github.com/iabetor/choirsynth/internal/logger"
	"github.com/iabetor/choirsynth/internal/mixer"
	"github.com/iabetor/choirsynth/internal/studio"
)

func main() {
	configPath := flag.String("config", "configs/choirsynth.yaml", "config file path")
	lyrics := flag.String("lyrics", "La la la", "lyrics to sing")
	bpm := flag.Int("bpm", 120, "tempo in beats per minute [40,200]")
	seconds := flag.Float64("seconds", 8, "track length in seconds (0,60]")
	scale := flag.String("scale", "major", "melodic scale: major or minor")
	preset := flag.String("preset", "warm", "voice preset: warm, bright, deep or airy")
	pan := flag.Float64("pan", 0, "stereo position [-1,1]")
	seed := flag.Int64("seed", 42, "melody seed")
	out := flag.String("out", "track.wav", "output WAV path")
	play := flag.Bool("play", false, "play the rendered track after writing it")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// A missing config file falls back to defaults; a broken one is fatal.
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

	asset, err := s.RenderTrack(studio.TrackRequest{
		Lyrics:  *lyrics,
		BPM:     *bpm,
		Seconds: *seconds,
		Scale:   *scale,
		Preset:  *preset,
		Pan:     *pan,
		Seed:    *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render track: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, asset.WAV, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	logger.Infof("[main] wrote %s (%d bytes, asset %s)", *out, len(asset.WAV), asset.ID)

	if *play {
		if err := playAsset(asset, *seconds); err != nil {
			fmt.Fprintf(os.Stderr, "playback: %v\n", err)
			os.Exit(1)
		}
	}
}

// playAsset plays one rendered asset through the runtime mixer, stopping on
// SIGINT/SIGTERM or when the track ends.
func playAsset(asset *studio.Asset, seconds float64) error {
	m := mixer.New(asset.SampleRate, asset.Channels, nil)
	defer m.Dispose()

	if err := m.AddTrack("main"); err != nil {
		return err
	}
	if err := m.ConnectWAV("main", asset.WAV); err != nil {
		return err
	}
	if err := m.Play(0); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("[main] received %v, stopping playback", sig)
	case <-time.After(time.Duration(seconds * float64(time.Second))):
	}
	return m.Stop()
}
