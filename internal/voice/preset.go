package voice

import (
	"fmt"
	"sort"
)

// Preset fixes the character of one synthetic voice: its register, how much
// breath noise is mixed into the source, and its vibrato.
type Preset struct {
	Name              string
	BaseFrequency     float64 // Hz; anchors the melody register
	Breath            float64 // noise share of the source, [0,1]
	VibratoRateHz     float64
	VibratoDepthCents float64
}

var presets = map[string]Preset{
	"warm": {
		Name:              "warm",
		BaseFrequency:     220, // A3
		Breath:            0.04,
		VibratoRateHz:     5.0,
		VibratoDepthCents: 18,
	},
	"bright": {
		Name:              "bright",
		BaseFrequency:     330, // E4
		Breath:            0.02,
		VibratoRateHz:     5.5,
		VibratoDepthCents: 14,
	},
	"deep": {
		Name:              "deep",
		BaseFrequency:     110, // A2
		Breath:            0.05,
		VibratoRateHz:     4.5,
		VibratoDepthCents: 12,
	},
	"airy": {
		Name:              "airy",
		BaseFrequency:     262, // C4
		Breath:            0.08,
		VibratoRateHz:     6.0,
		VibratoDepthCents: 25,
	},
}

// ParsePreset resolves a preset by name. Unknown names are rejected at the
// boundary; there is no silent fallback for presets.
func ParsePreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown voice preset %q (known: %v)", name, PresetNames())
	}
	return p, nil
}

// PresetNames lists the available presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
