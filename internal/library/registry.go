// Package library maps effect names of the emulated unit to recorded WAV assets
// and loads them on demand.
package library

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DryKey names the unprocessed reference recording.
const DryKey = "ORIGINAL"

var (
	// ErrUnknownEffect is returned for names missing from the registry.
	ErrUnknownEffect = errors.New("library: unknown effect")
	// ErrMissingAsset is returned when a registered file is absent on disk.
	ErrMissingAsset = errors.New("library: missing asset")
)

var defaultAssets = map[string]string{
	"REV-HALL1":      "01.wav",
	"REV-HALL2":      "02.wav",
	"REV-ROOM1":      "03.wav",
	"REV-ROOM2":      "04.wav",
	"REV-STAGE A":    "05.wav",
	"REV-STAGE AB":   "06.wav",
	"REV-STAGE B":    "07.wav",
	"REV-STAGE Bb":   "08.wav",
	"REV-STAGE C":    "09.wav",
	"REV-STAGE D":    "10.wav",
	"REV-STAGE Dd":   "11.wav",
	"REV-STAGE E":    "12.wav",
	"REV-STAGE F":    "13.wav",
	"REV-STAGE Fb":   "14.wav",
	"REV-STAGE G":    "15.wav",
	"REV-STAGE Gb":   "16.wav",
	"RET-STATE GTHT": "17.wav",
	"CHORUS":         "18.wav",
	"FLANGER":        "19.wav",
	"PHASER":         "20.wav",
	"RADIO-VOICE":    "21.wav",
	"TREMOLO":        "22.wav",
	"AUTO-WAH":       "23.wav",
	"VOCAL":          "24.wav",
	DryKey:           "original.wav",
}

// Registry is an immutable mapping from effect name to asset file name.
// The zero value is an empty registry.
type Registry struct {
	assets map[string]string
}

// DefaultRegistry returns the factory preset list of the emulated unit
// together with the dry reference.
func DefaultRegistry() Registry {
	return Registry{assets: maps.Clone(defaultAssets)}
}

// Len returns the number of entries, including the dry reference.
func (r Registry) Len() int { return len(r.assets) }

// Lookup returns the asset file registered for name.
func (r Registry) Lookup(name string) (string, error) {
	asset, ok := r.assets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}

	return asset, nil
}

// Names returns every registered name except DryKey, ordered by asset file
// name so the listing follows the unit's preset numbering.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.assets))
	for name := range r.assets {
		if name != DryKey {
			names = append(names, name)
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(r.assets[a], r.assets[b]); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})

	return names
}

// With returns a copy of r where name maps to asset. The receiver is unchanged.
func (r Registry) With(name, asset string) (Registry, error) {
	if strings.TrimSpace(name) == "" {
		return Registry{}, errors.New("library: empty effect name")
	}

	if strings.TrimSpace(asset) == "" {
		return Registry{}, fmt.Errorf("library: empty asset for %q", name)
	}

	next := make(map[string]string, len(r.assets)+1)
	maps.Copy(next, r.assets)
	next[name] = asset

	return Registry{assets: next}, nil
}
