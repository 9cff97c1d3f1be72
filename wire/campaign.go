package wire

import (
	"fmt"
	"os"

	"github.com/jakobmoosbauer/symmetric-flips/engine"
	"gopkg.in/yaml.v3"
)

// campaignPreset is one named entry in a campaign file: a full set of
// engine.Params under a human-chosen label, so a long-running search can
// be restarted with "--preset r5-93" instead of re-typing nine flags.
type campaignPreset struct {
	Target      int    `yaml:"target"`
	FlipLimit   uint64 `yaml:"flipLimit"`
	PlusLimit   int64  `yaml:"plusLimit"`
	Termination int    `yaml:"termination"`
	Symmetry    int    `yaml:"symmetry"`
	MaxPlus     int    `yaml:"maxPlus"`
	Split       int    `yaml:"split"`
	MaxSize     int    `yaml:"maxSize"`
	Seed        uint32 `yaml:"seed"`
}

// LoadCampaign reads a YAML file of named parameter presets and returns
// the engine.Params for the requested name. This never touches the term
// array or wire files; it only fills in scalar run parameters, so it stays
// firmly inside the "already-encoded decomposition" boundary the engine
// expects rather than becoming a driver that constructs one.
func LoadCampaign(path, name string) (engine.Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.Params{}, fmt.Errorf("wire: LoadCampaign: %w", err)
	}

	presets := map[string]campaignPreset{}
	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return engine.Params{}, fmt.Errorf("wire: LoadCampaign: %s: %w", path, err)
	}
	preset, ok := presets[name]
	if !ok {
		return engine.Params{}, fmt.Errorf("wire: LoadCampaign: %s: no preset named %q", path, name)
	}
	return engine.Params{
		Target:      preset.Target,
		FlipLimit:   preset.FlipLimit,
		PlusLimit:   preset.PlusLimit,
		Termination: preset.Termination,
		Seed:        preset.Seed,
		Symmetry:    preset.Symmetry,
		MaxPlus:     preset.MaxPlus,
		Split:       preset.Split,
		MaxSize:     preset.MaxSize,
	}, nil
}
