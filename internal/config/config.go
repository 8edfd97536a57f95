// Package config resolves the tunable constants spec.md leaves as
// "arbitrary implementation parameters" (§9) into one documented,
// yaml-loadable place, the way the teacher repo keeps its reflex
// definitions in yaml rather than scattered literals.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimeWindow is an hour-of-day half-open interval [Start, End).
// Windows that wrap midnight are expressed with End < Start and are
// interpreted as [Start,24) ∪ [0,End).
type TimeWindow struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// Contains reports whether the given hour-of-day (0-23) falls in the window.
func (w TimeWindow) Contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// Config holds every tunable the spec leaves open-ended.
type Config struct {
	// NeverContactedMinutes is the sentinel value used for
	// minutes_since_last_interaction when Status.LastInteraction is
	// nil. Spec §9 calls 999 a reference value but not a documented
	// contract; any "large enough" value works, so it lives here.
	NeverContactedMinutes int `yaml:"never_contacted_minutes"`

	// Morning, Evening, and Night gate the heartbeat time-of-day
	// signals (§4.2 step 9): wake near Morning, diary in Evening,
	// sleep near Night, and weekly consolidation only fires inside
	// Night on a Sunday.
	Morning TimeWindow `yaml:"morning"`
	Evening TimeWindow `yaml:"evening"`
	Night   TimeWindow `yaml:"night"`

	// HotCapacity and WarmCapacity mirror spec §3's HOT_CAPACITY=10,
	// WARM_CAPACITY=8, exposed here so a deployment can retune memory
	// pressure without recompiling internal/memory.
	HotCapacity  int `yaml:"hot_capacity"`
	WarmCapacity int `yaml:"warm_capacity"`

	// SilenceAbsenceThresholdMinutes is the silence length beyond which
	// the heartbeat treats a mood away from 50 as having shifted during
	// silence (the anticipation reversal trigger). It does not change
	// mood.ComputeInteractionEffect, which applies its own fixed
	// 360-minute comfort-penalty threshold.
	SilenceAbsenceThresholdMinutes int `yaml:"silence_absence_threshold_minutes"`

	// SulkSilenceThresholdMinutes is the 720-minute sulk-onset-by-
	// silence threshold from §4.4.
	SulkSilenceThresholdMinutes int `yaml:"sulk_silence_threshold_minutes"`
}

// Default returns the reference configuration: the same constants the
// spec's worked examples (§8) assume.
func Default() Config {
	return Config{
		NeverContactedMinutes:          999,
		Morning:                        TimeWindow{StartHour: 6, EndHour: 9},
		Evening:                        TimeWindow{StartHour: 18, EndHour: 21},
		Night:                          TimeWindow{StartHour: 1, EndHour: 5},
		HotCapacity:                    10,
		WarmCapacity:                   8,
		SilenceAbsenceThresholdMinutes: 360,
		SulkSilenceThresholdMinutes:    720,
	}
}

// Load reads a yaml config file, filling any field the file omits with
// the Default() value for that field's zero value. A missing file is
// not an error: Default() is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
