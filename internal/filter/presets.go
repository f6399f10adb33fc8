package filter

import (
	"fmt"
)

// Preset names accepted in a CalendarFilter.
const (
	PresetWork     = "work"
	PresetPersonal = "personal"
	PresetMain     = "main"
	PresetAll      = "all"
	PresetDebug    = "debug"
	PresetClean    = "clean"
)

// PresetConfig carries the per-deployment values presets depend on.
// It is injected at the call boundary so the "no filter given" default is an
// explicit value rather than a hidden branch.
type PresetConfig struct {
	// PersonalAccounts are the account names the "personal" preset includes.
	PersonalAccounts []string
}

// DefaultPresetConfig matches a typical single-user setup.
func DefaultPresetConfig() PresetConfig {
	return PresetConfig{PersonalAccounts: []string{"iCloud", "Google"}}
}

// FromPreset returns the canonical filter configuration for a preset name.
func FromPreset(name string, cfg PresetConfig) (CalendarFilter, error) {
	switch name {
	case PresetWork:
		return CalendarFilter{
			IncludeNames:    []string{"Calendar", "Work"},
			ExcludeSubs:     true,
			ExcludeHolidays: true,
			ExcludeSports:   true,
		}, nil
	case PresetPersonal:
		return CalendarFilter{
			ExcludeNames:    []string{"Birthdays", "US Holidays"},
			IncludeAccounts: cfg.PersonalAccounts,
			ExcludeSubs:     true,
			ExcludeSports:   true,
		}, nil
	case PresetMain:
		return CalendarFilter{
			IncludeNames:    []string{"Calendar", "Work", "Home", "Personal", "Family"},
			ExcludeSubs:     true,
			ExcludeHolidays: true,
			ExcludeSports:   true,
		}, nil
	case PresetAll, PresetDebug:
		return CalendarFilter{}, nil
	case PresetClean:
		return CalendarFilter{
			ExcludeReadOnly: true,
			ExcludeSubs:     true,
			ExcludeHolidays: true,
			ExcludeSports:   true,
		}, nil
	default:
		return CalendarFilter{}, fmt.Errorf("unknown calendar filter preset %q", name)
	}
}

// Resolve normalizes a caller-supplied filter. A nil filter means the caller
// gave nothing at all, which defaults to the "main" preset, not "all". A
// filter with Preset set is replaced wholesale by the preset configuration.
func Resolve(f *CalendarFilter, cfg PresetConfig) (CalendarFilter, error) {
	if f == nil {
		return FromPreset(PresetMain, cfg)
	}
	if f.Preset != "" {
		return FromPreset(f.Preset, cfg)
	}
	return *f, nil
}
