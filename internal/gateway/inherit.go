package gateway

// Inheritable properties accepted in an inherit set.
const (
	InheritCalendar      = "calendar"
	InheritDuration      = "duration"
	InheritLocation      = "location"
	InheritNotes         = "notes"
	InheritAllDaySetting = "all_day_setting"
	InheritAlarmSettings = "alarm_settings"
	InheritAvailability  = "availability"
)

// DefaultInherit is applied when a request names a source event but no
// inherit set.
var DefaultInherit = []string{InheritCalendar, InheritAllDaySetting, InheritAlarmSettings}

type inheritSet map[string]bool

// newInheritSet builds the effective set. A nil slice means the default; an
// explicit empty slice inherits nothing.
func newInheritSet(props []string) inheritSet {
	if props == nil {
		props = DefaultInherit
	}
	set := make(inheritSet, len(props))
	for _, p := range props {
		set[p] = true
	}
	return set
}

// resolve applies the uniform precedence rule for one property: an explicit
// request value wins, then the source value when the property is inherited,
// then the default.
func resolve[T any](explicit *T, prop string, set inheritSet, source *T, def T) T {
	if explicit != nil {
		return *explicit
	}
	if set[prop] && source != nil {
		return *source
	}
	return def
}
