package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It backs tests and fixture-driven runs of
// the server.
type Memory struct {
	mu        sync.RWMutex
	calendars []Calendar
	events    map[string]Appointment
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]Appointment)}
}

// AddCalendar registers a calendar, assigning an id if none is set.
func (m *Memory) AddCalendar(cal Calendar) Calendar {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cal.ID == "" {
		cal.ID = uuid.NewString()
	}
	m.calendars = append(m.calendars, cal)
	return cal
}

// AddEvent inserts an appointment directly, bypassing writability checks.
// Intended for seeding fixtures.
func (m *Memory) AddEvent(appt Appointment) Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	m.fillCalendarName(&appt)
	m.events[appt.ID] = appt
	return appt
}

func (m *Memory) ListCalendars(ctx context.Context) ([]Calendar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Calendar, len(m.calendars))
	copy(out, m.calendars)
	return out, nil
}

func (m *Memory) QueryEvents(ctx context.Context, start, end time.Time, calendarIDs []string) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var wanted map[string]bool
	if len(calendarIDs) > 0 {
		wanted = make(map[string]bool, len(calendarIDs))
		for _, id := range calendarIDs {
			wanted[id] = true
		}
	}

	var out []Appointment
	for _, appt := range m.events {
		if wanted != nil && !wanted[appt.CalendarID] {
			continue
		}
		if appt.Start.Before(end) && appt.End.After(start) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *Memory) GetEvent(ctx context.Context, id string) (Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	appt, ok := m.events[id]
	if !ok {
		return Appointment{}, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	return appt, nil
}

func (m *Memory) CreateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !appt.Start.Before(appt.End) {
		return Appointment{}, ErrInvalidRange
	}
	cal, ok := m.calendarByID(appt.CalendarID)
	if !ok {
		return Appointment{}, fmt.Errorf("calendar %q: %w", appt.CalendarID, ErrNotFound)
	}
	if !cal.Writable {
		return Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}

	appt.ID = uuid.NewString()
	appt.CalendarName = cal.Name
	m.events[appt.ID] = appt
	return appt, nil
}

func (m *Memory) UpdateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[appt.ID]; !ok {
		return Appointment{}, fmt.Errorf("event %q: %w", appt.ID, ErrNotFound)
	}
	if !appt.Start.Before(appt.End) {
		return Appointment{}, ErrInvalidRange
	}
	cal, ok := m.calendarByID(appt.CalendarID)
	if !ok {
		return Appointment{}, fmt.Errorf("calendar %q: %w", appt.CalendarID, ErrNotFound)
	}
	if !cal.Writable {
		return Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}

	appt.CalendarName = cal.Name
	m.events[appt.ID] = appt
	return appt, nil
}

func (m *Memory) DeleteEvent(ctx context.Context, id string, span Span) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	appt, ok := m.events[id]
	if !ok {
		return fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	if cal, ok := m.calendarByID(appt.CalendarID); ok && !cal.Writable {
		return fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}

	// Both spans remove the stored master record. A memory store keeps one
	// record per series, so there is no per-occurrence bookkeeping to split.
	delete(m.events, id)
	return nil
}

func (m *Memory) calendarByID(id string) (Calendar, bool) {
	for _, cal := range m.calendars {
		if cal.ID == id {
			return cal, true
		}
	}
	return Calendar{}, false
}

func (m *Memory) fillCalendarName(appt *Appointment) {
	if appt.CalendarName != "" {
		return
	}
	if cal, ok := m.calendarByID(appt.CalendarID); ok {
		appt.CalendarName = cal.Name
	}
}

// seedFile is the on-disk shape accepted by LoadSeedFile.
type seedFile struct {
	Calendars []Calendar `json:"calendars"`
	Events    []struct {
		Calendar     string       `json:"calendar"`
		Title        string       `json:"title"`
		Start        time.Time    `json:"start"`
		End          time.Time    `json:"end"`
		AllDay       bool         `json:"all_day"`
		Location     string       `json:"location"`
		Notes        string       `json:"notes"`
		Availability Availability `json:"availability"`
		AlarmMinutes []int        `json:"alarm_minutes"`
		Recurrence   *Recurrence  `json:"recurrence"`
	} `json:"events"`
}

// LoadSeedFile populates the store from a JSON fixture. Events reference
// calendars by name; an unknown name is an error so broken fixtures fail
// loudly.
func (m *Memory) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	byName := make(map[string]Calendar, len(seed.Calendars))
	for _, cal := range seed.Calendars {
		added := m.AddCalendar(cal)
		byName[added.Name] = added
	}

	for _, ev := range seed.Events {
		cal, ok := byName[ev.Calendar]
		if !ok {
			return fmt.Errorf("seed event %q references unknown calendar %q", ev.Title, ev.Calendar)
		}
		var alarms []time.Duration
		for _, min := range ev.AlarmMinutes {
			alarms = append(alarms, time.Duration(min)*time.Minute)
		}
		m.AddEvent(Appointment{
			CalendarID:   cal.ID,
			CalendarName: cal.Name,
			Title:        ev.Title,
			Start:        ev.Start,
			End:          ev.End,
			AllDay:       ev.AllDay,
			Location:     ev.Location,
			Notes:        ev.Notes,
			Availability: ev.Availability,
			Alarms:       alarms,
			Recurrence:   ev.Recurrence,
		})
	}
	return nil
}
