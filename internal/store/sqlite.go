package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS calendars (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	account  TEXT NOT NULL,
	kind     TEXT NOT NULL,
	writable INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	calendar_id  TEXT NOT NULL REFERENCES calendars(id),
	title        TEXT NOT NULL,
	start_at     TEXT NOT NULL,
	end_at       TEXT NOT NULL,
	all_day      INTEGER NOT NULL,
	location     TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	availability TEXT NOT NULL DEFAULT '',
	alarms       TEXT NOT NULL DEFAULT '[]',
	recurrence   TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_range ON events(calendar_id, start_at, end_at);
`

// SQLite is a single-file Store backend.
type SQLite struct {
	path string
	db   *sql.DB
}

// NewSQLite returns an unopened SQLite store for the given path.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

// Open creates the database file (and parent directory) if needed and applies
// the schema.
func (s *SQLite) Open() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.db = db
	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddCalendar registers a calendar, assigning an id if none is set.
func (s *SQLite) AddCalendar(ctx context.Context, cal Calendar) (Calendar, error) {
	if cal.ID == "" {
		cal.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendars (id, name, account, kind, writable) VALUES (?, ?, ?, ?, ?)`,
		cal.ID, cal.Name, cal.Account, string(cal.Kind), boolToInt(cal.Writable))
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to insert calendar: %w", err)
	}
	return cal, nil
}

func (s *SQLite) ListCalendars(ctx context.Context) ([]Calendar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, account, kind, writable FROM calendars ORDER BY account, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer rows.Close()

	var out []Calendar
	for rows.Next() {
		var cal Calendar
		var kind string
		var writable int
		if err := rows.Scan(&cal.ID, &cal.Name, &cal.Account, &kind, &writable); err != nil {
			return nil, fmt.Errorf("failed to scan calendar: %w", err)
		}
		cal.Kind = SourceKind(kind)
		cal.Writable = writable != 0
		out = append(out, cal)
	}
	return out, rows.Err()
}

func (s *SQLite) QueryEvents(ctx context.Context, start, end time.Time, calendarIDs []string) ([]Appointment, error) {
	query := `SELECT e.id, e.calendar_id, c.name, e.title, e.start_at, e.end_at,
		e.all_day, e.location, e.notes, e.availability, e.alarms, e.recurrence
		FROM events e JOIN calendars c ON c.id = e.calendar_id
		WHERE e.start_at < ? AND e.end_at > ?`
	args := []any{end.UTC().Truncate(time.Second).Format(time.RFC3339), start.UTC().Truncate(time.Second).Format(time.RFC3339)}

	if len(calendarIDs) > 0 {
		query += ` AND e.calendar_id IN (?` // first placeholder
		args = append(args, calendarIDs[0])
		for _, id := range calendarIDs[1:] {
			query += `, ?`
			args = append(args, id)
		}
		query += `)`
	}
	query += ` ORDER BY e.start_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	return out, rows.Err()
}

func (s *SQLite) GetEvent(ctx context.Context, id string) (Appointment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.calendar_id, c.name, e.title, e.start_at, e.end_at,
			e.all_day, e.location, e.notes, e.availability, e.alarms, e.recurrence
		FROM events e JOIN calendars c ON c.id = e.calendar_id WHERE e.id = ?`, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Appointment{}, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	return appt, err
}

func (s *SQLite) CreateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	if !appt.Start.Before(appt.End) {
		return Appointment{}, ErrInvalidRange
	}
	cal, err := s.calendarByID(ctx, appt.CalendarID)
	if err != nil {
		return Appointment{}, err
	}
	if !cal.Writable {
		return Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}

	appt.ID = uuid.NewString()
	appt.CalendarName = cal.Name

	alarms, recurrence, err := encodeExtras(appt)
	if err != nil {
		return Appointment{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, calendar_id, title, start_at, end_at, all_day, location, notes, availability, alarms, recurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		appt.ID, appt.CalendarID, appt.Title,
		appt.Start.UTC().Truncate(time.Second).Format(time.RFC3339), appt.End.UTC().Truncate(time.Second).Format(time.RFC3339),
		boolToInt(appt.AllDay), appt.Location, appt.Notes, appt.Availability, alarms, recurrence)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to insert event: %w", err)
	}
	return appt, nil
}

func (s *SQLite) UpdateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	if !appt.Start.Before(appt.End) {
		return Appointment{}, ErrInvalidRange
	}
	cal, err := s.calendarByID(ctx, appt.CalendarID)
	if err != nil {
		return Appointment{}, err
	}
	if !cal.Writable {
		return Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}
	appt.CalendarName = cal.Name

	alarms, recurrence, err := encodeExtras(appt)
	if err != nil {
		return Appointment{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET calendar_id = ?, title = ?, start_at = ?, end_at = ?, all_day = ?,
			location = ?, notes = ?, availability = ?, alarms = ?, recurrence = ?
		WHERE id = ?`,
		appt.CalendarID, appt.Title,
		appt.Start.UTC().Truncate(time.Second).Format(time.RFC3339), appt.End.UTC().Truncate(time.Second).Format(time.RFC3339),
		boolToInt(appt.AllDay), appt.Location, appt.Notes, appt.Availability, alarms, recurrence,
		appt.ID)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Appointment{}, fmt.Errorf("event %q: %w", appt.ID, ErrNotFound)
	}
	return appt, nil
}

func (s *SQLite) DeleteEvent(ctx context.Context, id string, span Span) error {
	appt, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	cal, err := s.calendarByID(ctx, appt.CalendarID)
	if err != nil {
		return err
	}
	if !cal.Writable {
		return fmt.Errorf("calendar %q: %w", cal.Name, ErrReadOnly)
	}

	// One row per series; both spans drop the master record.
	_, err = s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *SQLite) calendarByID(ctx context.Context, id string) (Calendar, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, account, kind, writable FROM calendars WHERE id = ?`, id)
	var cal Calendar
	var kind string
	var writable int
	err := row.Scan(&cal.ID, &cal.Name, &cal.Account, &kind, &writable)
	if errors.Is(err, sql.ErrNoRows) {
		return Calendar{}, fmt.Errorf("calendar %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to scan calendar: %w", err)
	}
	cal.Kind = SourceKind(kind)
	cal.Writable = writable != 0
	return cal, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (Appointment, error) {
	var appt Appointment
	var startAt, endAt, alarms string
	var recurrence sql.NullString
	var allDay int

	err := row.Scan(&appt.ID, &appt.CalendarID, &appt.CalendarName, &appt.Title,
		&startAt, &endAt, &allDay, &appt.Location, &appt.Notes, &appt.Availability,
		&alarms, &recurrence)
	if err != nil {
		return Appointment{}, err
	}

	if appt.Start, err = time.Parse(time.RFC3339, startAt); err != nil {
		return Appointment{}, fmt.Errorf("failed to parse event start: %w", err)
	}
	if appt.End, err = time.Parse(time.RFC3339, endAt); err != nil {
		return Appointment{}, fmt.Errorf("failed to parse event end: %w", err)
	}
	appt.AllDay = allDay != 0

	if err := json.Unmarshal([]byte(alarms), &appt.Alarms); err != nil {
		return Appointment{}, fmt.Errorf("failed to decode alarms: %w", err)
	}
	if recurrence.Valid && recurrence.String != "" {
		appt.Recurrence = &Recurrence{}
		if err := json.Unmarshal([]byte(recurrence.String), appt.Recurrence); err != nil {
			return Appointment{}, fmt.Errorf("failed to decode recurrence: %w", err)
		}
	}
	return appt, nil
}

func encodeExtras(appt Appointment) (alarms string, recurrence sql.NullString, err error) {
	alarmBytes, err := json.Marshal(appt.Alarms)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to encode alarms: %w", err)
	}
	if appt.Alarms == nil {
		alarmBytes = []byte("[]")
	}
	if appt.Recurrence != nil {
		recBytes, err := json.Marshal(appt.Recurrence)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("failed to encode recurrence: %w", err)
		}
		recurrence = sql.NullString{String: string(recBytes), Valid: true}
	}
	return string(alarmBytes), recurrence, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
