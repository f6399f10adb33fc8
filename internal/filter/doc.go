// Package filter implements the calendar and event selection predicates.
//
// CalendarFilter decides which calendars participate in a query, either
// field-by-field or through a named preset that replaces the whole
// configuration. EventFilter prunes individual appointments, including the
// scored work-meeting heuristic.
//
// The keyword lists and the work-meeting score table are compatibility
// contracts with existing clients; treat them as frozen data, not tunables.
package filter
