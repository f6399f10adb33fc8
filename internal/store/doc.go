// Package store defines the narrow interface the server uses to talk to a
// calendar store, plus the local backends that implement it.
//
// The availability engine and the mutation gateway never touch a backend
// directly; they consume the Store interface and the sentinel errors declared
// here (ErrAccessDenied, ErrNotFound, ErrReadOnly, ErrInvalidRange).
//
// Two backends ship with the server:
//
//   - Memory: an in-process store, optionally seeded from a JSON file.
//     Used for tests and for driving the server against fixture data.
//   - SQLite: a single-file store via modernc.org/sqlite, for durable
//     local calendars.
//
// All access goes through Gated, which serializes store calls and enforces a
// minimum spacing between them. The native calendar stores this server fronts
// are fragile under bursts, so the gate is a correctness safeguard rather than
// a throughput knob.
package store
