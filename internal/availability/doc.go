// Package availability resolves date plus time-type requests into concrete
// time windows and answers conflict and free-slot questions against a
// calendar store.
//
// All overlap checks are half-open: an event conflicts with a window when
// event.Start < window.End and event.End > window.Start, so back-to-back
// events do not collide.
package availability
