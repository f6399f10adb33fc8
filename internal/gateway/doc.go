// Package gateway performs event mutations against the calendar store.
//
// Creation supports copying formatting from an existing event: callers name
// a source event and an inherit set, and each optional property resolves
// with the precedence explicit request value, then inherited source value,
// then default. Recurrence is never inherited.
package gateway
