// Package calendar_tools implements the MCP tool surface of the server:
// conflict checking, event listing, free-slot search, calendar listing, and
// event mutations.
//
// Handlers decode loosely-typed tool arguments, validate them, and delegate
// to the availability engine and the mutation gateway. Validation failures
// are reported as invalid-params errors; store and gateway failures surface
// as internal errors with their message intact.
package calendar_tools
