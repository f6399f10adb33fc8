// Package classify categorizes conflicting events and renders the summary
// text attached to conflict results.
//
// Both the type cascade and the severity cascade are ordered rule tables;
// the first matching rule wins. Precedence is part of the compatibility
// contract with existing clients (a "Family doctor appointment" is medical,
// not family, because medical is checked first).
package classify
