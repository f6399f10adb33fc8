// Package rpc implements the framed JSON-RPC transport the server speaks
// on stdio.
//
// Messages are length-prefixed: a header block of CRLF- or LF-terminated
// lines containing a mandatory Content-Length header, a blank line, then
// exactly that many bytes of UTF-8 JSON. Framing failures are fatal for the
// connection; protocol failures (bad JSON, unknown method, bad params) are
// answered with a JSON-RPC error and the loop keeps serving.
//
// The loop is strictly request/response with one message in flight: the
// response for request k is fully flushed before request k+1 is read.
package rpc
