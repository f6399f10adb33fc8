package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/instrumentation"
)

func newTestServer() *Server {
	d := NewDispatcher(&fakeBackend{payload: map[string]any{"ok": true}},
		mcp.Implementation{Name: "calfewer", Version: "test"}, nil, nil)
	return NewServer(d, nil)
}

func readResponses(t *testing.T, out *bytes.Buffer) []Response {
	t.Helper()
	fr := NewFrameReader(out)
	var responses []Response
	for {
		body, err := fr.Read()
		if err == io.EOF {
			return responses
		}
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(body, &resp))
		responses = append(responses, resp)
	}
}

func TestServeRequestResponse(t *testing.T) {
	in := frame(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`) +
		frame(`{"jsonrpc":"2.0","method":"notifications/initialized"}`) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	var out bytes.Buffer

	err := newTestServer().Serve(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	responses := readResponses(t, &out)
	// The notification produces no response.
	require.Len(t, responses, 2)
	assert.Equal(t, float64(1), responses[0].ID)
	assert.Nil(t, responses[0].Error)
	assert.Equal(t, float64(2), responses[1].ID)
	assert.Nil(t, responses[1].Error)
}

func TestServeTracksSession(t *testing.T) {
	// A dispatcher with an uninitialized metrics recorder still serves; the
	// session gauge calls are no-ops but the bookkeeping path runs.
	d := NewDispatcher(&fakeBackend{payload: map[string]any{"ok": true}},
		mcp.Implementation{Name: "calfewer", Version: "test"}, nil, &instrumentation.Metrics{})
	srv := NewServer(d, nil)

	in := frame(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	var out bytes.Buffer

	err := srv.Serve(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)
	require.Len(t, readResponses(t, &out), 1)
}

func TestServeParseErrorKeepsLoopAlive(t *testing.T) {
	// A syntactically valid frame with a broken JSON body answers with a
	// parse error and keeps serving.
	in := frame(`{not json`) +
		frame(`{"jsonrpc":"2.0","id":9,"method":"tools/list"}`)
	var out bytes.Buffer

	err := newTestServer().Serve(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	responses := readResponses(t, &out)
	require.Len(t, responses, 2)

	assert.Equal(t, float64(SentinelID), responses[0].ID)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, CodeParseError, responses[0].Error.Code)

	assert.Equal(t, float64(9), responses[1].ID)
	assert.Nil(t, responses[1].Error)
}

func TestServeMalformedFrameIsFatal(t *testing.T) {
	in := "Content-Length: nope\r\n\r\n{}"
	var out bytes.Buffer

	err := newTestServer().Serve(context.Background(), strings.NewReader(in), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFrame)

	// The loop still emits one final error response before giving up.
	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, CodeParseError, responses[0].Error.Code)
}

func TestServeTruncatedBodyIsFatal(t *testing.T) {
	in := "Content-Length: 500\r\n\r\n{\"jsonrpc\":\"2.0\"}"
	var out bytes.Buffer

	err := newTestServer().Serve(context.Background(), strings.NewReader(in), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestServeCleanEOF(t *testing.T) {
	var out bytes.Buffer
	err := newTestServer().Serve(context.Background(), strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestServeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newTestServer().Serve(ctx, strings.NewReader(frame(`{}`)), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServeResponseIsFlushedPerRequest(t *testing.T) {
	// Each response must be a complete frame on its own; parse the output
	// stream frame by frame to prove none are fused or buffered apart.
	in := frame(`{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`)
	var out bytes.Buffer

	require.NoError(t, newTestServer().Serve(context.Background(), strings.NewReader(in), &out))

	fr := NewFrameReader(&out)
	for i := 0; i < 2; i++ {
		body, err := fr.Read()
		require.NoError(t, err)
		assert.True(t, json.Valid(body))
	}
}
