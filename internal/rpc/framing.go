package rpc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformedFrame marks transport-level framing failures. They are fatal
// for the connection; the caller must not try to resynchronize the stream.
var ErrMalformedFrame = errors.New("malformed frame")

const headerContentLength = "content-length"

// maxFrameSize caps a single message body. Anything larger is treated as a
// corrupt header rather than an allocation request.
const maxFrameSize = 16 << 20

// FrameReader reads length-prefixed messages from a byte stream.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r for frame reading.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// Read returns the next message body. It returns io.EOF when the stream
// ends cleanly before a new frame, and an ErrMalformedFrame-wrapped error
// when the header is missing or the body is truncated.
func (fr *FrameReader) Read() ([]byte, error) {
	length := -1
	first := true

	for {
		line, err := fr.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && first && line == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedFrame, err)
		}
		first = false

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedFrame, line)
		}
		if strings.ToLower(strings.TrimSpace(name)) == headerContentLength {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: invalid Content-Length %q", ErrMalformedFrame, strings.TrimSpace(value))
			}
			length = n
		}
		// Other headers are tolerated and ignored.
	}

	if length < 0 {
		return nil, fmt.Errorf("%w: missing Content-Length header", ErrMalformedFrame)
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("%w: Content-Length %d exceeds limit", ErrMalformedFrame, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(fr.r, body); err != nil {
		return nil, fmt.Errorf("%w: body truncated: %v", ErrMalformedFrame, err)
	}
	return body, nil
}

// FrameWriter writes length-prefixed messages to a byte stream. Writes are
// serialized and each message is flushed in full before Write returns.
type FrameWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewFrameWriter wraps w for frame writing.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: bufio.NewWriter(w)}
}

// Write emits the header block and body as one flushed unit.
func (fw *FrameWriter) Write(body []byte) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fmt.Fprintf(fw.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := fw.w.Write(body); err != nil {
		return fmt.Errorf("writing frame body: %w", err)
	}
	if err := fw.w.Flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}
