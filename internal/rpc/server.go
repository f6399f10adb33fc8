package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/teemow/calfewer/internal/logging"
)

// Server runs the framed request/response loop over a byte stream.
type Server struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewServer builds a server around a dispatcher.
func NewServer(dispatcher *Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dispatcher: dispatcher, logger: logger}
}

// Serve reads frames from r and writes responses to w until the stream ends
// or the context is canceled. Framing failures terminate the loop after one
// final error response; protocol failures are answered and the loop keeps
// going.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	fr := NewFrameReader(r)
	fw := NewFrameWriter(w)

	// One Serve call is one client session.
	if m := s.dispatcher.metrics; m != nil {
		m.IncrementActiveSessions(ctx)
		defer m.DecrementActiveSessions(ctx)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := fr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("client closed the stream")
				return nil
			}
			// Try to tell the client what happened, then give up on
			// the connection; the stream position is unrecoverable.
			s.logger.Error("transport failure", logging.Err(err))
			_ = s.writeResponse(fw, NewErrorResponse(SentinelID, NewError(CodeParseError, "malformed frame: %v", err)))
			return err
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			// The frame was sound, so the stream is still aligned and
			// the loop can continue.
			s.logger.Warn("unparsable request body", logging.Err(err))
			if werr := s.writeResponse(fw, NewErrorResponse(SentinelID, NewError(CodeParseError, "parse error: %v", err))); werr != nil {
				return werr
			}
			continue
		}

		resp := s.dispatcher.Dispatch(ctx, &req)
		if resp == nil {
			continue
		}
		if err := s.writeResponse(fw, resp); err != nil {
			return err
		}
	}
}

func (s *Server) writeResponse(fw *FrameWriter, resp *Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	return fw.Write(body)
}
