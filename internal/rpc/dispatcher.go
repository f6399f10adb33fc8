package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/logging"
)

// Supported methods.
const (
	MethodInitialize    = "initialize"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodPromptsList   = "prompts/list"
	MethodResourcesList = "resources/list"
)

// ToolBackend supplies the tool catalog and executes tool calls. Call
// returns the result payload to be serialized into the response content.
type ToolBackend interface {
	Catalog() []mcp.Tool
	Call(ctx context.Context, name string, args map[string]any) (any, error)
}

// Dispatcher routes decoded envelopes to their handlers.
type Dispatcher struct {
	backend ToolBackend
	info    mcp.Implementation
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewDispatcher builds a dispatcher. metrics may be nil.
func NewDispatcher(backend ToolBackend, info mcp.Implementation, logger *slog.Logger, metrics *instrumentation.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{backend: backend, info: info, logger: logger, metrics: metrics}
}

// Dispatch handles one request and returns the response to send, or nil for
// notifications.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	start := time.Now()
	ctx, span := instrumentation.StartRequestSpan(ctx, req.Method)
	defer span.End()

	resp := d.route(ctx, req)

	status := instrumentation.StatusSuccess
	if resp != nil && resp.Error != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, resp.Error)
	}
	if d.metrics != nil {
		d.metrics.RecordRPCRequest(ctx, req.Method, status, time.Since(start))
	}

	d.logger.Debug("request dispatched",
		logging.Method(req.Method),
		logging.RequestID(req.ID),
		logging.Status(status),
		slog.Duration("duration", time.Since(start)))

	return resp
}

func (d *Dispatcher) route(ctx context.Context, req *Request) *Response {
	// Notifications expect no response, success or not.
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}

	switch req.Method {
	case MethodInitialize:
		return NewResult(req.ID, d.initializeResult())
	case MethodToolsList:
		return NewResult(req.ID, mcp.ListToolsResult{Tools: d.backend.Catalog()})
	case MethodPromptsList:
		return NewResult(req.ID, mcp.ListPromptsResult{Prompts: []mcp.Prompt{}})
	case MethodResourcesList:
		return NewResult(req.ID, mcp.ListResourcesResult{Resources: []mcp.Resource{}})
	case MethodToolsCall:
		return d.callTool(ctx, req)
	default:
		return NewErrorResponse(req.ID, NewError(CodeMethodNotFound, "method not found: %s", req.Method))
	}
}

func (d *Dispatcher) initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": d.info,
	}
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (d *Dispatcher) callTool(ctx context.Context, req *Request) *Response {
	var params callToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams("invalid tools/call params: %v", err))
		}
	}
	if params.Name == "" {
		return NewErrorResponse(req.ID, InvalidParams("missing required parameter: name"))
	}
	if params.Arguments == nil {
		return NewErrorResponse(req.ID, InvalidParams("missing required parameter: arguments"))
	}

	start := time.Now()
	payload, err := d.backend.Call(ctx, params.Name, params.Arguments)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	// The tool backend records the invocation metric; it knows the target
	// calendar, which this layer never sees.
	d.logger.Info("tool called",
		logging.Tool(params.Name),
		logging.RequestID(req.ID),
		logging.Status(status),
		slog.Duration("duration", time.Since(start)))

	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			return NewErrorResponse(req.ID, rpcErr)
		}
		// Domain failures surface as internal errors with the message
		// intact so clients can show it.
		return NewErrorResponse(req.ID, Internal("%s", err.Error()))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return NewErrorResponse(req.ID, Internal("encoding tool result: %v", err))
	}
	return NewResult(req.ID, mcp.NewToolResultText(string(body)))
}
