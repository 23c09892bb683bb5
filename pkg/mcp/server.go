// Package mcp serves splice's rewrite and parse operations as Model
// Context Protocol tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/splice/pkg/observability"
	"github.com/Sumatoshi-tech/splice/pkg/rewrite"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
	"github.com/Sumatoshi-tech/splice/pkg/version"
)

const serverName = "splice"

var errToolResult = errors.New("tool returned an error result")

// ServerDeps holds the server's collaborators. Nil fields fall back to
// defaults: a fresh engine, the SDK logger, no metrics and no tracing.
type ServerDeps struct {
	Logger  *slog.Logger
	Metrics *observability.REDMetrics
	Tracer  trace.Tracer
	Engine  *rewrite.Engine
}

// Server is an MCP server with the splice tools registered.
type Server struct {
	inner   *mcpsdk.Server
	engine  *rewrite.Engine
	parser  *syntax.Parser
	metrics *observability.REDMetrics
	tracer  trace.Tracer
	tools   []string
}

// NewServer creates a server with every tool registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	engine := deps.Engine
	if engine == nil {
		engine = rewrite.NewEngine()
	}

	srv := &Server{
		inner:   mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version.Version}, opts),
		engine:  engine,
		parser:  syntax.NewParser(),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	addTool(srv, &mcpsdk.Tool{Name: ToolNameApply, Description: applyToolDescription}, srv.handleApply)
	addTool(srv, &mcpsdk.Tool{Name: ToolNameParse, Description: parseToolDescription}, srv.handleParse)

	return srv
}

// ListToolNames returns the registered tool names, sorted.
func (s *Server) ListToolNames() []string {
	names := append([]string(nil), s.tools...)
	sort.Strings(names)

	return names
}

// Run serves on stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

type toolHandler[In any] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[In any](s *Server, tool *mcpsdk.Tool, handler toolHandler[In]) {
	wrapped := withMetrics(s.metrics, tool.Name, withTracing(s.tracer, tool.Name, handler))
	mcpsdk.AddTool(s.inner, tool, mcpsdk.ToolHandlerFor[In, ToolOutput](wrapped))

	s.tools = append(s.tools, tool.Name)
}

const (
	mcpSpanPrefix  = "mcp."
	traceIDMetaKey = "trace_id"
)

// withTracing starts a server span per call. When the span is sampled the
// trace id is appended to the result content.
func withTracing[In any](tracer trace.Tracer, toolName string, handler toolHandler[In]) toolHandler[In] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		if err != nil || (result != nil && result.IsError) {
			span.SetStatus(codes.Error, "tool call failed")
		}

		if sc := span.SpanContext(); sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID())})
		}

		return result, output, err
	}
}

// withMetrics records one RED sample per call. A result flagged IsError
// counts as a failure.
func withMetrics[In any](metrics *observability.REDMetrics, toolName string, handler toolHandler[In]) toolHandler[In] {
	if metrics == nil {
		return handler
	}

	op := mcpSpanPrefix + toolName

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		finish := metrics.Track(ctx, op)

		result, output, err := handler(ctx, req, input)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errToolResult
		}

		finish(failure)

		return result, output, err
	}
}
