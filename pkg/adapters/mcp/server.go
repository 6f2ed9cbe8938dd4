// Package mcp exposes paged forms as Model Context Protocol tools, so an agent
// can fill a form one page at a time.
//
// Like the HTTP transport it keeps no state between calls: submit_page
// answers with the next page and its hidden fields, and the agent sends
// those hidden fields back with its answers on the following call.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/observability"
	"github.com/aretw0/pagedform/pkg/ports"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/runner"
)

// Response is the result of submit_page.
type Response struct {
	Complete   bool                      `json:"complete" jsonschema_description:"True once the last page was submitted valid"`
	Form       *render.Form              `json:"form,omitempty" jsonschema_description:"The page to fill next; send its hidden fields back"`
	Submission string                    `json:"submission,omitempty" jsonschema_description:"ID of the stored submission"`
	Values     map[string]map[string]any `json:"values,omitempty" jsonschema_description:"Final values keyed by page"`
}

// FormSchema is the result of get_schema.
type FormSchema struct {
	Form  string                 `json:"form"`
	Pages []pagedform.PageSchema `json:"pages"`
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists completed forms.
func WithStore(store ports.SubmissionStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the server logger. It must not write to stdout when
// serving over stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMaxInputSize caps each submitted value at n bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) { s.maxInput = n }
}

// WithClock sets the clock used to timestamp submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server wraps the registered blueprints in an MCP server.
type Server struct {
	forms     map[string]*pagedform.Blueprint
	store     ports.SubmissionStore
	logger    *slog.Logger
	maxInput  int
	now       func() time.Time
	mcpServer *server.MCPServer
}

// NewServer registers blueprints by name and the tools that drive them.
func NewServer(forms []*pagedform.Blueprint, version string, opts ...Option) (*Server, error) {
	s := &Server{
		forms:  make(map[string]*pagedform.Blueprint, len(forms)),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	for _, bp := range forms {
		if _, exists := s.forms[bp.Name()]; exists {
			return nil, fmt.Errorf("mcp: form %q registered twice", bp.Name())
		}
		s.forms[bp.Name()] = bp
	}
	s.mcpServer = server.NewMCPServer("pagedform", strings.TrimSpace(version))
	s.registerTools()
	return s, nil
}

// ServeStdio serves on stdin and stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List the names of the forms that can be filled."),
	), s.handleListForms)

	s.mcpServer.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Describe the field types of every page of a form."),
		mcp.WithString("form", mcp.Required(), mcp.Description("Form name")),
	), mcp.NewStructuredToolHandler(s.handleSchema))

	s.mcpServer.AddTool(mcp.NewTool("submit_page",
		mcp.WithDescription("Submit answers for the current page and get the next one. "+
			"Omit values to start the form."),
		mcp.WithString("form", mcp.Required(), mcp.Description("Form name")),
		mcp.WithString("values", mcp.Description(
			"JSON object of request keys: the hidden fields of the last answer, the page fields, "+
				"and \""+domain.SubmitKey+"\" or \""+domain.BackKey+"\" set to 1")),
	), mcp.NewStructuredToolHandler(s.handleSubmit))
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	data, err := json.Marshal(map[string][]string{"forms": names})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode forms: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleSchema(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (FormSchema, error) {
	name, _ := args["form"].(string)
	bp, ok := s.forms[name]
	if !ok {
		return FormSchema{}, fmt.Errorf("form %q not found", name)
	}
	pages, err := bp.Schema()
	if err != nil {
		return FormSchema{}, fmt.Errorf("describe form: %w", err)
	}
	return FormSchema{Form: name, Pages: pages}, nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (Response, error) {
	name, _ := args["form"].(string)
	bp, ok := s.forms[name]
	if !ok {
		return Response{}, fmt.Errorf("form %q not found", name)
	}
	req, err := s.decodeValues(args["values"])
	if err != nil {
		s.logger.Warn("mcp submit rejected", "form", name, "error", err)
		return Response{}, err
	}

	ctrl, err := bp.Controller(
		pagedform.WithLogger(s.logger),
		pagedform.WithLifecycleHooks(observability.LoggingHooks(s.logger)),
	)
	if err != nil {
		return Response{}, err
	}
	if _, err := ctrl.ReadFromRequest(ctx, req); err != nil {
		return Response{}, fmt.Errorf("read answers: %w", err)
	}

	if !ctrl.IsComplete() {
		form, err := ctrl.Form()
		if err != nil {
			return Response{}, err
		}
		return Response{Form: form}, nil
	}

	sub := &domain.Submission{
		ID:        uuid.NewString(),
		Form:      name,
		Values:    ctrl.Values(),
		CreatedAt: s.now().UTC(),
	}
	resp := Response{Complete: true, Values: sub.Values}
	if s.store != nil {
		if err := s.store.Save(ctx, sub); err != nil {
			return Response{}, fmt.Errorf("save submission: %w", err)
		}
		resp.Submission = sub.ID
	}
	return resp, nil
}

// decodeValues accepts the values argument as a JSON string or an object.
// Scalars and lists of scalars are allowed; every value is sanitised.
func (s *Server) decodeValues(arg any) (runner.MapReader, error) {
	req := runner.MapReader{}
	var raw map[string]any
	switch v := arg.(type) {
	case nil:
		return req, nil
	case map[string]any:
		raw = v
	case string:
		if strings.TrimSpace(v) == "" {
			return req, nil
		}
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return nil, fmt.Errorf("invalid values: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid values: expected a JSON object, got %T", arg)
	}

	for key, v := range raw {
		var list []string
		switch tv := v.(type) {
		case nil:
			continue
		case []any:
			l, err := cast.ToStringSliceE(tv)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			list = l
		case map[string]any:
			return nil, fmt.Errorf("invalid value for %q: nested objects are not supported", key)
		default:
			str, err := cast.ToStringE(tv)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			list = []string{str}
		}
		for i, item := range list {
			clean, err := runner.SanitizeInputLimit(item, s.maxInput)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			list[i] = clean
		}
		req.Set(key, list...)
	}
	return req, nil
}
