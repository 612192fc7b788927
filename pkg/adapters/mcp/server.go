package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/aretw0/formstate/pkg/sanitize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "formstate-mcp"

// Forms is the form service exposed as MCP tools. session.Manager implements it.
type Forms interface {
	View(ctx context.Context, formID string, fn func(g *form.Group) error) error
	SetValue(ctx context.Context, formID string, value any) (*domain.Snapshot, error)
	Execute(ctx context.Context, formID, path string, params any) (*domain.Snapshot, error)
	Delete(ctx context.Context, formID string) error
	List(ctx context.Context) ([]string, error)
}

// FormResponse is the JSON result of form tools.
type FormResponse struct {
	ID      string              `json:"id" jsonschema_description:"The form identifier"`
	Value   any                 `json:"value" jsonschema_description:"The visible value of the form"`
	Errors  map[string][]string `json:"errors,omitempty" jsonschema_description:"Validation errors keyed by field path"`
	Changed bool                `json:"changed" jsonschema_description:"Whether the form differs from its original value"`
}

// Server wraps the form service and exposes it as an MCP Server.
type Server struct {
	forms     Forms
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(forms Forms, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		forms:     forms,
		mcpServer: server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List the identifiers of every saved form."),
	), s.handleListForms)

	s.mcpServer.AddTool(mcp.NewTool("get_form",
		mcp.WithDescription("Read a form: visible value, validation errors and changed flag."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The form identifier")),
		mcp.WithOutputSchema[FormResponse](),
	), s.handleGetForm)

	s.mcpServer.AddTool(mcp.NewTool("set_form",
		mcp.WithDescription("Assign a partial value to a form, validate it and save it."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The form identifier")),
		mcp.WithString("value", mcp.Required(), mcp.Description("JSON object keyed by field name")),
		mcp.WithOutputSchema[FormResponse](),
	), s.handleSetForm)

	s.mcpServer.AddTool(mcp.NewTool("execute_action",
		mcp.WithDescription("Execute the action node at path, then save the form."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The form identifier")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Dot-separated path of the action")),
		mcp.WithString("params", mcp.Description("Optional JSON params for the action")),
		mcp.WithOutputSchema[FormResponse](),
	), s.handleExecuteAction)

	s.mcpServer.AddTool(mcp.NewTool("delete_form",
		mcp.WithDescription("Delete a saved form."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("The form identifier")),
	), s.handleDeleteForm)
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.forms.List(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("list failed", err), nil
	}
	if ids == nil {
		ids = []string{}
	}
	return jsonResult(ids)
}

func (s *Server) handleGetForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input struct {
		FormID string `json:"form_id"`
	}
	if err := request.BindArguments(&input); err != nil || input.FormID == "" {
		return mcp.NewToolResultError("form_id is required"), nil
	}

	var resp FormResponse
	err := s.forms.View(ctx, input.FormID, func(g *form.Group) error {
		resp = FormResponse{
			ID:      input.FormID,
			Value:   g.Value(),
			Errors:  form.ErrorsByPath(g),
			Changed: g.IsChanged(),
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("get failed", err), nil
	}
	return formResult(resp)
}

func (s *Server) handleSetForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input struct {
		FormID string `json:"form_id"`
		Value  string `json:"value"`
	}
	if err := request.BindArguments(&input); err != nil || input.FormID == "" {
		return mcp.NewToolResultError("form_id is required"), nil
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(input.Value), &value); err != nil {
		return mcp.NewToolResultErrorFromErr("value must be a JSON object", err), nil
	}
	clean, err := sanitize.Value(value)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("value rejected", err), nil
	}

	snap, err := s.forms.SetValue(ctx, input.FormID, clean)
	if err != nil {
		s.logger.Warn("MCP set_form rejected", "form_id", input.FormID, "error", err)
		return mcp.NewToolResultErrorFromErr("set failed", err), nil
	}
	return formResult(fromSnapshot(snap))
}

func (s *Server) handleExecuteAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input struct {
		FormID string `json:"form_id"`
		Path   string `json:"path"`
		Params string `json:"params"`
	}
	if err := request.BindArguments(&input); err != nil || input.FormID == "" || input.Path == "" {
		return mcp.NewToolResultError("form_id and path are required"), nil
	}
	var params any
	if input.Params != "" {
		if err := json.Unmarshal([]byte(input.Params), &params); err != nil {
			return mcp.NewToolResultErrorFromErr("params must be JSON", err), nil
		}
		var err error
		if params, err = sanitize.Value(params); err != nil {
			return mcp.NewToolResultErrorFromErr("params rejected", err), nil
		}
	}

	snap, err := s.forms.Execute(ctx, input.FormID, input.Path, params)
	if err != nil {
		s.logger.Warn("MCP execute_action failed", "form_id", input.FormID, "path", input.Path, "error", err)
		return mcp.NewToolResultErrorFromErr("execute failed", err), nil
	}
	return formResult(fromSnapshot(snap))
}

func (s *Server) handleDeleteForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input struct {
		FormID string `json:"form_id"`
	}
	if err := request.BindArguments(&input); err != nil || input.FormID == "" {
		return mcp.NewToolResultError("form_id is required"), nil
	}
	if err := s.forms.Delete(ctx, input.FormID); err != nil {
		return mcp.NewToolResultErrorFromErr("delete failed", err), nil
	}
	return mcp.NewToolResultText("deleted"), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("formstate://forms", "Saved forms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.forms.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list forms: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "formstate://forms",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// fromSnapshot reports the saved full value; the visible value needs the tree.
func fromSnapshot(snap *domain.Snapshot) FormResponse {
	return FormResponse{
		ID:      snap.FormID,
		Value:   snap.Value,
		Errors:  snap.Errors,
		Changed: snap.Changed,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// formResult carries the response both as structured content and as JSON text.
func formResult(resp FormResponse) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultStructured(resp, string(jsonBytes)), nil
}
