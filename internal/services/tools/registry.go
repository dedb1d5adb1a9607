package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	domain "github.com/inference-gateway/triage/internal/domain"
	logger "github.com/inference-gateway/triage/internal/logger"
	tracing "github.com/inference-gateway/triage/internal/tracing"
	mcp_golang "github.com/metoro-io/mcp-golang"
	attribute "go.opentelemetry.io/otel/attribute"
	zap "go.uber.org/zap"
)

// Facade is the set of text-returning triage operations exposed as tools
type Facade interface {
	GetIssuesCount(ctx context.Context, owner, repo string) string
	GetIssues(ctx context.Context, owner, repo string) string
	GetUntriagedIssues(ctx context.Context, owner, repo string) string
	GetIssue(ctx context.Context, owner, repo string, number int) string
	GetCommentsCount(ctx context.Context, owner, repo string, number int) string
	GetLabelsCount(ctx context.Context, owner, repo string) string
	GetLabels(ctx context.Context, owner, repo string) string
	CreateLabel(ctx context.Context, owner, repo, name, color, description string) string
	AddLabelsToIssue(ctx context.Context, owner, repo string, number int, labels []string) string
	SummarizeIssue(ctx context.Context, owner, repo string, number int) string
	RecommendLabels(ctx context.Context, owner, repo string, number int) string
}

// Definition describes a registered tool
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tool is a named operation invoked with JSON arguments
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, args json.RawMessage) (string, error)
	bind(server *mcp_golang.Server, invoke invoker) error
}

// invoker runs a tool body inside the per-call scope opened for ctx
type invoker func(ctx context.Context, name string, run func(ctx context.Context) string) string

// Registry manages all available tools
type Registry struct {
	facade Facade
	tools  map[string]Tool
	order  []string
}

// NewRegistry creates a new tool registry over the triage facade
func NewRegistry(facade Facade) *Registry {
	registry := &Registry{
		facade: facade,
		tools:  make(map[string]Tool),
	}

	registry.registerTools()
	return registry
}

// registerTools is the registration table: tool name to facade operation
func (r *Registry) registerTools() {
	f := r.facade

	r.register(newTool("triage_get_issues_count",
		"Count the issues of a GitHub repository",
		func(ctx context.Context, a RepoArgs) string { return f.GetIssuesCount(ctx, a.Owner, a.Repo) }))

	r.register(newTool("triage_get_issues",
		"List the issues of a GitHub repository as a table",
		func(ctx context.Context, a RepoArgs) string { return f.GetIssues(ctx, a.Owner, a.Repo) }))

	r.register(newTool("triage_get_untriaged_issues",
		"List open issues without a milestone as a table",
		func(ctx context.Context, a RepoArgs) string { return f.GetUntriagedIssues(ctx, a.Owner, a.Repo) }))

	r.register(newTool("triage_get_issue",
		"Show a single issue with its body and comments",
		func(ctx context.Context, a IssueArgs) string {
			return f.GetIssue(ctx, a.Owner, a.Repo, a.IssueNumber)
		}))

	r.register(newTool("triage_get_comments_count",
		"Count the comments of an issue",
		func(ctx context.Context, a IssueArgs) string {
			return f.GetCommentsCount(ctx, a.Owner, a.Repo, a.IssueNumber)
		}))

	r.register(newTool("triage_get_labels_count",
		"Count the labels defined in a GitHub repository",
		func(ctx context.Context, a RepoArgs) string { return f.GetLabelsCount(ctx, a.Owner, a.Repo) }))

	r.register(newTool("triage_get_labels",
		"List the labels defined in a GitHub repository as a table",
		func(ctx context.Context, a RepoArgs) string { return f.GetLabels(ctx, a.Owner, a.Repo) }))

	r.register(newTool("triage_create_label",
		"Create a label in a GitHub repository",
		func(ctx context.Context, a CreateLabelArgs) string {
			return f.CreateLabel(ctx, a.Owner, a.Repo, a.Name, a.Color, a.Description)
		}))

	r.register(newTool("triage_add_labels_issue",
		"Add existing labels to an issue",
		func(ctx context.Context, a AddLabelsArgs) string {
			return f.AddLabelsToIssue(ctx, a.Owner, a.Repo, a.IssueNumber, a.Labels)
		}))

	r.register(newTool("triage_summary_issue",
		"Summarize an issue and its comments with the configured model",
		func(ctx context.Context, a IssueArgs) string {
			return f.SummarizeIssue(ctx, a.Owner, a.Repo, a.IssueNumber)
		}))

	r.register(newTool("triage_recommend_labels_issue",
		"Recommend existing repository labels for an issue with the configured model",
		func(ctx context.Context, a IssueArgs) string {
			return f.RecommendLabels(ctx, a.Owner, a.Repo, a.IssueNumber)
		}))
}

func (r *Registry) register(tool Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// GetTool retrieves a tool by name
func (r *Registry) GetTool(name string) (Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return tool, nil
}

// ListAvailableTools returns the tool names in registration order
func (r *Registry) ListAvailableTools() []string {
	return append([]string(nil), r.order...)
}

// GetToolDefinitions returns definitions for all tools in registration order
func (r *Registry) GetToolDefinitions() []Definition {
	definitions := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.tools[name].Definition())
	}
	return definitions
}

// Invoke runs the named tool with JSON arguments. Errors are returned only
// for unknown tools and undecodable arguments; operation failures are text.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, err := r.GetTool(name)
	if err != nil {
		return "", err
	}

	ctx, end := r.begin(ctx, name)
	defer end()

	return tool.Execute(ctx, args)
}

// RegisterMCP binds every tool to an MCP server. Handlers run under the
// per-request context and log through the logger carried by baseCtx.
func (r *Registry) RegisterMCP(baseCtx context.Context, server *mcp_golang.Server) error {
	invoke := r.requestInvoker(baseCtx)
	for _, name := range r.order {
		if err := r.tools[name].bind(server, invoke); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", name, err)
		}
	}
	return nil
}

func (r *Registry) requestInvoker(baseCtx context.Context) invoker {
	return func(ctx context.Context, name string, run func(ctx context.Context) string) string {
		ctx, end := r.begin(logger.Inherit(ctx, baseCtx), name)
		defer end()
		return run(ctx)
	}
}

// begin opens the per-call logging and tracing scope
func (r *Registry) begin(ctx context.Context, name string) (context.Context, func()) {
	requestID := uuid.New().String()
	ctx = logger.ToolScope(ctx, name, requestID)

	ctx, span := tracing.Tracer().Start(ctx, "tool."+name)
	span.SetAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.request_id", requestID),
	)

	start := time.Now()
	logger.L(ctx).Debug("executing tool")

	return ctx, func() {
		span.End()
		logger.L(ctx).Debug("tool finished", zap.Duration("duration", time.Since(start)))
	}
}

type typedTool[A any] struct {
	name        string
	description string
	run         func(ctx context.Context, args A) string
}

func newTool[A any](name, description string, run func(ctx context.Context, args A) string) Tool {
	return &typedTool[A]{name: name, description: description, run: run}
}

func (t *typedTool[A]) Definition() Definition {
	return Definition{Name: t.name, Description: t.description}
}

func (t *typedTool[A]) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args A
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", domain.InvalidArgument(t.name, "invalid arguments: %v", err)
		}
	}
	return t.run(ctx, args), nil
}

func (t *typedTool[A]) bind(server *mcp_golang.Server, invoke invoker) error {
	return server.RegisterTool(t.name, t.description, t.handler(invoke))
}

func (t *typedTool[A]) handler(invoke invoker) func(ctx context.Context, args A) (*mcp_golang.ToolResponse, error) {
	return func(ctx context.Context, args A) (*mcp_golang.ToolResponse, error) {
		text := invoke(ctx, t.name, func(ctx context.Context) string {
			return t.run(ctx, args)
		})
		return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(text)), nil
	}
}
