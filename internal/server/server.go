// Package server wires the integration registry, session cache, and
// HTTP transport into the running bridge.
//
// This is the composition root: it builds one MCP protocol server per
// integration (lazily, via the session cache) and routes transport
// requests to it. No task-management logic lives here.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"todoist-mcp/internal/auth"
	"todoist-mcp/internal/config"
	"todoist-mcp/internal/session"
	"todoist-mcp/internal/todoist"
	"todoist-mcp/internal/tools"
)

// Server is the HTTP-facing bridge: static routes, the onboarding
// endpoints, and the SSE + POST protocol transport.
type Server struct {
	cfg      config.Config
	baseURL  string
	log      *log.Logger
	registry *auth.Service
	sessions *session.Manager
	handler  http.Handler

	// todoistBaseURL lets tests point per-integration clients at a
	// stub upstream. Empty means production.
	todoistBaseURL string
	keepAlive      time.Duration
}

// New creates a Server. baseURL is the externally reachable base used
// in integration URLs.
func New(cfg config.Config, logger *log.Logger, registry *auth.Service, baseURL string) *Server {
	s := &Server{
		cfg:       cfg,
		baseURL:   baseURL,
		log:       logger,
		registry:  registry,
		keepAlive: cfg.KeepAliveInterval,
	}
	s.sessions = session.NewManager(s.buildProtocolServer)
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions exposes the session cache for lifecycle inspection.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// buildProtocolServer constructs the tool-set-bound MCP server for one
// integration. No network calls happen here.
func (s *Server) buildProtocolServer(integrationID, todoistToken string) *mcpserver.MCPServer {
	base := s.todoistBaseURL
	if base == "" {
		base = todoist.DefaultBaseURL
	}
	s.log.Debug("building protocol server", "integration", shortID(integrationID))
	return NewToolServer(todoist.NewWithBaseURL(todoistToken, base))
}

// NewToolServer creates an MCP server with the full Todoist tool set
// registered against the given client. Shared by the HTTP transport
// (one per integration) and the local stdio mode (exactly one).
func NewToolServer(client *todoist.Client) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		config.ServerName,
		config.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(serverInstructions()),
	)

	projectsTool := tools.NewListProjectsTool(client)
	s.AddTool(projectsTool.Definition(), projectsTool.Handle)

	getTasksTool := tools.NewGetTasksTool(client)
	s.AddTool(getTasksTool.Definition(), getTasksTool.Handle)

	createTool := tools.NewCreateTaskTool(client)
	s.AddTool(createTool.Definition(), createTool.Handle)

	updateTool := tools.NewUpdateTaskTool(client)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	completeTool := tools.NewCompleteTaskTool(client)
	s.AddTool(completeTool.Definition(), completeTool.Handle)

	uncompleteTool := tools.NewUncompleteTaskTool(client)
	s.AddTool(uncompleteTool.Definition(), uncompleteTool.Handle)

	return s
}

// shortID truncates an integration id for log output. Full ids are
// capabilities and stay out of logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// serverInstructions returns the usage instructions advertised to MCP
// clients during initialize.
func serverInstructions() string {
	return `This server provides access to your Todoist tasks and projects.

Use the available tools to:
- List all projects
- Get tasks (all, by project, or by filter)
- Create new tasks
- Update existing tasks
- Complete or uncomplete tasks

Task lookups are by id: call get_tasks or list_projects first when you
only know a task or project by name.`
}
