package container

import (
	"fmt"
	"strings"
	"time"

	sdk "github.com/inference-gateway/sdk"
	config "github.com/inference-gateway/triage/config"
	domain "github.com/inference-gateway/triage/internal/domain"
	adapters "github.com/inference-gateway/triage/internal/infra/adapters"
	prompts "github.com/inference-gateway/triage/internal/prompts"
	services "github.com/inference-gateway/triage/internal/services"
	tools "github.com/inference-gateway/triage/internal/services/tools"
)

// ServiceContainer manages all application dependencies
type ServiceContainer struct {
	config *config.Config

	issueTracker    domain.IssueTracker
	issueRepository *services.IssueRepository
	sdkClient       domain.SDKClient
	assembler       *prompts.Assembler
	triageService   *services.TriageService

	toolRegistry *tools.Registry
	mcpServer    *services.MCPServer
}

// NewServiceContainer creates a new service container with all dependencies
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	c := &ServiceContainer{config: cfg}

	if err := c.initializeDomainServices(); err != nil {
		return nil, err
	}
	c.initializeServices()

	return c, nil
}

// initializeDomainServices creates the remote clients and the prompt assembler
func (c *ServiceContainer) initializeDomainServices() error {
	c.issueTracker = services.NewGitHubService(c.config.GitHub)
	c.issueRepository = services.NewIssueRepository(c.issueTracker)
	c.sdkClient = adapters.NewSDKClientAdapter(c.createSDKClient())

	templates, err := prompts.LoadTemplates(c.config.Triage.PromptsFile)
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	c.assembler, err = prompts.NewAssembler(templates)
	if err != nil {
		return fmt.Errorf("failed to compile prompt templates: %w", err)
	}
	return nil
}

// initializeServices creates the facade, the tool registry and the MCP server
func (c *ServiceContainer) initializeServices() {
	c.triageService = services.NewTriageService(c.issueRepository, c.assembler, c.sdkClient, c.config.Triage)
	c.toolRegistry = tools.NewRegistry(c.triageService)
	c.mcpServer = services.NewMCPServer(c.config.Server, c.toolRegistry)
}

// createSDKClient creates the gateway client. Retries are disabled: a failed
// completion is reported to the caller as-is.
func (c *ServiceContainer) createSDKClient() sdk.Client {
	baseURL := c.config.Gateway.URL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}

	timeout := c.config.Gateway.Timeout
	if timeout == 0 {
		timeout = 120
	}

	return sdk.NewClient(&sdk.ClientOptions{
		BaseURL: baseURL,
		APIKey:  c.config.Gateway.APIKey,
		Timeout: time.Duration(timeout) * time.Second,
		RetryConfig: &sdk.RetryConfig{
			Enabled: false,
		},
	})
}

// GetTriageService returns the tool-facing facade
func (c *ServiceContainer) GetTriageService() *services.TriageService {
	return c.triageService
}

// GetToolRegistry returns the tool registry
func (c *ServiceContainer) GetToolRegistry() *tools.Registry {
	return c.toolRegistry
}

// GetMCPServer returns the MCP server
func (c *ServiceContainer) GetMCPServer() *services.MCPServer {
	return c.mcpServer
}
