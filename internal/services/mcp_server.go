package services

import (
	"context"
	"fmt"

	config "github.com/inference-gateway/triage/config"
	logger "github.com/inference-gateway/triage/internal/logger"
	tools "github.com/inference-gateway/triage/internal/services/tools"
	mcp_golang "github.com/metoro-io/mcp-golang"
	transport "github.com/metoro-io/mcp-golang/transport"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	stdio "github.com/metoro-io/mcp-golang/transport/stdio"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// MCPServer exposes the tool registry over the Model Context Protocol
type MCPServer struct {
	config   config.ServerConfig
	registry *tools.Registry
}

// NewMCPServer creates a new MCP server for the registry
func NewMCPServer(cfg config.ServerConfig, registry *tools.Registry) *MCPServer {
	return &MCPServer{
		config:   cfg,
		registry: registry,
	}
}

// Serve registers every tool and serves until ctx is cancelled or the
// transport fails
func (s *MCPServer) Serve(ctx context.Context) error {
	t, err := s.newTransport()
	if err != nil {
		return err
	}

	server := mcp_golang.NewServer(t)
	if err := s.registry.RegisterMCP(ctx, server); err != nil {
		return err
	}

	logger.Info("Starting MCP server",
		"transport", s.config.Transport,
		"address", s.config.Address,
		"path", s.config.Path,
		"tools", len(s.registry.ListAvailableTools()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server failed: %w", err)
		}
		// stdio returns as soon as the read loop is running
		<-ctx.Done()
	}

	if err := t.Close(); err != nil {
		logger.Warn("Failed to close MCP transport", "error", err)
	}
	logger.Info("MCP server stopped")
	return nil
}

func (s *MCPServer) newTransport() (transport.Transport, error) {
	switch s.config.Transport {
	case "", TransportStdio:
		return stdio.NewStdioServerTransport(), nil
	case TransportHTTP:
		return mcphttp.NewHTTPTransport(s.config.Path).WithAddr(s.config.Address), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q (expected %s or %s)", s.config.Transport, TransportStdio, TransportHTTP)
	}
}
