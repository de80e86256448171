package mcp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/srewoo/repospector/internal/config"
	"github.com/srewoo/repospector/internal/embedder"
	"github.com/srewoo/repospector/internal/index"
	"github.com/srewoo/repospector/internal/service"
)

const (
	// ServerName is the MCP server name.
	ServerName = "repospector"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp     *server.MCPServer
	index   index.VectorIndex
	service *service.Service
	logger  *zap.Logger
}

// NewServer builds the pipeline from cfg and registers the tools.
func NewServer(cfg config.Config, logger *zap.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	idx, err := index.New(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}

	provider, err := embedder.New(cfg.EmbedderConfig())
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	svc := service.New(provider, idx, cfg, logger)

	mcpServer := server.NewMCPServer(ServerName, ServerVersion)
	s := &Server{
		mcp:     mcpServer,
		index:   idx,
		service: svc,
		logger:  logger,
	}
	s.registerTools()
	return s, nil
}

// Serve runs the MCP server on stdio and blocks until ctx is cancelled or
// the transport fails.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.index.Close() }()
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, in, out)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(indexRepositoryTool(), s.handleIndexRepository)
	s.mcp.AddTool(retrieveContextTool(), s.handleRetrieveContext)
	s.mcp.AddTool(indexStatusTool(), s.handleIndexStatus)
}
