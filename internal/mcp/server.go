// ABOUTME: MCP server setup for the ugmotion tracker.
// ABOUTME: Wraps the MCP server around the logged-in user's session.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/ugmotion/ugmotion/internal/session"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	sess      *session.Session
}

// NewServer creates a new MCP server acting for the session's user.
func NewServer(sess *session.Session) (*Server, error) {
	if sess == nil {
		return nil, errors.New("mcp server requires a session")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ugmotion",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		sess:      sess,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// resync re-reads the session from storage after a write left it diverged,
// so the next call sees what is actually stored.
func (s *Server) resync(err error) error {
	if err == nil || !s.sess.Diverged() {
		return err
	}
	if rerr := s.sess.Reconcile(); rerr != nil {
		return errors.Join(err, fmt.Errorf("reconcile: %w", rerr))
	}
	return err
}
