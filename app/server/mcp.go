package server

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"KisanGPT/app/chat"
)

const Version = "0.1.0"

// Asker is the single operation every front-end exposes.
type Asker interface {
	Ask(ctx context.Context, q chat.ChatQuery) (*chat.ChatAnswer, error)
}

type AskInput struct {
	Query    string `json:"query" jsonschema:"the farmer's question"`
	Language string `json:"language,omitempty" jsonschema:"answer language code: en, hi, te, ta or mr (default en)"`
}

type MCPServer struct {
	asker  Asker
	server *mcp.Server
}

func NewMCPServer(name string, asker Asker) *MCPServer {
	s := &MCPServer{
		asker:  asker,
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: Version}, nil),
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer an agricultural question from the advisory corpus and the fertilizer table",
	}, s.handleAsk)
	return s
}

func (s *MCPServer) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, chat.ChatAnswer, error) {
	answer, err := s.asker.Ask(ctx, chat.ChatQuery{Query: input.Query, Language: input.Language})
	if err != nil {
		return nil, chat.ChatAnswer{}, err
	}
	return nil, *answer, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler serves MCP over streamable HTTP.
func (s *MCPServer) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
