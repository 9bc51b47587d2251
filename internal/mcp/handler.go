package mcp

import (
	"net/http"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// FundCatalog is the read-only view of the recommendation table exposed over MCP.
type FundCatalog interface {
	Lookup(profile models.RiskProfile) (models.FundList, bool)
	Profiles() []models.RiskProfile
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewServer builds the MCP server with the fund tools registered.
func NewServer(funds FundCatalog) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer(
		config.ServiceName,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	RegisterTools(mcpSrv, funds)
	return mcpSrv
}

// NewHandler creates a new stateless MCP handler. The tools only read the
// fund table; submissions are never recorded through MCP.
func NewHandler(funds FundCatalog, logger *common.Logger) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(NewServer(funds),
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(toolNames)).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
