package mcp

import (
	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var toolNames = []string{"list_risk_profiles", "recommend_funds", "get_version"}

// ListProfilesTool returns the mcp.Tool definition for list_risk_profiles.
func ListProfilesTool() mcp.Tool {
	return mcp.NewTool("list_risk_profiles",
		mcp.WithDescription("List the risk profile categories that have fund recommendations."),
	)
}

// RecommendFundsTool returns the mcp.Tool definition for recommend_funds.
func RecommendFundsTool() mcp.Tool {
	profiles := make([]string, len(models.RiskProfiles))
	for i, p := range models.RiskProfiles {
		profiles[i] = string(p)
	}
	return mcp.NewTool("recommend_funds",
		mcp.WithDescription("Get the recommended mutual funds for a risk profile. Read only; nothing is recorded."),
		mcp.WithString("risk_profile",
			mcp.Required(),
			mcp.Description("Risk profile category (case-sensitive)"),
			mcp.Enum(profiles...),
		),
	)
}

// RegisterTools registers the fund tools on the MCP server.
func RegisterTools(s *server.MCPServer, funds FundCatalog) {
	s.AddTool(ListProfilesTool(), ListProfilesHandler(funds))
	s.AddTool(RecommendFundsTool(), RecommendFundsHandler(funds))
	s.AddTool(VersionTool(), VersionToolHandler())
}
