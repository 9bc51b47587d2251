package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result with the given message.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

type recommendation struct {
	RiskProfile string   `json:"risk_profile"`
	Funds       []string `json:"funds"`
}

// ListProfilesHandler returns the known profiles in canonical order.
func ListProfilesHandler(funds FundCatalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profiles := funds.Profiles()
		names := make([]string, len(profiles))
		for i, p := range profiles {
			names[i] = string(p)
		}
		return jsonResult(map[string][]string{"risk_profiles": names}), nil
	}
}

// RecommendFundsHandler resolves a profile to its fund list.
func RecommendFundsHandler(funds FundCatalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := request.GetString("risk_profile", "")
		if raw == "" {
			return errorResult("Error: risk_profile parameter is required"), nil
		}

		profile, ok := models.ParseRiskProfile(raw)
		if !ok {
			return errorResult(fmt.Sprintf("Error: unknown risk profile %q", raw)), nil
		}
		list, ok := funds.Lookup(profile)
		if !ok {
			return errorResult(fmt.Sprintf("Error: no funds for risk profile %q", raw)), nil
		}

		return jsonResult(recommendation{
			RiskProfile: string(profile),
			Funds:       list,
		}), nil
	}
}
