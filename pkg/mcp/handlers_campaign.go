package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zapcampaign/zapcampaign/pkg/campaign"
	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// identity resolves the storage key for a request: the caller's wallet
// pubkey, or the shared anonymous key when none is provided.
func identity(request mcp.CallToolRequest) string {
	if pk := request.GetString("walletPubkey", ""); pk != "" {
		return pk
	}
	return campaign.Anonymous
}

// decodeArg reads a structured argument by round-tripping it through
// JSON into the target type.
func decodeArg(request mcp.CallToolRequest, key string, out any) (bool, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return false, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(b)), nil
}

// summaryResult prefixes the JSON payload with a one-line summary for
// clients that surface tool output as plain text.
func summaryResult(summary string, v any) (*mcp.CallToolResult, error) {
	b, _ := json.Marshal(v)
	return mcp.NewToolResultText(summary + "\n" + string(b)), nil
}

func (s *Server) handleCreateCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hashtag, err := request.RequireString("hashtag")
	if err != nil {
		return mcp.NewToolResultError("hashtag required"), nil
	}

	params := campaign.CreateParams{
		Hashtag:     hashtag,
		SatsPerPost: int64(request.GetFloat("satsPerPost", 0)),
		PostCount:   int(request.GetFloat("postCount", 0)),
	}
	var filters types.CampaignFilters
	if ok, err := decodeArg(request, "filters", &filters); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
	} else if ok {
		params.Filters = &filters
	}

	c, err := s.campaigns.Create(identity(request), params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return summaryResult(fmt.Sprintf("created draft campaign for #%s: %d posts at %d sats each", c.Hashtag, c.PostCount, c.SatsPerPost), c)
}

func (s *Server) handleUpdateCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var params campaign.UpdateParams

	if _, ok := args["hashtag"]; ok {
		hashtag := request.GetString("hashtag", "")
		params.Hashtag = &hashtag
	}
	if _, ok := args["satsPerPost"]; ok {
		sats := int64(request.GetFloat("satsPerPost", 0))
		params.SatsPerPost = &sats
	}
	if _, ok := args["postCount"]; ok {
		count := int(request.GetFloat("postCount", 0))
		params.PostCount = &count
	}
	var filters types.CampaignFilters
	if ok, err := decodeArg(request, "filters", &filters); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
	} else if ok {
		params.Filters = &filters
	}

	result, err := s.campaigns.Update(identity(request), params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := fmt.Sprintf("updated campaign %s (%s)", result.Campaign.ID, strings.Join(result.Changed, ", "))
	if result.SelectionReset {
		summary += "; selection cleared, campaign reset to draft"
	}
	return summaryResult(summary, result)
}

func (s *Server) handleDeleteCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	confirm := request.GetBool("confirm", true)

	result, err := s.campaigns.Delete(identity(request), confirm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !result.Deleted {
		summary := fmt.Sprintf("deletion not confirmed; pass confirm=true to delete campaign %s for #%s", result.Campaign.ID, result.Campaign.Hashtag)
		return summaryResult(summary, map[string]any{
			"deleted":  false,
			"campaign": result.Campaign,
		})
	}
	return summaryResult(fmt.Sprintf("deleted campaign %s for #%s", result.Campaign.ID, result.Campaign.Hashtag), map[string]any{
		"deleted":  true,
		"campaign": result.Campaign,
	})
}

func (s *Server) handleSimulateCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.campaigns.Simulate(ctx, identity(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return summaryResult(fmt.Sprintf("selected %d posts for #%s, %d sats total", result.PostCount, result.Campaign.Hashtag, result.TotalSats), result)
}

func (s *Server) handleExecuteCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.campaigns.Execute(ctx, identity(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return summaryResult(fmt.Sprintf("prepared %d invoices (%d failed), %d sats total; pay them with your wallet to send the zaps", result.SuccessCount, result.FailedCount, result.TotalSats), result)
}
