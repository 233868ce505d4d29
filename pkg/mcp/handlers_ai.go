package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

const aiUnavailableMsg = "AI tools are not configured; set GEMINI_API_KEY"

func (s *Server) handleScorePosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ai == nil {
		return mcp.NewToolResultError(aiUnavailableMsg), nil
	}
	var posts []types.Post
	if ok, err := decodeArg(request, "posts", &posts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid posts: %v", err)), nil
	} else if !ok || len(posts) == 0 {
		return mcp.NewToolResultError("posts required"), nil
	}
	hashtag := request.GetString("hashtag", "")

	result, err := s.ai.ScorePosts(ctx, posts, hashtag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handleAnalyzeContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ai == nil {
		return mcp.NewToolResultError(aiUnavailableMsg), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content required"), nil
	}
	hashtag := request.GetString("hashtag", "")

	analysis, err := s.ai.AnalyzeContent(ctx, content, hashtag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(analysis)
}

func (s *Server) handleSmartFilter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ai == nil {
		return mcp.NewToolResultError(aiUnavailableMsg), nil
	}
	var posts []types.Post
	if ok, err := decodeArg(request, "posts", &posts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid posts: %v", err)), nil
	} else if !ok || len(posts) == 0 {
		return mcp.NewToolResultError("posts required"), nil
	}
	hashtag := request.GetString("hashtag", "")

	result, err := s.ai.SmartFilter(ctx, posts, hashtag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}
