package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zapcampaign/zapcampaign/pkg/filter"
	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// previewLimit caps post content echoed back through tool results.
const previewLimit = 200

func truncatePosts(posts []types.Post) []types.Post {
	out := make([]types.Post, len(posts))
	for i, p := range posts {
		if len(p.Content) > previewLimit {
			p.Content = p.Content[:previewLimit] + "..."
		}
		out[i] = p
	}
	return out
}

func (s *Server) handleFetchPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hashtag, err := request.RequireString("hashtag")
	if err != nil {
		return mcp.NewToolResultError("hashtag required"), nil
	}
	limit := int(request.GetFloat("limit", 20))

	args := request.GetArguments()
	var since, until *int64
	if _, ok := args["since"]; ok {
		v := int64(request.GetFloat("since", 0))
		since = &v
	}
	if _, ok := args["until"]; ok {
		v := int64(request.GetFloat("until", 0))
		until = &v
	}

	posts, err := s.source.FetchPosts(ctx, hashtag, limit, since, until)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(posts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no posts found for #%s", hashtag)), nil
	}
	return jsonResult(map[string]any{
		"count": len(posts),
		"posts": truncatePosts(posts),
	})
}

func (s *Server) handleFilterSpam(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var posts []types.Post
	if ok, err := decodeArg(request, "posts", &posts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid posts: %v", err)), nil
	} else if !ok || len(posts) == 0 {
		return mcp.NewToolResultError("posts required"), nil
	}

	clean := filter.Spam(posts)
	return jsonResult(map[string]any{
		"inputCount": len(posts),
		"keptCount":  len(clean),
		"removed":    len(posts) - len(clean),
		"posts":      truncatePosts(clean),
	})
}
