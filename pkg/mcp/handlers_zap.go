package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handlePrepareZap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := request.RequireString("recipientPubkey")
	if err != nil {
		return mcp.NewToolResultError("recipientPubkey required"), nil
	}
	amount := int64(request.GetFloat("amountSats", 0))
	if amount <= 0 {
		return mcp.NewToolResultError("amountSats must be positive"), nil
	}
	comment := request.GetString("comment", "")

	payment, err := s.preparer.Prepare(ctx, recipient, amount, comment)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(payment)
}
