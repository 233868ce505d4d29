package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/zapcampaign/zapcampaign/pkg/ai"
	"github.com/zapcampaign/zapcampaign/pkg/campaign"
)

// Server exposes the campaign lifecycle, Nostr feed, zap preparation,
// and AI analysis as MCP tools over stdio.
type Server struct {
	campaigns *campaign.Service
	source    campaign.EventSource
	preparer  campaign.Preparer
	ai        *ai.Client
	mcp       *server.MCPServer
	log       *logrus.Entry
}

// Options carries the server's collaborators. AI may be nil when no
// Gemini key is configured; the AI tools then report a config error.
type Options struct {
	Campaigns *campaign.Service
	Source    campaign.EventSource
	Preparer  campaign.Preparer
	AI        *ai.Client
	Log       *logrus.Entry
}

// NewServer builds the MCP server and registers every tool.
func NewServer(opts Options) *Server {
	mcpServer := server.NewMCPServer(
		"Nostr Zap Campaign",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		campaigns: opts.Campaigns,
		source:    opts.Source,
		preparer:  opts.Preparer,
		ai:        opts.AI,
		mcp:       mcpServer,
		log:       opts.Log,
	}

	s.registerTools()

	return s
}

// Start serves MCP over stdin/stdout and blocks until the transport
// closes.
func (s *Server) Start() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	createTool := mcp.NewTool("createCampaign",
		mcp.WithDescription("Create a zap reward campaign for a hashtag. The campaign starts in draft state; simulate it to select posts, then execute it to prepare zap payments."),
		mcp.WithString("hashtag",
			mcp.Required(),
			mcp.Description("Hashtag to reward posts under (with or without the leading #)"),
		),
		mcp.WithNumber("satsPerPost",
			mcp.Required(),
			mcp.Description("Sats to zap per selected post"),
			mcp.Min(1),
		),
		mcp.WithNumber("postCount",
			mcp.Required(),
			mcp.Description("How many posts to reward"),
			mcp.Min(1),
		),
		mcp.WithObject("filters",
			mcp.Description("Optional post filters: minEngagement, excludeAuthors, minContentLength, maxContentLength, since, until, requireImages, excludeReplies"),
		),
		mcp.WithString("walletPubkey",
			mcp.Description("Wallet pubkey identifying the campaign owner"),
		),
	)
	s.mcp.AddTool(createTool, s.handleCreateCampaign)

	updateTool := mcp.NewTool("updateCampaign",
		mcp.WithDescription("Update your campaign's hashtag, amounts, or filters. Executed campaigns cannot be changed; updating a simulated campaign resets it to draft."),
		mcp.WithString("hashtag", mcp.Description("New hashtag")),
		mcp.WithNumber("satsPerPost", mcp.Description("New sats per post"), mcp.Min(1)),
		mcp.WithNumber("postCount", mcp.Description("New post count"), mcp.Min(1)),
		mcp.WithObject("filters", mcp.Description("Replacement filter set")),
		mcp.WithString("walletPubkey", mcp.Description("Wallet pubkey identifying the campaign owner")),
	)
	s.mcp.AddTool(updateTool, s.handleUpdateCampaign)

	deleteTool := mcp.NewTool("deleteCampaign",
		mcp.WithDescription("Delete your campaign. Pass confirm=false to preview what would be removed without deleting."),
		mcp.WithBoolean("confirm",
			mcp.Description("Confirm the deletion"),
			mcp.DefaultBool(true),
		),
		mcp.WithString("walletPubkey", mcp.Description("Wallet pubkey identifying the campaign owner")),
	)
	s.mcp.AddTool(deleteTool, s.handleDeleteCampaign)

	simulateTool := mcp.NewTool("simulateCampaign",
		mcp.WithDescription("Fetch posts for the campaign hashtag, apply spam and campaign filters, and select the posts that would be rewarded. Safe to re-run; each run draws a fresh selection."),
		mcp.WithString("walletPubkey", mcp.Description("Wallet pubkey identifying the campaign owner")),
	)
	s.mcp.AddTool(simulateTool, s.handleSimulateCampaign)

	executeTool := mcp.NewTool("executeCampaign",
		mcp.WithDescription("Prepare one zap invoice per selected post of a simulated campaign. Returns BOLT11 invoices for an external wallet to pay; no payments are sent."),
		mcp.WithString("walletPubkey", mcp.Description("Wallet pubkey identifying the campaign owner")),
	)
	s.mcp.AddTool(executeTool, s.handleExecuteCampaign)

	fetchTool := mcp.NewTool("fetchPosts",
		mcp.WithDescription("Fetch recent Nostr text notes for a hashtag from the configured relays."),
		mcp.WithString("hashtag",
			mcp.Required(),
			mcp.Description("Hashtag to search for (with or without the leading #)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum posts to return"),
			mcp.DefaultNumber(20),
			mcp.Min(1),
			mcp.Max(100),
		),
		mcp.WithNumber("since", mcp.Description("Only posts created at or after this unix timestamp")),
		mcp.WithNumber("until", mcp.Description("Only posts created at or before this unix timestamp")),
	)
	s.mcp.AddTool(fetchTool, s.handleFetchPosts)

	filterTool := mcp.NewTool("filterSpam",
		mcp.WithDescription("Run the spam filter over a batch of posts: drops duplicate content, over-posting authors, very short posts, and hashtag stuffing."),
		mcp.WithArray("posts",
			mcp.Required(),
			mcp.Description("Posts to filter, as returned by fetchPosts"),
		),
	)
	s.mcp.AddTool(filterTool, s.handleFilterSpam)

	zapTool := mcp.NewTool("prepareZap",
		mcp.WithDescription("Prepare a single zap payment: resolve the recipient's lightning address, build a NIP-57 zap request, and fetch a BOLT11 invoice. The invoice is returned for an external wallet to pay."),
		mcp.WithString("recipientPubkey",
			mcp.Required(),
			mcp.Description("Recipient's pubkey, hex or npub"),
		),
		mcp.WithNumber("amountSats",
			mcp.Required(),
			mcp.Description("Zap amount in sats"),
			mcp.Min(1),
		),
		mcp.WithString("comment", mcp.Description("Optional zap note")),
	)
	s.mcp.AddTool(zapTool, s.handlePrepareZap)

	scoreTool := mcp.NewTool("scorePosts",
		mcp.WithDescription("Score Nostr posts with Gemini for quality, engagement potential, and relevance. Returns 0-100 scores with per-criterion breakdowns, ranked best first."),
		mcp.WithArray("posts",
			mcp.Required(),
			mcp.Description("Posts to score (max 20), as returned by fetchPosts"),
		),
		mcp.WithString("hashtag", mcp.Description("Hashtag context for relevance scoring")),
	)
	s.mcp.AddTool(scoreTool, s.handleScorePosts)

	analyzeTool := mcp.NewTool("analyzeContent",
		mcp.WithDescription("Deep AI analysis of one post: sentiment, topics, audience, engagement prediction, insights, and warnings."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Post content to analyze"),
		),
		mcp.WithString("hashtag", mcp.Description("Hashtag context")),
	)
	s.mcp.AddTool(analyzeTool, s.handleAnalyzeContent)

	smartFilterTool := mcp.NewTool("smartFilter",
		mcp.WithDescription("Categorize a batch of posts by AI-judged quality: high, medium, low, or spam."),
		mcp.WithArray("posts",
			mcp.Required(),
			mcp.Description("Posts to categorize (max 20), as returned by fetchPosts"),
		),
		mcp.WithString("hashtag", mcp.Description("Hashtag context")),
	)
	s.mcp.AddTool(smartFilterTool, s.handleSmartFilter)
}
