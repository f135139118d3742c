package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Content blocking tools: crawl-level URL blocks and page preview blocks.

func (s *Service) registerBlocking(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_blocked_urls",
		Description: "Get list of blocked URLs for a site.",
	}, s.getBlockedURLs)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_blocked_url",
		Description: "Block a URL or directory from being crawled.",
	}, s.addBlockedURL)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_blocked_url",
		Description: "Remove a URL from the blocked list.",
	}, s.removeBlockedURL)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_page_preview_block",
		Description: "Add a page preview block to prevent rich snippets.",
	}, s.addPagePreviewBlock)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_active_page_preview_blocks",
		Description: "Get list of active page preview blocks.",
	}, s.getActivePagePreviewBlocks)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_page_preview_block",
		Description: "Remove a page preview block.",
	}, s.removePagePreviewBlock)
}

func (s *Service) getBlockedURLs(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_blocked_urls", "GetBlockedUrls", "BlockedUrl", in.SiteURL)
}

type addBlockedURLArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	URL       string `json:"url" jsonschema:"The URL or directory to block"`
	BlockType string `json:"block_type,omitempty" jsonschema:"Type of block (Page or Directory), defaults to Directory"`
}

func (s *Service) addBlockedURL(ctx context.Context, _ *mcp.CallToolRequest, in addBlockedURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_blocked_url", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "add_blocked_url", err)
	}
	blockType := in.BlockType
	if blockType == "" {
		blockType = "Directory"
	}
	if err := oneOf("block_type", blockType, "Page", "Directory"); err != nil {
		return s.reject(ctx, "add_blocked_url", err)
	}
	return s.postMessage(ctx, "add_blocked_url", "AddBlockedUrl",
		map[string]any{"siteUrl": in.SiteURL, "blockedUrl": in.URL, "blockType": blockType},
		fmt.Sprintf("URL %s blocked successfully", in.URL))
}

type removeBlockedURLArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	URL     string `json:"url" jsonschema:"The blocked URL to remove"`
}

func (s *Service) removeBlockedURL(ctx context.Context, _ *mcp.CallToolRequest, in removeBlockedURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_blocked_url", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "remove_blocked_url", err)
	}
	return s.postMessage(ctx, "remove_blocked_url", "RemoveBlockedUrl",
		map[string]any{"siteUrl": in.SiteURL, "blockedUrl": in.URL},
		fmt.Sprintf("URL %s unblocked successfully", in.URL))
}

type addPagePreviewBlockArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	BlockURL  string `json:"block_url" jsonschema:"URL or pattern to block"`
	BlockType string `json:"block_type,omitempty" jsonschema:"Type of block, defaults to Page"`
}

func (s *Service) addPagePreviewBlock(ctx context.Context, _ *mcp.CallToolRequest, in addPagePreviewBlockArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_page_preview_block", err)
	}
	if err := required("block_url", in.BlockURL); err != nil {
		return s.reject(ctx, "add_page_preview_block", err)
	}
	blockType := in.BlockType
	if blockType == "" {
		blockType = "Page"
	}
	return s.postMessage(ctx, "add_page_preview_block", "AddPagePreviewBlock",
		map[string]any{"siteUrl": in.SiteURL, "blockUrl": in.BlockURL, "blockType": blockType},
		fmt.Sprintf("Page preview block for %s added successfully", in.BlockURL))
}

func (s *Service) getActivePagePreviewBlocks(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_active_page_preview_blocks", "GetActivePagePreviewBlocks", "PagePreviewBlock", in.SiteURL)
}

type removePagePreviewBlockArgs struct {
	SiteURL  string `json:"site_url" jsonschema:"The URL of the site"`
	BlockURL string `json:"block_url" jsonschema:"URL pattern to unblock"`
}

func (s *Service) removePagePreviewBlock(ctx context.Context, _ *mcp.CallToolRequest, in removePagePreviewBlockArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_page_preview_block", err)
	}
	if err := required("block_url", in.BlockURL); err != nil {
		return s.reject(ctx, "remove_page_preview_block", err)
	}
	return s.postMessage(ctx, "remove_page_preview_block", "RemovePagePreviewBlock",
		map[string]any{"siteUrl": in.SiteURL, "blockUrl": in.BlockURL},
		fmt.Sprintf("Page preview block for %s removed successfully", in.BlockURL))
}
