package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Crawling tools: crawl statistics, reported issues, and crawl rate
// settings.

func (s *Service) registerCrawl(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_crawl_stats",
		Description: "Retrieve crawl statistics for a specific site.",
	}, s.getCrawlStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_crawl_issues",
		Description: "Get crawl issues and errors for a site.",
	}, s.getCrawlIssues)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_crawl_settings",
		Description: "Get crawl settings for a site.",
	}, s.getCrawlSettings)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_crawl_settings",
		Description: "Update crawl settings for a site.",
	}, s.updateCrawlSettings)
}

func (s *Service) getCrawlStats(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_crawl_stats", "GetCrawlStats", "CrawlStats", in.SiteURL)
}

func (s *Service) getCrawlIssues(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_crawl_issues", "GetCrawlIssues", "CrawlIssue", in.SiteURL)
}

func (s *Service) getCrawlSettings(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_crawl_settings", "GetCrawlSettings", "CrawlSettings", in.SiteURL)
}

type updateCrawlSettingsArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	CrawlRate string `json:"crawl_rate,omitempty" jsonschema:"Crawl rate setting (Slow, Normal or Fast), defaults to Normal"`
}

func (s *Service) updateCrawlSettings(ctx context.Context, _ *mcp.CallToolRequest, in updateCrawlSettingsArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "update_crawl_settings", err)
	}
	rate := in.CrawlRate
	if rate == "" {
		rate = "Normal"
	}
	if err := oneOf("crawl_rate", rate, "Slow", "Normal", "Fast"); err != nil {
		return s.reject(ctx, "update_crawl_settings", err)
	}
	return s.postMessage(ctx, "update_crawl_settings", "SaveCrawlSettings",
		map[string]any{"siteUrl": in.SiteURL, "crawlRate": rate},
		"Crawl settings updated successfully")
}
