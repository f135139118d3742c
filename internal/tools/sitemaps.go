package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// Sitemap and feed tools. Sitemaps and RSS/Atom feeds share the same remote
// Feed endpoints; the sitemap tools are the historical aliases.

func (s *Service) registerSitemaps(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "submit_sitemap",
		Description: "Submit a sitemap to Bing.",
	}, s.submitSitemap)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_sitemap",
		Description: "Remove a sitemap from Bing.",
	}, s.removeSitemap)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_feeds",
		Description: "Get all RSS/Atom feeds for a site.",
	}, s.getFeeds)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_feed_details",
		Description: "Get detailed information about a specific feed.",
	}, s.getFeedDetails)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_feed",
		Description: "Remove a feed from Bing Webmaster Tools.",
	}, s.removeFeed)
}

type sitemapArgs struct {
	SiteURL    string `json:"site_url" jsonschema:"The URL of the site"`
	SitemapURL string `json:"sitemap_url" jsonschema:"The URL of the sitemap"`
}

func (s *Service) submitSitemap(ctx context.Context, _ *mcp.CallToolRequest, in sitemapArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "submit_sitemap", err)
	}
	if err := required("sitemap_url", in.SitemapURL); err != nil {
		return s.reject(ctx, "submit_sitemap", err)
	}
	return s.postMessage(ctx, "submit_sitemap", "SubmitFeed",
		map[string]any{"siteUrl": in.SiteURL, "feedUrl": in.SitemapURL},
		fmt.Sprintf("Sitemap %s submitted successfully", in.SitemapURL))
}

func (s *Service) removeSitemap(ctx context.Context, _ *mcp.CallToolRequest, in sitemapArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_sitemap", err)
	}
	if err := required("sitemap_url", in.SitemapURL); err != nil {
		return s.reject(ctx, "remove_sitemap", err)
	}
	return s.postMessage(ctx, "remove_sitemap", "RemoveFeed",
		map[string]any{"siteUrl": in.SiteURL, "feedUrl": in.SitemapURL},
		fmt.Sprintf("Sitemap %s removed successfully", in.SitemapURL))
}

func (s *Service) getFeeds(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_feeds", "GetFeeds", "Feed", in.SiteURL)
}

type feedArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	FeedURL string `json:"feed_url" jsonschema:"The URL of the feed"`
}

func (s *Service) getFeedDetails(ctx context.Context, _ *mcp.CallToolRequest, in feedArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_feed_details", err)
	}
	if err := required("feed_url", in.FeedURL); err != nil {
		return s.reject(ctx, "get_feed_details", err)
	}
	return s.run(ctx, "get_feed_details", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetFeedDetails", query("siteUrl", in.SiteURL, "feedUrl", in.FeedURL))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "FeedDetails"), nil
	})
}

func (s *Service) removeFeed(ctx context.Context, _ *mcp.CallToolRequest, in feedArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_feed", err)
	}
	if err := required("feed_url", in.FeedURL); err != nil {
		return s.reject(ctx, "remove_feed", err)
	}
	return s.postMessage(ctx, "remove_feed", "RemoveFeed",
		map[string]any{"siteUrl": in.SiteURL, "feedUrl": in.FeedURL},
		fmt.Sprintf("Feed %s removed successfully", in.FeedURL))
}
