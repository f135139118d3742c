package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// Link analysis tools: inbound link counts, per-URL link details, connected
// pages, and deep link blocks.

func (s *Service) registerLinks(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_link_counts",
		Description: "Get inbound link counts for a site.",
	}, s.getLinkCounts)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_url_links",
		Description: "Get inbound links for specific site URL.",
	}, s.getURLLinks)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_connected_pages",
		Description: "Get list of connected pages that link to your site.",
	}, s.getConnectedPages)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_connected_page",
		Description: "Add a page that has a link to your website.",
	}, s.addConnectedPage)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_deep_link_blocks",
		Description: "Get list of blocked deep links.",
	}, s.getDeepLinkBlocks)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_deep_link_block",
		Description: "Block deep links for specific URL patterns.",
	}, s.addDeepLinkBlock)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_deep_link_block",
		Description: "Remove a deep link block.",
	}, s.removeDeepLinkBlock)
}

func (s *Service) getLinkCounts(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_link_counts", "GetLinkCounts", "LinkCounts", in.SiteURL)
}

type urlLinksArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Link    string `json:"link" jsonschema:"Specific link to retrieve details for"`
	Page    int    `json:"page,omitempty" jsonschema:"Page number of results, defaults to 0"`
}

func (s *Service) getURLLinks(ctx context.Context, _ *mcp.CallToolRequest, in urlLinksArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_url_links", err)
	}
	if err := required("link", in.Link); err != nil {
		return s.reject(ctx, "get_url_links", err)
	}
	return s.run(ctx, "get_url_links", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetUrlLinks",
			query("siteUrl", in.SiteURL, "link", in.Link, "page", strconv.Itoa(in.Page)))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "LinkDetails"), nil
	})
}

func (s *Service) getConnectedPages(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_connected_pages", "GetConnectedPages", "ConnectedPage", in.SiteURL)
}

type connectedPageArgs struct {
	SiteURL      string `json:"site_url" jsonschema:"The URL of your site"`
	ConnectedURL string `json:"connected_url" jsonschema:"The URL of the page linking to your site"`
}

func (s *Service) addConnectedPage(ctx context.Context, _ *mcp.CallToolRequest, in connectedPageArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_connected_page", err)
	}
	if err := required("connected_url", in.ConnectedURL); err != nil {
		return s.reject(ctx, "add_connected_page", err)
	}
	return s.postMessage(ctx, "add_connected_page", "AddConnectedPage",
		map[string]any{"siteUrl": in.SiteURL, "connectedPageUrl": in.ConnectedURL},
		fmt.Sprintf("Connected page %s added successfully", in.ConnectedURL))
}

func (s *Service) getDeepLinkBlocks(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_deep_link_blocks", "GetDeepLinkBlocks", "DeepLinkBlock", in.SiteURL)
}

type addDeepLinkBlockArgs struct {
	SiteURL    string `json:"site_url" jsonschema:"The URL of the site"`
	URLPattern string `json:"url_pattern" jsonschema:"URL pattern to block"`
	BlockType  string `json:"block_type" jsonschema:"Type of block"`
	Reason     string `json:"reason" jsonschema:"Reason for blocking"`
}

func (s *Service) addDeepLinkBlock(ctx context.Context, _ *mcp.CallToolRequest, in addDeepLinkBlockArgs) (*mcp.CallToolResult, any, error) {
	for field, v := range map[string]string{
		"site_url":    in.SiteURL,
		"url_pattern": in.URLPattern,
		"block_type":  in.BlockType,
		"reason":      in.Reason,
	} {
		if err := required(field, v); err != nil {
			return s.reject(ctx, "add_deep_link_block", err)
		}
	}
	return s.postMessage(ctx, "add_deep_link_block", "AddDeepLinkBlock",
		map[string]any{
			"siteUrl":    in.SiteURL,
			"urlPattern": in.URLPattern,
			"blockType":  in.BlockType,
			"reason":     in.Reason,
		},
		fmt.Sprintf("Deep link block for %s added successfully", in.URLPattern))
}

type removeDeepLinkBlockArgs struct {
	SiteURL    string `json:"site_url" jsonschema:"The URL of the site"`
	URLPattern string `json:"url_pattern" jsonschema:"URL pattern to unblock"`
}

func (s *Service) removeDeepLinkBlock(ctx context.Context, _ *mcp.CallToolRequest, in removeDeepLinkBlockArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_deep_link_block", err)
	}
	if err := required("url_pattern", in.URLPattern); err != nil {
		return s.reject(ctx, "remove_deep_link_block", err)
	}
	return s.postMessage(ctx, "remove_deep_link_block", "RemoveDeepLinkBlock",
		map[string]any{"siteUrl": in.SiteURL, "urlPattern": in.URLPattern},
		fmt.Sprintf("Deep link block for %s removed successfully", in.URLPattern))
}
